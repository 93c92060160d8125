package mechstate

import "github.com/san-kum/rbdsim/internal/spatial"

// Momentum returns bodyID's momentum, expressed in bodyID's own frame.
func (ms *MechanismState[T]) Momentum(bodyID int) (spatial.Momentum[T], error) {
	if err := ms.checkFresh("MechanismState.Momentum"); err != nil {
		return spatial.Momentum[T]{}, err
	}
	ms.ensureTransformsToRoot()
	ms.ensureTwistsWrtWorld()

	body, err := ms.mech.Body(bodyID)
	if err != nil {
		return spatial.Momentum[T]{}, err
	}
	si := bodyInertia[T](body.Inertia, body.Frame, ms.conv)
	return si.MulTwist(ms.twistsWrtWorld[bodyID])
}

// TotalMomentum returns the mechanism's whole-system spatial momentum,
// expressed in the root frame: the sum of every body's own momentum, each
// re-expressed into the root frame before summing, since Momentum.Add
// requires a shared ExpressedIn frame (spec.md §4.4/§6's momentum(state)
// operation).
func (ms *MechanismState[T]) TotalMomentum() (spatial.Momentum[T], error) {
	if err := ms.checkFresh("MechanismState.TotalMomentum"); err != nil {
		return spatial.Momentum[T]{}, err
	}
	ms.ensureTransformsToRoot()
	ms.ensureTwistsWrtWorld()

	root := ms.mech.RootBody()
	total := spatial.ZeroMomentum[T](root.Frame, root.Frame, ms.conv)
	for id := 1; id < ms.mech.NumBodies(); id++ {
		body, err := ms.mech.Body(id)
		if err != nil {
			return spatial.Momentum[T]{}, err
		}
		si := bodyInertia[T](body.Inertia, body.Frame, ms.conv)
		bodyMomentum, err := si.MulTwist(ms.twistsWrtWorld[id])
		if err != nil {
			return spatial.Momentum[T]{}, err
		}
		inRoot, err := ms.transformsToRoot[id].TransformMomentum(bodyMomentum)
		if err != nil {
			return spatial.Momentum[T]{}, err
		}
		total, err = total.Add(inRoot)
		if err != nil {
			return spatial.Momentum[T]{}, err
		}
	}
	return total, nil
}

// KineticEnergy returns the mechanism's total kinetic energy, the sum over
// bodies of one half the twist-momentum inner product (spec.md §4.5's
// Testable Property: KE == 0.5 v^T M(q) v).
func (ms *MechanismState[T]) KineticEnergy() (T, error) {
	if err := ms.checkFresh("MechanismState.KineticEnergy"); err != nil {
		var zero T
		return zero, err
	}
	ms.ensureTwistsWrtWorld()
	half := ms.conv(0.5)
	total := ms.conv(0)
	for id := 1; id < ms.mech.NumBodies(); id++ {
		body, _ := ms.mech.Body(id)
		si := bodyInertia[T](body.Inertia, body.Frame, ms.conv)
		twist := ms.twistsWrtWorld[id]
		momentum, err := si.MulTwist(twist)
		if err != nil {
			var zero T
			return zero, err
		}
		power := twist.Angular.Dot(momentum.Angular).Add(twist.Linear.Dot(momentum.Linear))
		total = total.Add(power.Mul(half))
	}
	return total, nil
}

// GravitationalPotentialEnergy returns the mechanism's total gravitational
// potential energy relative to the root frame's origin.
func (ms *MechanismState[T]) GravitationalPotentialEnergy() (T, error) {
	if err := ms.checkFresh("MechanismState.GravitationalPotentialEnergy"); err != nil {
		var zero T
		return zero, err
	}
	ms.ensureTransformsToRoot()
	gravity := ms.mech.Gravity()
	gravVec := spatial.Vec3[T]{ms.conv(gravity[0]), ms.conv(gravity[1]), ms.conv(gravity[2])}

	total := ms.conv(0)
	for id := 1; id < ms.mech.NumBodies(); id++ {
		body, _ := ms.mech.Body(id)
		si := bodyInertia[T](body.Inertia, body.Frame, ms.conv)
		comInBody := si.CenterOfMass(ms.conv)
		comInRoot := ms.transformsToRoot[id].TransformPoint(comInBody)
		total = total.Sub(gravVec.Dot(comInRoot).Mul(si.Mass))
	}
	return total, nil
}
