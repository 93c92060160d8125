package contact

import (
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// UpdateContactState evaluates every contact point's force law against the
// mechanism's current cached kinematics (each point's world position and
// velocity, read from MechanismState.TransformToRoot and TwistWrtWorld)
// and returns the wrench each active point applies to its body, expressed
// in that body's own frame -- ready to fold into dynamics.InverseDynamics's
// externalWrenches, per spec.md §4.7 ("wrenches from active contacts ...
// added to the corresponding body") and SPEC_FULL's inline dynamics! hook.
// It also returns each point's state derivative, laid out the same way as
// AdditionalState's per-point segments, for the caller's integrator to
// advance alongside q and v; UpdateContactState itself never mutates
// MechanismState.
func UpdateContactState[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], points []Point[T]) (wrenches map[int]spatial.Wrench[T], stateRate []T, err error) {
	conv := ms.Conv()
	state := ms.AdditionalState()
	wrenches = make(map[int]spatial.Wrench[T], len(points))

	for _, pt := range points {
		toRoot, err := ms.TransformToRoot(pt.BodyID)
		if err != nil {
			return nil, nil, err
		}
		twist, err := ms.TwistWrtWorld(pt.BodyID)
		if err != nil {
			return nil, nil, err
		}
		mech := ms.Mechanism()
		body, err := mech.Body(pt.BodyID)
		if err != nil {
			return nil, nil, err
		}

		loc := spatial.Vec3[T]{conv(pt.Location[0]), conv(pt.Location[1]), conv(pt.Location[2])}
		normal := spatial.Vec3[T]{conv(pt.Normal[0]), conv(pt.Normal[1]), conv(pt.Normal[2])}

		height := toRoot.TransformPoint(loc).Dot(normal)
		vPointBody := twist.Linear.Add(twist.Angular.Cross(loc))
		vPointRoot := toRoot.Rot.MulVec(vPointBody)
		normalSpeed := vPointRoot.Dot(normal)

		penetration := conv(pt.PlaneOffset).Sub(height)
		penetrationRate := normalSpeed.Neg()

		tangent := vPointRoot.Sub(normal.Scale(normalSpeed))
		tangentialSpeed := tangent.Dot(tangent).Sqrt()

		pointState := state[pt.StateOffset : pt.StateOffset+pt.Model.StateSize()]
		normalForce, frictionForce, rate := pt.Model.Force(penetration, penetrationRate, tangentialSpeed, pointState)
		stateRate = append(stateRate, rate...)

		forceRoot := normal.Scale(normalForce)
		if tangentialSpeed.Float64() > 1e-12 {
			unit := tangent.Scale(conv(1).Quo(tangentialSpeed))
			forceRoot = forceRoot.Add(unit.Scale(frictionForce))
		}
		forceBody := toRoot.Rot.Transpose().MulVec(forceRoot)
		torqueBody := loc.Cross(forceBody)

		w := spatial.Wrench[T]{
			Body: body.Frame, Base: body.Frame, ExpressedIn: body.Frame,
			Angular: torqueBody, Linear: forceBody,
		}
		if existing, ok := wrenches[pt.BodyID]; ok {
			w, err = w.Add(existing)
			if err != nil {
				return nil, nil, err
			}
		}
		wrenches[pt.BodyID] = w
	}
	return wrenches, stateRate, nil
}
