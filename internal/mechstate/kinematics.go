package mechstate

import (
	"github.com/san-kum/rbdsim/internal/mechanism"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

func (ms *MechanismState[T]) ensureJointTransforms() {
	if ms.valid.jointTransforms {
		return
	}
	if ms.jointTransforms == nil {
		ms.jointTransforms = make([]spatial.Transform[T], len(ms.joints))
	}
	for i, j := range ms.joints {
		ms.jointTransforms[i] = j.Transform(ms.q.Segment(i))
	}
	ms.valid.jointTransforms = true
}

func (ms *MechanismState[T]) ensureTransformsToRoot() {
	ms.ensureJointTransforms()
	if ms.valid.transformsToRoot {
		return
	}
	n := ms.mech.NumBodies()
	if ms.transformsToRoot == nil {
		ms.transformsToRoot = make([]spatial.Transform[T], n)
	}
	root := ms.mech.RootBody()
	ms.transformsToRoot[0] = spatial.IdentityTransform[T](root.Frame, root.Frame, ms.conv)
	for id := 1; id < n; id++ {
		parentID := ms.mech.ParentBody(id)
		ji := ms.mech.ParentJoint(id)
		jt := ms.jointTransforms[ji]
		toRoot, _ := ms.transformsToRoot[parentID].Compose(jt.Inverse())
		ms.transformsToRoot[id] = toRoot
	}
	ms.valid.transformsToRoot = true
}

func (ms *MechanismState[T]) ensureTwistsWrtWorld() {
	ms.ensureJointTransforms()
	if ms.valid.twistsWrtWorld {
		return
	}
	n := ms.mech.NumBodies()
	if ms.twistsWrtWorld == nil {
		ms.twistsWrtWorld = make([]spatial.Twist[T], n)
	}
	root := ms.mech.RootBody()
	ms.twistsWrtWorld[0] = spatial.ZeroTwist[T](root.Frame, root.Frame, root.Frame, ms.conv)
	for id := 1; id < n; id++ {
		parentID := ms.mech.ParentBody(id)
		ji := ms.mech.ParentJoint(id)
		jt := ms.jointTransforms[ji]

		jointTwist, _ := ms.joints[ji].MotionSubspace(ms.q.Segment(ji)).MulVelocity(ms.v.Segment(ji))
		parentTwistHere, _ := jt.TransformTwist(ms.twistsWrtWorld[parentID])
		total, _ := parentTwistHere.Compose(jointTwist)
		ms.twistsWrtWorld[id] = total
	}
	ms.valid.twistsWrtWorld = true
}

func (ms *MechanismState[T]) ensureBiasAccelerations() {
	ms.ensureJointTransforms()
	ms.ensureTwistsWrtWorld()
	if ms.valid.biasAccels {
		return
	}
	n := ms.mech.NumBodies()
	if ms.biasAccels == nil {
		ms.biasAccels = make([]spatial.SpatialAcceleration[T], n)
	}
	root := ms.mech.RootBody()
	gravity := ms.mech.Gravity()
	gravVec := spatial.Vec3[T]{ms.conv(gravity[0]), ms.conv(gravity[1]), ms.conv(gravity[2])}
	ms.biasAccels[0] = spatial.GravitationalAcceleration[T](root.Frame, gravVec, ms.conv)
	for id := 1; id < n; id++ {
		parentID := ms.mech.ParentBody(id)
		ji := ms.mech.ParentJoint(id)
		jt := ms.jointTransforms[ji]

		jointTwist, _ := ms.joints[ji].MotionSubspace(ms.q.Segment(ji)).MulVelocity(ms.v.Segment(ji))
		coupling, _ := ms.twistsWrtWorld[id].CrossMotion(jointTwist, ms.conv)
		parentBiasHere, _ := jt.TransformAcceleration(ms.biasAccels[parentID])
		total, _ := parentBiasHere.Compose(coupling)

		jointBias := ms.joints[ji].BiasAcceleration(ms.q.Segment(ji), ms.v.Segment(ji))
		total.Angular = total.Angular.Add(jointBias.Angular)
		total.Linear = total.Linear.Add(jointBias.Linear)

		ms.biasAccels[id] = total
	}
	ms.valid.biasAccels = true
}

func (ms *MechanismState[T]) ensureInertiasInWorld() {
	ms.ensureTransformsToRoot()
	if ms.valid.inertiasInWorld {
		return
	}
	n := ms.mech.NumBodies()
	if ms.inertiasInWorld == nil {
		ms.inertiasInWorld = make([]spatial.SpatialInertia[T], n)
	}
	root := ms.mech.RootBody()
	ms.inertiasInWorld[0] = spatial.ZeroSpatialInertia[T](root.Frame, ms.conv)
	for id := 1; id < n; id++ {
		body, _ := ms.mech.Body(id)
		si := bodyInertia[T](body.Inertia, body.Frame, ms.conv)
		inWorld, _ := ms.transformsToRoot[id].TransformInertia(si, ms.conv)
		ms.inertiasInWorld[id] = inWorld
	}
	ms.valid.inertiasInWorld = true
}

// ensureCrbInertias computes the composite-rigid-body inertia of the
// subtree rooted at each body, in decreasing body-id order so every child
// has already accumulated its own subtree by the time its parent needs it
// (spec.md §4.5, the CRB algorithm's core recursion).
func (ms *MechanismState[T]) ensureCrbInertias() {
	ms.ensureInertiasInWorld()
	if ms.valid.crbInertias {
		return
	}
	n := ms.mech.NumBodies()
	if ms.crbInertias == nil {
		ms.crbInertias = make([]spatial.SpatialInertia[T], n)
	}
	copy(ms.crbInertias, ms.inertiasInWorld)
	for id := n - 1; id >= 1; id-- {
		parentID := ms.mech.ParentBody(id)
		sum, _ := ms.crbInertias[parentID].Add(ms.crbInertias[id])
		ms.crbInertias[parentID] = sum
	}
	ms.valid.crbInertias = true
}

func bodyInertia[T scalar.Scalar[T]](bi mechanism.BodyInertia, frame spatial.Frame, conv scalar.FromFloat64[T]) spatial.SpatialInertia[T] {
	moment := spatial.Mat3[T]{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			moment[i][j] = conv(bi.Moment[i][j])
		}
	}
	first := spatial.Vec3[T]{conv(bi.FirstMoment[0]), conv(bi.FirstMoment[1]), conv(bi.FirstMoment[2])}
	si, _ := spatial.NewSpatialInertia[T](frame, moment, first, conv(bi.Mass), conv)
	return si
}

// TransformToRoot returns the transform from bodyID's frame to the
// mechanism's root frame.
func (ms *MechanismState[T]) TransformToRoot(bodyID int) (spatial.Transform[T], error) {
	if err := ms.checkFresh("MechanismState.TransformToRoot"); err != nil {
		return spatial.Transform[T]{}, err
	}
	ms.ensureTransformsToRoot()
	return ms.transformsToRoot[bodyID], nil
}

// RelativeTransform returns the transform from bodyA's frame to bodyB's
// frame.
func (ms *MechanismState[T]) RelativeTransform(bodyA, bodyB int) (spatial.Transform[T], error) {
	if err := ms.checkFresh("MechanismState.RelativeTransform"); err != nil {
		return spatial.Transform[T]{}, err
	}
	ms.ensureTransformsToRoot()
	bToRoot := ms.transformsToRoot[bodyB]
	return bToRoot.Inverse().Compose(ms.transformsToRoot[bodyA])
}

// TwistWrtWorld returns bodyID's twist with respect to the root, expressed
// in bodyID's own frame.
func (ms *MechanismState[T]) TwistWrtWorld(bodyID int) (spatial.Twist[T], error) {
	if err := ms.checkFresh("MechanismState.TwistWrtWorld"); err != nil {
		return spatial.Twist[T]{}, err
	}
	ms.ensureTwistsWrtWorld()
	return ms.twistsWrtWorld[bodyID], nil
}

// RelativeTwist returns bodyA's twist with respect to bodyB, expressed in
// bodyA's own frame: the twist of A wrt world, minus the twist of B wrt
// world re-expressed in A's frame.
func (ms *MechanismState[T]) RelativeTwist(bodyA, bodyB int) (spatial.Twist[T], error) {
	if err := ms.checkFresh("MechanismState.RelativeTwist"); err != nil {
		return spatial.Twist[T]{}, err
	}
	ms.ensureTransformsToRoot()
	ms.ensureTwistsWrtWorld()

	bToA, err := ms.transformsToRoot[bodyA].Inverse().Compose(ms.transformsToRoot[bodyB])
	if err != nil {
		return spatial.Twist[T]{}, err
	}
	bTwistInA, err := bToA.TransformTwist(ms.twistsWrtWorld[bodyB])
	if err != nil {
		return spatial.Twist[T]{}, err
	}

	a, _ := ms.mech.Body(bodyA)
	b, _ := ms.mech.Body(bodyB)
	aTwist := ms.twistsWrtWorld[bodyA]
	return spatial.Twist[T]{
		Body: a.Frame, Base: b.Frame, ExpressedIn: a.Frame,
		Angular: aTwist.Angular.Sub(bTwistInA.Angular),
		Linear:  aTwist.Linear.Sub(bTwistInA.Linear),
	}, nil
}

// RelativeAcceleration returns bodyA's spatial acceleration with respect to
// bodyB, expressed in bodyA's own frame, given every body's own spatial
// acceleration as returned by Accelerations. It is the acceleration-level
// analogue of RelativeTwist, used by package dynamics to evaluate the
// Jdot*qdot drift term a loop-closure constraint (mechanism.AttachNonTree)
// must cancel: accels should come from Accelerations(qddot=0) so the
// result carries only the velocity-coupling and bias terms, none of the
// joint-acceleration term itself.
func (ms *MechanismState[T]) RelativeAcceleration(bodyA, bodyB int, accels []spatial.SpatialAcceleration[T]) (spatial.SpatialAcceleration[T], error) {
	if err := ms.checkFresh("MechanismState.RelativeAcceleration"); err != nil {
		return spatial.SpatialAcceleration[T]{}, err
	}
	ms.ensureTransformsToRoot()

	bToA, err := ms.transformsToRoot[bodyA].Inverse().Compose(ms.transformsToRoot[bodyB])
	if err != nil {
		return spatial.SpatialAcceleration[T]{}, err
	}
	bAccelInA, err := bToA.TransformAcceleration(accels[bodyB])
	if err != nil {
		return spatial.SpatialAcceleration[T]{}, err
	}

	a, _ := ms.mech.Body(bodyA)
	b, _ := ms.mech.Body(bodyB)
	aAccel := accels[bodyA]
	return spatial.SpatialAcceleration[T]{
		Body: a.Frame, Base: b.Frame, ExpressedIn: a.Frame,
		Angular: aAccel.Angular.Sub(bAccelInA.Angular),
		Linear:  aAccel.Linear.Sub(bAccelInA.Linear),
	}, nil
}
