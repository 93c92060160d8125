package mechstate

import (
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/segvec"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// Conv exposes the scalar backend's float64 conversion, needed by callers
// (package dynamics) that build zero-valued spatial quantities of their own.
func (ms *MechanismState[T]) Conv() scalar.FromFloat64[T] { return ms.conv }

// NV returns the total velocity-space dimension, the size of Velocity() and
// of a mass-matrix side.
func (ms *MechanismState[T]) NV() int { return ms.v.Len() }

// NumJoints returns the number of tree joints.
func (ms *MechanismState[T]) NumJoints() int { return len(ms.joints) }

// VelocityRange returns tree-joint i's segment within the flat
// velocity/torque vector.
func (ms *MechanismState[T]) VelocityRange(i int) segvec.Range { return ms.v.Ranges()[i] }

// ConfigurationSegment returns tree-joint i's configuration segment.
func (ms *MechanismState[T]) ConfigurationSegment(i int) []T { return ms.q.Segment(i) }

// JointTransform returns tree-joint i's Before->After transform at the
// current configuration.
func (ms *MechanismState[T]) JointTransform(i int) (spatial.Transform[T], error) {
	if err := ms.checkFresh("MechanismState.JointTransform"); err != nil {
		return spatial.Transform[T]{}, err
	}
	ms.ensureJointTransforms()
	return ms.jointTransforms[i], nil
}

// BodyInertiaLocal returns bodyID's own inertia, expressed in its own frame.
func (ms *MechanismState[T]) BodyInertiaLocal(bodyID int) (spatial.SpatialInertia[T], error) {
	body, err := ms.mech.Body(bodyID)
	if err != nil {
		return spatial.SpatialInertia[T]{}, err
	}
	return bodyInertia[T](body.Inertia, body.Frame, ms.conv), nil
}

// CompositeInertia returns the composite-rigid-body inertia of the subtree
// rooted at bodyID, expressed in the mechanism's root frame.
func (ms *MechanismState[T]) CompositeInertia(bodyID int) (spatial.SpatialInertia[T], error) {
	if err := ms.checkFresh("MechanismState.CompositeInertia"); err != nil {
		return spatial.SpatialInertia[T]{}, err
	}
	ms.ensureCrbInertias()
	return ms.crbInertias[bodyID], nil
}

// MotionSubspaceInRoot returns the tree joint feeding bodyID's motion
// subspace, re-expressed in the mechanism's root frame -- the common frame
// the composite-rigid-body mass-matrix assembly needs so it can dot
// columns belonging to different bodies without an extra transform at
// every level of the tree.
func (ms *MechanismState[T]) MotionSubspaceInRoot(bodyID int) (spatial.GeometricJacobian[T], error) {
	if err := ms.checkFresh("MechanismState.MotionSubspaceInRoot"); err != nil {
		return spatial.GeometricJacobian[T]{}, err
	}
	ms.ensureTransformsToRoot()
	ji := ms.mech.ParentJoint(bodyID)
	s := ms.joints[ji].MotionSubspace(ms.q.Segment(ji))
	return s.TransformedTo(ms.transformsToRoot[bodyID])
}

// Accelerations returns every body's spatial acceleration given a joint
// acceleration vector qddot laid out like Velocity(), by re-running the
// bias-acceleration forward pass with each joint's S*qddot term added in.
// Each entry is expressed in that body's own frame, matching TwistWrtWorld.
// This is the forward half of the recursive Newton-Euler algorithm; package
// dynamics supplies the backward wrench pass.
func (ms *MechanismState[T]) Accelerations(qddot []T) ([]spatial.SpatialAcceleration[T], error) {
	if err := ms.checkFresh("MechanismState.Accelerations"); err != nil {
		return nil, err
	}
	if len(qddot) != ms.v.Len() {
		return nil, &rbderrors.DimensionMismatch{Op: "MechanismState.Accelerations", Expected: ms.v.Len(), Got: len(qddot)}
	}
	ms.ensureJointTransforms()
	ms.ensureTwistsWrtWorld()

	n := ms.mech.NumBodies()
	accels := make([]spatial.SpatialAcceleration[T], n)
	root := ms.mech.RootBody()
	gravity := ms.mech.Gravity()
	gravVec := spatial.Vec3[T]{ms.conv(gravity[0]), ms.conv(gravity[1]), ms.conv(gravity[2])}
	accels[0] = spatial.GravitationalAcceleration[T](root.Frame, gravVec, ms.conv)

	for id := 1; id < n; id++ {
		parentID := ms.mech.ParentBody(id)
		ji := ms.mech.ParentJoint(id)
		jt := ms.jointTransforms[ji]
		r := ms.v.Ranges()[ji]
		jointQddot := qddot[r.Start : r.Start+r.Length]

		subspace := ms.joints[ji].MotionSubspace(ms.q.Segment(ji))
		jointTwist, _ := subspace.MulVelocity(ms.v.Segment(ji))
		jointAccel, _ := subspace.MulVelocity(jointQddot)

		coupling, _ := ms.twistsWrtWorld[id].CrossMotion(jointTwist, ms.conv)
		parentAccelHere, _ := jt.TransformAcceleration(accels[parentID])
		jointBias := ms.joints[ji].BiasAcceleration(ms.q.Segment(ji), ms.v.Segment(ji))

		total, _ := parentAccelHere.Compose(coupling)
		total.Angular = total.Angular.Add(jointBias.Angular).Add(jointAccel.Angular)
		total.Linear = total.Linear.Add(jointBias.Linear).Add(jointAccel.Linear)
		accels[id] = total
	}
	return accels, nil
}

// Rand overwrites q and v with random values drawn from r, then normalizes
// the configuration onto each joint's valid manifold. Accepting a *rand.Rand
// (rather than reaching for package-level math/rand state) keeps property
// tests over MechanismState reproducible from a fixed seed.
func (ms *MechanismState[T]) Rand(r randSource) error {
	if err := ms.checkFresh("MechanismState.Rand"); err != nil {
		return err
	}
	for i := range ms.q.Data() {
		ms.q.Data()[i] = ms.conv(r.Float64()*2 - 1)
	}
	for i := range ms.v.Data() {
		ms.v.Data()[i] = ms.conv(r.Float64()*2 - 1)
	}
	ms.invalidateAll()
	ms.NormalizeConfiguration()
	return nil
}

// randSource is the subset of *rand.Rand MechanismState.Rand needs, so
// callers under the Dual or Symbolic backend never have to import
// math/rand themselves just to satisfy the signature.
type randSource interface {
	Float64() float64
}
