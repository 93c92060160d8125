// Package mechstate implements MechanismState[T]: the mutable, scalar-generic
// state (configuration, velocity, additional continuous state) attached to
// a mechanism.Mechanism, plus a lazily-computed, invalidation-driven cache
// of every derived kinematic and dynamic quantity spec.md §4.4 names
// (joint transforms, transforms to root, twists, bias accelerations,
// inertias expressed in a common frame, composite-rigid-body inertias).
//
// Bodies are numbered by mechanism.RigidBody.ID, joints by their position
// in mechanism.Mechanism.TreeJoints(); both are dense and parent-before-
// child, so every cache below is a plain slice walked in increasing index
// order rather than a recursive tree traversal.
package mechstate

import (
	"github.com/san-kum/rbdsim/internal/cache"
	"github.com/san-kum/rbdsim/internal/joint"
	"github.com/san-kum/rbdsim/internal/mechanism"
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/segvec"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// validity tracks which lazily-computed cache categories are current. This
// is a small, per-category set of bits rather than one bit per body:
// spec.md §4.4 describes bitset-per-body invalidation as the ideal, but a
// single dirty joint invalidates every downstream category for every body
// past it in the tree anyway, so in practice a handful of category flags
// give the same "recompute only what changed" behavior with far less
// bookkeeping. This is a deliberate simplification, recorded in the design
// notes: DESIGN.md.
type validity struct {
	jointTransforms  bool
	transformsToRoot bool
	twistsWrtWorld   bool
	biasAccels       bool
	inertiasInWorld  bool
	crbInertias      bool
}

// MechanismState holds one mechanism's configuration/velocity/additional
// state under scalar backend T, plus every quantity derived from them.
// Constructed once per (mechanism, T) pair via StateFor and memoized in the
// mechanism's cache.Registry (spec.md §4.6).
type MechanismState[T scalar.Scalar[T]] struct {
	mech       *mechanism.Mechanism
	generation int
	conv       scalar.FromFloat64[T]

	joints []joint.Joint[T]

	q segvec.SegmentedVector[T]
	v segvec.SegmentedVector[T]
	s segvec.SegmentedVector[T]

	valid validity

	jointTransforms  []spatial.Transform[T] // Before->After, per tree joint
	transformsToRoot []spatial.Transform[T] // body frame -> root frame, per body
	twistsWrtWorld   []spatial.Twist[T]     // per body, expressed in body's own frame
	biasAccels       []spatial.SpatialAcceleration[T]
	inertiasInWorld  []spatial.SpatialInertia[T] // each body's inertia expressed in root frame
	crbInertias      []spatial.SpatialInertia[T] // composite rigid-body inertia, expressed in root frame
}

// StateFor returns the MechanismState[T] memoized against mech, creating
// and initializing it (to the zero configuration) if this is the first
// request for scalar backend T, or if mech's topology has changed since
// the memoized one was built.
func StateFor[T scalar.Scalar[T]](mech *mechanism.Mechanism, conv scalar.FromFloat64[T]) *MechanismState[T] {
	st := cache.GetOrCreate(mech.Cache(), func() *MechanismState[T] { return newMechanismState(mech, conv) })
	if st.generation != mech.Generation() {
		cache.Invalidate[*MechanismState[T]](mech.Cache())
		st = cache.GetOrCreate(mech.Cache(), func() *MechanismState[T] { return newMechanismState(mech, conv) })
	}
	return st
}

func newMechanismState[T scalar.Scalar[T]](mech *mechanism.Mechanism, conv scalar.FromFloat64[T]) *MechanismState[T] {
	treeJoints := mech.TreeJoints()
	nq := make([]int, len(treeJoints))
	nv := make([]int, len(treeJoints))
	joints := make([]joint.Joint[T], len(treeJoints))
	for i, tj := range treeJoints {
		joints[i] = joint.Instantiate[T](tj.Spec, tj.Before, tj.After, conv)
		nq[i] = joints[i].NQ()
		nv[i] = joints[i].NV()
	}
	st := &MechanismState[T]{
		mech:       mech,
		generation: mech.Generation(),
		conv:       conv,
		joints:     joints,
		q:          segvec.New[T](nq),
		v:          segvec.New[T](nv),
		s:          segvec.New[T](nv),
	}
	st.Zero()
	return st
}

func (ms *MechanismState[T]) checkFresh(op string) error {
	if ms.generation != ms.mech.Generation() {
		return &rbderrors.StaleState{Op: op, StateGeneration: ms.generation, CurrentGeneration: ms.mech.Generation()}
	}
	return nil
}

func (ms *MechanismState[T]) invalidateAll() {
	ms.valid = validity{}
}

// Configuration returns the flat configuration vector, in tree-joint order.
func (ms *MechanismState[T]) Configuration() []T { return ms.q.Data() }

// Velocity returns the flat velocity vector, in tree-joint order.
func (ms *MechanismState[T]) Velocity() []T { return ms.v.Data() }

// AdditionalState returns the flat additional-state vector (spec.md §3's
// per-joint "s", used by e.g. contact models), in tree-joint order.
func (ms *MechanismState[T]) AdditionalState() []T { return ms.s.Data() }

// SetConfiguration overwrites q and invalidates every configuration-derived
// cache category.
func (ms *MechanismState[T]) SetConfiguration(q []T) error {
	if err := ms.checkFresh("MechanismState.SetConfiguration"); err != nil {
		return err
	}
	if len(q) != ms.q.Len() {
		return &rbderrors.DimensionMismatch{Op: "MechanismState.SetConfiguration", Expected: ms.q.Len(), Got: len(q)}
	}
	copy(ms.q.Data(), q)
	ms.invalidateAll()
	return nil
}

// SetVelocity overwrites v and invalidates every velocity-derived cache
// category.
func (ms *MechanismState[T]) SetVelocity(v []T) error {
	if err := ms.checkFresh("MechanismState.SetVelocity"); err != nil {
		return err
	}
	if len(v) != ms.v.Len() {
		return &rbderrors.DimensionMismatch{Op: "MechanismState.SetVelocity", Expected: ms.v.Len(), Got: len(v)}
	}
	copy(ms.v.Data(), v)
	ms.valid.twistsWrtWorld = false
	ms.valid.biasAccels = false
	return nil
}

// SetAdditionalState overwrites s without touching any kinematic cache.
func (ms *MechanismState[T]) SetAdditionalState(s []T) error {
	if err := ms.checkFresh("MechanismState.SetAdditionalState"); err != nil {
		return err
	}
	if len(s) != ms.s.Len() {
		return &rbderrors.DimensionMismatch{Op: "MechanismState.SetAdditionalState", Expected: ms.s.Len(), Got: len(s)}
	}
	copy(ms.s.Data(), s)
	return nil
}

// Zero sets every joint to its identity configuration, zero velocity, and
// zero additional state.
func (ms *MechanismState[T]) Zero() {
	for i, j := range ms.joints {
		j.ZeroConfiguration(ms.q.Segment(i))
	}
	ms.v.Fill(scalar.Zero(ms.conv))
	ms.s.Fill(scalar.Zero(ms.conv))
	ms.invalidateAll()
}

// NormalizeConfiguration re-projects every joint's configuration onto its
// valid manifold in place (spec.md §4.2's idempotent normalize_configuration
// operation, e.g. renormalizing a quaternion or a sin/cos pair).
func (ms *MechanismState[T]) NormalizeConfiguration() {
	for i, j := range ms.joints {
		j.NormalizeConfiguration(ms.q.Segment(i))
	}
	ms.invalidateAll()
}

// ConfigurationDerivative returns qdot given the current (q, v).
func (ms *MechanismState[T]) ConfigurationDerivative() []T {
	out := make([]T, 0, ms.q.Len())
	for i, j := range ms.joints {
		out = append(out, j.ConfigurationDerivative(ms.q.Segment(i), ms.v.Segment(i))...)
	}
	return out
}

// Mechanism returns the mechanism this state is attached to.
func (ms *MechanismState[T]) Mechanism() *mechanism.Mechanism { return ms.mech }

// Joint returns the instantiated Joint[T] for tree-joint index i.
func (ms *MechanismState[T]) Joint(i int) joint.Joint[T] { return ms.joints[i] }
