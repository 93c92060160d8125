package mechanism

import (
	"github.com/san-kum/rbdsim/internal/cache"
	"github.com/san-kum/rbdsim/internal/joint"
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// Mechanism owns the dense body/joint id spaces, the spanning tree implied
// by tree joints, any extra non-tree joints, and a monotonically increasing
// Generation counter that every topology mutation bumps. mechstate uses
// Generation to detect a MechanismState computed against a topology that
// has since changed (spec.md §4.4, StaleState).
type Mechanism struct {
	bodies        []*RigidBody
	treeJoints    []*Joint
	nonTreeJoints []*Joint
	parentBody    []int // parentBody[bodyID] = predecessor body id, -1 for root
	parentJoint   []int // parentJoint[bodyID] = tree joint id connecting it to its parent, -1 for root
	gravity       [3]float64
	generation    int
	cacheRegistry *cache.Registry
}

// New creates a mechanism with a single, zero-inertia root body named
// "world" and the given gravitational acceleration (spec.md §3, §4.5:
// "gravity, injected as a bias acceleration at the root").
func New(gravity [3]float64) *Mechanism {
	m := &Mechanism{
		bodies:        []*RigidBody{{ID: 0, Name: "world", Frame: spatial.Frame(0), Inertia: ZeroInertia}},
		parentBody:    []int{-1},
		parentJoint:   []int{-1},
		gravity:       gravity,
		cacheRegistry: cache.NewRegistry(),
	}
	return m
}

func (m *Mechanism) Generation() int     { return m.generation }
func (m *Mechanism) Gravity() [3]float64 { return m.gravity }

// Cache exposes the mechanism's scalar-generic registry (spec.md §4.6), the
// single place a MechanismState[T] per scalar backend T is memoized.
func (m *Mechanism) Cache() *cache.Registry { return m.cacheRegistry }

// bumpGeneration advances the topology generation counter and drops every
// cached scalar-backend MechanismState, since its cached kinematics would
// otherwise silently reference the old topology.
func (m *Mechanism) bumpGeneration() {
	m.generation++
	m.cacheRegistry.Reset()
}
func (m *Mechanism) RootBody() *RigidBody    { return m.bodies[0] }
func (m *Mechanism) Bodies() []*RigidBody    { return m.bodies }
func (m *Mechanism) NumBodies() int          { return len(m.bodies) }
func (m *Mechanism) TreeJoints() []*Joint    { return m.treeJoints }
func (m *Mechanism) NonTreeJoints() []*Joint { return m.nonTreeJoints }

func (m *Mechanism) Body(id int) (*RigidBody, error) {
	if id < 0 || id >= len(m.bodies) {
		return nil, &rbderrors.Argument{Op: "Mechanism.Body", Message: "body id out of range"}
	}
	return m.bodies[id], nil
}

// ParentBody returns the predecessor body id of bodyID in the spanning
// tree, or -1 if bodyID is the root.
func (m *Mechanism) ParentBody(bodyID int) int { return m.parentBody[bodyID] }

// ParentJoint returns the index into TreeJoints() of the joint connecting
// bodyID to its parent, or -1 if bodyID is the root.
func (m *Mechanism) ParentJoint(bodyID int) int { return m.parentJoint[bodyID] }

// Successor returns j's successor body.
func (m *Mechanism) Successor(j *Joint) *RigidBody { return m.bodies[j.SuccessorBody] }

// Predecessor returns j's predecessor body.
func (m *Mechanism) Predecessor(j *Joint) *RigidBody { return m.bodies[j.PredecessorBody] }

// Attach adds a new body as the successor of a new tree joint whose
// predecessor is parent, assigning both dense ids at the end of their
// respective id spaces (spec.md §3's "ids assigned in increasing
// parent-before-child order" invariant). It bumps Generation.
func (m *Mechanism) Attach(parent *RigidBody, spec joint.Spec, jointName string, inertia BodyInertia, bodyName string, before, after spatial.Frame) (*RigidBody, *Joint, error) {
	if parent == nil || parent.ID < 0 || parent.ID >= len(m.bodies) || m.bodies[parent.ID] != parent {
		return nil, nil, &rbderrors.Topology{Op: "Mechanism.Attach", Message: "parent body does not belong to this mechanism"}
	}
	childID := len(m.bodies)
	child := &RigidBody{ID: childID, Name: bodyName, Frame: after, Inertia: inertia}
	treeIndex := len(m.treeJoints)
	j := &Joint{
		ID: len(m.treeJoints) + len(m.nonTreeJoints), Name: jointName, Spec: spec,
		PredecessorBody: parent.ID, SuccessorBody: childID,
		Before: before, After: after,
	}
	m.bodies = append(m.bodies, child)
	m.parentBody = append(m.parentBody, parent.ID)
	// parentJoint stores the joint's index within treeJoints, not its
	// global Joint.ID (which also counts non-tree joints and so would not
	// generally match its slice position once any exist).
	m.parentJoint = append(m.parentJoint, treeIndex)
	m.treeJoints = append(m.treeJoints, j)
	m.bumpGeneration()
	return child, j, nil
}

// AttachNonTree adds a joint between two existing bodies without altering
// the spanning tree, used to close kinematic loops (spec.md §3, §9's
// resolved Open Question: loop closures are handled via null-space
// projection over the non-tree joint's constraint Jacobian, not by adding
// bodies).
func (m *Mechanism) AttachNonTree(predecessor, successor *RigidBody, spec joint.Spec, name string, before, after spatial.Frame) (*Joint, error) {
	if predecessor == nil || successor == nil {
		return nil, &rbderrors.Argument{Op: "Mechanism.AttachNonTree", Message: "predecessor and successor must be non-nil"}
	}
	j := &Joint{
		ID: len(m.treeJoints) + len(m.nonTreeJoints), Name: name, Spec: spec,
		PredecessorBody: predecessor.ID, SuccessorBody: successor.ID,
		Before: before, After: after,
	}
	m.nonTreeJoints = append(m.nonTreeJoints, j)
	m.bumpGeneration()
	return j, nil
}

// RemoveFixedJoints folds every Fixed tree joint's successor body inertia
// into its predecessor, deletes the joint and the now-absorbed body, and
// reassigns dense ids to close the resulting gaps (spec.md §4.7: reduces a
// mechanism built with intermediate Fixed joints, e.g. for URDF-style
// link/joint separation, down to one that only carries moving joints).
// Bodies at either end of a non-tree joint are never absorbed.
func (m *Mechanism) RemoveFixedJoints() error {
	protected := make(map[int]bool, len(m.nonTreeJoints)*2)
	for _, j := range m.nonTreeJoints {
		protected[j.PredecessorBody] = true
		protected[j.SuccessorBody] = true
	}

	keptJoints := make([]*Joint, 0, len(m.treeJoints))
	absorbedInto := make(map[int]int) // successor body id -> predecessor body id it was folded into

	for _, j := range m.treeJoints {
		if j.Spec.Kind == joint.KindFixed && !protected[j.SuccessorBody] {
			target := resolveAbsorption(absorbedInto, j.PredecessorBody)
			child := m.bodies[j.SuccessorBody]
			parent := m.bodies[target]
			merged, err := combineInertia(parent.Inertia, child.Inertia)
			if err != nil {
				return err
			}
			parent.Inertia = merged
			absorbedInto[j.SuccessorBody] = target
			continue
		}
		keptJoints = append(keptJoints, j)
	}
	if len(keptJoints) == len(m.treeJoints) {
		return nil
	}

	keptBodyIDs := make([]int, 0, len(m.bodies))
	keptBodyIDs = append(keptBodyIDs, 0)
	for _, j := range keptJoints {
		keptBodyIDs = append(keptBodyIDs, j.SuccessorBody)
	}

	oldToNew := make(map[int]int, len(keptBodyIDs))
	newBodies := make([]*RigidBody, 0, len(keptBodyIDs))
	for newID, oldID := range keptBodyIDs {
		b := m.bodies[oldID]
		b.ID = newID
		oldToNew[oldID] = newID
		newBodies = append(newBodies, b)
	}
	resolvedOldToNew := func(oldID int) int {
		return oldToNew[resolveAbsorption(absorbedInto, oldID)]
	}

	newParentBody := make([]int, len(newBodies))
	newParentJoint := make([]int, len(newBodies))
	newParentBody[0], newParentJoint[0] = -1, -1
	newJoints := make([]*Joint, 0, len(keptJoints))
	for newID, j := range keptJoints {
		j.PredecessorBody = resolvedOldToNew(j.PredecessorBody)
		j.SuccessorBody = oldToNew[j.SuccessorBody]
		j.ID = newID
		newParentBody[j.SuccessorBody] = j.PredecessorBody
		newParentJoint[j.SuccessorBody] = j.ID
		newJoints = append(newJoints, j)
	}
	for _, j := range m.nonTreeJoints {
		j.PredecessorBody = resolvedOldToNew(j.PredecessorBody)
		j.SuccessorBody = resolvedOldToNew(j.SuccessorBody)
	}

	m.bodies = newBodies
	m.treeJoints = newJoints
	m.parentBody = newParentBody
	m.parentJoint = newParentJoint
	m.bumpGeneration()
	return nil
}

func resolveAbsorption(absorbedInto map[int]int, id int) int {
	for {
		target, ok := absorbedInto[id]
		if !ok {
			return id
		}
		id = target
	}
}

func combineInertia(a, b BodyInertia) (BodyInertia, error) {
	return BodyInertia{
		Mass: a.Mass + b.Mass,
		FirstMoment: [3]float64{
			a.FirstMoment[0] + b.FirstMoment[0],
			a.FirstMoment[1] + b.FirstMoment[1],
			a.FirstMoment[2] + b.FirstMoment[2],
		},
		Moment: addMat3(a.Moment, b.Moment),
	}, nil
}

func addMat3(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			out[i][k] = a[i][k] + b[i][k]
		}
	}
	return out
}
