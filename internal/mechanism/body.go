// Package mechanism describes a rigid-body mechanism's topology: a tree of
// RigidBody nodes connected by Joint edges, rooted at a fixed (zero-inertia)
// world body, plus any additional non-tree joints that close kinematic
// loops. Everything here is float64-parameterized and independent of the
// scalar backend used to evaluate kinematics/dynamics over it (that split
// lives in internal/mechstate).
package mechanism

import "github.com/san-kum/rbdsim/internal/spatial"

// BodyInertia is a float64-precision rigid-body inertia about its body
// frame's origin: a mass, a first moment (mass times center of mass), and a
// symmetric moment of inertia. It is converted to a spatial.SpatialInertia[T]
// once per scalar backend.
type BodyInertia struct {
	Mass        float64
	FirstMoment [3]float64
	Moment      [3][3]float64
}

// ZeroInertia is the root body's inertia: it carries no mass, per this
// package's invariant that RootBody() always has zero inertia.
var ZeroInertia = BodyInertia{}

// RigidBody is one node of the mechanism tree. ID is a dense, zero-based
// index assigned in parent-before-child order at attachment time; ID 0 is
// always the root. Frame is the body-fixed frame in which the body's own
// inertia and every quantity mechstate caches "in body frame" are expressed.
type RigidBody struct {
	ID      int
	Name    string
	Frame   spatial.Frame
	Inertia BodyInertia
}

func (b *RigidBody) IsRoot() bool { return b.ID == 0 }
