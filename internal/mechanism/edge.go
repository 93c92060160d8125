package mechanism

import (
	"github.com/san-kum/rbdsim/internal/joint"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// Joint is a topology edge connecting a predecessor body's frame to a
// successor body's frame via a joint.Spec. Tree joints (reachable from
// Mechanism.TreeJoints) form the spanning tree that RigidBody IDs are
// numbered against; NonTreeJoints add extra constraints that close
// kinematic loops without altering the tree (spec.md §3's mechanism model).
type Joint struct {
	ID                          int
	Name                        string
	Spec                        joint.Spec
	PredecessorBody, SuccessorBody int
	Before, After               spatial.Frame
}
