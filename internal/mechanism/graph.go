package mechanism

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// spanningTree builds a directed graph of the mechanism's tree joints,
// one node per body id, edges directed parent-to-child, matching the
// graph-based frame handling the pack's kinematics example builds over
// its own link tree. Path queries walk this rather than the parentBody
// slice directly, per spec.md §4.12's numeric-backend requirement.
func (m *Mechanism) spanningTree() *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	for i := range m.bodies {
		g.AddNode(simple.Node(int64(i)))
	}
	for childID, parentID := range m.parentBody {
		if parentID == -1 {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(int64(parentID)), T: simple.Node(int64(childID))})
	}
	return g
}

// ancestors returns [bodyID, parent(bodyID), ..., root], recovered from a
// breadth-first traversal of the spanning tree starting at the root: BFS
// from the root visits every node exactly once and, via Visit, records
// the tree edge each node was first reached through, from which the
// ancestor chain of any single body falls out by repeated lookup.
func (m *Mechanism) ancestors(bodyID int) []int {
	g := m.spanningTree()
	predecessor := make(map[int64]int64, len(m.bodies))

	bf := traverse.BreadthFirst{
		Visit: func(u, v graph.Node) {
			predecessor[v.ID()] = u.ID()
		},
	}
	bf.Walk(g, simple.Node(0), func(graph.Node, int) bool { return false })

	chain := []int{bodyID}
	id := int64(bodyID)
	for {
		parent, ok := predecessor[id]
		if !ok {
			break
		}
		chain = append(chain, int(parent))
		id = parent
	}
	return chain
}
