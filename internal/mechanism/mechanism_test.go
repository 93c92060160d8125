package mechanism

import (
	"testing"

	"github.com/san-kum/rbdsim/internal/joint"
	"github.com/san-kum/rbdsim/internal/spatial"
)

func chainMechanism(t *testing.T, n int) (*Mechanism, []*RigidBody) {
	t.Helper()
	m := New([3]float64{0, 0, -9.81})
	bodies := []*RigidBody{m.RootBody()}
	parent := m.RootBody()
	for i := 0; i < n; i++ {
		child, _, err := m.Attach(parent, joint.Revolute([3]float64{0, 1, 0}), "j", BodyInertia{Mass: 1}, "b", spatial.Frame(i), spatial.Frame(i+1))
		if err != nil {
			t.Fatalf("attach failed: %v", err)
		}
		bodies = append(bodies, child)
		parent = child
	}
	return m, bodies
}

func TestAttachAssignsDenseParentBeforeChildIDs(t *testing.T) {
	m, bodies := chainMechanism(t, 3)
	for i, b := range bodies {
		if b.ID != i {
			t.Errorf("body %d has ID %d, want %d", i, b.ID, i)
		}
	}
	if m.NumBodies() != 4 {
		t.Errorf("expected 4 bodies (root + 3), got %d", m.NumBodies())
	}
}

func TestAttachBumpsGeneration(t *testing.T) {
	m := New([3]float64{0, 0, -9.81})
	g0 := m.Generation()
	if _, _, err := m.Attach(m.RootBody(), joint.Revolute([3]float64{0, 0, 1}), "j", BodyInertia{Mass: 1}, "b", spatial.Frame(0), spatial.Frame(1)); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if m.Generation() == g0 {
		t.Error("expected Generation to advance after Attach")
	}
}

func TestPathAlongLinearChainIsMonotonicallySigned(t *testing.T) {
	m, bodies := chainMechanism(t, 3)
	steps := m.Path(bodies[0], bodies[3])
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps root->tip, got %d", len(steps))
	}
	for _, s := range steps {
		if s.Sign != 1 {
			t.Errorf("expected all-positive signs walking root->tip, got %d", s.Sign)
		}
	}

	reverse := m.Path(bodies[3], bodies[0])
	if len(reverse) != 3 {
		t.Fatalf("expected 3 steps tip->root, got %d", len(reverse))
	}
	for _, s := range reverse {
		if s.Sign != -1 {
			t.Errorf("expected all-negative signs walking tip->root, got %d", s.Sign)
		}
	}
}

func TestPathBetweenSiblingsGoesThroughCommonAncestor(t *testing.T) {
	m := New([3]float64{0, 0, -9.81})
	left, _, err := m.Attach(m.RootBody(), joint.Revolute([3]float64{0, 0, 1}), "jl", BodyInertia{Mass: 1}, "left", spatial.Frame(0), spatial.Frame(1))
	if err != nil {
		t.Fatalf("attach left failed: %v", err)
	}
	right, _, err := m.Attach(m.RootBody(), joint.Revolute([3]float64{0, 0, 1}), "jr", BodyInertia{Mass: 1}, "right", spatial.Frame(0), spatial.Frame(2))
	if err != nil {
		t.Fatalf("attach right failed: %v", err)
	}

	steps := m.Path(left, right)
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps left->root->right, got %d", len(steps))
	}
	if steps[0].Sign != -1 || steps[1].Sign != 1 {
		t.Errorf("expected [-1, +1] signs through the common ancestor, got [%d, %d]", steps[0].Sign, steps[1].Sign)
	}
}

func TestRemoveFixedJointsCombinesMass(t *testing.T) {
	m := New([3]float64{0, 0, -9.81})
	link, _, err := m.Attach(m.RootBody(), joint.Revolute([3]float64{0, 0, 1}), "j1", BodyInertia{Mass: 2}, "link", spatial.Frame(0), spatial.Frame(1))
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if _, _, err := m.Attach(link, joint.Fixed(), "j2", BodyInertia{Mass: 3}, "sensor", spatial.Frame(1), spatial.Frame(2)); err != nil {
		t.Fatalf("attach fixed failed: %v", err)
	}

	if err := m.RemoveFixedJoints(); err != nil {
		t.Fatalf("RemoveFixedJoints failed: %v", err)
	}
	if m.NumBodies() != 2 {
		t.Fatalf("expected root+link after folding fixed body, got %d bodies", m.NumBodies())
	}
	combined, err := m.Body(1)
	if err != nil {
		t.Fatalf("body lookup failed: %v", err)
	}
	if combined.Inertia.Mass != 5 {
		t.Errorf("expected combined mass 5, got %v", combined.Inertia.Mass)
	}
}
