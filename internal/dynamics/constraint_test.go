package dynamics

import (
	"math"
	"testing"

	"github.com/san-kum/rbdsim/internal/joint"
	"github.com/san-kum/rbdsim/internal/mechanism"
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// twoArmMechanism builds two independent single-revolute chains off the
// root, each carrying a small point-mass-like link, so a non-tree joint can
// close a loop between their tips without either chain constraining the
// other on its own.
func twoArmMechanism(t *testing.T) (*mechanism.Mechanism, *mechanism.RigidBody, *mechanism.RigidBody) {
	t.Helper()
	mech := mechanism.New([3]float64{0, 0, -9.81})
	root := mech.RootBody()
	axis := [3]float64{0, 1, 0}
	inertia := mechanism.BodyInertia{
		Mass:        1,
		FirstMoment: [3]float64{0, 0, 0.5},
		Moment:      [3][3]float64{{0.1, 0, 0}, {0, 0.1, 0}, {0, 0, 0.1}},
	}
	armA, _, err := mech.Attach(root, joint.Revolute(axis), "armA", inertia, "tipA", spatial.Frame(0), spatial.Frame(1))
	if err != nil {
		t.Fatalf("attach armA: %v", err)
	}
	armB, _, err := mech.Attach(root, joint.Revolute(axis), "armB", inertia, "tipB", spatial.Frame(0), spatial.Frame(2))
	if err != nil {
		t.Fatalf("attach armB: %v", err)
	}
	return mech, armA, armB
}

func TestConstraintJacobianEmptyWithNoNonTreeJoints(t *testing.T) {
	mech, _, _ := twoArmMechanism(t)
	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()

	rows, rhs, err := ConstraintJacobian(ms)
	if err != nil {
		t.Fatalf("ConstraintJacobian: %v", err)
	}
	if rows != nil || rhs != nil {
		t.Fatalf("expected nil rows/rhs with no non-tree joints, got %v / %v", rows, rhs)
	}
}

func TestConstraintJacobianWeldConstrainsAllSixDirections(t *testing.T) {
	mech, tipA, tipB := twoArmMechanism(t)
	if _, err := mech.AttachNonTree(tipA, tipB, joint.Fixed(), "loop", spatial.Frame(1), spatial.Frame(2)); err != nil {
		t.Fatalf("AttachNonTree: %v", err)
	}
	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	if err := ms.SetConfiguration([]scalar.Float64{0.3, -0.2}); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}
	ms.Zero()

	rows, rhs, err := ConstraintJacobian(ms)
	if err != nil {
		t.Fatalf("ConstraintJacobian: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 constraint rows for a weld, got %d", len(rows))
	}
	if len(rhs) != 6 {
		t.Fatalf("expected 6 rhs entries, got %d", len(rhs))
	}
	for i, row := range rows {
		if len(row) != ms.NV() {
			t.Errorf("row %d has %d columns, want %d", i, len(row), ms.NV())
		}
	}
}

func TestConstraintJacobianRevoluteNonTreeConstrainsFiveDirections(t *testing.T) {
	mech, tipA, tipB := twoArmMechanism(t)
	axis := [3]float64{1, 0, 0}
	if _, err := mech.AttachNonTree(tipA, tipB, joint.Revolute(axis), "loop", spatial.Frame(1), spatial.Frame(2)); err != nil {
		t.Fatalf("AttachNonTree: %v", err)
	}
	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	if err := ms.SetConfiguration([]scalar.Float64{0.1, 0.4}); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}
	ms.Zero()

	rows, _, err := ConstraintJacobian(ms)
	if err != nil {
		t.Fatalf("ConstraintJacobian: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 constraint rows for a 1-dof non-tree joint, got %d", len(rows))
	}
}

func TestForwardDynamicsConstrainedMatchesUnconstrainedSolveWithNoRows(t *testing.T) {
	m := [][]scalar.Float64{{2, 0}, {0, 3}}
	tau := []scalar.Float64{1, 1}
	bias := []scalar.Float64{0.1, -0.2}

	qddot, lambda, err := ForwardDynamicsConstrained(tau, bias, m, nil, nil, scalar.FromFloat64Backend)
	if err != nil {
		t.Fatalf("ForwardDynamicsConstrained: %v", err)
	}
	if lambda != nil {
		t.Errorf("expected nil lambda with no constraint rows, got %v", lambda)
	}

	want, err := solveGaussian(m, []scalar.Float64{tau[0] - bias[0], tau[1] - bias[1]})
	if err != nil {
		t.Fatalf("solveGaussian: %v", err)
	}
	for i := range want {
		if math.Abs(float64(qddot[i]-want[i])) > 1e-12 {
			t.Errorf("qddot[%d]=%v, want %v", i, qddot[i], want[i])
		}
	}
}

func TestForwardDynamicsConstrainedSatisfiesConstraintRow(t *testing.T) {
	m := [][]scalar.Float64{{2, 0}, {0, 3}}
	tau := []scalar.Float64{1, 1}
	bias := []scalar.Float64{0, 0}
	rows := [][]scalar.Float64{{1, -1}}
	rhs := []scalar.Float64{0}

	qddot, lambda, err := ForwardDynamicsConstrained(tau, bias, m, rows, rhs, scalar.FromFloat64Backend)
	if err != nil {
		t.Fatalf("ForwardDynamicsConstrained: %v", err)
	}
	if len(lambda) != 1 {
		t.Fatalf("expected 1 multiplier, got %d", len(lambda))
	}
	if math.Abs(float64(qddot[0]-qddot[1])) > 1e-9 {
		t.Errorf("expected qddot[0]==qddot[1] under the qddot[0]-qddot[1]=0 constraint, got %v and %v", qddot[0], qddot[1])
	}
}
