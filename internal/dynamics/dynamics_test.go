package dynamics

import (
	"math"
	"testing"

	"github.com/san-kum/rbdsim/internal/config"
	"github.com/san-kum/rbdsim/internal/contact"
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
)

func doublePendulumState(t *testing.T, q, v []float64) *mechstate.MechanismState[scalar.Float64] {
	t.Helper()
	mech := config.Presets["double-pendulum"].Build()
	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	qs := make([]scalar.Float64, len(q))
	for i, x := range q {
		qs[i] = scalar.Float64(x)
	}
	vs := make([]scalar.Float64, len(v))
	for i, x := range v {
		vs[i] = scalar.Float64(x)
	}
	if err := ms.SetConfiguration(qs); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}
	if err := ms.SetVelocity(vs); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}
	return ms
}

func TestMassMatrixIsSymmetric(t *testing.T) {
	ms := doublePendulumState(t, []float64{0.3, -0.2}, []float64{0, 0})
	m, err := MassMatrix(ms)
	if err != nil {
		t.Fatalf("MassMatrix: %v", err)
	}
	for i := range m {
		for j := range m[i] {
			if math.Abs(float64(m[i][j]-m[j][i])) > 1e-9 {
				t.Errorf("M[%d][%d]=%v != M[%d][%d]=%v", i, j, m[i][j], j, i, m[j][i])
			}
		}
	}
}

func TestMassMatrixIsPositiveDefiniteOnDiagonal(t *testing.T) {
	ms := doublePendulumState(t, []float64{0.5, 0.1}, []float64{0, 0})
	m, err := MassMatrix(ms)
	if err != nil {
		t.Fatalf("MassMatrix: %v", err)
	}
	for i := range m {
		if float64(m[i][i]) <= 0 {
			t.Errorf("expected strictly positive diagonal entry at %d, got %v", i, m[i][i])
		}
	}
}

func TestForwardInverseDynamicsRoundTrip(t *testing.T) {
	ms := doublePendulumState(t, []float64{0.4, -0.3}, []float64{0.1, -0.2})
	tau := []scalar.Float64{0.05, -0.02}

	qddot, err := ForwardDynamics(ms, tau)
	if err != nil {
		t.Fatalf("ForwardDynamics: %v", err)
	}

	tauBack, err := InverseDynamics(ms, qddot)
	if err != nil {
		t.Fatalf("InverseDynamics: %v", err)
	}
	for i := range tau {
		if math.Abs(float64(tau[i]-tauBack[i])) > 1e-6 {
			t.Errorf("round trip tau[%d]=%v, want %v", i, tauBack[i], tau[i])
		}
	}
}

func TestInverseDynamicsAtZeroAccelerationEqualsBias(t *testing.T) {
	ms := doublePendulumState(t, []float64{0.2, 0.6}, []float64{0.3, -0.1})
	bias, err := DynamicsBias(ms)
	if err != nil {
		t.Fatalf("DynamicsBias: %v", err)
	}
	qddotZero := make([]scalar.Float64, len(bias))
	tau, err := InverseDynamics(ms, qddotZero)
	if err != nil {
		t.Fatalf("InverseDynamics: %v", err)
	}
	for i := range bias {
		if math.Abs(float64(tau[i]-bias[i])) > 1e-9 {
			t.Errorf("tau[%d]=%v, want bias[%d]=%v", i, tau[i], i, bias[i])
		}
	}
}

func TestForwardDynamicsFloat64MatchesGenericPath(t *testing.T) {
	ms := doublePendulumState(t, []float64{0.15, -0.4}, []float64{0.2, 0.05})
	tau := []scalar.Float64{0.1, 0.0}

	generic, err := ForwardDynamics(ms, tau)
	if err != nil {
		t.Fatalf("generic ForwardDynamics: %v", err)
	}

	ms2 := doublePendulumState(t, []float64{0.15, -0.4}, []float64{0.2, 0.05})
	fast, err := ForwardDynamicsFloat64(ms2, tau)
	if err != nil {
		t.Fatalf("ForwardDynamicsFloat64: %v", err)
	}
	for i := range generic {
		if math.Abs(float64(generic[i]-fast[i])) > 1e-6 {
			t.Errorf("qddot[%d]: generic=%v fast=%v", i, generic[i], fast[i])
		}
	}
}

func TestEvaluateBundlesConsistentResult(t *testing.T) {
	ms := doublePendulumState(t, []float64{0.1, 0.2}, []float64{0, 0})
	tau := []scalar.Float64{0, 0}
	result, err := Evaluate(ms, tau)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(result.MassMatrix) != 2 || len(result.Bias) != 2 || len(result.Qddot) != 2 {
		t.Fatalf("unexpected result shape: %+v", result)
	}
	if result.Lambda != nil {
		t.Errorf("expected nil Lambda for a mechanism with no loop-closure joints, got %v", result.Lambda)
	}
}

func TestEvaluateWithContactsAppliesContactWrench(t *testing.T) {
	ms := doublePendulumState(t, []float64{0.2, 0.1}, []float64{0, 0})
	tau := []scalar.Float64{0, 0}
	points := []contact.Point[scalar.Float64]{
		{
			Name: "tip", BodyID: 1,
			Location: [3]float64{0, 0, 0}, Normal: [3]float64{0, 0, 1}, PlaneOffset: 100,
			Model: contact.HuntCrossley[scalar.Float64]{Stiffness: 1000, Dissipation: 0, Conv: scalar.FromFloat64Backend},
		},
	}

	result, err := EvaluateWithContacts(ms, tau, points)
	if err != nil {
		t.Fatalf("EvaluateWithContacts: %v", err)
	}
	if len(result.Qddot) != 2 {
		t.Fatalf("unexpected qddot length %d", len(result.Qddot))
	}
	w, ok := result.ContactWrenches[1]
	if !ok {
		t.Fatalf("expected a recorded contact wrench for body 1")
	}
	if w.Linear[2] <= 0 {
		t.Errorf("expected a positive normal force from deep penetration, got %v", w.Linear[2])
	}
}

func TestMomentumMatrixMatchesTotalMomentum(t *testing.T) {
	ms := doublePendulumState(t, []float64{0.4, -0.3}, []float64{0.5, -0.7})

	a, err := MomentumMatrix(ms)
	if err != nil {
		t.Fatalf("MomentumMatrix: %v", err)
	}
	fromMatrix, err := a.MulVelocity(ms.Velocity())
	if err != nil {
		t.Fatalf("MulVelocity: %v", err)
	}

	fromState, err := ms.TotalMomentum()
	if err != nil {
		t.Fatalf("TotalMomentum: %v", err)
	}

	for i := 0; i < 3; i++ {
		if math.Abs(float64(fromMatrix.Angular[i]-fromState.Angular[i])) > 1e-9 {
			t.Errorf("angular[%d]: matrix gave %v, state gave %v", i, fromMatrix.Angular[i], fromState.Angular[i])
		}
		if math.Abs(float64(fromMatrix.Linear[i]-fromState.Linear[i])) > 1e-9 {
			t.Errorf("linear[%d]: matrix gave %v, state gave %v", i, fromMatrix.Linear[i], fromState.Linear[i])
		}
	}
}
