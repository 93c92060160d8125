package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/rbdsim/internal/config"
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
)

func pendulumState(t *testing.T, q, v []float64) *mechstate.MechanismState[scalar.Float64] {
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

func TestRK4AtRestStaysAtRestUnderZeroTorque(t *testing.T) {
	ms := pendulumState(t, []float64{0, 0}, []float64{0, 0})
	tau := []scalar.Float64{0, 0}

	// The double pendulum's zero configuration is an equilibrium (both
	// links pointing straight up along +z, against gravity), so zero
	// velocity and zero torque should leave it essentially motionless for
	// one small step.
	if err := RK4(ms, tau, scalar.Float64(0.001)); err != nil {
		t.Fatalf("RK4: %v", err)
	}
	for i, q := range ms.Configuration() {
		if math.Abs(float64(q)) > 1e-6 {
			t.Errorf("q[%d]=%v drifted away from the resting equilibrium", i, q)
		}
	}
	for i, v := range ms.Velocity() {
		if math.Abs(float64(v)) > 1e-6 {
			t.Errorf("v[%d]=%v drifted away from rest", i, v)
		}
	}
}

func TestEulerAdvancesConfigurationByVelocityTimesDt(t *testing.T) {
	ms := pendulumState(t, []float64{0, 0}, []float64{1, 0})
	dt := scalar.Float64(0.001)
	q0 := append([]scalar.Float64(nil), ms.Configuration()...)

	if err := Euler(ms, []scalar.Float64{0, 0}, dt); err != nil {
		t.Fatalf("Euler: %v", err)
	}
	// To first order, q1 ~= q0 + v0*dt; over a single millisecond step the
	// acceleration's contribution is second-order small.
	got := float64(ms.Configuration()[0])
	want := float64(q0[0]) + 1*float64(dt)
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("q[0]=%v, want approximately %v", got, want)
	}
}

func TestSemiImplicitEulerConservesEnergyBetterThanEulerOverManySteps(t *testing.T) {
	dt := scalar.Float64(0.001)
	tau := []scalar.Float64{0, 0}
	steps := 500

	euler := pendulumState(t, []float64{0.5, 0.3}, []float64{0, 0})
	semi := pendulumState(t, []float64{0.5, 0.3}, []float64{0, 0})

	energyAt := func(ms *mechstate.MechanismState[scalar.Float64]) float64 {
		ke, err := ms.KineticEnergy()
		if err != nil {
			t.Fatalf("KineticEnergy: %v", err)
		}
		pe, err := ms.GravitationalPotentialEnergy()
		if err != nil {
			t.Fatalf("GravitationalPotentialEnergy: %v", err)
		}
		return float64(ke + pe)
	}

	e0 := energyAt(euler)
	for i := 0; i < steps; i++ {
		if err := Euler(euler, tau, dt); err != nil {
			t.Fatalf("Euler step %d: %v", i, err)
		}
		if err := SemiImplicitEuler(semi, tau, dt); err != nil {
			t.Fatalf("SemiImplicitEuler step %d: %v", i, err)
		}
	}

	eulerDrift := math.Abs(energyAt(euler) - e0)
	semiDrift := math.Abs(energyAt(semi) - e0)
	if semiDrift > eulerDrift {
		t.Errorf("expected semi-implicit Euler to drift less than explicit Euler: semi=%v euler=%v", semiDrift, eulerDrift)
	}
}
