package contact

import (
	"math"
	"testing"

	"github.com/san-kum/rbdsim/internal/scalar"
)

func TestHuntCrossleyZeroAboveSurface(t *testing.T) {
	m := HuntCrossley[scalar.Float64]{Stiffness: 1000, Dissipation: 10, Conv: scalar.FromFloat64Backend}
	normal, friction, _ := m.Force(-0.01, 0, 0, nil)
	if normal != 0 || friction != 0 {
		t.Errorf("expected zero force above the surface (negative penetration), got normal=%v friction=%v", normal, friction)
	}
}

func TestHuntCrossleyIncreasesWithPenetration(t *testing.T) {
	m := HuntCrossley[scalar.Float64]{Stiffness: 1000, Dissipation: 0, Conv: scalar.FromFloat64Backend}
	shallow, _, _ := m.Force(0.001, 0, 0, nil)
	deep, _, _ := m.Force(0.01, 0, 0, nil)
	if deep <= shallow {
		t.Errorf("expected deeper penetration to produce more normal force: shallow=%v deep=%v", shallow, deep)
	}
}

func TestHuntCrossleyStateless(t *testing.T) {
	m := HuntCrossley[scalar.Float64]{Stiffness: 1, Dissipation: 1, Conv: scalar.FromFloat64Backend}
	if m.StateSize() != 0 {
		t.Errorf("expected HuntCrossley to carry no state, got size %d", m.StateSize())
	}
}

func TestCoulombFrictionSaturatesAtCoulombLimit(t *testing.T) {
	m := CoulombFriction[scalar.Float64]{Mu: 0.5, Stiffness: 1e6, Damping: 0, NormalForce: 10, Conv: scalar.FromFloat64Backend}
	state := []scalar.Float64{1.0} // large bristle deflection
	_, friction, _ := m.Force(0, 0, 0.01, state)
	limit := float64(m.Mu * m.NormalForce)
	if math.Abs(float64(friction)) > limit+1e-9 {
		t.Errorf("expected friction bounded by mu*N=%v, got %v", limit, friction)
	}
}

func TestCoulombFrictionSticksAtZeroSlip(t *testing.T) {
	m := CoulombFriction[scalar.Float64]{Mu: 0.5, Stiffness: 100, Damping: 0, NormalForce: 10, Conv: scalar.FromFloat64Backend}
	state := []scalar.Float64{0.2}
	_, _, rate := m.Force(0, 0, 0, state)
	if rate[0] != 0 {
		t.Errorf("expected bristle deflection to hold at zero slip velocity, got rate %v", rate[0])
	}
}

func TestCompositeThreadsNormalIntoFriction(t *testing.T) {
	friction := &CoulombFriction[scalar.Float64]{Mu: 0.3, Stiffness: 100, Damping: 0, Conv: scalar.FromFloat64Backend}
	c := Composite[scalar.Float64]{
		Normal:   HuntCrossley[scalar.Float64]{Stiffness: 1000, Dissipation: 0, Conv: scalar.FromFloat64Backend},
		Friction: friction,
	}
	state := make([]scalar.Float64, c.StateSize())
	c.ZeroState(state)

	normal, frictionForce, _ := c.Force(0.01, 0, 0.5, state)
	if normal <= 0 {
		t.Fatalf("expected positive normal force from penetration, got %v", normal)
	}
	limit := float64(friction.Mu) * float64(normal)
	if math.Abs(float64(frictionForce)) > limit+1e-6 {
		t.Errorf("expected friction bounded by mu*normal=%v, got %v", limit, frictionForce)
	}
}
