package mechstate

import (
	"math"
	"testing"

	"github.com/san-kum/rbdsim/internal/config"
	"github.com/san-kum/rbdsim/internal/joint"
	"github.com/san-kum/rbdsim/internal/mechanism"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

func TestStateForReturnsSameInstanceUntilTopologyChanges(t *testing.T) {
	mech := config.Presets["double-pendulum"].Build()
	a := StateFor(mech, scalar.FromFloat64Backend)
	b := StateFor(mech, scalar.FromFloat64Backend)
	if a != b {
		t.Error("expected StateFor to return the same memoized instance for an unchanged mechanism")
	}
}

func TestZeroConfigurationHasZeroVelocityAndRestKinematics(t *testing.T) {
	mech := config.Presets["double-pendulum"].Build()
	ms := StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()

	for i, v := range ms.Velocity() {
		if v != 0 {
			t.Errorf("v[%d]=%v, want 0 after Zero", i, v)
		}
	}
	twist, err := ms.TwistWrtWorld(1)
	if err != nil {
		t.Fatalf("TwistWrtWorld: %v", err)
	}
	for i := 0; i < 3; i++ {
		if twist.Angular[i] != 0 || twist.Linear[i] != 0 {
			t.Errorf("expected zero twist at rest, got angular=%v linear=%v", twist.Angular, twist.Linear)
		}
	}
}

func TestSetConfigurationInvalidatesDerivedTwist(t *testing.T) {
	// The hip yaw (about z) feeds the thigh's pitch joint (about y), so the
	// thigh's twist in its own frame depends on the pitch angle.
	mech := config.Presets["quadruped-leg"].Build()
	ms := StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()
	if err := ms.SetVelocity([]scalar.Float64{1, 0, 0}); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}
	first, err := ms.TwistWrtWorld(2)
	if err != nil {
		t.Fatalf("TwistWrtWorld: %v", err)
	}

	if err := ms.SetConfiguration([]scalar.Float64{0, 0.7, 0}); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}
	second, err := ms.TwistWrtWorld(2)
	if err != nil {
		t.Fatalf("TwistWrtWorld: %v", err)
	}
	if first == second {
		t.Error("expected the cached twist to change after SetConfiguration moved the joint")
	}
}

func TestKineticEnergyIsZeroAtRest(t *testing.T) {
	mech := config.Presets["double-pendulum"].Build()
	ms := StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()
	ke, err := ms.KineticEnergy()
	if err != nil {
		t.Fatalf("KineticEnergy: %v", err)
	}
	if ke != 0 {
		t.Errorf("expected zero kinetic energy at rest, got %v", ke)
	}
}

func TestKineticEnergyIsPositiveWhenMoving(t *testing.T) {
	mech := config.Presets["double-pendulum"].Build()
	ms := StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()
	if err := ms.SetVelocity([]scalar.Float64{0.5, -0.3}); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}
	ke, err := ms.KineticEnergy()
	if err != nil {
		t.Fatalf("KineticEnergy: %v", err)
	}
	if float64(ke) <= 0 {
		t.Errorf("expected strictly positive kinetic energy while moving, got %v", ke)
	}
}

func TestTotalMomentumIsZeroAtRest(t *testing.T) {
	mech := config.Presets["double-pendulum"].Build()
	ms := StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()
	m, err := ms.TotalMomentum()
	if err != nil {
		t.Fatalf("TotalMomentum: %v", err)
	}
	for i := 0; i < 3; i++ {
		if m.Angular[i] != 0 || m.Linear[i] != 0 {
			t.Errorf("expected zero momentum at rest, got angular=%v linear=%v", m.Angular, m.Linear)
		}
	}
}

func TestTotalMomentumIsNonzeroWhenMoving(t *testing.T) {
	mech := config.Presets["double-pendulum"].Build()
	ms := StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()
	if err := ms.SetVelocity([]scalar.Float64{0.5, -0.3}); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}
	m, err := ms.TotalMomentum()
	if err != nil {
		t.Fatalf("TotalMomentum: %v", err)
	}
	if m.Angular[1] == 0 {
		t.Errorf("expected nonzero angular momentum about the hinge axis while moving, got %v", m.Angular)
	}
}

func TestNormalizeConfigurationIsIdempotentOnMechanismState(t *testing.T) {
	mech := config.Presets["free-floating-body"].Build()
	ms := StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()
	q := append([]scalar.Float64(nil), ms.Configuration()...)
	q[0] = 3 // perturb the quaternion's w component away from unit norm
	if err := ms.SetConfiguration(q); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}

	ms.NormalizeConfiguration()
	once := append([]scalar.Float64(nil), ms.Configuration()...)
	ms.NormalizeConfiguration()
	for i, v := range ms.Configuration() {
		if math.Abs(float64(v-once[i])) > 1e-12 {
			t.Errorf("NormalizeConfiguration not idempotent at %d: %v vs %v", i, v, once[i])
		}
	}
}

func TestRelativeAccelerationOfABodyWithItselfIsZero(t *testing.T) {
	mech := config.Presets["double-pendulum"].Build()
	ms := StateFor(mech, scalar.FromFloat64Backend)
	if err := ms.SetConfiguration([]scalar.Float64{0.4, -0.3}); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}
	if err := ms.SetVelocity([]scalar.Float64{0.2, 0.1}); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}

	zero := make([]scalar.Float64, ms.NV())
	accels, err := ms.Accelerations(zero)
	if err != nil {
		t.Fatalf("Accelerations: %v", err)
	}

	rel, err := ms.RelativeAcceleration(2, 2, accels)
	if err != nil {
		t.Fatalf("RelativeAcceleration: %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(float64(rel.Angular[i])) > 1e-12 || math.Abs(float64(rel.Linear[i])) > 1e-12 {
			t.Errorf("expected zero self-relative acceleration, got angular=%v linear=%v", rel.Angular, rel.Linear)
		}
	}
}

func TestStaleStateAfterTopologyChangeIsRejected(t *testing.T) {
	mech := config.Presets["double-pendulum"].Build()
	ms := StateFor(mech, scalar.FromFloat64Backend)

	if _, _, err := mech.Attach(mech.RootBody(), joint.Revolute([3]float64{0, 0, 1}), "extra", mechanism.BodyInertia{Mass: 1}, "extra-body", spatial.Frame(0), spatial.Frame(99)); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	if err := ms.SetVelocity([]scalar.Float64{0, 0}); err == nil {
		t.Error("expected the old MechanismState to reject writes after the mechanism's topology changed")
	}

	fresh := StateFor(mech, scalar.FromFloat64Backend)
	if fresh == ms {
		t.Error("expected StateFor to hand back a fresh instance after a topology change")
	}
}
