package contact

import (
	"math"
	"testing"

	"github.com/san-kum/rbdsim/internal/joint"
	"github.com/san-kum/rbdsim/internal/mechanism"
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// constModel is a fixed-force stand-in for HuntCrossley/CoulombFriction,
// used so a test can check UpdateContactState's wrench bookkeeping without
// depending on either force law's exact shape.
type constModel struct{ normal, friction scalar.Float64 }

func (constModel) StateSize() int      { return 0 }
func (constModel) ZeroState(s []scalar.Float64) {}
func (m constModel) Force(_, _, _ scalar.Float64, _ []scalar.Float64) (scalar.Float64, scalar.Float64, []scalar.Float64) {
	return m.normal, m.friction, nil
}

func slidingBodyMechanism(t *testing.T) (*mechanism.Mechanism, *mechanism.RigidBody) {
	t.Helper()
	mech := mechanism.New([3]float64{0, 0, -9.81})
	root := mech.RootBody()
	inertia := mechanism.BodyInertia{Mass: 1, Moment: [3][3]float64{{0.1, 0, 0}, {0, 0.1, 0}, {0, 0, 0.1}}}
	body, _, err := mech.Attach(root, joint.Prismatic([3]float64{0, 0, 1}), "slider", inertia, "block", spatial.Frame(0), spatial.Frame(1))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	return mech, body
}

func TestUpdateContactStateAppliesNormalForceWhenPenetrating(t *testing.T) {
	mech, body := slidingBodyMechanism(t)
	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()

	points := []Point[scalar.Float64]{
		{Name: "foot", BodyID: body.ID, Location: [3]float64{0, 0, 0}, Normal: [3]float64{0, 0, 1}, PlaneOffset: 5, Model: constModel{normal: 3}},
	}
	wrenches, rate, err := UpdateContactState(ms, points)
	if err != nil {
		t.Fatalf("UpdateContactState: %v", err)
	}
	if len(rate) != 0 {
		t.Errorf("expected no state derivative for a stateless model, got %v", rate)
	}
	w, ok := wrenches[body.ID]
	if !ok {
		t.Fatalf("expected a wrench recorded for body %d", body.ID)
	}
	if math.Abs(float64(w.Linear[2])-3) > 1e-9 {
		t.Errorf("expected the contact's normal force to land on the body's Z axis, got %v", w.Linear)
	}
}

func TestUpdateContactStateSumsMultiplePointsOnSameBody(t *testing.T) {
	mech, body := slidingBodyMechanism(t)
	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()

	points := []Point[scalar.Float64]{
		{Name: "toe", BodyID: body.ID, Location: [3]float64{0, 0, 0}, Normal: [3]float64{0, 0, 1}, PlaneOffset: 5, Model: constModel{normal: 2}},
		{Name: "heel", BodyID: body.ID, Location: [3]float64{0, 0, 0}, Normal: [3]float64{0, 0, 1}, PlaneOffset: 5, Model: constModel{normal: 4}},
	}
	wrenches, _, err := UpdateContactState(ms, points)
	if err != nil {
		t.Fatalf("UpdateContactState: %v", err)
	}
	w := wrenches[body.ID]
	if math.Abs(float64(w.Linear[2])-6) > 1e-9 {
		t.Errorf("expected the two points' normal forces to sum to 6, got %v", w.Linear[2])
	}
}

func TestUpdateContactStateProducesNoWrenchAboveTheSurface(t *testing.T) {
	mech, body := slidingBodyMechanism(t)
	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	ms.Zero()

	points := []Point[scalar.Float64]{
		{Name: "foot", BodyID: body.ID, Location: [3]float64{0, 0, 0}, Normal: [3]float64{0, 0, 1}, PlaneOffset: -5, Model: constModel{normal: 0}},
	}
	wrenches, _, err := UpdateContactState(ms, points)
	if err != nil {
		t.Fatalf("UpdateContactState: %v", err)
	}
	w := wrenches[body.ID]
	for i := 0; i < 3; i++ {
		if w.Linear[i] != 0 || w.Angular[i] != 0 {
			t.Errorf("expected zero wrench when the model reports zero force, got angular=%v linear=%v", w.Angular, w.Linear)
		}
	}
}
