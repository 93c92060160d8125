package config

import (
	"github.com/san-kum/rbdsim/internal/joint"
	"github.com/san-kum/rbdsim/internal/mechanism"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// Preset names a mechanism-building function and its default RunConfig,
// grounded on the teacher's Presets map of named per-model initial states
// (internal/config/presets.go) but building an actual mechanism.Mechanism
// rather than selecting a fixed-shape InitStateConfig.
type Preset struct {
	Name    string
	Build   func() *mechanism.Mechanism
	Default RunConfig
}

var Presets = map[string]Preset{
	"double-pendulum": {
		Name:    "double-pendulum",
		Build:   buildDoublePendulum,
		Default: RunConfig{Preset: "double-pendulum", Integrator: "rk4", Dt: 0.005, Duration: 20},
	},
	"acrobot": {
		Name:    "acrobot",
		Build:   buildAcrobot,
		Default: RunConfig{Preset: "acrobot", Integrator: "rk4", Dt: 0.005, Duration: 20},
	},
	"free-floating-body": {
		Name:    "free-floating-body",
		Build:   buildFreeFloatingBody,
		Default: RunConfig{Preset: "free-floating-body", Integrator: "rk4", Dt: 0.01, Duration: 10},
	},
	"quadruped-leg": {
		Name:    "quadruped-leg",
		Build:   buildQuadrupedLeg,
		Default: RunConfig{Preset: "quadruped-leg", Integrator: "rk4", Dt: 0.005, Duration: 10},
	},
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

// PresetDims returns a built mechanism's total nq/nv, the flat sizes its
// MechanismState[T]'s Configuration/Velocity vectors will have.
func PresetDims(mech *mechanism.Mechanism) (nq, nv int) {
	for _, j := range mech.TreeJoints() {
		nq += j.Spec.NQ()
		nv += j.Spec.NV()
	}
	return nq, nv
}

func linkInertia(mass, length float64) mechanism.BodyInertia {
	// A slender rod of the given length and uniform mass, about its
	// proximal end, inertia about the perpendicular axes only.
	i := mass * length * length / 3
	return mechanism.BodyInertia{
		Mass:        mass,
		FirstMoment: [3]float64{0, 0, mass * length / 2},
		Moment:      [3][3]float64{{i, 0, 0}, {0, i, 0}, {0, 0, 0}},
	}
}

// buildDoublePendulum is two revolute joints about the Y axis, each
// carrying a slender-rod link that points along +z at q = 0. Attach takes
// no joint offset, so the elbow axis passes through the root origin like
// the shoulder's rather than through the tip of link1.
func buildDoublePendulum() *mechanism.Mechanism {
	mech := mechanism.New([3]float64{0, 0, -9.81})
	root := mech.RootBody()
	axis := [3]float64{0, 1, 0}
	link1, _, _ := mech.Attach(root, joint.Revolute(axis), "shoulder", linkInertia(1.0, 1.0), "link1", spatial.Frame(0), spatial.Frame(1))
	mech.Attach(link1, joint.Revolute(axis), "elbow", linkInertia(1.0, 1.0), "link2", spatial.Frame(1), spatial.Frame(2))
	return mech
}

// buildAcrobot shares the double pendulum's topology; it is the same
// two-link chain, actuated only at the elbow joint (a convention the
// caller, not the mechanism, enforces by zeroing the shoulder's applied
// torque).
func buildAcrobot() *mechanism.Mechanism {
	return buildDoublePendulum()
}

// buildFreeFloatingBody is a single rigid body attached to the world by a
// quaternion-floating joint: no actuation, gravity only, the canonical
// free-fall / momentum-conservation scenario.
func buildFreeFloatingBody() *mechanism.Mechanism {
	mech := mechanism.New([3]float64{0, 0, -9.81})
	root := mech.RootBody()
	body := mechanism.BodyInertia{
		Mass:        2.0,
		FirstMoment: [3]float64{0, 0, 0},
		Moment:      [3][3]float64{{0.4, 0, 0}, {0, 0.4, 0}, {0, 0, 0.4}},
	}
	mech.Attach(root, joint.QuaternionFloating(), "base", body, "body", spatial.Frame(0), spatial.Frame(1))
	return mech
}

// buildQuadrupedLeg is a three-revolute chain (hip yaw, hip pitch, knee
// pitch), the representative single-leg mechanism SPEC_FULL's domain-stack
// expansion asks for.
func buildQuadrupedLeg() *mechanism.Mechanism {
	mech := mechanism.New([3]float64{0, 0, -9.81})
	root := mech.RootBody()
	hipYaw, _, _ := mech.Attach(root, joint.Revolute([3]float64{0, 0, 1}), "hip_yaw", linkInertia(0.5, 0.1), "hip_link", spatial.Frame(0), spatial.Frame(1))
	hipPitch, _, _ := mech.Attach(hipYaw, joint.Revolute([3]float64{0, 1, 0}), "hip_pitch", linkInertia(1.0, 0.4), "thigh", spatial.Frame(1), spatial.Frame(2))
	mech.Attach(hipPitch, joint.Revolute([3]float64{0, 1, 0}), "knee_pitch", linkInertia(0.6, 0.4), "shin", spatial.Frame(2), spatial.Frame(3))
	return mech
}
