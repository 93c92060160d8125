// Package contact implements the pluggable contact-force interface spec.md
// §4.7 describes: a per-point state size, a zero-state initializer, and a
// force law mapping (penetration, penetration rate, tangential velocity,
// state) to (normal force, friction force, state rate). Two reference
// models are provided: Hunt-Crossley for the normal direction and a
// viscoelastic, bounded Coulomb law for tangential friction.
package contact

import "github.com/san-kum/rbdsim/internal/scalar"

// Model is the polymorphic contact force law spec.md's ContactPoint owns.
// Its state lives in the owning MechanismState's additional-state segment
// (spec.md §3's "s"), not inside the model itself, so the same Model value
// can be shared read-only across every contact point of the same material
// pairing.
type Model[T scalar.Scalar[T]] interface {
	// StateSize returns the per-contact-point additional-state width this
	// model needs.
	StateSize() int

	// ZeroState writes the model's initial per-point state into state.
	ZeroState(state []T)

	// Force computes the normal and friction forces (both scalars: normal
	// along the contact normal, friction a signed component along the
	// tangential-velocity direction, negative when it opposes the slip) at
	// the given penetration depth,
	// penetration rate, and tangential slip speed, plus the state
	// derivative to integrate state forward.
	Force(penetration, penetrationRate, tangentialVelocity T, state []T) (normal, friction T, stateRate []T)
}

// Point is one contact location: a body-fixed point (location, expressed
// in the body's own frame) checked against a half-space in the root frame
// -- the plane through PlaneOffset*Normal, with Normal its outward normal
// -- and paired with the force law applied there. It owns no state itself;
// MechanismState.AdditionalState carries the model's per-point state at
// StateOffset, per spec.md §3's "s is application-defined (used by
// contact)".
type Point[T scalar.Scalar[T]] struct {
	Name        string
	BodyID      int
	Location    [3]float64
	Normal      [3]float64
	PlaneOffset float64
	Model       Model[T]
	StateOffset int
}
