package dynamics

import (
	"github.com/san-kum/rbdsim/internal/contact"
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// Result bundles the outputs of a single dynamics evaluation at a
// mechanism's current (q, v): the mass matrix, the velocity/gravity bias,
// the resulting joint accelerations and applied torques, and -- whenever
// the mechanism carries loop-closure joints or was evaluated with contact
// points -- the constraint multipliers and per-body contact wrenches that
// went into computing them (spec.md §3's DynamicsResult, §4.5's "Result
// objects and contact glue"). The CLI's `step` subcommand consumes this
// rather than calling MassMatrix/DynamicsBias/ForwardDynamics separately;
// the integrators call ForwardDynamics directly.
type Result[T scalar.Scalar[T]] struct {
	MassMatrix [][]T
	Bias       []T
	Qddot      []T
	Tau        []T

	// Lambda holds one entry per loop-closure constraint row, in
	// ConstraintJacobian's row order; nil when the mechanism has no
	// non-tree joints.
	Lambda []T

	// ContactWrenches holds each contact point's resolved wrench, keyed by
	// body id and expressed in that body's own frame; nil unless the
	// evaluation went through EvaluateWithContacts.
	ContactWrenches map[int]spatial.Wrench[T]
}

// Evaluate runs forward dynamics for the given applied joint forces tau at
// the mechanism's current state, via ForwardDynamicsFull, and reports
// whatever loop-closure multipliers that solve produced.
func Evaluate[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], tau []T) (Result[T], error) {
	m, err := MassMatrix(ms)
	if err != nil {
		return Result[T]{}, err
	}
	bias, err := DynamicsBias(ms)
	if err != nil {
		return Result[T]{}, err
	}
	qddot, lambda, err := ForwardDynamicsFull(ms, tau)
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{MassMatrix: m, Bias: bias, Qddot: qddot, Tau: tau, Lambda: lambda}, nil
}

// EvaluateWithContacts is Evaluate plus contact.UpdateContactState's inline
// hook (SPEC_FULL's dynamics! design note): each contact point's
// normal/friction wrench is computed from the mechanism's current cached
// twists and folded into InverseDynamics's per-body external wrenches
// before the bias term and the (possibly loop-closure-constrained)
// forward-dynamics solve are built, so an active contact actually pushes
// back on the mechanism instead of the contact package sitting unimported.
func EvaluateWithContacts[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], tau []T, points []contact.Point[T]) (Result[T], error) {
	wrenches, _, err := contact.UpdateContactState(ms, points)
	if err != nil {
		return Result[T]{}, err
	}

	m, err := MassMatrix(ms)
	if err != nil {
		return Result[T]{}, err
	}
	bias, err := DynamicsBias(ms, wrenches)
	if err != nil {
		return Result[T]{}, err
	}
	rows, crhs, err := ConstraintJacobian(ms)
	if err != nil {
		return Result[T]{}, err
	}
	qddot, lambda, err := ForwardDynamicsConstrained(tau, bias, m, rows, crhs, ms.Conv())
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{
		MassMatrix: m, Bias: bias, Qddot: qddot, Tau: tau,
		Lambda: lambda, ContactWrenches: wrenches,
	}, nil
}
