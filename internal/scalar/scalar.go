// Package scalar defines the numeric contract that spatial algebra, joint
// kinematics, and MechanismState are threaded over. It plays the role the
// teacher's dynamo.State/sim.State play for a bare ODE vector, but for a
// single scalar rather than a whole state vector: every quantity in this
// module is generic over a Scalar[T] so the same mechanism topology can be
// evaluated under plain floats, forward-mode dual numbers, or symbolic
// expressions without recomputing topology.
//
// Go has no operator overloading, so genericity here is method-based
// (F-bounded: T's own arithmetic methods return T) rather than the
// `~float64`-style underlying-type constraints used for plain numeric code.
package scalar

// Scalar is satisfied by any type that supports the arithmetic, transcendental,
// and comparison operations spatial algebra and joint kinematics need.
// Comparison and Float64 are used only for normalization thresholds and
// diagnostics, never for control flow that would need to branch identically
// across scalar backends.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Quo(T) T
	Neg() T
	Sqrt() T
	Sin() T
	Cos() T
	// Cmp returns -1, 0, or 1 comparing the receiver to other. For scalar
	// kinds without a total order (symbolic expressions) it compares the
	// best-effort numeric evaluation.
	Cmp(T) int
	// Float64 collapses the scalar to a plain float64, used only for
	// thresholds, logging, and export -- never for the dynamics math itself.
	Float64() float64
}

// FromFloat64 converts the mechanism's float64 inertia/topology parameters
// into a scalar type T. Every scalar backend supplies one; the cache
// registry uses it to build a MechanismState[T] the first time T is looked up.
type FromFloat64[T any] func(float64) T

// Zero and One are convenience builders parameterized by a backend's
// FromFloat64 conversion.
func Zero[T any](conv FromFloat64[T]) T { return conv(0) }
func One[T any](conv FromFloat64[T]) T  { return conv(1) }
