// Package spatial implements the frame-tagged spatial algebra primitives
// the mechanism, joint, and dynamics packages are built on: transforms,
// twists, spatial accelerations, wrenches, momenta, spatial inertia, and
// their Jacobian/matrix counterparts. Every quantity is generic over
// scalar.Scalar[T] (see internal/scalar) so the same algebra runs under
// plain floats, dual numbers, or symbolic expressions.
//
// Frame tags are dense small integers owned by the mechanism (spec.md §9),
// checked on every composition; a mismatch is reported as a
// rbderrors.FrameMismatch rather than silently producing a wrong answer.
package spatial

import "strconv"

// Frame is an opaque identifier tagging a coordinate frame. Two spatial
// quantities may only compose when their frame tags agree per the
// operation's rule.
type Frame int

const NoFrame Frame = -1

func (f Frame) String() string {
	if f == NoFrame {
		return "<no-frame>"
	}
	return "frame#" + strconv.Itoa(int(f))
}
