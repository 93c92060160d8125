package spatial

import (
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// Twist is a spatial velocity: the relative velocity of Body with respect
// to Base, expressed in ExpressedIn (spec.md §3's "body-frame, base-frame,
// expressed-in-frame" convention).
type Twist[T scalar.Scalar[T]] struct {
	Body, Base, ExpressedIn Frame
	Angular, Linear         Vec3[T]
}

func ZeroTwist[T scalar.Scalar[T]](body, base, expressedIn Frame, conv scalar.FromFloat64[T]) Twist[T] {
	z := ZeroVec3[T](conv)
	return Twist[T]{Body: body, Base: base, ExpressedIn: expressedIn, Angular: z, Linear: z}
}

// Add composes two twists of the same body/base/expressed-in triple,
// e.g. summing per-joint contributions along a kinematic chain.
func (a Twist[T]) Add(b Twist[T]) (Twist[T], error) {
	if a.ExpressedIn != b.ExpressedIn {
		return Twist[T]{}, &rbderrors.FrameMismatch{Op: "Twist.Add", Expected: int(a.ExpressedIn), Got: int(b.ExpressedIn)}
	}
	return Twist[T]{Body: a.Body, Base: a.Base, ExpressedIn: a.ExpressedIn,
		Angular: a.Angular.Add(b.Angular), Linear: a.Linear.Add(b.Linear)}, nil
}

// Compose chains two twists: the twist of c wrt b, plus the twist of b wrt
// a (both expressed in the same frame), gives the twist of c wrt a.
func (ab Twist[T]) Compose(bc Twist[T]) (Twist[T], error) {
	if ab.ExpressedIn != bc.ExpressedIn {
		return Twist[T]{}, &rbderrors.FrameMismatch{Op: "Twist.Compose", Expected: int(ab.ExpressedIn), Got: int(bc.ExpressedIn)}
	}
	if ab.Body != bc.Base {
		return Twist[T]{}, &rbderrors.FrameMismatch{Op: "Twist.Compose", Expected: int(ab.Body), Got: int(bc.Base)}
	}
	return Twist[T]{Body: bc.Body, Base: ab.Base, ExpressedIn: ab.ExpressedIn,
		Angular: ab.Angular.Add(bc.Angular), Linear: ab.Linear.Add(bc.Linear)}, nil
}

// CrossMotion computes the spatial cross product of two motion vectors
// (twists), used to build bias accelerations: v x v'.
func (a Twist[T]) CrossMotion(b Twist[T], conv scalar.FromFloat64[T]) (SpatialAcceleration[T], error) {
	if a.ExpressedIn != b.ExpressedIn {
		return SpatialAcceleration[T]{}, &rbderrors.FrameMismatch{Op: "Twist.CrossMotion", Expected: int(a.ExpressedIn), Got: int(b.ExpressedIn)}
	}
	angular := a.Angular.Cross(b.Angular)
	linear := a.Angular.Cross(b.Linear).Add(a.Linear.Cross(b.Angular))
	return SpatialAcceleration[T]{Body: b.Body, Base: b.Base, ExpressedIn: a.ExpressedIn, Angular: angular, Linear: linear}, nil
}

// CrossForce computes the spatial cross product of a motion vector (twist)
// with a force vector (wrench): v x* f, used in the RNEA reverse pass and
// in bias-force computations.
func (a Twist[T]) CrossForce(w Wrench[T]) (Wrench[T], error) {
	if a.ExpressedIn != w.ExpressedIn {
		return Wrench[T]{}, &rbderrors.FrameMismatch{Op: "Twist.CrossForce", Expected: int(a.ExpressedIn), Got: int(w.ExpressedIn)}
	}
	angular := a.Angular.Cross(w.Angular).Add(a.Linear.Cross(w.Linear))
	linear := a.Angular.Cross(w.Linear)
	return Wrench[T]{Body: w.Body, Base: w.Base, ExpressedIn: a.ExpressedIn, Angular: angular, Linear: linear}, nil
}
