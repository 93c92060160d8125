package spatial

import (
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// SpatialInertia is a rigid body's inertia about Frame's origin, expressed
// in Frame: a symmetric PSD 3x3 moment, a first moment (mass times center
// of mass), and a mass (spec.md §3).
type SpatialInertia[T scalar.Scalar[T]] struct {
	Frame       Frame
	Moment      Mat3[T]
	FirstMoment Vec3[T]
	Mass        T
}

// NewSpatialInertia symmetrizes the moment on construction, per spec.md
// §4.1's numerics rule.
func NewSpatialInertia[T scalar.Scalar[T]](frame Frame, moment Mat3[T], firstMoment Vec3[T], mass T, conv scalar.FromFloat64[T]) (SpatialInertia[T], error) {
	zero := scalar.Zero(conv)
	if mass.Cmp(zero) < 0 {
		return SpatialInertia[T]{}, &rbderrors.Argument{Op: "NewSpatialInertia", Message: "mass must be non-negative"}
	}
	return SpatialInertia[T]{Frame: frame, Moment: moment.Symmetrize(conv), FirstMoment: firstMoment, Mass: mass}, nil
}

func ZeroSpatialInertia[T scalar.Scalar[T]](frame Frame, conv scalar.FromFloat64[T]) SpatialInertia[T] {
	return SpatialInertia[T]{Frame: frame, Moment: Mat3[T]{}, FirstMoment: ZeroVec3[T](conv), Mass: scalar.Zero(conv)}
}

// Add sums two spatial inertias in the same frame -- associative, per
// spec.md §3's invariant.
func (a SpatialInertia[T]) Add(b SpatialInertia[T]) (SpatialInertia[T], error) {
	if a.Frame != b.Frame {
		return SpatialInertia[T]{}, &rbderrors.FrameMismatch{Op: "SpatialInertia.Add", Expected: int(a.Frame), Got: int(b.Frame)}
	}
	return SpatialInertia[T]{
		Frame:       a.Frame,
		Moment:      a.Moment.Add(b.Moment),
		FirstMoment: a.FirstMoment.Add(b.FirstMoment),
		Mass:        a.Mass.Add(b.Mass),
	}, nil
}

// MulTwist computes the momentum h = I * v for a twist expressed in the
// same frame as the inertia (spec.md §4.1: "inertia × motion → momentum").
func (si SpatialInertia[T]) MulTwist(t Twist[T]) (Momentum[T], error) {
	if si.Frame != t.ExpressedIn {
		return Momentum[T]{}, &rbderrors.FrameMismatch{Op: "SpatialInertia.MulTwist", Expected: int(si.Frame), Got: int(t.ExpressedIn)}
	}
	angular := si.Moment.MulVec(t.Angular).Add(si.FirstMoment.Cross(t.Linear))
	linear := t.Linear.Scale(si.Mass).Sub(si.FirstMoment.Cross(t.Angular))
	return Momentum[T]{Body: t.Body, ExpressedIn: si.Frame, Angular: angular, Linear: linear}, nil
}

// MulAcceleration computes the fictitious wrench I * a for a spatial
// acceleration expressed in the same frame, used by RNEA's forward pass.
func (si SpatialInertia[T]) MulAcceleration(a SpatialAcceleration[T]) (Wrench[T], error) {
	if si.Frame != a.ExpressedIn {
		return Wrench[T]{}, &rbderrors.FrameMismatch{Op: "SpatialInertia.MulAcceleration", Expected: int(si.Frame), Got: int(a.ExpressedIn)}
	}
	angular := si.Moment.MulVec(a.Angular).Add(si.FirstMoment.Cross(a.Linear))
	linear := a.Linear.Scale(si.Mass).Sub(si.FirstMoment.Cross(a.Angular))
	return Wrench[T]{Body: a.Body, Base: a.Base, ExpressedIn: si.Frame, Angular: angular, Linear: linear}, nil
}

// CenterOfMass returns the first moment divided by mass; callers must
// guard mass == 0 (the root body's inertia, per spec.md §3, "the root
// body has no inertia").
func (si SpatialInertia[T]) CenterOfMass(conv scalar.FromFloat64[T]) Vec3[T] {
	one := scalar.One(conv)
	return si.FirstMoment.Scale(one.Quo(si.Mass))
}
