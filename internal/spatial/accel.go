package spatial

import (
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// SpatialAcceleration is the time derivative of a Twist, sharing its frame
// convention.
type SpatialAcceleration[T scalar.Scalar[T]] struct {
	Body, Base, ExpressedIn Frame
	Angular, Linear         Vec3[T]
}

func ZeroSpatialAcceleration[T scalar.Scalar[T]](body, base, expressedIn Frame, conv scalar.FromFloat64[T]) SpatialAcceleration[T] {
	z := ZeroVec3[T](conv)
	return SpatialAcceleration[T]{Body: body, Base: base, ExpressedIn: expressedIn, Angular: z, Linear: z}
}

func (a SpatialAcceleration[T]) Add(b SpatialAcceleration[T]) (SpatialAcceleration[T], error) {
	if a.ExpressedIn != b.ExpressedIn {
		return SpatialAcceleration[T]{}, &rbderrors.FrameMismatch{Op: "SpatialAcceleration.Add", Expected: int(a.ExpressedIn), Got: int(b.ExpressedIn)}
	}
	return SpatialAcceleration[T]{Body: a.Body, Base: a.Base, ExpressedIn: a.ExpressedIn,
		Angular: a.Angular.Add(b.Angular), Linear: a.Linear.Add(b.Linear)}, nil
}

// Compose chains two spatial accelerations the same way Twist.Compose does:
// the acceleration of b wrt a, plus the acceleration of c wrt b (both
// expressed in the same frame), gives the acceleration of c wrt a.
func (ab SpatialAcceleration[T]) Compose(bc SpatialAcceleration[T]) (SpatialAcceleration[T], error) {
	if ab.ExpressedIn != bc.ExpressedIn {
		return SpatialAcceleration[T]{}, &rbderrors.FrameMismatch{Op: "SpatialAcceleration.Compose", Expected: int(ab.ExpressedIn), Got: int(bc.ExpressedIn)}
	}
	if ab.Body != bc.Base {
		return SpatialAcceleration[T]{}, &rbderrors.FrameMismatch{Op: "SpatialAcceleration.Compose", Expected: int(ab.Body), Got: int(bc.Base)}
	}
	return SpatialAcceleration[T]{Body: bc.Body, Base: ab.Base, ExpressedIn: ab.ExpressedIn,
		Angular: ab.Angular.Add(bc.Angular), Linear: ab.Linear.Add(bc.Linear)}, nil
}

// GravitationalAcceleration builds the spatial acceleration injected at the
// root during inverse dynamics to account for gravity, per spec.md §4.5
// ("gravity injected at the root").
func GravitationalAcceleration[T scalar.Scalar[T]](frame Frame, gravity Vec3[T], conv scalar.FromFloat64[T]) SpatialAcceleration[T] {
	return SpatialAcceleration[T]{Body: frame, Base: frame, ExpressedIn: frame, Angular: ZeroVec3[T](conv), Linear: gravity.Neg()}
}
