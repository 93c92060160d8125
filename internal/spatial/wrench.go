package spatial

import (
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// Wrench is a spatial force: torque + linear force applied by Base on Body,
// expressed in ExpressedIn.
type Wrench[T scalar.Scalar[T]] struct {
	Body, Base, ExpressedIn Frame
	Angular, Linear         Vec3[T]
}

func ZeroWrench[T scalar.Scalar[T]](body, base, expressedIn Frame, conv scalar.FromFloat64[T]) Wrench[T] {
	z := ZeroVec3[T](conv)
	return Wrench[T]{Body: body, Base: base, ExpressedIn: expressedIn, Angular: z, Linear: z}
}

func (a Wrench[T]) Add(b Wrench[T]) (Wrench[T], error) {
	if a.ExpressedIn != b.ExpressedIn {
		return Wrench[T]{}, &rbderrors.FrameMismatch{Op: "Wrench.Add", Expected: int(a.ExpressedIn), Got: int(b.ExpressedIn)}
	}
	return Wrench[T]{Body: a.Body, Base: a.Base, ExpressedIn: a.ExpressedIn,
		Angular: a.Angular.Add(b.Angular), Linear: a.Linear.Add(b.Linear)}, nil
}

func (a Wrench[T]) Sub(b Wrench[T]) (Wrench[T], error) {
	if a.ExpressedIn != b.ExpressedIn {
		return Wrench[T]{}, &rbderrors.FrameMismatch{Op: "Wrench.Sub", Expected: int(a.ExpressedIn), Got: int(b.ExpressedIn)}
	}
	return Wrench[T]{Body: a.Body, Base: a.Base, ExpressedIn: a.ExpressedIn,
		Angular: a.Angular.Sub(b.Angular), Linear: a.Linear.Sub(b.Linear)}, nil
}

// Dot computes the mechanical power a wrench delivers against a twist
// expressed in the same frame: τ·ω + f·v.
func (a Wrench[T]) Dot(t Twist[T]) (T, error) {
	var zero T
	if a.ExpressedIn != t.ExpressedIn {
		return zero, &rbderrors.FrameMismatch{Op: "Wrench.Dot", Expected: int(a.ExpressedIn), Got: int(t.ExpressedIn)}
	}
	return a.Angular.Dot(t.Angular).Add(a.Linear.Dot(t.Linear)), nil
}
