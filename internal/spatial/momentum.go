package spatial

import (
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// Momentum is a spatial momentum: angular (about ExpressedIn's origin) and
// linear momentum of Body, expressed in ExpressedIn.
type Momentum[T scalar.Scalar[T]] struct {
	Body, ExpressedIn Frame
	Angular, Linear   Vec3[T]
}

func ZeroMomentum[T scalar.Scalar[T]](body, expressedIn Frame, conv scalar.FromFloat64[T]) Momentum[T] {
	z := ZeroVec3[T](conv)
	return Momentum[T]{Body: body, ExpressedIn: expressedIn, Angular: z, Linear: z}
}

func (a Momentum[T]) Add(b Momentum[T]) (Momentum[T], error) {
	if a.ExpressedIn != b.ExpressedIn {
		return Momentum[T]{}, &rbderrors.FrameMismatch{Op: "Momentum.Add", Expected: int(a.ExpressedIn), Got: int(b.ExpressedIn)}
	}
	return Momentum[T]{Body: a.Body, ExpressedIn: a.ExpressedIn,
		Angular: a.Angular.Add(b.Angular), Linear: a.Linear.Add(b.Linear)}, nil
}
