package spatial

import (
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// Transform represents a rigid transform from frame From to frame To:
// applying it to a point/vector expressed in From yields one expressed in
// To, i.e. Transform(to<-from) as spec.md §3 names it.
type Transform[T scalar.Scalar[T]] struct {
	From, To    Frame
	Rot         Mat3[T]
	Translation Vec3[T]
}

func IdentityTransform[T scalar.Scalar[T]](from, to Frame, conv scalar.FromFloat64[T]) Transform[T] {
	return Transform[T]{From: from, To: to, Rot: IdentityMat3[T](conv), Translation: ZeroVec3[T](conv)}
}

// Compose returns the transform from other.From to t.To, i.e. t after
// other. Requires other.To == t.From.
func (t Transform[T]) Compose(other Transform[T]) (Transform[T], error) {
	if other.To != t.From {
		return Transform[T]{}, &rbderrors.FrameMismatch{Op: "Transform.Compose", Expected: int(t.From), Got: int(other.To)}
	}
	return Transform[T]{
		From:        other.From,
		To:          t.To,
		Rot:         t.Rot.Mul(other.Rot),
		Translation: t.Rot.MulVec(other.Translation).Add(t.Translation),
	}, nil
}

// Inverse returns the transform from t.To to t.From.
func (t Transform[T]) Inverse() Transform[T] {
	rInv := t.Rot.Transpose()
	return Transform[T]{
		From:        t.To,
		To:          t.From,
		Rot:         rInv,
		Translation: rInv.MulVec(t.Translation).Neg(),
	}
}

// TransformPoint applies the transform to a point (translation included).
func (t Transform[T]) TransformPoint(p Vec3[T]) Vec3[T] {
	return t.Rot.MulVec(p).Add(t.Translation)
}

// TransformVector applies just the rotation (no translation), the rule for
// free vectors such as angular velocity.
func (t Transform[T]) TransformVector(v Vec3[T]) Vec3[T] {
	return t.Rot.MulVec(v)
}

// TransformTwist re-expresses a twist from t.From into t.To.
func (t Transform[T]) TransformTwist(tw Twist[T]) (Twist[T], error) {
	if tw.ExpressedIn != t.From {
		return Twist[T]{}, &rbderrors.FrameMismatch{Op: "Transform.TransformTwist", Expected: int(t.From), Got: int(tw.ExpressedIn)}
	}
	angular := t.Rot.MulVec(tw.Angular)
	linear := t.Rot.MulVec(tw.Linear).Add(t.Translation.Cross(angular))
	return Twist[T]{Body: tw.Body, Base: tw.Base, ExpressedIn: t.To, Angular: angular, Linear: linear}, nil
}

// TransformAcceleration re-expresses a spatial acceleration from t.From into
// t.To, treating it as a free spatial vector (the same algebra as
// TransformTwist). The velocity-coupling correction a rotating joint
// introduces is added separately by the caller via Twist.CrossMotion --
// spatial vector algebra defines spatial acceleration so that this rigid
// re-expression needs no extra term of its own.
func (t Transform[T]) TransformAcceleration(a SpatialAcceleration[T]) (SpatialAcceleration[T], error) {
	if a.ExpressedIn != t.From {
		return SpatialAcceleration[T]{}, &rbderrors.FrameMismatch{Op: "Transform.TransformAcceleration", Expected: int(t.From), Got: int(a.ExpressedIn)}
	}
	angular := t.Rot.MulVec(a.Angular)
	linear := t.Rot.MulVec(a.Linear).Add(t.Translation.Cross(angular))
	return SpatialAcceleration[T]{Body: a.Body, Base: a.Base, ExpressedIn: t.To, Angular: angular, Linear: linear}, nil
}

// TransformWrench re-expresses a wrench from t.From into t.To.
func (t Transform[T]) TransformWrench(w Wrench[T]) (Wrench[T], error) {
	if w.ExpressedIn != t.From {
		return Wrench[T]{}, &rbderrors.FrameMismatch{Op: "Transform.TransformWrench", Expected: int(t.From), Got: int(w.ExpressedIn)}
	}
	linear := t.Rot.MulVec(w.Linear)
	angular := t.Rot.MulVec(w.Angular).Add(t.Translation.Cross(linear))
	return Wrench[T]{Body: w.Body, Base: w.Base, ExpressedIn: t.To, Angular: angular, Linear: linear}, nil
}

// TransformMomentum re-expresses a spatial momentum from t.From into t.To.
// Momentum transforms exactly like a wrench (both are elements of the dual
// motion space): rotate the linear part, then rotate and shift the angular
// part by the translation's contribution to it.
func (t Transform[T]) TransformMomentum(p Momentum[T]) (Momentum[T], error) {
	if p.ExpressedIn != t.From {
		return Momentum[T]{}, &rbderrors.FrameMismatch{Op: "Transform.TransformMomentum", Expected: int(t.From), Got: int(p.ExpressedIn)}
	}
	linear := t.Rot.MulVec(p.Linear)
	angular := t.Rot.MulVec(p.Angular).Add(t.Translation.Cross(linear))
	return Momentum[T]{Body: p.Body, ExpressedIn: t.To, Angular: angular, Linear: linear}, nil
}

// TransformInertia relocates and re-expresses a spatial inertia from
// t.From into t.To.
func (t Transform[T]) TransformInertia(si SpatialInertia[T], conv scalar.FromFloat64[T]) (SpatialInertia[T], error) {
	if si.Frame != t.From {
		return SpatialInertia[T]{}, &rbderrors.FrameMismatch{Op: "Transform.TransformInertia", Expected: int(t.From), Got: int(si.Frame)}
	}
	// Rotate moment and first moment, then shift the reference point by the
	// translation using the parallel-axis-like relation for spatial inertia.
	rotatedMoment := t.Rot.Mul(si.Moment).Mul(t.Rot.Transpose())
	rotatedFirstMoment := t.Rot.MulVec(si.FirstMoment)

	c := t.Translation
	skewC := Skew(c, conv)
	// I' = I - m*(skew(c)*skew(c)) + skew(h)*skew(c) + skew(c)*skew(h)ᵀ style
	// parallel axis shift; h is the first moment (mass*com) already rotated.
	skewH := Skew(rotatedFirstMoment, conv)
	shifted := rotatedMoment.
		Add(scaleMat3(skewC.Mul(skewH), conv(-1))).
		Add(scaleMat3(skewH.Mul(skewC), conv(-1)))
	mc2 := scaleMat3(skewC.Mul(skewC), si.Mass)
	shifted = shifted.Sub(mc2)

	return SpatialInertia[T]{
		Frame:       t.To,
		Moment:      shifted.Symmetrize(conv),
		FirstMoment: rotatedFirstMoment.Add(c.Scale(si.Mass)),
		Mass:        si.Mass,
	}, nil
}

func (a Mat3[T]) Sub(b Mat3[T]) Mat3[T] {
	var out Mat3[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j].Sub(b[i][j])
		}
	}
	return out
}
