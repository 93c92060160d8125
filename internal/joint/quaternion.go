package joint

import (
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// quat is an internal (w, x, y, z) unit-quaternion representation shared by
// quaternionFloating and spquatFloating, which differ only in how their
// configuration parameters map onto it.
type quat[T scalar.Scalar[T]] struct {
	W, X, Y, Z T
}

func quatToRotation[T scalar.Scalar[T]](q quat[T], conv scalar.FromFloat64[T]) spatial.Mat3[T] {
	two := conv(2)
	w, x, y, z := q.W, q.X, q.Y, q.Z
	xx, yy, zz := x.Mul(x), y.Mul(y), z.Mul(z)
	xy, xz, yz := x.Mul(y), x.Mul(z), y.Mul(z)
	wx, wy, wz := w.Mul(x), w.Mul(y), w.Mul(z)
	one := scalar.One(conv)
	return spatial.Mat3[T]{
		{one.Sub(two.Mul(yy.Add(zz))), two.Mul(xy.Sub(wz)), two.Mul(xz.Add(wy))},
		{two.Mul(xy.Add(wz)), one.Sub(two.Mul(xx.Add(zz))), two.Mul(yz.Sub(wx))},
		{two.Mul(xz.Sub(wy)), two.Mul(yz.Add(wx)), one.Sub(two.Mul(xx.Add(yy)))},
	}
}

// quatRateFromBodyAngularVelocity returns q_dot = 0.5 * q (x) (0, omega),
// the standard quaternion kinematic differential equation for a body-frame
// angular velocity.
func quatRateFromBodyAngularVelocity[T scalar.Scalar[T]](q quat[T], omega spatial.Vec3[T], conv scalar.FromFloat64[T]) quat[T] {
	half := scalar.One(conv).Quo(conv(2))
	wx, wy, wz := omega[0], omega[1], omega[2]
	wDot := q.X.Mul(wx).Add(q.Y.Mul(wy)).Add(q.Z.Mul(wz)).Neg()
	xDot := q.W.Mul(wx).Add(q.Y.Mul(wz)).Sub(q.Z.Mul(wy))
	yDot := q.W.Mul(wy).Sub(q.X.Mul(wz)).Add(q.Z.Mul(wx))
	zDot := q.W.Mul(wz).Add(q.X.Mul(wy)).Sub(q.Y.Mul(wx))
	return quat[T]{W: wDot.Mul(half), X: xDot.Mul(half), Y: yDot.Mul(half), Z: zDot.Mul(half)}
}

// quatAngularVelocityJacobian returns the 4x3 matrix E such that
// q_dot = E * omega, i.e. 0.5 times the coefficient matrix implicit in
// quatRateFromBodyAngularVelocity.
func quatAngularVelocityJacobian[T scalar.Scalar[T]](q quat[T], conv scalar.FromFloat64[T]) [][]T {
	half := scalar.One(conv).Quo(conv(2))
	w, x, y, z := q.W, q.X, q.Y, q.Z
	row := func(a, b, c T) []T { return []T{a.Mul(half), b.Mul(half), c.Mul(half)} }
	return [][]T{
		row(x.Neg(), y.Neg(), z.Neg()),
		row(w, z.Neg(), y),
		row(z, w, x.Neg()),
		row(y.Neg(), x, w),
	}
}
