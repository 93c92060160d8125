package spatial

import "github.com/san-kum/rbdsim/internal/scalar"

// Vec3 is a 3-vector over a generic scalar. Go has no operator overloading,
// so arithmetic is spelled out via T's own methods (see internal/scalar).
type Vec3[T scalar.Scalar[T]] [3]T

func ZeroVec3[T scalar.Scalar[T]](conv scalar.FromFloat64[T]) Vec3[T] {
	z := scalar.Zero(conv)
	return Vec3[T]{z, z, z}
}

func (a Vec3[T]) Add(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a[0].Add(b[0]), a[1].Add(b[1]), a[2].Add(b[2])}
}

func (a Vec3[T]) Sub(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a[0].Sub(b[0]), a[1].Sub(b[1]), a[2].Sub(b[2])}
}

func (a Vec3[T]) Neg() Vec3[T] {
	return Vec3[T]{a[0].Neg(), a[1].Neg(), a[2].Neg()}
}

func (a Vec3[T]) Scale(s T) Vec3[T] {
	return Vec3[T]{a[0].Mul(s), a[1].Mul(s), a[2].Mul(s)}
}

func (a Vec3[T]) Dot(b Vec3[T]) T {
	return a[0].Mul(b[0]).Add(a[1].Mul(b[1])).Add(a[2].Mul(b[2]))
}

// Cross computes the spatial cross-motion / cross-force product's linear
// 3-vector cross product (a x b).
func (a Vec3[T]) Cross(b Vec3[T]) Vec3[T] {
	return Vec3[T]{
		a[1].Mul(b[2]).Sub(a[2].Mul(b[1])),
		a[2].Mul(b[0]).Sub(a[0].Mul(b[2])),
		a[0].Mul(b[1]).Sub(a[1].Mul(b[0])),
	}
}

func (a Vec3[T]) Norm() T {
	return a.Dot(a).Sqrt()
}

// Mat3 is a row-major 3x3 matrix over a generic scalar, used for rotations
// and inertia moments.
type Mat3[T scalar.Scalar[T]] [3][3]T

func IdentityMat3[T scalar.Scalar[T]](conv scalar.FromFloat64[T]) Mat3[T] {
	z, o := scalar.Zero(conv), scalar.One(conv)
	return Mat3[T]{
		{o, z, z},
		{z, o, z},
		{z, z, o},
	}
}

func (m Mat3[T]) MulVec(v Vec3[T]) Vec3[T] {
	return Vec3[T]{
		m[0][0].Mul(v[0]).Add(m[0][1].Mul(v[1])).Add(m[0][2].Mul(v[2])),
		m[1][0].Mul(v[0]).Add(m[1][1].Mul(v[1])).Add(m[1][2].Mul(v[2])),
		m[2][0].Mul(v[0]).Add(m[2][1].Mul(v[1])).Add(m[2][2].Mul(v[2])),
	}
}

func (a Mat3[T]) Mul(b Mat3[T]) Mat3[T] {
	var out Mat3[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := a[i][0].Mul(b[0][j])
			sum = sum.Add(a[i][1].Mul(b[1][j]))
			sum = sum.Add(a[i][2].Mul(b[2][j]))
			out[i][j] = sum
		}
	}
	return out
}

func (a Mat3[T]) Add(b Mat3[T]) Mat3[T] {
	var out Mat3[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j].Add(b[i][j])
		}
	}
	return out
}

func (a Mat3[T]) Transpose() Mat3[T] {
	var out Mat3[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[j][i]
		}
	}
	return out
}

func (a Mat3[T]) Trace() T {
	return a[0][0].Add(a[1][1]).Add(a[2][2])
}

// Symmetrize returns (a + aᵀ)/2, used to enforce SpatialInertia's moment
// symmetry invariant on input (spec.md §4.1: "moments... symmetrised on
// input").
func (a Mat3[T]) Symmetrize(conv scalar.FromFloat64[T]) Mat3[T] {
	half := conv(0.5)
	sum := a.Add(a.Transpose())
	var out Mat3[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = sum[i][j].Mul(half)
		}
	}
	return out
}

// Skew returns the skew-symmetric cross-product matrix [v]x such that
// [v]x * w == v.Cross(w).
func Skew[T scalar.Scalar[T]](v Vec3[T], conv scalar.FromFloat64[T]) Mat3[T] {
	z := scalar.Zero(conv)
	return Mat3[T]{
		{z, v[2].Neg(), v[1]},
		{v[2], z, v[0].Neg()},
		{v[1].Neg(), v[0], z},
	}
}

// RotationAboutAxis builds the rotation matrix for a right-handed rotation
// of angle theta about a unit axis, via Rodrigues' formula. Every joint
// variant that rotates about a fixed axis (Revolute, SinCosRevolute) uses
// this to build its joint transform.
func RotationAboutAxis[T scalar.Scalar[T]](axis Vec3[T], sinTheta, cosTheta T, conv scalar.FromFloat64[T]) Mat3[T] {
	one := scalar.One(conv)
	k := Skew(axis, conv)
	kk := k.Mul(k)
	oneMinusCos := one.Sub(cosTheta)

	ident := IdentityMat3[T](conv)
	term2 := scaleMat3(k, sinTheta)
	term3 := scaleMat3(kk, oneMinusCos)

	return ident.Add(term2).Add(term3)
}

func scaleMat3[T scalar.Scalar[T]](m Mat3[T], s T) Mat3[T] {
	var out Mat3[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j].Mul(s)
		}
	}
	return out
}
