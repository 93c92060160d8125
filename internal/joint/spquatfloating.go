package joint

import (
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// spquatFloating is a minimal (3-parameter) floating joint using a
// stereographic-projection attitude parameterization (the modified
// Rodrigues parameter family): q = [p.x, p.y, p.z, pos.x, pos.y, pos.z]
// (nq = 6), v = [omega, vlin] (nv = 6), both expressed in the body's own
// (After) frame. Unlike QuaternionFloating this parameterization is
// unconstrained -- any p maps to a valid unit attitude -- so
// NormalizeConfiguration is a no-op; RigidBodyDynamics-style
// implementations instead switch to the "shadow" parameter set near the
// chart's singularity at 180 degrees, which this implementation does not
// perform.
type spquatFloating[T scalar.Scalar[T]] struct {
	before, after spatial.Frame
	conv          scalar.FromFloat64[T]
}

func (j *spquatFloating[T]) NQ() int               { return 6 }
func (j *spquatFloating[T]) NV() int               { return 6 }
func (j *spquatFloating[T]) Before() spatial.Frame { return j.before }
func (j *spquatFloating[T]) After() spatial.Frame  { return j.after }

func (j *spquatFloating[T]) pOf(q []T) spatial.Vec3[T] {
	return spatial.Vec3[T]{q[0], q[1], q[2]}
}

func (j *spquatFloating[T]) quatOf(p spatial.Vec3[T]) quat[T] {
	one, two := scalar.One(j.conv), j.conv(2)
	n := p.Dot(p)
	denom := one.Add(n)
	invDenom := one.Quo(denom)
	scaled := p.Scale(two.Mul(invDenom))
	return quat[T]{W: one.Sub(n).Mul(invDenom), X: scaled[0], Y: scaled[1], Z: scaled[2]}
}

func (j *spquatFloating[T]) Transform(q []T) spatial.Transform[T] {
	rot := quatToRotation(j.quatOf(j.pOf(q)), j.conv)
	pos := spatial.Vec3[T]{q[3], q[4], q[5]}
	afterFromBefore := spatial.Transform[T]{From: j.after, To: j.before, Rot: rot, Translation: pos}
	return afterFromBefore.Inverse()
}

func (j *spquatFloating[T]) MotionSubspace(q []T) spatial.GeometricJacobian[T] {
	jac := spatial.NewGeometricJacobian[T](j.after, j.before, j.after, 6, j.conv)
	zero, one := scalar.Zero(j.conv), scalar.One(j.conv)
	e := func(i int) spatial.Vec3[T] {
		v := spatial.Vec3[T]{zero, zero, zero}
		v[i] = one
		return v
	}
	for i := 0; i < 3; i++ {
		jac.Angular[i], jac.Linear[i] = e(i), spatial.Vec3[T]{zero, zero, zero}
	}
	for i := 0; i < 3; i++ {
		jac.Angular[3+i], jac.Linear[3+i] = spatial.Vec3[T]{zero, zero, zero}, e(i)
	}
	return jac
}

func (j *spquatFloating[T]) BiasAcceleration(q, v []T) spatial.SpatialAcceleration[T] {
	return spatial.ZeroSpatialAcceleration[T](j.after, j.before, j.after, j.conv)
}

// pRate implements the modified-Rodrigues-parameter kinematic differential
// equation p_dot = (1/4)[(1-p.p)I + 2[p]x + 2 p p^T] * omega.
func (j *spquatFloating[T]) pRate(p, omega spatial.Vec3[T]) spatial.Vec3[T] {
	n := p.Dot(p)
	quarter := scalar.One(j.conv).Quo(j.conv(4))
	term1 := omega.Scale(scalar.One(j.conv).Sub(n).Mul(quarter))
	term2 := p.Cross(omega).Scale(j.conv(2).Mul(quarter))
	term3 := p.Scale(p.Dot(omega).Mul(j.conv(2)).Mul(quarter))
	return term1.Add(term2).Add(term3)
}

func (j *spquatFloating[T]) ConfigurationDerivative(q, v []T) []T {
	p := j.pOf(q)
	omega := spatial.Vec3[T]{v[0], v[1], v[2]}
	vlin := spatial.Vec3[T]{v[3], v[4], v[5]}
	pDot := j.pRate(p, omega)
	rot := quatToRotation(j.quatOf(p), j.conv)
	posDot := rot.MulVec(vlin)
	return []T{pDot[0], pDot[1], pDot[2], posDot[0], posDot[1], posDot[2]}
}

func (j *spquatFloating[T]) VelocityToConfigurationDerivativeJacobian(q []T) [][]T {
	p := j.pOf(q)
	n := p.Dot(p)
	one, quarter := scalar.One(j.conv), scalar.One(j.conv).Quo(j.conv(4))
	half := j.conv(2).Mul(quarter)
	skew := spatial.Skew(p, j.conv)
	diag := one.Sub(n).Mul(quarter)
	zero := scalar.Zero(j.conv)
	m := make([][]T, 3)
	for r := 0; r < 3; r++ {
		m[r] = make([]T, 3)
		for c := 0; c < 3; c++ {
			d := zero
			if r == c {
				d = diag
			}
			outer := p[r].Mul(p[c]).Mul(half)
			m[r][c] = d.Add(skew[r][c].Mul(half)).Add(outer)
		}
	}
	rot := quatToRotation(j.quatOf(p), j.conv)
	out := make([][]T, 6)
	for r := 0; r < 3; r++ {
		out[r] = []T{m[r][0], m[r][1], m[r][2], zero, zero, zero}
	}
	for r := 0; r < 3; r++ {
		out[3+r] = []T{zero, zero, zero, rot[r][0], rot[r][1], rot[r][2]}
	}
	return out
}

func (j *spquatFloating[T]) ZeroConfiguration(q []T) {
	zero := scalar.Zero(j.conv)
	q[0], q[1], q[2], q[3], q[4], q[5] = zero, zero, zero, zero, zero, zero
}

func (j *spquatFloating[T]) NormalizeConfiguration(q []T) {}
