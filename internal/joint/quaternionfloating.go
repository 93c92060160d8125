package joint

import (
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// quaternionFloating gives a body unrestricted motion relative to Before:
// q = [quat.w, quat.x, quat.y, quat.z, pos.x, pos.y, pos.z] (nq = 7),
// v = [omega.x, omega.y, omega.z, vlin.x, vlin.y, vlin.z] (nv = 6), with
// both omega and vlin expressed in the body's own (After) frame.
type quaternionFloating[T scalar.Scalar[T]] struct {
	before, after spatial.Frame
	conv          scalar.FromFloat64[T]
}

func (j *quaternionFloating[T]) NQ() int               { return 7 }
func (j *quaternionFloating[T]) NV() int               { return 6 }
func (j *quaternionFloating[T]) Before() spatial.Frame { return j.before }
func (j *quaternionFloating[T]) After() spatial.Frame  { return j.after }

func (j *quaternionFloating[T]) quatOf(q []T) quat[T] {
	return quat[T]{W: q[0], X: q[1], Y: q[2], Z: q[3]}
}

func (j *quaternionFloating[T]) Transform(q []T) spatial.Transform[T] {
	rot := quatToRotation(j.quatOf(q), j.conv)
	pos := spatial.Vec3[T]{q[4], q[5], q[6]}
	afterFromBefore := spatial.Transform[T]{From: j.after, To: j.before, Rot: rot, Translation: pos}
	return afterFromBefore.Inverse()
}

// MotionSubspace is the 6x6 identity expressed in After's own frame: v is
// defined as exactly the body-frame twist components, so the subspace does
// not depend on q and BiasAcceleration is therefore zero.
func (j *quaternionFloating[T]) MotionSubspace(q []T) spatial.GeometricJacobian[T] {
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

func (j *quaternionFloating[T]) BiasAcceleration(q, v []T) spatial.SpatialAcceleration[T] {
	return spatial.ZeroSpatialAcceleration[T](j.after, j.before, j.after, j.conv)
}

func (j *quaternionFloating[T]) ConfigurationDerivative(q, v []T) []T {
	omega := spatial.Vec3[T]{v[0], v[1], v[2]}
	vlin := spatial.Vec3[T]{v[3], v[4], v[5]}
	qDot := quatRateFromBodyAngularVelocity(j.quatOf(q), omega, j.conv)
	rot := quatToRotation(j.quatOf(q), j.conv)
	posDot := rot.MulVec(vlin)
	return []T{qDot.W, qDot.X, qDot.Y, qDot.Z, posDot[0], posDot[1], posDot[2]}
}

func (j *quaternionFloating[T]) VelocityToConfigurationDerivativeJacobian(q []T) [][]T {
	e := quatAngularVelocityJacobian(j.quatOf(q), j.conv)
	rot := quatToRotation(j.quatOf(q), j.conv)
	zero := scalar.Zero(j.conv)
	out := make([][]T, 7)
	for r := 0; r < 4; r++ {
		out[r] = []T{e[r][0], e[r][1], e[r][2], zero, zero, zero}
	}
	for r := 0; r < 3; r++ {
		out[4+r] = []T{zero, zero, zero, rot[r][0], rot[r][1], rot[r][2]}
	}
	return out
}

func (j *quaternionFloating[T]) ZeroConfiguration(q []T) {
	zero, one := scalar.Zero(j.conv), scalar.One(j.conv)
	q[0], q[1], q[2], q[3] = one, zero, zero, zero
	q[4], q[5], q[6] = zero, zero, zero
}

// NormalizeConfiguration re-projects the quaternion part onto the unit
// sphere; the position part is left untouched.
func (j *quaternionFloating[T]) NormalizeConfiguration(q []T) {
	w, x, y, z := q[0], q[1], q[2], q[3]
	norm := w.Mul(w).Add(x.Mul(x)).Add(y.Mul(y)).Add(z.Mul(z)).Sqrt()
	inv := scalar.One(j.conv).Quo(norm)
	q[0], q[1], q[2], q[3] = w.Mul(inv), x.Mul(inv), y.Mul(inv), z.Mul(inv)
}
