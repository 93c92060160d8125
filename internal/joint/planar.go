package joint

import (
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// planar allows translation in the xaxis/yaxis plane plus rotation about
// their cross product: q = [x, y, theta], v = [vx, vy, omega], nq = nv = 3.
// The motion subspace is expressed in After's own (moving) frame, where it
// is constant regardless of q -- hence a zero bias acceleration, same as
// revolute and prismatic.
type planar[T scalar.Scalar[T]] struct {
	xaxis, yaxis  spatial.Vec3[T]
	before, after spatial.Frame
	conv          scalar.FromFloat64[T]
}

func (j *planar[T]) NQ() int               { return 3 }
func (j *planar[T]) NV() int               { return 3 }
func (j *planar[T]) Before() spatial.Frame { return j.before }
func (j *planar[T]) After() spatial.Frame  { return j.after }

func (j *planar[T]) normal() spatial.Vec3[T] {
	return j.xaxis.Cross(j.yaxis)
}

func (j *planar[T]) Transform(q []T) spatial.Transform[T] {
	theta := q[2]
	rot := spatial.RotationAboutAxis(j.normal(), theta.Sin(), theta.Cos(), j.conv)
	translation := j.xaxis.Scale(q[0]).Add(j.yaxis.Scale(q[1]))
	afterFromBefore := spatial.Transform[T]{From: j.after, To: j.before, Rot: rot, Translation: translation}
	return afterFromBefore.Inverse()
}

func (j *planar[T]) MotionSubspace(q []T) spatial.GeometricJacobian[T] {
	jac := spatial.NewGeometricJacobian[T](j.after, j.before, j.after, 3, j.conv)
	zero := spatial.ZeroVec3[T](j.conv)
	jac.Angular[0], jac.Linear[0] = zero, j.xaxis
	jac.Angular[1], jac.Linear[1] = zero, j.yaxis
	jac.Angular[2], jac.Linear[2] = j.normal(), zero
	return jac
}

func (j *planar[T]) BiasAcceleration(q, v []T) spatial.SpatialAcceleration[T] {
	return spatial.ZeroSpatialAcceleration[T](j.after, j.before, j.after, j.conv)
}

func (j *planar[T]) ConfigurationDerivative(q, v []T) []T {
	return []T{v[0], v[1], v[2]}
}

func (j *planar[T]) VelocityToConfigurationDerivativeJacobian(q []T) [][]T {
	one, zero := scalar.One(j.conv), scalar.Zero(j.conv)
	return [][]T{
		{one, zero, zero},
		{zero, one, zero},
		{zero, zero, one},
	}
}

func (j *planar[T]) ZeroConfiguration(q []T) {
	zero := scalar.Zero(j.conv)
	q[0], q[1], q[2] = zero, zero, zero
}

func (j *planar[T]) NormalizeConfiguration(q []T) {}
