package joint

import (
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// sinCosRevolute represents the same one-DOF rotation as revolute but
// stores q = [sin(theta), cos(theta)] (nq = 2, nv = 1) so that Transform is
// polynomial in q rather than transcendental -- useful for symbolic and
// autodiff backends that would otherwise need to differentiate through
// Sin/Cos at every step. NormalizeConfiguration re-projects q onto the unit
// circle, since integration drifts sin^2+cos^2 away from 1.
type sinCosRevolute[T scalar.Scalar[T]] struct {
	axis          spatial.Vec3[T]
	before, after spatial.Frame
	conv          scalar.FromFloat64[T]
}

func (j *sinCosRevolute[T]) NQ() int               { return 2 }
func (j *sinCosRevolute[T]) NV() int               { return 1 }
func (j *sinCosRevolute[T]) Before() spatial.Frame { return j.before }
func (j *sinCosRevolute[T]) After() spatial.Frame  { return j.after }

func (j *sinCosRevolute[T]) Transform(q []T) spatial.Transform[T] {
	sinTheta, cosTheta := q[0], q[1]
	rot := spatial.RotationAboutAxis(j.axis, sinTheta, cosTheta, j.conv)
	afterFromBefore := spatial.Transform[T]{From: j.after, To: j.before, Rot: rot, Translation: spatial.ZeroVec3[T](j.conv)}
	return afterFromBefore.Inverse()
}

func (j *sinCosRevolute[T]) MotionSubspace(q []T) spatial.GeometricJacobian[T] {
	jac := spatial.NewGeometricJacobian[T](j.after, j.before, j.after, 1, j.conv)
	jac.Angular[0] = j.axis
	jac.Linear[0] = spatial.ZeroVec3[T](j.conv)
	return jac
}

func (j *sinCosRevolute[T]) BiasAcceleration(q, v []T) spatial.SpatialAcceleration[T] {
	return spatial.ZeroSpatialAcceleration[T](j.after, j.before, j.after, j.conv)
}

func (j *sinCosRevolute[T]) ConfigurationDerivative(q, v []T) []T {
	sinTheta, cosTheta, omega := q[0], q[1], v[0]
	return []T{cosTheta.Mul(omega), sinTheta.Neg().Mul(omega)}
}

func (j *sinCosRevolute[T]) VelocityToConfigurationDerivativeJacobian(q []T) [][]T {
	sinTheta, cosTheta := q[0], q[1]
	return [][]T{{cosTheta}, {sinTheta.Neg()}}
}

func (j *sinCosRevolute[T]) ZeroConfiguration(q []T) {
	q[0], q[1] = scalar.Zero(j.conv), scalar.One(j.conv)
}

func (j *sinCosRevolute[T]) NormalizeConfiguration(q []T) {
	sinTheta, cosTheta := q[0], q[1]
	norm := sinTheta.Mul(sinTheta).Add(cosTheta.Mul(cosTheta)).Sqrt()
	one := scalar.One(j.conv)
	inv := one.Quo(norm)
	q[0], q[1] = sinTheta.Mul(inv), cosTheta.Mul(inv)
}
