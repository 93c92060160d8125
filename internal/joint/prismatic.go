package joint

import (
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// prismatic slides along a fixed axis expressed in Before/After: nq = nv = 1.
type prismatic[T scalar.Scalar[T]] struct {
	axis          spatial.Vec3[T]
	before, after spatial.Frame
	conv          scalar.FromFloat64[T]
}

func (j *prismatic[T]) NQ() int               { return 1 }
func (j *prismatic[T]) NV() int               { return 1 }
func (j *prismatic[T]) Before() spatial.Frame { return j.before }
func (j *prismatic[T]) After() spatial.Frame  { return j.after }

func (j *prismatic[T]) Transform(q []T) spatial.Transform[T] {
	afterFromBefore := spatial.Transform[T]{
		From: j.after, To: j.before,
		Rot:         spatial.IdentityMat3[T](j.conv),
		Translation: j.axis.Scale(q[0]),
	}
	return afterFromBefore.Inverse()
}

func (j *prismatic[T]) MotionSubspace(q []T) spatial.GeometricJacobian[T] {
	jac := spatial.NewGeometricJacobian[T](j.after, j.before, j.after, 1, j.conv)
	jac.Angular[0] = spatial.ZeroVec3[T](j.conv)
	jac.Linear[0] = j.axis
	return jac
}

func (j *prismatic[T]) BiasAcceleration(q, v []T) spatial.SpatialAcceleration[T] {
	return spatial.ZeroSpatialAcceleration[T](j.after, j.before, j.after, j.conv)
}

func (j *prismatic[T]) ConfigurationDerivative(q, v []T) []T {
	return []T{v[0]}
}

func (j *prismatic[T]) VelocityToConfigurationDerivativeJacobian(q []T) [][]T {
	one := scalar.One(j.conv)
	return [][]T{{one}}
}

func (j *prismatic[T]) ZeroConfiguration(q []T) {
	q[0] = scalar.Zero(j.conv)
}

func (j *prismatic[T]) NormalizeConfiguration(q []T) {}
