package joint

import (
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// fixed welds Before to After: nq = nv = 0.
type fixed[T scalar.Scalar[T]] struct {
	before, after spatial.Frame
	conv          scalar.FromFloat64[T]
}

func (j *fixed[T]) NQ() int               { return 0 }
func (j *fixed[T]) NV() int               { return 0 }
func (j *fixed[T]) Before() spatial.Frame { return j.before }
func (j *fixed[T]) After() spatial.Frame  { return j.after }

func (j *fixed[T]) Transform(q []T) spatial.Transform[T] {
	return spatial.IdentityTransform[T](j.before, j.after, j.conv)
}

func (j *fixed[T]) MotionSubspace(q []T) spatial.GeometricJacobian[T] {
	return spatial.NewGeometricJacobian[T](j.after, j.before, j.after, 0, j.conv)
}

func (j *fixed[T]) BiasAcceleration(q, v []T) spatial.SpatialAcceleration[T] {
	return spatial.ZeroSpatialAcceleration[T](j.after, j.before, j.after, j.conv)
}

func (j *fixed[T]) ConfigurationDerivative(q, v []T) []T { return []T{} }

func (j *fixed[T]) VelocityToConfigurationDerivativeJacobian(q []T) [][]T { return [][]T{} }

func (j *fixed[T]) ZeroConfiguration(q []T) {}

func (j *fixed[T]) NormalizeConfiguration(q []T) {}
