package joint

import (
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// revolute rotates about a fixed axis expressed in Before/After: nq = nv = 1.
type revolute[T scalar.Scalar[T]] struct {
	axis           spatial.Vec3[T]
	before, after  spatial.Frame
	conv           scalar.FromFloat64[T]
}

func (j *revolute[T]) NQ() int                 { return 1 }
func (j *revolute[T]) NV() int                 { return 1 }
func (j *revolute[T]) Before() spatial.Frame   { return j.before }
func (j *revolute[T]) After() spatial.Frame    { return j.after }

// Transform builds the easy (After->Before) pose -- Rot is the physical
// rotation of After relative to Before, Translation the offset of After's
// origin expressed in Before coordinates -- then inverts it, since
// spatial.Transform's own convention is p_To = Rot*p_From + Translation,
// which those natural values satisfy in the After->Before direction, not
// Before->After (every joint variant follows this same pattern).
func (j *revolute[T]) Transform(q []T) spatial.Transform[T] {
	theta := q[0]
	rot := spatial.RotationAboutAxis(j.axis, theta.Sin(), theta.Cos(), j.conv)
	afterFromBefore := spatial.Transform[T]{From: j.after, To: j.before, Rot: rot, Translation: spatial.ZeroVec3[T](j.conv)}
	return afterFromBefore.Inverse()
}

func (j *revolute[T]) MotionSubspace(q []T) spatial.GeometricJacobian[T] {
	jac := spatial.NewGeometricJacobian[T](j.after, j.before, j.after, 1, j.conv)
	jac.Angular[0] = j.axis
	jac.Linear[0] = spatial.ZeroVec3[T](j.conv)
	return jac
}

func (j *revolute[T]) BiasAcceleration(q, v []T) spatial.SpatialAcceleration[T] {
	return spatial.ZeroSpatialAcceleration[T](j.after, j.before, j.after, j.conv)
}

func (j *revolute[T]) ConfigurationDerivative(q, v []T) []T {
	return []T{v[0]}
}

func (j *revolute[T]) VelocityToConfigurationDerivativeJacobian(q []T) [][]T {
	one := scalar.One(j.conv)
	return [][]T{{one}}
}

func (j *revolute[T]) ZeroConfiguration(q []T) {
	q[0] = scalar.Zero(j.conv)
}

func (j *revolute[T]) NormalizeConfiguration(q []T) {
	// Angles need no manifold projection.
}
