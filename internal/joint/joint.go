package joint

import (
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// Joint is the uniform interface every variant implements, generic over the
// scalar backend T (spec.md §4.2's operation table). Before, After are the
// joint's two frames (spec.md §3).
type Joint[T scalar.Scalar[T]] interface {
	NQ() int
	NV() int
	Before() spatial.Frame
	After() spatial.Frame

	// Transform returns Transform(after<-before) for configuration q.
	Transform(q []T) spatial.Transform[T]

	// MotionSubspace returns the 6xnv Jacobian expressed in After().
	MotionSubspace(q []T) spatial.GeometricJacobian[T]

	// BiasAcceleration returns the joint's contribution to bias
	// acceleration; zero for joints whose motion subspace is constant in
	// After() (spec.md §4.2).
	BiasAcceleration(q, v []T) spatial.SpatialAcceleration[T]

	// ConfigurationDerivative returns qdot given (q, v).
	ConfigurationDerivative(q, v []T) []T

	// VelocityToConfigurationDerivativeJacobian returns the nq x nv matrix
	// mapping v to qdot, used by autodiff/integration paths.
	VelocityToConfigurationDerivativeJacobian(q []T) [][]T

	// ZeroConfiguration writes the identity configuration into q.
	ZeroConfiguration(q []T)

	// NormalizeConfiguration projects q onto the valid manifold in place,
	// idempotently.
	NormalizeConfiguration(q []T)
}

// Instantiate builds the generic Joint[T] for spec under scalar backend T,
// converting the spec's float64 parameters via conv. This is the operation
// the cache registry performs once per (mechanism joint, scalar type) pair
// (spec.md §4.6).
func Instantiate[T scalar.Scalar[T]](spec Spec, before, after spatial.Frame, conv scalar.FromFloat64[T]) Joint[T] {
	switch spec.Kind {
	case KindRevolute:
		return &revolute[T]{axis: convVec3(spec.Axis, conv), before: before, after: after, conv: conv}
	case KindPrismatic:
		return &prismatic[T]{axis: convVec3(spec.Axis, conv), before: before, after: after, conv: conv}
	case KindPlanar:
		return &planar[T]{
			xaxis: convVec3(spec.XAxis, conv), yaxis: convVec3(spec.YAxis, conv),
			before: before, after: after, conv: conv,
		}
	case KindFixed:
		return &fixed[T]{before: before, after: after, conv: conv}
	case KindQuaternionFloating:
		return &quaternionFloating[T]{before: before, after: after, conv: conv}
	case KindSPQuatFloating:
		return &spquatFloating[T]{before: before, after: after, conv: conv}
	case KindSinCosRevolute:
		return &sinCosRevolute[T]{axis: convVec3(spec.Axis, conv), before: before, after: after, conv: conv}
	default:
		panic("joint: unknown variant kind")
	}
}

func convVec3[T scalar.Scalar[T]](v [3]float64, conv scalar.FromFloat64[T]) spatial.Vec3[T] {
	return spatial.Vec3[T]{conv(v[0]), conv(v[1]), conv(v[2])}
}
