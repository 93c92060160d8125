package spatial

import (
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// GeometricJacobian is a 6xnv matrix whose columns are motion subspace
// vectors, all expressed in the same frame (spec.md §3, §4.5). Columns are
// stored as Angular/Linear pairs rather than a flat 6xn slice so callers
// never have to remember the [angular; linear] stacking convention. Conv
// is carried along so zero accumulators can be built for any scalar
// backend, including ones (like Symbolic) whose Go zero value is not a
// valid scalar zero.
type GeometricJacobian[T scalar.Scalar[T]] struct {
	Body, Base, ExpressedIn Frame
	Angular, Linear         []Vec3[T]
	Conv                    scalar.FromFloat64[T]
}

func NewGeometricJacobian[T scalar.Scalar[T]](body, base, expressedIn Frame, nv int, conv scalar.FromFloat64[T]) GeometricJacobian[T] {
	return GeometricJacobian[T]{
		Body: body, Base: base, ExpressedIn: expressedIn,
		Angular: make([]Vec3[T], nv),
		Linear:  make([]Vec3[T], nv),
		Conv:    conv,
	}
}

func (j GeometricJacobian[T]) NV() int { return len(j.Angular) }

// Column returns the twist represented by column i (per unit velocity).
func (j GeometricJacobian[T]) Column(i int) Twist[T] {
	return Twist[T]{Body: j.Body, Base: j.Base, ExpressedIn: j.ExpressedIn, Angular: j.Angular[i], Linear: j.Linear[i]}
}

// MulVelocity contracts the Jacobian against a joint velocity slice,
// producing the twist S*v (spec.md §4.2: "Motion subspace times
// joint-velocity → twist").
func (j GeometricJacobian[T]) MulVelocity(v []T) (Twist[T], error) {
	if len(v) != j.NV() {
		return Twist[T]{}, &rbderrors.DimensionMismatch{Op: "GeometricJacobian.MulVelocity", Expected: j.NV(), Got: len(v)}
	}
	angular, linear := ZeroVec3[T](j.Conv), ZeroVec3[T](j.Conv)
	for i := range v {
		angular = angular.Add(j.Angular[i].Scale(v[i]))
		linear = linear.Add(j.Linear[i].Scale(v[i]))
	}
	return Twist[T]{Body: j.Body, Base: j.Base, ExpressedIn: j.ExpressedIn, Angular: angular, Linear: linear}, nil
}

// TransformedTo re-expresses every column into a new frame via t (which
// must map j.ExpressedIn to the target frame).
func (j GeometricJacobian[T]) TransformedTo(t Transform[T]) (GeometricJacobian[T], error) {
	out := NewGeometricJacobian[T](j.Body, j.Base, t.To, j.NV(), j.Conv)
	for i := 0; i < j.NV(); i++ {
		tw, err := t.TransformTwist(j.Column(i))
		if err != nil {
			return GeometricJacobian[T]{}, err
		}
		out.Angular[i] = tw.Angular
		out.Linear[i] = tw.Linear
	}
	return out, nil
}

// Concat concatenates several Jacobians' columns (used to assemble a
// base->body Jacobian from per-joint motion subspaces along a tree path,
// spec.md §4.5).
func Concat[T scalar.Scalar[T]](body, base, expressedIn Frame, conv scalar.FromFloat64[T], parts ...GeometricJacobian[T]) GeometricJacobian[T] {
	nv := 0
	for _, p := range parts {
		nv += p.NV()
	}
	out := NewGeometricJacobian[T](body, base, expressedIn, nv, conv)
	idx := 0
	for _, p := range parts {
		for i := 0; i < p.NV(); i++ {
			out.Angular[idx] = p.Angular[i]
			out.Linear[idx] = p.Linear[i]
			idx++
		}
	}
	return out
}

// MomentumMatrix is the 6xnv linear map from a body's joint velocities to
// its momentum, i.e. A_body = I_body * J_body.
type MomentumMatrix[T scalar.Scalar[T]] struct {
	ExpressedIn    Frame
	AngularColumns []Vec3[T]
	LinearColumns  []Vec3[T]
	Conv           scalar.FromFloat64[T]
}

func NewMomentumMatrix[T scalar.Scalar[T]](expressedIn Frame, nv int, conv scalar.FromFloat64[T]) MomentumMatrix[T] {
	return MomentumMatrix[T]{
		ExpressedIn:    expressedIn,
		AngularColumns: make([]Vec3[T], nv),
		LinearColumns:  make([]Vec3[T], nv),
		Conv:           conv,
	}
}

func (m MomentumMatrix[T]) NV() int { return len(m.AngularColumns) }

func (m MomentumMatrix[T]) MulVelocity(v []T) (Momentum[T], error) {
	if len(v) != m.NV() {
		return Momentum[T]{}, &rbderrors.DimensionMismatch{Op: "MomentumMatrix.MulVelocity", Expected: m.NV(), Got: len(v)}
	}
	angular, linear := ZeroVec3[T](m.Conv), ZeroVec3[T](m.Conv)
	for i := range v {
		angular = angular.Add(m.AngularColumns[i].Scale(v[i]))
		linear = linear.Add(m.LinearColumns[i].Scale(v[i]))
	}
	return Momentum[T]{ExpressedIn: m.ExpressedIn, Angular: angular, Linear: linear}, nil
}
