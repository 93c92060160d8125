package dynamics

import (
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
	"gonum.org/v1/gonum/mat"
)

// ForwardDynamics solves for qddot at the mechanism's current (q, v),
// discarding the loop-closure Lagrange multipliers ForwardDynamicsFull also
// computes. The integrators only need qddot, so this is the entry point
// they use; Evaluate calls ForwardDynamicsFull to keep the multipliers.
func ForwardDynamics[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], tau []T) ([]T, error) {
	qddot, _, err := ForwardDynamicsFull(ms, tau)
	return qddot, err
}

// ForwardDynamicsFull solves M(q) qddot = tau - bias for qddot, projected
// through any loop-closure constraints mechanism.AttachNonTree has added
// (see ConstraintJacobian and ForwardDynamicsConstrained), under any scalar
// backend. When the mechanism has no non-tree joints and T is the Float64
// backend, this specializes to ForwardDynamicsFloat64's gonum-factorized
// fast path instead of the generic Gaussian-elimination solve, so the
// numeric backend spec.md's numeric-backend section calls for is actually
// on the live path every caller uses, not just reachable from a direct
// call. lambda is nil whenever there are no constraints to report.
func ForwardDynamicsFull[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], tau []T) (qddot, lambda []T, err error) {
	nv := ms.NV()
	if len(tau) != nv {
		return nil, nil, &rbderrors.DimensionMismatch{Op: "ForwardDynamics", Expected: nv, Got: len(tau)}
	}

	mech := ms.Mechanism()
	if len(mech.NonTreeJoints()) == 0 {
		if fms, ok := any(ms).(*mechstate.MechanismState[scalar.Float64]); ok {
			ftau := any(tau).([]scalar.Float64)
			fout, ferr := ForwardDynamicsFloat64(fms, ftau)
			if ferr != nil {
				return nil, nil, ferr
			}
			return any(fout).([]T), nil, nil
		}
	}

	m, err := MassMatrix(ms)
	if err != nil {
		return nil, nil, err
	}
	bias, err := DynamicsBias(ms)
	if err != nil {
		return nil, nil, err
	}
	rows, crhs, err := ConstraintJacobian(ms)
	if err != nil {
		return nil, nil, err
	}
	return ForwardDynamicsConstrained(tau, bias, m, rows, crhs, ms.Conv())
}

// solveGaussian solves m x = rhs by Gaussian elimination with partial
// pivoting (comparing pivot candidates via Scalar.Cmp, which for the
// Symbolic backend falls back to best-effort numeric evaluation). m is
// modified in place on a local copy; rhs is not aliased into the result.
func solveGaussian[T scalar.Scalar[T]](m [][]T, rhs []T) ([]T, error) {
	n := len(rhs)
	a := make([][]T, n)
	for i := range a {
		a[i] = append([]T(nil), m[i]...)
	}
	b := append([]T(nil), rhs...)

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if abs(a[row][col]) > abs(a[pivot][col]) {
				pivot = row
			}
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			b[col], b[pivot] = b[pivot], b[col]
		}
		if a[col][col].Float64() == 0 {
			return nil, &rbderrors.SingularMassMatrix{Op: "dynamics.ForwardDynamics"}
		}
		for row := col + 1; row < n; row++ {
			factor := a[row][col].Quo(a[col][col])
			for k := col; k < n; k++ {
				a[row][k] = a[row][k].Sub(factor.Mul(a[col][k]))
			}
			b[row] = b[row].Sub(factor.Mul(b[col]))
		}
	}

	x := make([]T, n)
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum = sum.Sub(a[row][k].Mul(x[k]))
		}
		x[row] = sum.Quo(a[row][row])
	}
	return x, nil
}

func abs[T scalar.Scalar[T]](v T) float64 {
	f := v.Float64()
	if f < 0 {
		return -f
	}
	return f
}

// ForwardDynamicsFloat64 is the Float64-backend fast path spec.md's numeric
// backend section calls for: build M(q) as a *mat.SymDense, factorize with
// mat.Cholesky, and fall back to a partial-pivoting mat.LU on a
// non-positive pivot (e.g. a mechanism instantaneously passing through a
// singular or indefinite configuration) before giving up with
// rbderrors.SingularMassMatrix. LU handles the indefinite case Cholesky
// can't, at the cost of not certifying positive-definiteness the way an
// LDL^T factorization would have.
func ForwardDynamicsFloat64(ms *mechstate.MechanismState[scalar.Float64], tau []scalar.Float64) ([]scalar.Float64, error) {
	mRows, err := MassMatrix(ms)
	if err != nil {
		return nil, err
	}
	bias, err := DynamicsBias(ms)
	if err != nil {
		return nil, err
	}
	nv := ms.NV()
	if len(tau) != nv {
		return nil, &rbderrors.DimensionMismatch{Op: "ForwardDynamicsFloat64", Expected: nv, Got: len(tau)}
	}

	symData := make([]float64, nv*nv)
	for i := 0; i < nv; i++ {
		for j := 0; j < nv; j++ {
			symData[i*nv+j] = float64(mRows[i][j])
		}
	}
	sym := mat.NewSymDense(nv, symData)

	rhsData := make([]float64, nv)
	for i := range rhsData {
		rhsData[i] = float64(tau[i] - bias[i])
	}
	rhs := mat.NewDense(nv, 1, rhsData)
	dst := mat.NewDense(nv, 1, nil)

	var chol mat.Cholesky
	if chol.Factorize(sym) {
		if err := chol.SolveTo(dst, rhs); err != nil {
			return nil, &rbderrors.SingularMassMatrix{Op: "dynamics.ForwardDynamicsFloat64"}
		}
	} else {
		var lu mat.LU
		lu.Factorize(sym)
		if err := lu.SolveTo(dst, false, rhs); err != nil {
			return nil, &rbderrors.SingularMassMatrix{Op: "dynamics.ForwardDynamicsFloat64"}
		}
	}

	out := make([]scalar.Float64, nv)
	for i := 0; i < nv; i++ {
		out[i] = scalar.Float64(dst.At(i, 0))
	}
	return out, nil
}
