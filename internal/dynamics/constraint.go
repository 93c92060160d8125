package dynamics

import (
	"github.com/san-kum/rbdsim/internal/joint"
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// ConstraintJacobian assembles the stacked constraint rows every non-tree
// joint (mechanism.Mechanism.NonTreeJoints, attached via AttachNonTree)
// imposes on the tree's velocity space, plus the acceleration-level drift
// term each row must cancel. A non-tree joint with its own nv degrees of
// freedom removes 6-nv directions from the relative motion between its
// predecessor and successor; rows is the projection of
// GeometricJacobianBetween's 6 relative-twist rows onto the orthogonal
// complement of the joint's own motion subspace (found by Gram-Schmidt
// against the standard basis, so it degrades gracefully from a 0-dof weld
// -- all 6 rows constrained -- down to a 6-dof joint, which contributes
// none). rhs is -Jdot*qdot for those rows, evaluated from the bias
// acceleration mechstate.Accelerations reports at qddot=0 (spec.md §9's
// resolved Open Question: loops are handled by null-space projection over
// this Jacobian, with no Baumgarte stabilization term added on top).
//
// AttachNonTree's After frame is assumed to coincide with the successor
// body's own frame, the same convention Mechanism.Attach uses for tree
// joints; a non-tree joint built with a different After frame will still
// produce rows, just not ones aligned the way the caller likely intended.
func ConstraintJacobian[T scalar.Scalar[T]](ms *mechstate.MechanismState[T]) (rows [][]T, rhs []T, err error) {
	mech := ms.Mechanism()
	nonTree := mech.NonTreeJoints()
	if len(nonTree) == 0 {
		return nil, nil, nil
	}

	conv := ms.Conv()
	nv := ms.NV()
	zeroQddot := make([]T, nv)
	for i := range zeroQddot {
		zeroQddot[i] = conv(0)
	}
	accelsZero, err := ms.Accelerations(zeroQddot)
	if err != nil {
		return nil, nil, err
	}

	for _, nt := range nonTree {
		rel, err := GeometricJacobianBetween(ms, nt.PredecessorBody, nt.SuccessorBody)
		if err != nil {
			return nil, nil, err
		}
		// rel's columns follow the path's joints; map each to its velocity index.
		pred, _ := mech.Body(nt.PredecessorBody)
		succ, _ := mech.Body(nt.SuccessorBody)
		colIndex := make([]int, 0, rel.NV())
		for _, step := range mech.Path(pred, succ) {
			r := ms.VelocityRange(mech.ParentJoint(step.Body))
			for k := 0; k < r.Length; k++ {
				colIndex = append(colIndex, r.Start+k)
			}
		}

		inst := joint.Instantiate[T](nt.Spec, nt.Before, nt.After, conv)
		q := make([]T, inst.NQ())
		inst.ZeroConfiguration(q)
		subspace := inst.MotionSubspace(q)
		toRoot, err := ms.TransformToRoot(nt.SuccessorBody)
		if err != nil {
			return nil, nil, err
		}
		subspaceInRoot, err := subspace.TransformedTo(toRoot)
		if err != nil {
			return nil, nil, err
		}

		free := make([][6]T, subspaceInRoot.NV())
		for k := range free {
			free[k] = pack6Twist(subspaceInRoot.Column(k))
		}
		complement := gramSchmidtComplement(free, conv)

		relAccel, err := ms.RelativeAcceleration(nt.SuccessorBody, nt.PredecessorBody, accelsZero)
		if err != nil {
			return nil, nil, err
		}
		relAccelInRoot, err := toRoot.TransformAcceleration(relAccel)
		if err != nil {
			return nil, nil, err
		}
		drift := pack6Accel(relAccelInRoot)

		for _, c := range complement {
			row := make([]T, nv)
			for k := range row {
				row[k] = conv(0)
			}
			for k, idx := range colIndex {
				row[idx] = dot6(c, pack6Twist(rel.Column(k)))
			}
			rows = append(rows, row)
			rhs = append(rhs, dot6(c, drift).Neg())
		}
	}
	return rows, rhs, nil
}

func pack6Twist[T scalar.Scalar[T]](t spatial.Twist[T]) [6]T {
	return [6]T{t.Angular[0], t.Angular[1], t.Angular[2], t.Linear[0], t.Linear[1], t.Linear[2]}
}

func pack6Accel[T scalar.Scalar[T]](a spatial.SpatialAcceleration[T]) [6]T {
	return [6]T{a.Angular[0], a.Angular[1], a.Angular[2], a.Linear[0], a.Linear[1], a.Linear[2]}
}

func dot6[T scalar.Scalar[T]](a, b [6]T) T {
	sum := a[0].Mul(b[0])
	for i := 1; i < 6; i++ {
		sum = sum.Add(a[i].Mul(b[i]))
	}
	return sum
}

// gramSchmidtComplement extends freeVecs to a full orthonormal basis of R^6
// using the standard basis vectors to fill in whatever freeVecs doesn't
// already span, then returns just the added vectors: the directions the
// joint's own motion subspace does not reach, i.e. the directions the loop
// closure constrains. Vectors that project to near zero after removing the
// span accumulated so far are dropped rather than kept as degenerate rows.
func gramSchmidtComplement[T scalar.Scalar[T]](freeVecs [][6]T, conv scalar.FromFloat64[T]) [][6]T {
	zero, one := scalar.Zero(conv), scalar.One(conv)

	var basis [][6]T
	add := func(v [6]T) bool {
		for _, b := range basis {
			proj := dot6(v, b)
			for i := range v {
				v[i] = v[i].Sub(b[i].Mul(proj))
			}
		}
		n := dot6(v, v)
		if n.Float64() < 1e-14 {
			return false
		}
		inv := n.Sqrt()
		for i := range v {
			v[i] = v[i].Quo(inv)
		}
		basis = append(basis, v)
		return true
	}

	for _, v := range freeVecs {
		add(v)
	}

	var complement [][6]T
	for i := 0; i < 6; i++ {
		std := [6]T{zero, zero, zero, zero, zero, zero}
		std[i] = one
		before := len(basis)
		if add(std) && len(basis) > before {
			complement = append(complement, basis[len(basis)-1])
		}
	}
	return complement
}

// ForwardDynamicsConstrained solves the null-space-projected forward
// dynamics problem: the ordinary M*qddot = tau - bias system augmented
// with rows*qddot = rhs for every loop-closure direction ConstraintJacobian
// reports, via the KKT system
//
//	[ M   J^T ] [ qddot  ]   [ tau - bias ]
//	[ J    0  ] [ -lambda] = [    rhs     ]
//
// solved as one dense linear system with solveGaussian so every scalar
// backend shares the same code path. lambda is returned alongside qddot
// since dynamics.Result carries it as the constraint-force output spec.md
// §3's DynamicsResult names. With no constraint rows this reduces to the
// plain M*qddot = tau - bias solve.
func ForwardDynamicsConstrained[T scalar.Scalar[T]](tau, bias []T, m [][]T, rows [][]T, crhs []T, conv scalar.FromFloat64[T]) (qddot, lambda []T, err error) {
	nv := len(tau)
	nc := len(rows)

	rhs0 := make([]T, nv)
	for i := range rhs0 {
		rhs0[i] = tau[i].Sub(bias[i])
	}
	if nc == 0 {
		qddot, err = solveGaussian(m, rhs0)
		return qddot, nil, err
	}

	zero := scalar.Zero(conv)
	n := nv + nc
	a := make([][]T, n)
	for i := 0; i < nv; i++ {
		a[i] = make([]T, n)
		copy(a[i], m[i])
		for c := 0; c < nc; c++ {
			a[i][nv+c] = rows[c][i]
		}
	}
	for c := 0; c < nc; c++ {
		a[nv+c] = make([]T, n)
		copy(a[nv+c], rows[c])
		for k := 0; k < nc; k++ {
			a[nv+c][nv+k] = zero
		}
	}

	rhs := make([]T, n)
	copy(rhs, rhs0)
	copy(rhs[nv:], crhs)

	x, err := solveGaussian(a, rhs)
	if err != nil {
		return nil, nil, &rbderrors.SingularMassMatrix{Op: "dynamics.ForwardDynamicsConstrained"}
	}
	qddot = x[:nv]
	lambda = make([]T, nc)
	for c := 0; c < nc; c++ {
		lambda[c] = x[nv+c].Neg()
	}
	return qddot, lambda, nil
}
