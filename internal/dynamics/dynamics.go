// Package dynamics implements the recursive Newton-Euler and
// composite-rigid-body algorithms over a mechstate.MechanismState[T]: joint
// torques/forces from joint accelerations (InverseDynamics), the mass
// matrix (MassMatrix), the velocity/gravity bias term (DynamicsBias), and
// the forward-dynamics solve that ties them together (ForwardDynamics).
package dynamics

import (
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/rbderrors"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/spatial"
)

// InverseDynamics computes the joint torques/forces tau that, at the
// mechanism's current (q, v), produce the given joint accelerations qddot,
// optionally under externally applied per-body wrenches (spec.md §4.5,
// §6's inverse_dynamics!(tau, state, qddot[, external_wrenches])). It runs
// the recursive Newton-Euler algorithm: a forward pass propagating
// per-body spatial acceleration out from the root (mechstate.Accelerations,
// which already folds in gravity via the root's injected acceleration),
// then a backward pass accumulating each body's net wrench -- inertial and
// gyroscopic, minus whatever external wrench acts directly on it -- and
// projecting it onto its joint's motion subspace. externalWrenches is
// variadic so existing callers that don't apply any keep compiling
// unchanged; passing more than one map is an error.
func InverseDynamics[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], qddot []T, externalWrenches ...map[int]spatial.Wrench[T]) ([]T, error) {
	if len(externalWrenches) > 1 {
		return nil, &rbderrors.Argument{Op: "InverseDynamics", Message: "at most one external-wrenches map may be supplied"}
	}
	var extMap map[int]spatial.Wrench[T]
	if len(externalWrenches) == 1 {
		extMap = externalWrenches[0]
	}

	accels, err := ms.Accelerations(qddot)
	if err != nil {
		return nil, err
	}
	mech := ms.Mechanism()
	n := mech.NumBodies()
	conv := ms.Conv()

	netWrenches := make([]spatial.Wrench[T], n)
	root := mech.RootBody()
	netWrenches[0] = spatial.ZeroWrench[T](root.Frame, root.Frame, root.Frame, conv)

	for id := 1; id < n; id++ {
		twist, err := ms.TwistWrtWorld(id)
		if err != nil {
			return nil, err
		}
		inertia, err := ms.BodyInertiaLocal(id)
		if err != nil {
			return nil, err
		}
		fInertial, err := inertia.MulAcceleration(accels[id])
		if err != nil {
			return nil, err
		}
		momentum, err := inertia.MulTwist(twist)
		if err != nil {
			return nil, err
		}
		gyroscopic, err := twist.CrossForce(spatial.Wrench[T]{
			Body: momentum.Body, Base: momentum.Body, ExpressedIn: momentum.ExpressedIn,
			Angular: momentum.Angular, Linear: momentum.Linear,
		})
		if err != nil {
			return nil, err
		}
		netWrenches[id], err = fInertial.Add(gyroscopic)
		if err != nil {
			return nil, err
		}
		if ext, ok := extMap[id]; ok {
			netWrenches[id], err = netWrenches[id].Sub(ext)
			if err != nil {
				return nil, err
			}
		}
	}

	for id := n - 1; id >= 1; id-- {
		parentID := mech.ParentBody(id)
		ji := mech.ParentJoint(id)
		jt, err := ms.JointTransform(ji)
		if err != nil {
			return nil, err
		}
		transmitted, err := jt.Inverse().TransformWrench(netWrenches[id])
		if err != nil {
			return nil, err
		}
		netWrenches[parentID], err = netWrenches[parentID].Add(transmitted)
		if err != nil {
			return nil, err
		}
	}

	tau := make([]T, ms.NV())
	for id := 1; id < n; id++ {
		ji := mech.ParentJoint(id)
		subspace := ms.Joint(ji).MotionSubspace(ms.ConfigurationSegment(ji))
		r := ms.VelocityRange(ji)
		for k := 0; k < subspace.NV(); k++ {
			val, err := netWrenches[id].Dot(subspace.Column(k))
			if err != nil {
				return nil, err
			}
			tau[r.Start+k] = val
		}
	}
	return tau, nil
}

// DynamicsBias returns C(q, v) + G(q): the joint forces InverseDynamics
// reports for zero joint acceleration, i.e. what's needed just to hold the
// mechanism's current velocity against gravity and Coriolis/centrifugal
// coupling.
func DynamicsBias[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], externalWrenches ...map[int]spatial.Wrench[T]) ([]T, error) {
	zero := make([]T, ms.NV())
	conv := ms.Conv()
	for i := range zero {
		zero[i] = conv(0)
	}
	return InverseDynamics(ms, zero, externalWrenches...)
}

// MassMatrix builds M(q) via the composite-rigid-body algorithm: every
// tree body's motion subspace and composite (subtree) inertia are
// re-expressed in the mechanism's root frame once, so that the classical
// CRBA double loop needs no per-level transform -- summing/dotting
// root-frame quantities directly gives H[i][j] = S_j^T (IC[i] S_i) for j an
// ancestor-or-self of i, IC[i] being the composite inertia of the subtree
// rooted at the descendant body i.
func MassMatrix[T scalar.Scalar[T]](ms *mechstate.MechanismState[T]) ([][]T, error) {
	mech := ms.Mechanism()
	n := mech.NumBodies()
	nv := ms.NV()
	conv := ms.Conv()
	zero := conv(0)

	M := make([][]T, nv)
	for i := range M {
		M[i] = make([]T, nv)
		for k := range M[i] {
			M[i][k] = zero
		}
	}

	for id := 1; id < n; id++ {
		ic, err := ms.CompositeInertia(id)
		if err != nil {
			return nil, err
		}
		si, err := ms.MotionSubspaceInRoot(id)
		if err != nil {
			return nil, err
		}
		ji := mech.ParentJoint(id)
		ri := ms.VelocityRange(ji)

		f := make([]spatial.Wrench[T], si.NV())
		for a := 0; a < si.NV(); a++ {
			w, err := ic.MulTwist(si.Column(a))
			if err != nil {
				return nil, err
			}
			f[a] = spatial.Wrench[T]{Body: w.Body, Base: w.Body, ExpressedIn: w.ExpressedIn, Angular: w.Angular, Linear: w.Linear}
		}

		for a := 0; a < si.NV(); a++ {
			for b := 0; b < si.NV(); b++ {
				val, err := f[a].Dot(si.Column(b))
				if err != nil {
					return nil, err
				}
				M[ri.Start+a][ri.Start+b] = val
			}
		}

		for j := id; mech.ParentBody(j) != 0; {
			j = mech.ParentBody(j)
			sj, err := ms.MotionSubspaceInRoot(j)
			if err != nil {
				return nil, err
			}
			jj := mech.ParentJoint(j)
			rj := ms.VelocityRange(jj)
			for a := 0; a < si.NV(); a++ {
				for b := 0; b < sj.NV(); b++ {
					val, err := f[a].Dot(sj.Column(b))
					if err != nil {
						return nil, err
					}
					M[ri.Start+a][rj.Start+b] = val
					M[rj.Start+b][ri.Start+a] = val
				}
			}
		}
	}
	return M, nil
}
