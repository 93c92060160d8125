// Package integrators drives a mechstate.MechanismState[T] forward in time
// under a constant applied joint-force vector, generalizing the teacher's
// internal/integrators (originally stepping a dynamo.State/sim.State plain
// float vector via a Step(dyn, x, u, t, dt) method) to a mechanism's
// (q, v) pair advanced through dynamics.ForwardDynamics instead of a
// user-supplied derivative function. The steppers allocate fresh []T
// slices for their intermediate stages on every step.
package integrators

import (
	"github.com/san-kum/rbdsim/internal/dynamics"
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// RK4 advances ms by dt via the classical fourth-order Runge-Kutta method,
// evaluating the mechanism's derivative (qdot from ConfigurationDerivative,
// v̇ from forward dynamics under tau) at four trial states. ms ends the
// call holding the new (q, v); mutating ms mid-step to reach each trial
// point is unavoidable since MechanismState -- not a bare vector -- is
// what dynamics.ForwardDynamics reads.
func RK4[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], tau []T, dt T) error {
	conv := ms.Conv()
	half := conv(0.5)
	two := conv(2)
	sixth := conv(1.0 / 6.0)

	q0 := append([]T(nil), ms.Configuration()...)
	v0 := append([]T(nil), ms.Velocity()...)

	k1q, k1v, err := derivative(ms, tau, q0, v0)
	if err != nil {
		return err
	}
	k2q, k2v, err := derivative(ms, tau, addScaled(q0, k1q, dt.Mul(half)), addScaled(v0, k1v, dt.Mul(half)))
	if err != nil {
		return err
	}
	k3q, k3v, err := derivative(ms, tau, addScaled(q0, k2q, dt.Mul(half)), addScaled(v0, k2v, dt.Mul(half)))
	if err != nil {
		return err
	}
	k4q, k4v, err := derivative(ms, tau, addScaled(q0, k3q, dt), addScaled(v0, k3v, dt))
	if err != nil {
		return err
	}

	qNew := combine(q0, dt.Mul(sixth), k1q, k2q, k3q, k4q, two)
	vNew := combine(v0, dt.Mul(sixth), k1v, k2v, k3v, k4v, two)

	if err := ms.SetConfiguration(qNew); err != nil {
		return err
	}
	return ms.SetVelocity(vNew)
}

// derivative sets ms to (q, v), evaluates (qdot, v̇), and returns them
// without leaving ms at any particular trial point beyond the caller's
// control -- callers always overwrite ms again before reading it further.
func derivative[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], tau, q, v []T) ([]T, []T, error) {
	if err := ms.SetConfiguration(q); err != nil {
		return nil, nil, err
	}
	if err := ms.SetVelocity(v); err != nil {
		return nil, nil, err
	}
	qdot := ms.ConfigurationDerivative()
	vdot, err := dynamics.ForwardDynamics(ms, tau)
	if err != nil {
		return nil, nil, err
	}
	return qdot, vdot, nil
}

func addScaled[T scalar.Scalar[T]](base, delta []T, scale T) []T {
	out := make([]T, len(base))
	for i := range base {
		out[i] = base[i].Add(delta[i].Mul(scale))
	}
	return out
}

func combine[T scalar.Scalar[T]](base []T, dt6 T, k1, k2, k3, k4 []T, two T) []T {
	out := make([]T, len(base))
	for i := range base {
		sum := k1[i].Add(k2[i].Mul(two)).Add(k3[i].Mul(two)).Add(k4[i])
		out[i] = base[i].Add(dt6.Mul(sum))
	}
	return out
}
