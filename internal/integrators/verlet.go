package integrators

import (
	"github.com/san-kum/rbdsim/internal/dynamics"
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// SemiImplicitEuler advances ms by dt using the symplectic (semi-implicit)
// Euler update: v_{n+1} = v_n + dt*v̇(q_n, v_n), q_{n+1} = q_n +
// dt*qdot(q_n, v_{n+1}). Updating velocity first and feeding the new
// velocity into the configuration update, rather than both from the same
// (q_n, v_n) pair as explicit Euler does, is what gives it its much better
// long-run energy behavior on oscillatory mechanisms -- the property the
// teacher's velocity-Verlet integrator exploited for its N-body orbits.
func SemiImplicitEuler[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], tau []T, dt T) error {
	q0 := append([]T(nil), ms.Configuration()...)
	v0 := append([]T(nil), ms.Velocity()...)

	vdot, err := dynamics.ForwardDynamics(ms, tau)
	if err != nil {
		return err
	}
	v1 := addScaled(v0, vdot, dt)
	if err := ms.SetVelocity(v1); err != nil {
		return err
	}

	qdot := ms.ConfigurationDerivative()
	q1 := addScaled(q0, qdot, dt)
	return ms.SetConfiguration(q1)
}
