package integrators

import (
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
)

// Euler advances ms by dt via forward (explicit) Euler: one derivative
// evaluation at the current state. Cheaper and far less accurate than RK4;
// useful as a baseline for the energy-drift comparisons package analysis
// runs.
func Euler[T scalar.Scalar[T]](ms *mechstate.MechanismState[T], tau []T, dt T) error {
	q0 := append([]T(nil), ms.Configuration()...)
	v0 := append([]T(nil), ms.Velocity()...)

	qdot, vdot, err := derivative(ms, tau, q0, v0)
	if err != nil {
		return err
	}
	if err := ms.SetConfiguration(addScaled(q0, qdot, dt)); err != nil {
		return err
	}
	return ms.SetVelocity(addScaled(v0, vdot, dt))
}
