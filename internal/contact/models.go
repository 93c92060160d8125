package contact

import "github.com/san-kum/rbdsim/internal/scalar"

// HuntCrossley is the nonlinear-spring-damper normal contact force law:
// Fn = k*delta^1.5 + b*delta^1.5*deltadot, clamped to zero once the
// dissipative term would pull the surfaces together (no adhesion). It
// carries no per-point state and reports zero friction; pair it with
// CoulombFriction via Composite for a full point contact.
type HuntCrossley[T scalar.Scalar[T]] struct {
	Stiffness   T // k
	Dissipation T // b
	Conv        scalar.FromFloat64[T]
}

func (m HuntCrossley[T]) StateSize() int    { return 0 }
func (m HuntCrossley[T]) ZeroState(_ []T)   {}

func (m HuntCrossley[T]) Force(penetration, penetrationRate, _ T, _ []T) (T, T, []T) {
	zero := scalar.Zero(m.Conv)
	if penetration.Cmp(zero) <= 0 {
		return zero, zero, nil
	}
	delta15 := penetration.Mul(penetration.Sqrt())
	elastic := m.Stiffness.Mul(delta15)
	damping := m.Dissipation.Mul(delta15).Mul(penetrationRate)
	normal := elastic.Add(damping)
	if normal.Cmp(zero) < 0 {
		normal = zero
	}
	return normal, zero, nil
}

// CoulombFriction is a single-bristle viscoelastic tangential friction law
// (LuGre-style): the bristle deflection z relaxes toward the slip velocity
// and saturates once the elastic force it implies would exceed the Coulomb
// limit mu*NormalForce, per spec.md §4.7's "bounded tangential force".
// NormalForce is supplied by the caller each step (typically the normal
// magnitude a paired HuntCrossley model just computed for the same point,
// via Composite) since the Force signature itself carries no normal-force
// argument.
type CoulombFriction[T scalar.Scalar[T]] struct {
	Mu          T // Coulomb coefficient
	Stiffness   T // bristle stiffness, k_t
	Damping     T // bristle damping, b_t
	NormalForce T
	Conv        scalar.FromFloat64[T]
}

func (m CoulombFriction[T]) StateSize() int { return 1 }

func (m CoulombFriction[T]) ZeroState(state []T) {
	state[0] = scalar.Zero(m.Conv)
}

func (m CoulombFriction[T]) Force(_, _, tangentialVelocity T, state []T) (T, T, []T) {
	zero := scalar.Zero(m.Conv)
	z := state[0]
	limit := m.Mu.Mul(m.NormalForce)

	elastic := m.Stiffness.Mul(z)
	viscous := m.Damping.Mul(tangentialVelocity)
	friction := elastic.Add(viscous).Neg()
	if abs64(friction) > abs64(limit) && limit.Float64() >= 0 {
		if friction.Float64() < 0 {
			friction = limit.Neg()
		} else {
			friction = limit
		}
	}

	// Bristle relaxes toward zero at a rate proportional to slip speed,
	// so a stuck contact (tangentialVelocity == 0) holds its deflection.
	zdot := tangentialVelocity.Sub(z.Mul(m.stictionRate(tangentialVelocity)))
	return zero, friction, []T{zdot}
}

func (m CoulombFriction[T]) stictionRate(v T) T {
	if v.Float64() < 0 {
		return v.Neg()
	}
	return v
}

func abs64[T scalar.Scalar[T]](v T) float64 {
	f := v.Float64()
	if f < 0 {
		return -f
	}
	return f
}

// Composite runs a normal law and a friction law together against the same
// contact kinematics, threading the normal law's output into the friction
// law when it exposes a settable NormalForce (as CoulombFriction does),
// then concatenating their per-point state.
type Composite[T scalar.Scalar[T]] struct {
	Normal   Model[T]
	Friction *CoulombFriction[T]
}

func (c Composite[T]) StateSize() int { return c.Normal.StateSize() + c.Friction.StateSize() }

func (c Composite[T]) ZeroState(state []T) {
	c.Normal.ZeroState(state[:c.Normal.StateSize()])
	c.Friction.ZeroState(state[c.Normal.StateSize():])
}

func (c Composite[T]) Force(penetration, penetrationRate, tangentialVelocity T, state []T) (T, T, []T) {
	nSplit := c.Normal.StateSize()
	normal, _, normalRate := c.Normal.Force(penetration, penetrationRate, tangentialVelocity, state[:nSplit])
	c.Friction.NormalForce = normal
	_, friction, frictionRate := c.Friction.Force(penetration, penetrationRate, tangentialVelocity, state[nSplit:])
	rate := make([]T, 0, len(state))
	rate = append(rate, normalRate...)
	rate = append(rate, frictionRate...)
	return normal, friction, rate
}
