// Package trajectory holds the recorded output of a run over
// mechstate.MechanismState[scalar.Float64], generalizing the teacher's
// dynamo.Result (a flat state/control/time record) to a mechanism's
// (q, v, tau) triple plus the per-step energetics analysis and storage
// key off of.
package trajectory

// Trajectory is one run's recorded time series. Every slice is indexed
// by step; Configurations[i]/Velocities[i]/Torques[i] hold the full
// q/v/tau vectors at Times[i].
type Trajectory struct {
	Times          []float64
	Configurations [][]float64
	Velocities     [][]float64
	Torques        [][]float64
	KineticEnergy  []float64
	PotentialEnergy []float64
	Metrics        map[string]float64
}

// TotalEnergy returns the sum of kinetic and potential energy at step i.
func (t *Trajectory) TotalEnergy(i int) float64 {
	return t.KineticEnergy[i] + t.PotentialEnergy[i]
}

// Append records one more step onto the trajectory.
func (t *Trajectory) Append(time float64, q, v, tau []float64, ke, pe float64) {
	t.Times = append(t.Times, time)
	t.Configurations = append(t.Configurations, append([]float64(nil), q...))
	t.Velocities = append(t.Velocities, append([]float64(nil), v...))
	t.Torques = append(t.Torques, append([]float64(nil), tau...))
	t.KineticEnergy = append(t.KineticEnergy, ke)
	t.PotentialEnergy = append(t.PotentialEnergy, pe)
}
