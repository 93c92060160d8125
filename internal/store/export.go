// Package store dumps a trajectory.Trajectory to JSON in one shot, for
// callers (the watch/plot tooling in other example repos, or an external
// notebook) that want the whole run as one JSON document rather than the
// per-run directory of metadata.json and states.csv internal/storage
// produces.
package store

import (
	"encoding/json"
	"os"

	"github.com/san-kum/rbdsim/internal/trajectory"
)

type ExportData struct {
	Preset          string             `json:"preset"`
	Integrator      string             `json:"integrator"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	Steps           int                `json:"steps"`
	Times           []float64          `json:"times"`
	Configurations  [][]float64        `json:"configurations"`
	Velocities      [][]float64        `json:"velocities"`
	Torques         [][]float64        `json:"torques"`
	KineticEnergy   []float64          `json:"kinetic_energy"`
	PotentialEnergy []float64          `json:"potential_energy"`
	Metrics         map[string]float64 `json:"metrics"`
}

func toExportData(preset, integrator string, dt, duration float64, traj *trajectory.Trajectory) ExportData {
	return ExportData{
		Preset:          preset,
		Integrator:      integrator,
		Dt:              dt,
		Duration:        duration,
		Steps:           len(traj.Times),
		Times:           traj.Times,
		Configurations:  traj.Configurations,
		Velocities:      traj.Velocities,
		Torques:         traj.Torques,
		KineticEnergy:   traj.KineticEnergy,
		PotentialEnergy: traj.PotentialEnergy,
		Metrics:         traj.Metrics,
	}
}

// ExportJSON writes the trajectory to path as a single JSON document.
func ExportJSON(path string, preset, integrator string, dt, duration float64, traj *trajectory.Trajectory) error {
	data := toExportData(preset, integrator, dt, duration, traj)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONStdout writes the trajectory to stdout, for piping into jq or
// another tool without an intermediate file.
func ExportJSONStdout(preset, integrator string, dt, duration float64, traj *trajectory.Trajectory) error {
	data := toExportData(preset, integrator, dt, duration, traj)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
