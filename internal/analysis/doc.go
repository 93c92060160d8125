// Package analysis provides dynamics-analysis tools that operate on a
// mechanism's own state and integrators rather than a flat, model-specific
// state vector.
//
//   - [TrajectorySeparation]: largest Lyapunov exponent via nearby-trajectory
//     divergence, generalized from the teacher's flat-state-vector version
//   - [EnergyDrift]: maximum relative deviation of total mechanical energy
//     over a run, the numerical-integration-quality check spec.md §8 names
package analysis
