// Package sim provides the core re-rating simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - config.go: SimulationConfig, validation and derived step parameters
//   - path.go: the discretized geometric Brownian motion for the fundamental (BPS) path
//   - scenario.go: baseline and policy multiplier (PBR) paths and how they combine into index series
//
// report.go summarizes a finished run and run.go wires the three stages together.
//
// # Architecture
//
// The sim package holds only pure computation. Everything else lives in
// sub-packages:
//   - sim/batch/: concurrent Monte Carlo batches and sensitivity sweeps
//   - sim/trace/: per-step shock recording
//   - sim/render/: text, CSV and JSON presentation of results
//   - sim/record/: SQLite persistence of run summaries
//   - sim/api/: HTTP handlers exposing runs and batches
//   - sim/schedule/: cron-driven preset batches recorded while serving
//
// # Randomness
//
// No package-level random state is used. Every run receives an explicit
// NormalSource; PartitionedRNG derives isolated, reproducible sources from a
// single master seed.
package sim
