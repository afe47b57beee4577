package api

import (
	"github.com/valuation-lab/rerate-sim/sim"
	"github.com/valuation-lab/rerate-sim/sim/batch"
	"github.com/valuation-lab/rerate-sim/sim/render"
)

// MaxBatchRuns caps the runs accepted by a single batch request.
const MaxBatchRuns = 10000

// SimulationRequest is the body of POST /v1/simulations.
// Config and Preset are mutually exclusive; with neither, the default scenario is used.
type SimulationRequest struct {
	Seed          int64                 `json:"seed"`
	Preset        string                `json:"preset,omitempty"`
	Config        *sim.SimulationConfig `json:"config,omitempty"`
	IncludeSeries bool                  `json:"include_series"`
}

// SimulationResponse is returned by POST /v1/simulations.
type SimulationResponse struct {
	ID   string             `json:"id,omitempty"` // set when a recorder is configured
	Seed int64              `json:"seed"`
	Run  render.RunDocument `json:"run"`
}

// BatchRequest is the body of POST /v1/batches.
type BatchRequest struct {
	Seed    int64                 `json:"seed"`
	Runs    int                   `json:"runs" binding:"required,min=1"`
	Workers int                   `json:"workers"`
	Preset  string                `json:"preset,omitempty"`
	Config  *sim.SimulationConfig `json:"config,omitempty"`
}

// BatchResponse is returned by POST /v1/batches.
type BatchResponse struct {
	ID     string             `json:"id,omitempty"`
	Result *batch.BatchResult `json:"result"`
}

// PresetInfo describes one preset in GET /v1/presets.
type PresetInfo struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Config      sim.SimulationConfig `json:"config"`
}

// ErrorBody is the error envelope of every non-2xx response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeNonFiniteResult      = "NON_FINITE_RESULT"
	CodeInternal             = "INTERNAL_ERROR"
)
