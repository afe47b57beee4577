package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/valuation-lab/rerate-sim/sim"
	"github.com/valuation-lab/rerate-sim/sim/batch"
	"github.com/valuation-lab/rerate-sim/sim/record"
	"github.com/valuation-lab/rerate-sim/sim/render"
)

// Handler serves simulation requests.
type Handler struct {
	presets  sim.PresetFile
	recorder record.Recorder
}

// NewHandler creates a handler. A nil recorder disables persistence.
func NewHandler(presets sim.PresetFile, recorder record.Recorder) *Handler {
	if recorder == nil {
		recorder = record.NewNoopRecorder()
	}
	return &Handler{presets: presets, recorder: recorder}
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListPresets handles GET /v1/presets
func (h *Handler) ListPresets(c *gin.Context) {
	presets := make([]PresetInfo, 0, len(h.presets.Presets))
	for _, name := range h.presets.Names() {
		p := h.presets.Presets[name]
		presets = append(presets, PresetInfo{Name: name, Description: p.Description, Config: p.Config})
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// RunSimulation handles POST /v1/simulations
func (h *Handler) RunSimulation(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	cfg, err := h.resolveConfig(req.Preset, req.Config)
	if err != nil {
		abortWithConfigError(c, err)
		return
	}

	res, err := sim.Run(cfg, sim.NewRunRNG(req.Seed))
	if err != nil {
		abortWithConfigError(c, err)
		return
	}

	resp := SimulationResponse{Seed: req.Seed, Run: render.NewRunDocument(res, req.IncludeSeries)}
	if id, err := h.recorder.RecordRun(req.Seed, res); err != nil {
		logrus.Errorf("recording run: %v", err)
	} else {
		resp.ID = id
	}
	c.JSON(http.StatusOK, resp)
}

// RunBatch handles POST /v1/batches
func (h *Handler) RunBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	if req.Runs > MaxBatchRuns {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest,
			fmt.Errorf("runs must not exceed %d, got %d", MaxBatchRuns, req.Runs))
		return
	}
	cfg, err := h.resolveConfig(req.Preset, req.Config)
	if err != nil {
		abortWithConfigError(c, err)
		return
	}

	res, err := batch.Run(c.Request.Context(), cfg, batch.BatchConfig{Seed: req.Seed, Runs: req.Runs, Workers: req.Workers})
	if err != nil {
		abortWithConfigError(c, err)
		return
	}

	resp := BatchResponse{Result: res}
	if id, err := h.recorder.RecordBatch(res); err != nil {
		logrus.Errorf("recording batch: %v", err)
	} else {
		resp.ID = id
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) resolveConfig(preset string, cfg *sim.SimulationConfig) (sim.SimulationConfig, error) {
	switch {
	case preset != "" && cfg != nil:
		return sim.SimulationConfig{}, fmt.Errorf("%w: preset and config are mutually exclusive", sim.ErrInvalidConfiguration)
	case preset != "":
		return h.presets.Lookup(preset)
	case cfg != nil:
		c := *cfg
		if c.NegativeValues == "" {
			c.NegativeValues = sim.NegativeAllow
		}
		return c, c.Validate()
	default:
		return sim.DefaultConfig(), nil
	}
}

func abortWithConfigError(c *gin.Context, err error) {
	if errors.Is(err, sim.ErrInvalidConfiguration) {
		abortWithError(c, http.StatusBadRequest, CodeInvalidConfiguration, err)
		return
	}
	if errors.Is(err, sim.ErrNonFiniteResult) {
		abortWithError(c, http.StatusUnprocessableEntity, CodeNonFiniteResult, err)
		return
	}
	if ctxErr := c.Request.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		abortWithError(c, http.StatusServiceUnavailable, CodeInternal, err)
		return
	}
	// Unknown preset names and batch parameter errors are caller mistakes too.
	abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, err)
}

func abortWithError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: err.Error()}})
}
