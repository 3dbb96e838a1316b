package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asicfleet/simulator/internal/configsurface"
	"github.com/asicfleet/simulator/internal/fleet"
	"github.com/asicfleet/simulator/internal/preset"
	"github.com/asicfleet/simulator/internal/version"
)

// errorStatus maps a FleetRuntime error to an HTTP status (SPEC_FULL.md
// §7): unknown ids and preset ids are 404, capacity exhaustion is 429,
// anything else is an unexpected 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, fleet.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fleet.ErrFleetBusy):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

// handleHealthz reports process liveness plus host resource usage
// (SPEC_FULL.md §4.8). Always 200 while the process is able to respond.
func (s *Server) handleHealthz(c *gin.Context) {
	resp := gin.H{"status": "ok", "fleet_size": len(s.rt.List())}
	if s.host != nil {
		resp["host"] = s.host.Sample()
	}
	c.JSON(http.StatusOK, resp)
}

// handleListMiners implements listMiners (spec §6).
func (s *Server) handleListMiners(c *gin.Context) {
	c.JSON(http.StatusOK, s.rt.List())
}

type createMinerRequest struct {
	ModelID    string `json:"model_id" binding:"required"`
	ScenarioID string `json:"scenario_id" binding:"required"`
}

// handleCreateMiner implements createMiner (spec §6).
func (s *Server) handleCreateMiner(c *gin.Context) {
	var req createMinerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.rt.Create(req.ModelID, req.ScenarioID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"miner_id": id})
}

// handleDeleteMiner implements deleteMiner (spec §6).
func (s *Server) handleDeleteMiner(c *gin.Context) {
	id := c.Param("id")
	if err := s.rt.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// handleGetTelemetry implements getTelemetry (spec §6).
func (s *Server) handleGetTelemetry(c *gin.Context) {
	id := c.Param("id")
	snap, err := s.rt.Snapshot(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// handlePatchConfig implements patchConfig (spec §4.2, §6, §7
// InvalidConfig). Per-field violations are reported at 422 as a
// "violations" array so partial acceptance (spec's per-field policy) is
// visible to the caller; the accepted fields were still enqueued.
func (s *Server) handlePatchConfig(c *gin.Context) {
	id := c.Param("id")

	var raw configsurface.RawPatch
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	violations, err := s.rt.PatchConfig(id, raw)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(violations) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"violations": violations})
		return
	}
	c.Status(http.StatusOK)
}

// handleRestart implements restartMiner (spec §6).
func (s *Server) handleRestart(c *gin.Context) {
	id := c.Param("id")
	if err := s.rt.Restart(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// handleListModels implements listModels (spec §6).
func (s *Server) handleListModels(c *gin.Context) {
	models := s.rt.ListModels()
	if models == nil {
		models = []preset.PublicView{}
	}
	c.JSON(http.StatusOK, models)
}

// handleListScenarios implements listScenarios (spec §6).
func (s *Server) handleListScenarios(c *gin.Context) {
	scenarios := s.rt.ListScenarios()
	if scenarios == nil {
		scenarios = []preset.PublicListEntry{}
	}
	c.JSON(http.StatusOK, scenarios)
}

// handleVersion reports the running build and supported catalog schema
// constraint (SPEC_FULL.md §4.7/§10).
func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, version.Current(catalogSchemaVersion))
}

// catalogSchemaVersion mirrors the schema_version the built-in default
// catalog declares (preset.defaults.go); kept here since preset does not
// export its internal constant.
const catalogSchemaVersion = "1.0.0"

// handleHistory exposes recorded telemetry samples for a miner over a time
// window (SPEC_FULL.md §4.6, additive). Only registered when a history
// store is configured.
func (s *Server) handleHistory(c *gin.Context) {
	id := c.Param("id")
	since := queryFloat(c, "since", 0)
	until := queryFloat(c, "until", float64(1<<62))

	samples, err := s.history.Samples(c.Request.Context(), id, since, until)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, samples)
}

func queryFloat(c *gin.Context, key string, fallback float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
