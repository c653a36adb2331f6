package handlers

import (
	"net/http"
	"strconv"

	"greenheart/internal/api/models"
	"greenheart/internal/store"

	"github.com/gin-gonic/gin"
)

// RunsHandler serves persisted run history.
type RunsHandler struct {
	store *store.Store
}

// NewRunsHandler creates a runs handler. A nil store disables the endpoints.
func NewRunsHandler(st *store.Store) *RunsHandler {
	return &RunsHandler{store: st}
}

// ListRuns handles GET /api/v1/runs.
func (h *RunsHandler) ListRuns(c *gin.Context) {
	if h.store == nil {
		writeError(c, http.StatusServiceUnavailable, "NO_RUN_STORE", "run persistence is not configured")
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := h.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	resp := models.ListRunsResponse{Runs: make([]models.RunRecord, len(recs))}
	for i, r := range recs {
		resp.Runs[i] = convertRunRecord(r)
	}
	c.JSON(http.StatusOK, resp)
}

// GetRun handles GET /api/v1/runs/:id.
func (h *RunsHandler) GetRun(c *gin.Context) {
	if h.store == nil {
		writeError(c, http.StatusServiceUnavailable, "NO_RUN_STORE", "run persistence is not configured")
		return
	}
	rec, err := h.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusNotFound, "RUN_NOT_FOUND", err.Error())
		return
	}
	c.JSON(http.StatusOK, convertRunRecord(*rec))
}

func convertRunRecord(r store.RunRecord) models.RunRecord {
	out := models.RunRecord{
		ID:               r.ID,
		CreatedAt:        r.CreatedAt,
		DesignScenario:   r.DesignScenario,
		IncentiveOption:  r.IncentiveOption,
		AEPKWh:           r.AEPKWh,
		CapacityFactor:   r.CapacityFactor,
		AnnualHydrogenKG: r.AnnualHydrogenKG,
	}
	if r.LCOEUSDPerKWh.Valid {
		v := r.LCOEUSDPerKWh.Float64
		out.LCOEUSDPerKWh = &v
	}
	if r.LCOHUSDPerKG.Valid {
		v := r.LCOHUSDPerKG.Float64
		out.LCOHUSDPerKG = &v
	}
	if r.LCOAUSDPerKG.Valid {
		v := r.LCOAUSDPerKG.Float64
		out.LCOAUSDPerKG = &v
	}
	if r.LCOSUSDPerTonne.Valid {
		v := r.LCOSUSDPerTonne.Float64
		out.LCOSUSDPerTonne = &v
	}
	return out
}
