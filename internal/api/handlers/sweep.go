package handlers

import (
	"net/http"

	"greenheart/internal/analysis"
	"greenheart/internal/api/models"
	"greenheart/internal/config"
	"greenheart/internal/model"

	"github.com/gin-gonic/gin"
)

// SweepHandler runs scenario sweeps.
type SweepHandler struct {
	sim *SimulateHandler
}

// NewSweepHandler creates a sweep handler sharing the simulate handler's
// config resolution.
func NewSweepHandler(sim *SimulateHandler) *SweepHandler {
	return &SweepHandler{sim: sim}
}

// RunSweep handles POST /api/v1/sweep.
func (h *SweepHandler) RunSweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	base, err := h.sim.loadConfig(req.Config, 0, 0)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	metric := req.RankMetric
	if metric == "" {
		metric = model.MetricLCOH
	}

	scenarios := make([]analysis.Scenario, len(req.Variations))
	for i, v := range req.Variations {
		v := v
		scenarios[i] = analysis.Scenario{
			Label: v.Name,
			Apply: func(cfg *config.SimulationConfig) {
				applyOverride(cfg, v)
			},
		}
	}

	results, err := analysis.Sweep(c.Request.Context(), base, scenarios, req.MaxParallel)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "SWEEP_ERROR", err.Error())
		return
	}

	resp := models.SweepResponse{Status: "completed"}
	for _, r := range analysis.RankByMetric(results, metric) {
		resp.Ranked = append(resp.Ranked, models.SweepEntry{
			Name:    r.Label,
			Metrics: convertMetrics(r.Results),
		})
	}
	for _, r := range results {
		if r.Err != nil {
			resp.Ranked = append(resp.Ranked, models.SweepEntry{Name: r.Label, Error: r.Err.Error()})
		}
	}
	if summary, err := analysis.Summarize(results, metric); err == nil {
		resp.Summary = &models.SweepSummary{
			Metric: summary.Metric,
			Unit:   summary.Unit,
			Count:  summary.Count,
			Min:    summary.Min,
			Max:    summary.Max,
			Mean:   summary.Mean,
			Median: summary.Median,
			P05:    summary.P05,
			P95:    summary.P95,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// applyOverride mutates the scenario's private config copy.
func applyOverride(cfg *config.SimulationConfig, v models.ScenarioOverride) {
	if v.ElectrolyzerRatingKW != nil {
		cfg.Tech.Electrolyzer.RatingKW = *v.ElectrolyzerRatingKW
	}
	if v.PVSystemCapacityKW != nil {
		cfg.Plant.Technologies.PV.SystemCapacityKW = *v.PVSystemCapacityKW
	}
	if v.BatteryCapacityKWh != nil && cfg.Plant.Technologies.Battery != nil {
		cfg.Plant.Technologies.Battery.SystemCapacityKWh = *v.BatteryCapacityKWh
	}
	if v.WindCapexUSDPerKW != nil {
		cfg.Tech.PlantCosts.WindCapexUSDPerKW = *v.WindCapexUSDPerKW
	}
	if v.ElectrolyzerCapex != nil {
		cfg.Tech.Electrolyzer.CapexUSDPerKW = *v.ElectrolyzerCapex
	}
}
