package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"greenheart/internal/api/models"
	"greenheart/internal/config"
	"greenheart/internal/finance"
	"greenheart/internal/lca"
	"greenheart/internal/plant"
	"greenheart/internal/sim"
	"greenheart/internal/store"

	"github.com/gin-gonic/gin"
)

// SimulateHandler handles simulation requests.
type SimulateHandler struct {
	configDir string
	store     *store.Store // nil when no run store is configured
}

// NewSimulateHandler creates a simulation handler. configDir anchors relative
// config paths from requests; empty falls back to CONFIG_DIR or ./examples.
func NewSimulateHandler(configDir string, st *store.Store) *SimulateHandler {
	if configDir == "" {
		configDir = os.Getenv("CONFIG_DIR")
	}
	if configDir == "" {
		configDir = "./examples"
	}
	return &SimulateHandler{configDir: configDir, store: st}
}

// RunSimulation handles POST /api/v1/simulate.
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, err := h.loadConfig(req.Config, req.DesignScenario, req.IncentiveOption)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	res, err := sim.Run(cfg)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "SIMULATION_ERROR", err.Error())
		return
	}

	if req.Options.SaveRun {
		if h.store == nil {
			writeError(c, http.StatusServiceUnavailable, "NO_RUN_STORE", "run persistence is not configured")
			return
		}
		if err := h.store.InsertRun(context.Background(), res); err != nil {
			log.Printf("[API] Failed to persist run %s: %v", res.RunID, err)
			writeError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, buildSimulateResponse(res, req.Options.IncludeFlows))
}

func (h *SimulateHandler) loadConfig(paths models.ConfigPaths, design, incentive int) (*config.SimulationConfig, error) {
	return config.Load(config.Settings{
		PlantConfigPath:      h.resolve(paths.PlantConfig),
		TechnologyConfigPath: h.resolve(paths.TechnologyConfig),
		TurbineConfigPath:    h.resolve(paths.TurbineConfig),
		WakeConfigPath:       h.resolve(paths.WakeConfig),
		DesignScenario:       design,
		IncentiveOption:      incentive,
	})
}

func (h *SimulateHandler) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(h.configDir, path)
}

func buildSimulateResponse(res *sim.Results, includeFlows bool) models.SimulateResponse {
	resp := models.SimulateResponse{
		Status:  "completed",
		RunID:   res.RunID,
		Metrics: convertMetrics(res),
		Summary: models.PlantSummary{
			GridEnergyKWh: res.GridEnergyKWh,
		},
		LCOEBreakdown: convertBreakdown(res.LCOEBreakdown),
		LCOHBreakdown: convertBreakdown(res.LCOHBreakdown),
		LCOABreakdown: convertBreakdown(res.LCOABreakdown),
		LCOSBreakdown: convertBreakdown(res.LCOSBreakdown),
		LCA:           convertLCA(res.LCARows),
	}
	if res.Performance != nil {
		resp.Summary.Hours = res.Performance.Hours
		resp.Summary.AEPKWh = res.Performance.AEPKWh
		resp.Summary.CapacityFactor = res.Performance.CapacityFactor
		resp.Summary.WakeLossFraction = res.Performance.WakeLossFraction
		if includeFlows {
			resp.Flows = convertFlows(res.Performance.Flows)
		}
	}
	if res.Hydrogen != nil {
		resp.Summary.AnnualHydrogenKG = res.Hydrogen.AnnualProductionKG
		resp.Summary.ElectrolyzerCF = res.Hydrogen.CapacityFactor
	}
	return resp
}

func convertMetrics(res *sim.Results) map[string]models.Metric {
	out := map[string]models.Metric{}
	for name, q := range res.Metrics() {
		out[name] = models.Metric{Value: q.Value, Unit: q.Unit}
	}
	return out
}

func convertBreakdown(rows []finance.BreakdownRow) []models.BreakdownRow {
	if len(rows) == 0 {
		return nil
	}
	out := make([]models.BreakdownRow, len(rows))
	for i, r := range rows {
		out[i] = models.BreakdownRow{Name: r.Name, Category: r.Category, USDPerUnit: r.USDPerUnit}
	}
	return out
}

func convertFlows(flows []plant.FlowRow) []models.FlowRow {
	out := make([]models.FlowRow, len(flows))
	for i, r := range flows {
		out[i] = models.FlowRow{
			Index:               r.Index,
			WindKW:              r.WindKW,
			PVKW:                r.PVKW,
			GenerationKW:        r.GenerationKW,
			BatteryAction:       string(r.BatteryAction),
			BatteryAbsorbedKWh:  r.BatteryAbsorbedKWh,
			BatteryDeliveredKWh: r.BatteryDeliveredKWh,
			BatterySOC:          r.BatterySOC,
			ToElectrolyzerKW:    r.ToElectrolyzerKW,
			CurtailedKW:         r.CurtailedKW,
		}
	}
	return out
}

func convertLCA(rows []lca.Row) []models.LCARow {
	if len(rows) == 0 {
		return nil
	}
	out := make([]models.LCARow, len(rows))
	for i, r := range rows {
		out[i] = models.LCARow{
			Product: r.Product,
			Pathway: r.Pathway,
			Scope1:  r.Scope1,
			Scope2:  r.Scope2,
			Scope3:  r.Scope3,
			Total:   r.Total,
			Unit:    r.Unit,
		}
	}
	return out
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}
