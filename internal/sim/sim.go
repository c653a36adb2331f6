// Package sim orchestrates a full plant simulation: resource loading, hybrid
// plant performance, electrolyzer physics, levelized cost solves for every
// configured product, and the optional life-cycle assessment.
package sim

import (
	"errors"
	"fmt"
	"log"

	"greenheart/internal/ammonia"
	"greenheart/internal/config"
	"greenheart/internal/data"
	"greenheart/internal/electrolyzer"
	"greenheart/internal/finance"
	"greenheart/internal/lca"
	"greenheart/internal/model"
	"greenheart/internal/plant"
	"greenheart/internal/steel"

	"github.com/google/uuid"
)

// Results is the handle returned by Run. Metrics are read through Metric;
// the profile and breakdown fields feed reporting.
type Results struct {
	RunID    string
	Settings config.Settings

	Performance *plant.Performance
	Hydrogen    *electrolyzer.PhysicsResults
	// GridEnergyKWh is annual grid top-up, zero when off-grid.
	GridEnergyKWh float64

	metrics map[string]model.Quantity

	LCOEBreakdown []finance.BreakdownRow
	LCOHBreakdown []finance.BreakdownRow
	LCOABreakdown []finance.BreakdownRow
	LCOSBreakdown []finance.BreakdownRow

	LCARows []lca.Row
}

// Metric returns a named levelized-cost result.
func (r *Results) Metric(name string) (model.Quantity, error) {
	q, ok := r.metrics[name]
	if !ok {
		return model.Quantity{}, fmt.Errorf("unknown metric %q", name)
	}
	return q, nil
}

// Metrics returns every computed metric, keyed by name.
func (r *Results) Metrics() map[string]model.Quantity {
	out := make(map[string]model.Quantity, len(r.metrics))
	for k, v := range r.metrics {
		out[k] = v
	}
	return out
}

// Run executes the full simulation described by cfg.
func Run(cfg *config.SimulationConfig) (*Results, error) {
	if cfg == nil {
		return nil, errors.New("simulation config is nil")
	}

	res := &Results{
		RunID:    uuid.New().String(),
		Settings: cfg.Settings,
		metrics:  map[string]model.Quantity{},
	}
	verbose := cfg.Settings.Verbose

	windRes, err := data.LoadWindResourceCSV(cfg.Plant.Site.WindResourceFile)
	if err != nil {
		return nil, err
	}
	solarRes, err := loadSolar(cfg, windRes.Hours())
	if err != nil {
		return nil, err
	}

	perf, err := plant.Simulate(plant.Config{
		Turbine: &cfg.Turbine,
		Wake:    &cfg.Wake,
		Wind: plant.WindConfig{
			NumTurbines:     cfg.Plant.Technologies.Wind.NumTurbines,
			TurbineRatingKW: cfg.Plant.Technologies.Wind.TurbineRatingKW,
			Losses:          cfg.Plant.Technologies.Wind.Losses,
		},
		PV: plant.PVConfig{
			SystemCapacityKW: cfg.Plant.Technologies.PV.SystemCapacityKW,
			Losses:           cfg.Plant.Technologies.PV.Losses,
		},
		Battery:              batteryParams(cfg),
		ElectrolyzerRatingKW: cfg.Tech.Electrolyzer.RatingKW,
	}, windRes, solarRes)
	if err != nil {
		return nil, fmt.Errorf("plant simulation: %w", err)
	}
	res.Performance = perf
	if verbose {
		log.Printf("[Sim] Plant: AEP=%.0f kWh, CF=%.3f, wake loss=%.3f",
			perf.AEPKWh, perf.CapacityFactor, perf.WakeLossFraction)
	}

	// Grid top-up runs the electrolyzer at rating every hour; the difference
	// between rating and renewable delivery is bought from the grid.
	elecProfile := perf.ToElectrolyzerKW
	if cfg.Plant.Technologies.GridConnection {
		rating := cfg.Tech.Electrolyzer.RatingKW
		elecProfile = make([]float64, perf.Hours)
		gridKWh := 0.0
		for i, p := range perf.ToElectrolyzerKW {
			elecProfile[i] = rating
			if p < rating {
				gridKWh += rating - p
			}
		}
		res.GridEnergyKWh = model.AnnualizeKWh(gridKWh, perf.Hours)
	}

	h2, err := electrolyzer.RunPhysics(elecProfile, cfg.Tech.Electrolyzer)
	if err != nil {
		return nil, fmt.Errorf("electrolyzer physics: %w", err)
	}
	res.Hydrogen = h2
	if verbose {
		log.Printf("[Sim] Electrolyzer: %.0f kg/yr, CF=%.3f", h2.AnnualProductionKG, h2.CapacityFactor)
	}

	a := cfg.Tech.FinanceParameters

	// LCOE over the renewable plant.
	plantCapex := cfg.WindPlantCapacityKW()*cfg.Tech.PlantCosts.WindCapexUSDPerKW +
		cfg.Plant.Technologies.PV.SystemCapacityKW*cfg.Tech.PlantCosts.PVCapexUSDPerKW
	if b := cfg.Plant.Technologies.Battery; b != nil {
		plantCapex += b.SystemCapacityKWh * cfg.Tech.PlantCosts.BatteryCapexUSDPerKWh
	}
	lcoe, lcoePF, err := finance.LevelizedCostOfEnergy(finance.EnergyInputs{
		PlantCapexUSD:   plantCapex,
		FixedOMUSDPerYr: plantCapex * cfg.Tech.PlantCosts.FixedOMFraction,
		AEPKWh:          perf.AEPKWh,
	}, a)
	if err != nil {
		return nil, fmt.Errorf("lcoe: %w", err)
	}
	res.metrics[model.MetricLCOE] = lcoe
	res.LCOEBreakdown, err = lcoePF.CostBreakdown()
	if err != nil {
		return nil, fmt.Errorf("lcoe breakdown: %w", err)
	}

	// LCOH, charging electricity at LCOE blended with any grid top-up.
	elecCost, err := cfg.Tech.Electrolyzer.Costs()
	if err != nil {
		return nil, fmt.Errorf("electrolyzer costs: %w", err)
	}
	storage := cfg.Tech.H2Storage
	storageCapex := h2.RatedKGPerHr * 24 * storage.DaysOfStorage * storage.CapexUSDPerKG

	elecKWh := 0.0
	for _, p := range h2.PowerToElectrolyzerKW {
		elecKWh += p
	}
	annualElecKWh := model.AnnualizeKWh(elecKWh, perf.Hours)
	effectiveSEC := 0.0
	if h2.AnnualProductionKG > 0 {
		effectiveSEC = annualElecKWh / h2.AnnualProductionKG
	}
	elecPrice := lcoe.Value
	if res.GridEnergyKWh > 0 && annualElecKWh > 0 {
		renewKWh := annualElecKWh - res.GridEnergyKWh
		elecPrice = (renewKWh*lcoe.Value + res.GridEnergyKWh*cfg.Tech.ProjectParameters.GridElectricityUSDPerKWh) / annualElecKWh
	}

	lcoh, lcohPF, err := finance.LevelizedCostOfHydrogen(finance.HydrogenInputs{
		ElectrolyzerCapexUSD: elecCost.CapexUSD,
		StorageCapexUSD:      storageCapex,
		FixedOMUSDPerYr:      elecCost.FixedOMUSDPerYr,
		VariableOMUSDPerKG:   cfg.Tech.Electrolyzer.VariableOMUSDPerKG,
		AnnualProductionKG:   h2.AnnualProductionKG,
		ElectricityKWhPerKG:  effectiveSEC,
		LCOEUSDPerKWh:        elecPrice,
		WaterUsageKGPerKG:    cfg.Tech.Electrolyzer.WaterUsageKGPerKGH2,
		WaterCostUSDPerKG:    cfg.Tech.Electrolyzer.WaterCostUSDPerKG,
	}, a)
	if err != nil {
		return nil, fmt.Errorf("lcoh: %w", err)
	}
	res.metrics[model.MetricLCOH] = lcoh
	res.LCOHBreakdown, err = lcohPF.CostBreakdown()
	if err != nil {
		return nil, fmt.Errorf("lcoh breakdown: %w", err)
	}
	if verbose {
		log.Printf("[Sim] LCOE=%s, LCOH=%s", lcoe, lcoh)
	}

	var steelPerf steel.PerformanceResults
	if cfg.Tech.Ammonia.Enabled {
		_, _, fin, err := ammonia.RunFullModel(cfg.Tech.Ammonia, h2.AnnualProductionKG, lcoh.Value, lcoe.Value, a)
		if err != nil {
			return nil, fmt.Errorf("ammonia: %w", err)
		}
		res.metrics[model.MetricLCOA] = fin.LCOA
		res.LCOABreakdown = fin.Breakdown
		if verbose {
			log.Printf("[Sim] LCOA=%s", fin.LCOA)
		}
	}
	if cfg.Tech.Steel.Enabled {
		sp, _, fin, err := steel.RunFullModel(cfg.Tech.Steel, lcoh.Value, lcoe.Value, a)
		if err != nil {
			return nil, fmt.Errorf("steel: %w", err)
		}
		steelPerf = sp
		res.metrics[model.MetricLCOS] = fin.LCOS
		res.LCOSBreakdown = fin.Breakdown
		if verbose {
			log.Printf("[Sim] LCOS=%s", fin.LCOS)
		}
	}

	if cfg.Tech.LCA.RunLCA {
		in := lca.Inputs{
			AnnualH2KG:     h2.AnnualProductionKG,
			WindEnergyKWh:  model.AnnualizeKWh(sum(perf.WindKW), perf.Hours),
			SolarEnergyKWh: model.AnnualizeKWh(sum(perf.PVKW), perf.Hours),
			GridEnergyKWh:  res.GridEnergyKWh,
		}
		if cfg.Tech.Ammonia.Enabled {
			in.AmmoniaKGPerYr = h2.AnnualProductionKG / cfg.Tech.Ammonia.HydrogenKGPerKG
			in.HydrogenPerKGNH3 = cfg.Tech.Ammonia.HydrogenKGPerKG
		}
		if cfg.Tech.Steel.Enabled {
			in.SteelTonnesPerYr = steelPerf.AnnualSteelTonnes
			in.HydrogenPerTonneSteel = steelPerf.Coeffs.HydrogenTonnes * 1000
		}
		rows, err := lca.Calculate(cfg.Tech.LCA, in)
		if err != nil {
			return nil, fmt.Errorf("lca: %w", err)
		}
		res.LCARows = rows
	}

	return res, nil
}

// loadSolar reads the solar profile, or substitutes an all-zero profile of
// the wind horizon when no PV is configured.
func loadSolar(cfg *config.SimulationConfig, hours int) (*model.SolarResource, error) {
	if cfg.Plant.Technologies.PV.SystemCapacityKW <= 0 {
		return &model.SolarResource{GHIWm2: make([]float64, hours)}, nil
	}
	return data.LoadSolarResourceCSV(cfg.Plant.Site.SolarResourceFile)
}

func batteryParams(cfg *config.SimulationConfig) *model.BatteryParams {
	b := cfg.Plant.Technologies.Battery
	if b == nil {
		return nil
	}
	p := b.ToModelParams()
	return &p
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
