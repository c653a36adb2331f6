// Package steel models a direct-reduced-iron / electric-arc-furnace steel
// plant: per-tonne performance coefficients, power-law capital items with
// CEPCI dollar-year adjustment, and a breakeven price ($/tonne liquid steel)
// via the finance pro forma.
package steel

import (
	"errors"
	"fmt"
	"math"

	"greenheart/internal/finance"
	"greenheart/internal/model"
)

// Config is the steel block of the technology YAML.
type Config struct {
	Enabled bool `yaml:"enabled"`
	// Technology selects the reduction pathway: "h2_dri_eaf" or "ng_dri_eaf".
	Technology string `yaml:"technology"`
	// PlantCapacityMTPY is nameplate liquid steel output in metric tonnes
	// per year.
	PlantCapacityMTPY float64 `yaml:"plant_capacity_mtpy"`
	// CostYear is the dollar year results are reported in.
	CostYear int `yaml:"cost_year"`

	// CostLCOH and FinanceLCOH must agree when both are set; nil means
	// "use the simulated LCOH". Mirrors the paired cost/finance inputs.
	CostLCOH    *float64 `yaml:"cost_lcoh"`
	FinanceLCOH *float64 `yaml:"finance_lcoh"`
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, ok := perfCoeffs[c.Technology]; !ok {
		return fmt.Errorf("unsupported steel technology: %q", c.Technology)
	}
	if c.PlantCapacityMTPY <= 0 {
		return errors.New("steel plant_capacity_mtpy must be > 0")
	}
	if c.CostYear == 0 {
		return errors.New("steel cost_year is required")
	}
	if (c.CostLCOH == nil) != (c.FinanceLCOH == nil) {
		return errors.New("steel cost LCOH and finance LCOH must both be specified or both omitted")
	}
	if c.CostLCOH != nil && *c.CostLCOH != *c.FinanceLCOH {
		return errors.New("steel cost LCOH and finance LCOH are not equal")
	}
	return nil
}

// perfCoeff holds per-tonne-of-steel consumption for one pathway.
type perfCoeff struct {
	CapacityFactor float64
	IronOreTonnes  float64 // tonnes pellets / tonne steel
	LimeTonnes     float64
	CarbonTonnes   float64 // coke
	HydrogenTonnes float64
	NaturalGasGJ   float64
	ElectricityMWh float64
	RawWaterTonnes float64
	SlagTonnes     float64
	ExcessOxygenKG float64 // coproduct, kg O2 / tonne steel
}

var perfCoeffs = map[string]perfCoeff{
	"h2_dri_eaf": {
		CapacityFactor: 0.90,
		IronOreTonnes:  1.62,
		LimeTonnes:     0.05,
		CarbonTonnes:   0.02,
		HydrogenTonnes: 0.066,
		NaturalGasGJ:   0.8,
		ElectricityMWh: 0.95,
		RawWaterTonnes: 2.8,
		SlagTonnes:     0.17,
		ExcessOxygenKG: 0,
	},
	"ng_dri_eaf": {
		CapacityFactor: 0.90,
		IronOreTonnes:  1.62,
		LimeTonnes:     0.05,
		CarbonTonnes:   0.02,
		HydrogenTonnes: 0,
		NaturalGasGJ:   10.5,
		ElectricityMWh: 0.75,
		RawWaterTonnes: 2.1,
		SlagTonnes:     0.17,
		ExcessOxygenKG: 395,
	},
}

// capitalCoeff scales one capital item as lin * capacity^exp in SourceYear
// dollars.
type capitalCoeff struct {
	Name       string
	Lin        float64
	Exp        float64
	SourceYear int
}

var capitalCoeffs = map[string][]capitalCoeff{
	"h2_dri_eaf": {
		{"EAF & Casting", 352191.5, 0.456, 2021},
		{"Shaft Furnace", 489.68, 0.88, 2021},
		{"H2 Preheating", 45.69, 0.86, 2021},
		{"Cooling Tower", 2513.08, 0.66, 2021},
		{"Piping", 11815.9, 0.59, 2021},
		{"Electrical & Instrumentation", 7877.15, 0.59, 2021},
		{"Buildings, Storage, Water Service", 1097.81, 0.8, 2021},
		{"Miscellaneous", 7877.15, 0.59, 2021},
	},
	"ng_dri_eaf": {
		{"EAF & Casting", 352191.5, 0.456, 2021},
		{"Shaft Furnace", 489.68, 0.88, 2021},
		{"Reformer", 3828.0, 0.73, 2021},
		{"Cooling Tower", 2513.08, 0.66, 2021},
		{"Piping", 11815.9, 0.59, 2021},
		{"Electrical & Instrumentation", 7877.15, 0.59, 2021},
		{"Buildings, Storage, Water Service", 1097.81, 0.8, 2021},
		{"Miscellaneous", 7877.15, 0.59, 2021},
	},
}

// Feedstock unit costs, 2022 $ per feedstock unit.
const (
	ironOreUnitCostUSD      = 207.35  // $/tonne pellets
	limeUnitCostUSD         = 122.1   // $/tonne
	carbonUnitCostUSD       = 236.97  // $/tonne coke
	naturalGasUnitCostUSD   = 3.76232 // $/GJ-LHV
	rawWaterUnitCostUSD     = 0.59289 // $/tonne
	slagDisposalUnitCostUSD = 37.63   // $/tonne
	oxygenMarketPriceUSD    = 0.03    // $/kg O2
	feedstockCostYear       = 2022
)

// PerformanceResults is the per-tonne bill of materials for the pathway.
type PerformanceResults struct {
	Coeffs                perfCoeff
	AnnualSteelTonnes     float64
	HydrogenDemandKGPerYr float64
}

func RunPerformance(cfg Config) (PerformanceResults, error) {
	if err := cfg.Validate(); err != nil {
		return PerformanceResults{}, err
	}
	pc := perfCoeffs[cfg.Technology]
	annual := cfg.PlantCapacityMTPY * pc.CapacityFactor
	return PerformanceResults{
		Coeffs:                pc,
		AnnualSteelTonnes:     annual,
		HydrogenDemandKGPerYr: annual * pc.HydrogenTonnes * 1000,
	}, nil
}

// CostResults is the sized plant cost in CostYear dollars.
type CostResults struct {
	CapitalItems    []finance.CapitalItem
	TotalCapexUSD   float64
	FixedOMUSDPerYr float64
	InstallationUSD float64
	LandUSD         float64
}

// RunCosts evaluates each capital item as lin * capacity^exp, adjusted from
// its source dollar year to the configured cost year on CEPCI.
func RunCosts(cfg Config, perf PerformanceResults) (CostResults, error) {
	if err := cfg.Validate(); err != nil {
		return CostResults{}, err
	}
	res := CostResults{}
	for _, cc := range capitalCoeffs[cfg.Technology] {
		raw := cc.Lin * math.Pow(cfg.PlantCapacityMTPY, cc.Exp)
		cost, err := finance.InflateCEPCI(raw, cc.SourceYear, cfg.CostYear)
		if err != nil {
			return CostResults{}, fmt.Errorf("capital item %q: %w", cc.Name, err)
		}
		res.CapitalItems = append(res.CapitalItems, finance.CapitalItem{
			Name:            cc.Name,
			CostUSD:         cost,
			DeprPeriodYears: 7,
		})
		res.TotalCapexUSD += cost
	}

	// Labor and maintenance scale with capacity; installation and land with
	// total plant cost.
	labor := 80730 * 100 * math.Pow(cfg.PlantCapacityMTPY/1_000_000, 0.25)
	laborAdj, err := finance.InflateCPI(labor, 2021, cfg.CostYear)
	if err != nil {
		return CostResults{}, fmt.Errorf("labor cost: %w", err)
	}
	res.FixedOMUSDPerYr = laborAdj + 0.015*res.TotalCapexUSD
	res.InstallationUSD = 0.20 * res.TotalCapexUSD
	res.LandUSD = 0.01 * res.TotalCapexUSD
	return res, nil
}

// FinanceResults carries the levelized cost of steel and its breakdown.
type FinanceResults struct {
	LCOS      model.Quantity
	Breakdown []finance.BreakdownRow
}

// RunFinance solves the breakeven steel price, charging hydrogen at LCOH and
// electricity at LCOE, with excess oxygen sold as a coproduct.
func RunFinance(cfg Config, perf PerformanceResults, cost CostResults, lcohUSDPerKG, lcoeUSDPerKWh float64, a finance.Assumptions) (FinanceResults, error) {
	if err := cfg.Validate(); err != nil {
		return FinanceResults{}, err
	}
	if cfg.FinanceLCOH != nil {
		lcohUSDPerKG = *cfg.FinanceLCOH
	}

	pc := perf.Coeffs
	pf := finance.New(finance.Commodity{Name: "steel", Unit: "tonne", Escalation: a.GeneralInflation})
	pf.CapacityPerDay = cfg.PlantCapacityMTPY / 365
	pf.LongTermUtilization = pc.CapacityFactor
	pf.OperatingLifeYears = a.OperatingLifeYears
	pf.GeneralInflation = a.GeneralInflation
	pf.DiscountRate = a.DiscountRate
	pf.TaxRate = a.TaxRate
	pf.InstallationCostUSD = cost.InstallationUSD
	pf.LandCostUSD = cost.LandUSD
	for _, ci := range cost.CapitalItems {
		pf.AddCapitalItem(ci)
	}
	pf.AddFixedCost(finance.FixedCost{Name: "Labor and maintenance", AnnualUSD: cost.FixedOMUSDPerYr, Escalation: a.GeneralInflation})

	// Feedstock unit costs move from their source dollar year on CPI.
	feeds := []struct {
		name  string
		usage float64
		unit  string
		cost  float64
	}{
		{"Iron ore pellets", pc.IronOreTonnes, "tonne", ironOreUnitCostUSD},
		{"Lime", pc.LimeTonnes, "tonne", limeUnitCostUSD},
		{"Carbon (coke)", pc.CarbonTonnes, "tonne", carbonUnitCostUSD},
		{"Hydrogen", pc.HydrogenTonnes, "tonne", lcohUSDPerKG * 1000},
		{"Natural gas", pc.NaturalGasGJ, "GJ-LHV", naturalGasUnitCostUSD},
		{"Electricity", pc.ElectricityMWh, "MWh", lcoeUSDPerKWh * 1000},
		{"Raw water withdrawal", pc.RawWaterTonnes, "tonne", rawWaterUnitCostUSD},
		{"Slag disposal", pc.SlagTonnes, "tonne", slagDisposalUnitCostUSD},
	}
	for _, f := range feeds {
		if f.usage == 0 {
			continue
		}
		unitCost := f.cost
		// Hydrogen and electricity are priced by the simulation itself, in
		// current dollars already.
		if f.name != "Hydrogen" && f.name != "Electricity" {
			adj, err := finance.InflateCPI(f.cost, feedstockCostYear, cfg.CostYear)
			if err != nil {
				return FinanceResults{}, fmt.Errorf("feedstock %q: %w", f.name, err)
			}
			unitCost = adj
		}
		pf.AddFeedstock(finance.Feedstock{
			Name:        f.name,
			Usage:       f.usage,
			Unit:        f.unit,
			UnitCostUSD: unitCost,
			Escalation:  a.GeneralInflation,
		})
	}
	if pc.ExcessOxygenKG > 0 {
		pf.AddCoproduct(finance.Coproduct{
			Name:         "Oxygen sales",
			Usage:        pc.ExcessOxygenKG,
			Unit:         "kg",
			UnitPriceUSD: oxygenMarketPriceUSD,
			Escalation:   a.GeneralInflation,
		})
	}

	sol, err := pf.SolvePrice()
	if err != nil {
		return FinanceResults{}, fmt.Errorf("steel finance: %w", err)
	}
	breakdown, err := pf.CostBreakdown()
	if err != nil {
		return FinanceResults{}, fmt.Errorf("steel breakdown: %w", err)
	}
	return FinanceResults{
		LCOS:      model.Quantity{Value: sol.PriceUSD, Unit: "$/tonne"},
		Breakdown: breakdown,
	}, nil
}

// RunFullModel runs performance, cost, and finance in sequence.
func RunFullModel(cfg Config, lcohUSDPerKG, lcoeUSDPerKWh float64, a finance.Assumptions) (PerformanceResults, CostResults, FinanceResults, error) {
	perf, err := RunPerformance(cfg)
	if err != nil {
		return PerformanceResults{}, CostResults{}, FinanceResults{}, err
	}
	cost, err := RunCosts(cfg, perf)
	if err != nil {
		return perf, CostResults{}, FinanceResults{}, err
	}
	fin, err := RunFinance(cfg, perf, cost, lcohUSDPerKG, lcoeUSDPerKWh, a)
	if err != nil {
		return perf, cost, FinanceResults{}, err
	}
	return perf, cost, fin, nil
}
