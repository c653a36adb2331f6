// Package ammonia models an ammonia synthesis plant fed by the hydrogen
// plant: capacity sizing from available hydrogen, power-law capital costs,
// and a breakeven price ($/kg NH3) via the finance pro forma.
package ammonia

import (
	"errors"
	"fmt"
	"math"

	"greenheart/internal/finance"
	"greenheart/internal/model"
)

// Config is the ammonia block of the technology YAML.
type Config struct {
	Enabled bool `yaml:"enabled"`

	// HydrogenKGPerKG is kg H2 consumed per kg NH3. Stoichiometric minimum
	// is 0.178; real plants run slightly above it.
	HydrogenKGPerKG float64 `yaml:"hydrogen_kg_per_kg"`
	// ElectricityKWhPerKG covers synthesis loop compression and ASU load.
	ElectricityKWhPerKG float64 `yaml:"electricity_kwh_per_kg"`

	// Capital scales as CapexBaseUSD * (capacity / CapexBaseCapacity)^exp.
	CapexBaseUSD             float64 `yaml:"capex_base_usd"`
	CapexBaseCapacityKGPerYr float64 `yaml:"capex_base_capacity_kg_per_year"`
	CapexScalingExponent     float64 `yaml:"capex_scaling_exponent"`
	// FixedOMFraction is annual fixed O&M as a fraction of CAPEX.
	FixedOMFraction float64 `yaml:"fixed_om_fraction"`

	// CapacityFactor of the synthesis loop.
	CapacityFactor float64 `yaml:"capacity_factor"`
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.HydrogenKGPerKG <= 0 {
		return errors.New("ammonia hydrogen_kg_per_kg must be > 0")
	}
	if c.ElectricityKWhPerKG < 0 {
		return errors.New("ammonia electricity_kwh_per_kg must be >= 0")
	}
	if c.CapexBaseUSD <= 0 || c.CapexBaseCapacityKGPerYr <= 0 {
		return errors.New("ammonia capex base cost and capacity must be > 0")
	}
	if c.CapexScalingExponent <= 0 || c.CapexScalingExponent > 1 {
		return errors.New("ammonia capex_scaling_exponent must be in (0, 1]")
	}
	if c.CapacityFactor <= 0 || c.CapacityFactor > 1 {
		return errors.New("ammonia capacity_factor must be in (0, 1]")
	}
	return nil
}

// PerformanceResults sizes the plant from the hydrogen actually available.
type PerformanceResults struct {
	PlantCapacityKGPerYr  float64
	HydrogenDemandKGPerYr float64
	CapacityFactor        float64
}

// RunPerformance sizes the ammonia plant so it consumes the full annual
// hydrogen output at the configured capacity factor.
func RunPerformance(cfg Config, availableH2KGPerYr float64) (PerformanceResults, error) {
	if err := cfg.Validate(); err != nil {
		return PerformanceResults{}, err
	}
	if availableH2KGPerYr <= 0 {
		return PerformanceResults{}, errors.New("no hydrogen available for ammonia synthesis")
	}
	annualNH3 := availableH2KGPerYr / cfg.HydrogenKGPerKG
	return PerformanceResults{
		PlantCapacityKGPerYr:  annualNH3 / cfg.CapacityFactor,
		HydrogenDemandKGPerYr: availableH2KGPerYr,
		CapacityFactor:        cfg.CapacityFactor,
	}, nil
}

// CostResults is the sized plant cost.
type CostResults struct {
	CapexUSD        float64
	FixedOMUSDPerYr float64
}

// RunCosts applies power-law capital scaling from the reference plant.
func RunCosts(cfg Config, perf PerformanceResults) (CostResults, error) {
	if err := cfg.Validate(); err != nil {
		return CostResults{}, err
	}
	if perf.PlantCapacityKGPerYr <= 0 {
		return CostResults{}, errors.New("ammonia plant capacity must be > 0")
	}
	capex := cfg.CapexBaseUSD * math.Pow(perf.PlantCapacityKGPerYr/cfg.CapexBaseCapacityKGPerYr, cfg.CapexScalingExponent)
	return CostResults{
		CapexUSD:        capex,
		FixedOMUSDPerYr: capex * cfg.FixedOMFraction,
	}, nil
}

// FinanceResults carries the levelized cost of ammonia and its breakdown.
type FinanceResults struct {
	LCOA      model.Quantity
	Breakdown []finance.BreakdownRow
}

// RunFinance solves the breakeven ammonia price, charging hydrogen at LCOH
// and electricity at LCOE.
func RunFinance(cfg Config, perf PerformanceResults, cost CostResults, lcohUSDPerKG, lcoeUSDPerKWh float64, a finance.Assumptions) (FinanceResults, error) {
	if err := cfg.Validate(); err != nil {
		return FinanceResults{}, err
	}
	annualKG := perf.PlantCapacityKGPerYr * perf.CapacityFactor
	if annualKG <= 0 {
		return FinanceResults{}, errors.New("ammonia annual production must be > 0")
	}

	pf := finance.New(finance.Commodity{Name: "ammonia", Unit: "kg", Escalation: a.GeneralInflation})
	pf.CapacityPerDay = perf.PlantCapacityKGPerYr / 365
	pf.LongTermUtilization = perf.CapacityFactor
	pf.OperatingLifeYears = a.OperatingLifeYears
	pf.GeneralInflation = a.GeneralInflation
	pf.DiscountRate = a.DiscountRate
	pf.TaxRate = a.TaxRate
	pf.AddCapitalItem(finance.CapitalItem{Name: "Synthesis loop and ASU", CostUSD: cost.CapexUSD, DeprPeriodYears: 7})
	pf.AddFixedCost(finance.FixedCost{Name: "Ammonia plant O&M", AnnualUSD: cost.FixedOMUSDPerYr, Escalation: a.GeneralInflation})
	pf.AddFeedstock(finance.Feedstock{Name: "Hydrogen", Usage: cfg.HydrogenKGPerKG, Unit: "kg", UnitCostUSD: lcohUSDPerKG, Escalation: a.GeneralInflation})
	pf.AddFeedstock(finance.Feedstock{Name: "Electricity", Usage: cfg.ElectricityKWhPerKG, Unit: "kWh", UnitCostUSD: lcoeUSDPerKWh, Escalation: a.GeneralInflation})

	sol, err := pf.SolvePrice()
	if err != nil {
		return FinanceResults{}, fmt.Errorf("ammonia finance: %w", err)
	}
	breakdown, err := pf.CostBreakdown()
	if err != nil {
		return FinanceResults{}, fmt.Errorf("ammonia breakdown: %w", err)
	}
	return FinanceResults{
		LCOA:      model.Quantity{Value: sol.PriceUSD, Unit: "$/kg"},
		Breakdown: breakdown,
	}, nil
}

// RunFullModel runs performance, cost, and finance in sequence.
func RunFullModel(cfg Config, availableH2KGPerYr, lcohUSDPerKG, lcoeUSDPerKWh float64, a finance.Assumptions) (PerformanceResults, CostResults, FinanceResults, error) {
	perf, err := RunPerformance(cfg, availableH2KGPerYr)
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
