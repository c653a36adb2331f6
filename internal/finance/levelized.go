package finance

import (
	"errors"

	"greenheart/internal/model"
)

// Assumptions carries the shared financial parameters from the technology
// YAML's finance_parameters block.
type Assumptions struct {
	OperatingLifeYears int     `yaml:"plant_life"`
	DiscountRate       float64 `yaml:"discount_rate"`
	GeneralInflation   float64 `yaml:"general_inflation"`
	TaxRate            float64 `yaml:"tax_rate"`
}

func (a *Assumptions) Validate() error {
	if a.OperatingLifeYears <= 0 {
		return errors.New("plant_life must be > 0")
	}
	if a.DiscountRate < 0 {
		return errors.New("discount_rate must be >= 0")
	}
	if a.TaxRate < 0 || a.TaxRate >= 1 {
		return errors.New("tax_rate must be in [0, 1)")
	}
	return nil
}

// EnergyInputs sizes the electricity pro forma.
type EnergyInputs struct {
	PlantCapexUSD       float64
	FixedOMUSDPerYr     float64
	VariableOMUSDPerKWh float64
	AEPKWh              float64
}

// LevelizedCostOfEnergy solves LCOE in $/kWh via the pro forma, returning
// the quantity and the populated pro forma (for breakdown reporting).
func LevelizedCostOfEnergy(in EnergyInputs, a Assumptions) (model.Quantity, *ProForma, error) {
	if err := a.Validate(); err != nil {
		return model.Quantity{}, nil, err
	}
	if in.AEPKWh <= 0 {
		return model.Quantity{}, nil, errors.New("annual energy production must be > 0")
	}

	pf := New(Commodity{Name: "electricity", Unit: "kWh", Escalation: a.GeneralInflation})
	pf.CapacityPerDay = in.AEPKWh / 365
	pf.OperatingLifeYears = a.OperatingLifeYears
	pf.GeneralInflation = a.GeneralInflation
	pf.DiscountRate = a.DiscountRate
	pf.TaxRate = a.TaxRate
	pf.AddCapitalItem(CapitalItem{Name: "Hybrid plant", CostUSD: in.PlantCapexUSD, DeprPeriodYears: depreciationYears(a.OperatingLifeYears)})
	pf.AddFixedCost(FixedCost{Name: "Plant O&M", AnnualUSD: in.FixedOMUSDPerYr, Escalation: a.GeneralInflation})
	if in.VariableOMUSDPerKWh > 0 {
		pf.AddFeedstock(Feedstock{Name: "Variable O&M", Usage: 1, Unit: "kWh", UnitCostUSD: in.VariableOMUSDPerKWh, Escalation: a.GeneralInflation})
	}

	sol, err := pf.SolvePrice()
	if err != nil {
		return model.Quantity{}, nil, err
	}
	return model.Quantity{Value: sol.PriceUSD, Unit: "$/kWh"}, pf, nil
}

// HydrogenInputs sizes the hydrogen pro forma.
type HydrogenInputs struct {
	ElectrolyzerCapexUSD float64
	StorageCapexUSD      float64
	FixedOMUSDPerYr      float64
	VariableOMUSDPerKG   float64
	AnnualProductionKG   float64
	// ElectricityKWhPerKG is the specific consumption charged at LCOE.
	ElectricityKWhPerKG float64
	LCOEUSDPerKWh       float64
	WaterUsageKGPerKG   float64
	WaterCostUSDPerKG   float64
}

// LevelizedCostOfHydrogen solves LCOH in $/kg, charging electricity as a
// feedstock at the plant's LCOE.
func LevelizedCostOfHydrogen(in HydrogenInputs, a Assumptions) (model.Quantity, *ProForma, error) {
	if err := a.Validate(); err != nil {
		return model.Quantity{}, nil, err
	}
	if in.AnnualProductionKG <= 0 {
		return model.Quantity{}, nil, errors.New("annual hydrogen production must be > 0")
	}

	pf := New(Commodity{Name: "hydrogen", Unit: "kg", Escalation: a.GeneralInflation})
	pf.CapacityPerDay = in.AnnualProductionKG / 365
	pf.OperatingLifeYears = a.OperatingLifeYears
	pf.GeneralInflation = a.GeneralInflation
	pf.DiscountRate = a.DiscountRate
	pf.TaxRate = a.TaxRate
	pf.AddCapitalItem(CapitalItem{Name: "Electrolyzer", CostUSD: in.ElectrolyzerCapexUSD, DeprPeriodYears: depreciationYears(a.OperatingLifeYears)})
	if in.StorageCapexUSD > 0 {
		pf.AddCapitalItem(CapitalItem{Name: "H2 storage", CostUSD: in.StorageCapexUSD, DeprPeriodYears: depreciationYears(a.OperatingLifeYears)})
	}
	pf.AddFixedCost(FixedCost{Name: "Electrolyzer O&M", AnnualUSD: in.FixedOMUSDPerYr, Escalation: a.GeneralInflation})
	pf.AddFeedstock(Feedstock{Name: "Electricity", Usage: in.ElectricityKWhPerKG, Unit: "kWh", UnitCostUSD: in.LCOEUSDPerKWh, Escalation: a.GeneralInflation})
	if in.WaterUsageKGPerKG > 0 {
		pf.AddFeedstock(Feedstock{Name: "Water", Usage: in.WaterUsageKGPerKG, Unit: "kg", UnitCostUSD: in.WaterCostUSDPerKG, Escalation: a.GeneralInflation})
	}
	if in.VariableOMUSDPerKG > 0 {
		pf.AddFeedstock(Feedstock{Name: "Variable O&M", Usage: 1, Unit: "kg", UnitCostUSD: in.VariableOMUSDPerKG, Escalation: a.GeneralInflation})
	}

	sol, err := pf.SolvePrice()
	if err != nil {
		return model.Quantity{}, nil, err
	}
	return model.Quantity{Value: sol.PriceUSD, Unit: "$/kg"}, pf, nil
}

// depreciationYears caps straight-line depreciation at 7 years, matching the
// MACRS-like treatment of plant equipment.
func depreciationYears(life int) int {
	if life < 7 {
		return life
	}
	return 7
}
