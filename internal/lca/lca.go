// Package lca computes life-cycle greenhouse-gas emission intensities for
// the hydrogen plant and its derivative products, split by GHG Protocol
// scope. Pathway factors cover electrolysis alongside the fossil benchmarks
// (SMR and ATR, with and without carbon capture).
package lca

import (
	"errors"
	"fmt"
)

// Config is the lca block of the technology YAML.
type Config struct {
	RunLCA bool `yaml:"run_lca"`
	// GridCO2KGPerKWh is the marginal grid carbon intensity used for any
	// grid electricity consumed.
	GridCO2KGPerKWh float64 `yaml:"grid_co2_kg_per_kwh"`
	// EmbodiedWindCO2KGPerKWh and EmbodiedSolarCO2KGPerKWh are upstream
	// (scope 3) intensities of the renewable generation itself.
	EmbodiedWindCO2KGPerKWh  float64 `yaml:"embodied_wind_co2_kg_per_kwh"`
	EmbodiedSolarCO2KGPerKWh float64 `yaml:"embodied_solar_co2_kg_per_kwh"`
}

func (c *Config) Validate() error {
	if !c.RunLCA {
		return nil
	}
	if c.GridCO2KGPerKWh < 0 || c.EmbodiedWindCO2KGPerKWh < 0 || c.EmbodiedSolarCO2KGPerKWh < 0 {
		return errors.New("lca emission intensities must be >= 0")
	}
	return nil
}

// Inputs are the simulation figures the assessment is computed from.
type Inputs struct {
	AnnualH2KG            float64
	WindEnergyKWh         float64
	SolarEnergyKWh        float64
	GridEnergyKWh         float64
	AmmoniaKGPerYr        float64 // 0 when ammonia is disabled
	SteelTonnesPerYr      float64 // 0 when steel is disabled
	HydrogenPerKGNH3      float64
	HydrogenPerTonneSteel float64 // kg H2 / tonne
}

// Row is one emission-intensity result.
type Row struct {
	Product string  // "hydrogen", "ammonia", "steel"
	Pathway string  // "electrolysis", "smr", "smr_ccs", "atr", "atr_ccs"
	Scope1  float64 // kg CO2e per unit
	Scope2  float64
	Scope3  float64
	Total   float64
	Unit    string
}

// Fossil benchmark intensities, kg CO2e per kg H2 (GREET-style well-to-gate).
var benchmarks = []struct {
	pathway                string
	scope1, scope2, scope3 float64
}{
	{"smr", 8.9, 0.4, 2.2},
	{"smr_ccs", 1.1, 0.9, 2.4},
	{"atr", 8.4, 0.5, 2.0},
	{"atr_ccs", 0.9, 1.0, 2.3},
}

// Ammonia synthesis and steelmaking process emissions, scope 1.
const (
	nh3ProcessCO2PerKG      = 0.12  // kg CO2e / kg NH3 beyond hydrogen feed
	steelProcessCO2PerTonne = 220.0 // kg CO2e / tonne from EAF electrodes and lime
)

// Calculate produces the emission-intensity table for every product the
// simulation ran.
func Calculate(cfg Config, in Inputs) ([]Row, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.RunLCA {
		return nil, errors.New("lca is disabled in configuration")
	}
	if in.AnnualH2KG <= 0 {
		return nil, errors.New("lca requires positive hydrogen production")
	}

	// Electrolysis: scope 2 from grid draw, scope 3 from embodied renewables.
	scope2 := cfg.GridCO2KGPerKWh * in.GridEnergyKWh / in.AnnualH2KG
	scope3 := (cfg.EmbodiedWindCO2KGPerKWh*in.WindEnergyKWh +
		cfg.EmbodiedSolarCO2KGPerKWh*in.SolarEnergyKWh) / in.AnnualH2KG
	h2Electrolysis := Row{
		Product: "hydrogen",
		Pathway: "electrolysis",
		Scope1:  0,
		Scope2:  scope2,
		Scope3:  scope3,
		Unit:    "kg CO2e/kg H2",
	}
	h2Electrolysis.Total = h2Electrolysis.Scope1 + h2Electrolysis.Scope2 + h2Electrolysis.Scope3

	rows := []Row{h2Electrolysis}
	for _, b := range benchmarks {
		rows = append(rows, Row{
			Product: "hydrogen",
			Pathway: b.pathway,
			Scope1:  b.scope1,
			Scope2:  b.scope2,
			Scope3:  b.scope3,
			Total:   b.scope1 + b.scope2 + b.scope3,
			Unit:    "kg CO2e/kg H2",
		})
	}

	// Derivatives inherit the hydrogen pathway intensity through their
	// hydrogen feed plus their own process emissions.
	if in.AmmoniaKGPerYr > 0 {
		if in.HydrogenPerKGNH3 <= 0 {
			return nil, errors.New("lca ammonia requires hydrogen_per_kg_nh3 > 0")
		}
		for _, h2 := range rows[:len(benchmarks)+1] {
			rows = append(rows, Row{
				Product: "ammonia",
				Pathway: h2.Pathway,
				Scope1:  nh3ProcessCO2PerKG + h2.Scope1*in.HydrogenPerKGNH3,
				Scope2:  h2.Scope2 * in.HydrogenPerKGNH3,
				Scope3:  h2.Scope3 * in.HydrogenPerKGNH3,
				Unit:    "kg CO2e/kg NH3",
			})
			r := &rows[len(rows)-1]
			r.Total = r.Scope1 + r.Scope2 + r.Scope3
		}
	}
	if in.SteelTonnesPerYr > 0 {
		if in.HydrogenPerTonneSteel <= 0 {
			return nil, errors.New("lca steel requires hydrogen_per_tonne_steel > 0")
		}
		for _, h2 := range rows[:len(benchmarks)+1] {
			if h2.Product != "hydrogen" {
				continue
			}
			rows = append(rows, Row{
				Product: "steel",
				Pathway: h2.Pathway,
				Scope1:  steelProcessCO2PerTonne + h2.Scope1*in.HydrogenPerTonneSteel,
				Scope2:  h2.Scope2 * in.HydrogenPerTonneSteel,
				Scope3:  h2.Scope3 * in.HydrogenPerTonneSteel,
				Unit:    "kg CO2e/tonne steel",
			})
			r := &rows[len(rows)-1]
			r.Total = r.Scope1 + r.Scope2 + r.Scope3
		}
	}
	return rows, nil
}

// Header returns the CSV column names for a table of Rows.
func Header() []string {
	return []string{"product", "pathway", "scope1", "scope2", "scope3", "total", "unit"}
}

// Record formats one row for CSV output.
func (r Row) Record() []string {
	return []string{
		r.Product,
		r.Pathway,
		fmt.Sprintf("%.6f", r.Scope1),
		fmt.Sprintf("%.6f", r.Scope2),
		fmt.Sprintf("%.6f", r.Scope3),
		fmt.Sprintf("%.6f", r.Total),
		r.Unit,
	}
}
