// Package config loads and cross-validates the four YAML documents that
// define a simulation: plant/site, technology & product economics, turbine
// spec, and wake model. Parsing is deterministic: the same files always
// produce field-for-field identical configuration, and required keys that
// are missing or malformed surface named errors instead of silent defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"greenheart/internal/ammonia"
	"greenheart/internal/electrolyzer"
	"greenheart/internal/finance"
	"greenheart/internal/lca"
	"greenheart/internal/model"
	"greenheart/internal/steel"
	"greenheart/internal/wake"

	"gopkg.in/yaml.v3"
)

// Settings selects the input files and run options. This is the object the
// orchestration entry points (CLI, API) construct and hand to sim.Run.
type Settings struct {
	PlantConfigPath      string `json:"plant_config_path"`
	TechnologyConfigPath string `json:"technology_config_path"`
	TurbineConfigPath    string `json:"turbine_config_path"`
	WakeConfigPath       string `json:"wake_config_path"`

	// DesignScenario and IncentiveOption are numeric scenario selectors
	// carried into output artifact names.
	DesignScenario  int  `json:"design_scenario"`
	IncentiveOption int  `json:"incentive_option"`
	Verbose         bool `json:"verbose"`
	// SaveOutputs asks for report artifacts (CSVs, summary workbook) to be
	// written under OutputDir after the run.
	SaveOutputs bool   `json:"save_outputs"`
	OutputDir   string `json:"output_dir"`
}

// PlantConfig is the on-disk plant/site configuration shape (YAML).
type PlantConfig struct {
	Site         SiteConfig         `yaml:"site"`
	Technologies TechnologiesConfig `yaml:"technologies"`
}

type SiteConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	// Resource files are CSV profiles; relative paths are resolved against
	// the plant config file's directory.
	WindResourceFile  string `yaml:"wind_resource_file"`
	SolarResourceFile string `yaml:"solar_resource_file"`
	ResourceYear      int    `yaml:"resource_year"`
}

type TechnologiesConfig struct {
	Wind    WindTech     `yaml:"wind"`
	PV      PVTech       `yaml:"pv"`
	Battery *BatteryTech `yaml:"battery"`
	// GridConnection allows topping up the electrolyzer from the grid.
	GridConnection bool `yaml:"grid_connection"`
}

type WindTech struct {
	NumTurbines     int     `yaml:"num_turbines"`
	TurbineRatingKW float64 `yaml:"turbine_rating_kw"`
	Losses          float64 `yaml:"losses"`
}

type PVTech struct {
	SystemCapacityKW float64 `yaml:"system_capacity_kw"`
	Losses           float64 `yaml:"losses"`
}

type BatteryTech struct {
	SystemCapacityKWh   float64 `yaml:"system_capacity_kwh"`
	SystemCapacityKW    float64 `yaml:"system_capacity_kw"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency"`
	MinSOC              float64 `yaml:"min_soc"`
	MaxSOC              float64 `yaml:"max_soc"`
}

// ToModelParams converts the YAML battery block into physics parameters.
func (b *BatteryTech) ToModelParams() model.BatteryParams {
	return model.BatteryParams{
		EnergyCapacityKWh:   b.SystemCapacityKWh,
		PowerCapacityKW:     b.SystemCapacityKW,
		ChargeEfficiency:    b.ChargeEfficiency,
		DischargeEfficiency: b.DischargeEfficiency,
		MinSOC:              b.MinSOC,
		MaxSOC:              b.MaxSOC,
	}
}

// TechnologyConfig is the on-disk technology & product economics shape.
type TechnologyConfig struct {
	ProjectParameters ProjectParameters   `yaml:"project_parameters"`
	PlantCosts        PlantCosts          `yaml:"plant_costs"`
	Electrolyzer      electrolyzer.Config `yaml:"electrolyzer"`
	H2Storage         H2StorageConfig     `yaml:"h2_storage"`
	Ammonia           ammonia.Config      `yaml:"ammonia"`
	Steel             steel.Config        `yaml:"steel"`
	LCA               lca.Config          `yaml:"lca"`
	FinanceParameters finance.Assumptions `yaml:"finance_parameters"`
}

type ProjectParameters struct {
	ProjectLifetimeYears int `yaml:"project_lifetime"`
	CostYear             int `yaml:"cost_year"`
	// GridElectricityUSDPerKWh prices grid top-up when the plant is
	// grid-connected.
	GridElectricityUSDPerKWh float64 `yaml:"grid_electricity_usd_per_kwh"`
}

// PlantCosts prices the generation assets for the LCOE pro forma.
type PlantCosts struct {
	WindCapexUSDPerKW     float64 `yaml:"wind_capex_usd_per_kw"`
	PVCapexUSDPerKW       float64 `yaml:"pv_capex_usd_per_kw"`
	BatteryCapexUSDPerKWh float64 `yaml:"battery_capex_usd_per_kwh"`
	// FixedOMFraction is annual plant O&M as a fraction of total CAPEX.
	FixedOMFraction float64 `yaml:"fixed_om_fraction"`
}

type H2StorageConfig struct {
	// Type is carried into output artifact names ("none", "pipe", "salt_cavern").
	Type          string  `yaml:"type"`
	CapexUSDPerKG float64 `yaml:"capex_usd_per_kg"`
	DaysOfStorage float64 `yaml:"days_of_storage"`
}

// SimulationConfig is the fully loaded, cross-validated settings object
// handed to the simulation. Read-only after construction.
type SimulationConfig struct {
	Settings Settings
	Plant    PlantConfig
	Tech     TechnologyConfig
	Turbine  model.TurbineSpec
	Wake     wake.Config
}

// Clone returns a deep copy. Scenario sweeps mutate clones concurrently, so
// no pointer- or slice-backed field may be shared with the receiver.
func (c *SimulationConfig) Clone() *SimulationConfig {
	out := *c
	if b := c.Plant.Technologies.Battery; b != nil {
		bb := *b
		out.Plant.Technologies.Battery = &bb
	}
	if v := c.Tech.Steel.CostLCOH; v != nil {
		vv := *v
		out.Tech.Steel.CostLCOH = &vv
	}
	if v := c.Tech.Steel.FinanceLCOH; v != nil {
		vv := *v
		out.Tech.Steel.FinanceLCOH = &vv
	}
	out.Turbine.PowerCurve.WindSpeedMS = append([]float64(nil), c.Turbine.PowerCurve.WindSpeedMS...)
	out.Turbine.PowerCurve.PowerKW = append([]float64(nil), c.Turbine.PowerCurve.PowerKW...)
	out.Wake.LayoutX = append([]float64(nil), c.Wake.LayoutX...)
	out.Wake.LayoutY = append([]float64(nil), c.Wake.LayoutY...)
	return &out
}

// Load reads and validates the four configuration files.
func Load(s Settings) (*SimulationConfig, error) {
	c, err := LoadUnchecked(s)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked parses the four files without cross-validation. Useful for
// debugging/printing partial configs.
func LoadUnchecked(s Settings) (*SimulationConfig, error) {
	c := &SimulationConfig{Settings: s}

	if err := readYAML(s.PlantConfigPath, "plant config", &c.Plant); err != nil {
		return nil, err
	}
	if err := readYAML(s.TechnologyConfigPath, "technology config", &c.Tech); err != nil {
		return nil, err
	}
	if err := readYAML(s.TurbineConfigPath, "turbine config", &c.Turbine); err != nil {
		return nil, err
	}
	if err := readYAML(s.WakeConfigPath, "wake config", &c.Wake); err != nil {
		return nil, err
	}

	// Resource files are referenced relative to the plant config.
	c.Plant.Site.WindResourceFile = resolveRelative(s.PlantConfigPath, c.Plant.Site.WindResourceFile)
	c.Plant.Site.SolarResourceFile = resolveRelative(s.PlantConfigPath, c.Plant.Site.SolarResourceFile)
	return c, nil
}

func readYAML(path, what string, out any) error {
	if path == "" {
		return fmt.Errorf("%s path is required", what)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s %s: %w", what, path, err)
	}
	return nil
}

// resolveRelative interprets a relative resource path as relative to the
// config file directory, falling back to the path as given if nothing
// exists there.
func resolveRelative(configPath, resourcePath string) string {
	if resourcePath == "" || filepath.IsAbs(resourcePath) {
		return resourcePath
	}
	cand := filepath.Join(filepath.Dir(configPath), resourcePath)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return resourcePath
}

// Validate checks each document and the cross-file invariants.
func (c *SimulationConfig) Validate() error {
	// Plant document.
	w := c.Plant.Technologies.Wind
	if w.NumTurbines <= 0 {
		return errors.New("plant config: technologies.wind.num_turbines must be > 0")
	}
	if w.TurbineRatingKW <= 0 {
		return errors.New("plant config: technologies.wind.turbine_rating_kw must be > 0")
	}
	if c.Plant.Site.WindResourceFile == "" {
		return errors.New("plant config: site.wind_resource_file is required")
	}
	if c.Plant.Technologies.PV.SystemCapacityKW > 0 && c.Plant.Site.SolarResourceFile == "" {
		return errors.New("plant config: site.solar_resource_file is required when pv is configured")
	}
	if c.Plant.Technologies.Battery != nil {
		if _, err := model.NewBattery(c.Plant.Technologies.Battery.ToModelParams(), c.Plant.Technologies.Battery.MinSOC); err != nil {
			return fmt.Errorf("plant config: battery invalid: %w", err)
		}
	}

	// Turbine document, and its agreement with the plant document.
	if err := c.Turbine.Validate(); err != nil {
		return fmt.Errorf("turbine config: %w", err)
	}
	if c.Turbine.RatedPowerKW != w.TurbineRatingKW {
		return fmt.Errorf("plant and turbine configs disagree: turbine_rating_kw %v vs rated_power_kw %v",
			w.TurbineRatingKW, c.Turbine.RatedPowerKW)
	}

	// Wake document, and its agreement with the plant document.
	if err := c.Wake.Validate(); err != nil {
		return fmt.Errorf("wake config: %w", err)
	}
	if c.Wake.NumTurbines() != w.NumTurbines {
		return fmt.Errorf("wake layout has %d turbine positions but plant declares %d turbines",
			c.Wake.NumTurbines(), w.NumTurbines)
	}

	// Technology document.
	if c.Tech.ProjectParameters.ProjectLifetimeYears <= 0 {
		return errors.New("technology config: project_parameters.project_lifetime must be > 0")
	}
	if c.Tech.ProjectParameters.CostYear == 0 {
		return errors.New("technology config: project_parameters.cost_year is required")
	}
	if err := c.Tech.Electrolyzer.Validate(); err != nil {
		return fmt.Errorf("technology config: electrolyzer: %w", err)
	}
	if err := c.Tech.FinanceParameters.Validate(); err != nil {
		return fmt.Errorf("technology config: finance_parameters: %w", err)
	}
	if err := c.Tech.Ammonia.Validate(); err != nil {
		return fmt.Errorf("technology config: ammonia: %w", err)
	}
	if err := c.Tech.Steel.Validate(); err != nil {
		return fmt.Errorf("technology config: steel: %w", err)
	}
	if err := c.Tech.LCA.Validate(); err != nil {
		return fmt.Errorf("technology config: lca: %w", err)
	}
	return nil
}

// WindPlantCapacityKW is the declared wind capacity from the plant document.
func (c *SimulationConfig) WindPlantCapacityKW() float64 {
	return float64(c.Plant.Technologies.Wind.NumTurbines) * c.Plant.Technologies.Wind.TurbineRatingKW
}

// TotalPlantCapacityKW includes every generation technology.
func (c *SimulationConfig) TotalPlantCapacityKW() float64 {
	return c.WindPlantCapacityKW() + c.Plant.Technologies.PV.SystemCapacityKW
}
