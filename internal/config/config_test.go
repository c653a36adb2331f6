package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plantYAML = `site:
  latitude: 35.2
  longitude: -101.9
  wind_resource_file: resources/wind.csv
  solar_resource_file: resources/solar.csv
  resource_year: 2013
technologies:
  wind:
    num_turbines: 2
    turbine_rating_kw: 6000
    losses: 0.08
  pv:
    system_capacity_kw: 10000
    losses: 0.12
  battery:
    system_capacity_kwh: 20000
    system_capacity_kw: 5000
    charge_efficiency: 0.95
    discharge_efficiency: 0.95
    min_soc: 0.1
    max_soc: 0.9
  grid_connection: false
`

const techYAML = `project_parameters:
  project_lifetime: 30
  cost_year: 2022
  grid_electricity_usd_per_kwh: 0.06
plant_costs:
  wind_capex_usd_per_kw: 1380
  pv_capex_usd_per_kw: 1100
  battery_capex_usd_per_kwh: 320
  fixed_om_fraction: 0.02
electrolyzer:
  rating_kw: 12000
  cluster_rating_kw: 1000
  specific_energy_kwh_per_kg: 55.5
  turndown_ratio: 0.1
  electrolyzer_capex: 1295
  fixed_om: 29
h2_storage:
  type: pipe
  capex_usd_per_kg: 560
  days_of_storage: 2
finance_parameters:
  plant_life: 30
  discount_rate: 0.0824
  general_inflation: 0.025
  tax_rate: 0.2574
`

const turbineYAML = `name: test-6MW
rotor_diameter_m: 196
hub_height_m: 115
rated_power_kw: 6000
cut_in_ms: 3
cut_out_ms: 25
power_curve:
  wind_speed_ms: [3, 11, 25]
  power_kw: [100, 6000, 6000]
`

const wakeYAML = `model: jensen
decay_constant: 0.05
thrust_coefficient: 0.8
layout_x: [0, 780]
layout_y: [0, 0]
`

func writeFixtures(t *testing.T, plant, tech, turbine, wakeCfg string) Settings {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "resources"), 0o755))
	write("resources/wind.csv", "wind_speed_ms,wind_direction_deg\n8,270\n")
	write("resources/solar.csv", "ghi_w_m2\n500\n")
	return Settings{
		PlantConfigPath:      write("plant.yaml", plant),
		TechnologyConfigPath: write("technologies.yaml", tech),
		TurbineConfigPath:    write("turbine.yaml", turbine),
		WakeConfigPath:       write("wake.yaml", wakeCfg),
	}
}

func TestLoadValid(t *testing.T) {
	s := writeFixtures(t, plantYAML, techYAML, turbineYAML, wakeYAML)
	cfg, err := Load(s)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Plant.Technologies.Wind.NumTurbines)
	assert.Equal(t, 6000.0, cfg.Turbine.RatedPowerKW)
	assert.Equal(t, "jensen", cfg.Wake.Model)
	assert.Equal(t, 12000.0, cfg.Tech.Electrolyzer.RatingKW)
	assert.Equal(t, 0.06, cfg.Tech.ProjectParameters.GridElectricityUSDPerKWh)
	require.NotNil(t, cfg.Plant.Technologies.Battery)
	assert.Equal(t, 20000.0, cfg.Plant.Technologies.Battery.SystemCapacityKWh)

	assert.Equal(t, 12000.0, cfg.WindPlantCapacityKW())
	assert.Equal(t, 22000.0, cfg.TotalPlantCapacityKW())
}

func TestLoadResolvesResourcePaths(t *testing.T) {
	s := writeFixtures(t, plantYAML, techYAML, turbineYAML, wakeYAML)
	cfg, err := Load(s)
	require.NoError(t, err)

	// Relative resource paths resolve against the plant config directory.
	assert.True(t, filepath.IsAbs(cfg.Plant.Site.WindResourceFile))
	_, err = os.Stat(cfg.Plant.Site.WindResourceFile)
	assert.NoError(t, err)
	_, err = os.Stat(cfg.Plant.Site.SolarResourceFile)
	assert.NoError(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	s := writeFixtures(t, plantYAML, techYAML, turbineYAML, wakeYAML)
	s.TurbineConfigPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read turbine config")

	s.TurbineConfigPath = ""
	_, err = Load(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "turbine config path is required")
}

func TestValidateRatingMismatch(t *testing.T) {
	bad := `name: test-5MW
rotor_diameter_m: 196
hub_height_m: 115
rated_power_kw: 5000
cut_in_ms: 3
cut_out_ms: 25
power_curve:
  wind_speed_ms: [3, 11, 25]
  power_kw: [100, 5000, 5000]
`
	s := writeFixtures(t, plantYAML, techYAML, bad, wakeYAML)
	_, err := Load(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plant and turbine configs disagree")
}

func TestValidateWakeLayoutCountMismatch(t *testing.T) {
	bad := `model: jensen
decay_constant: 0.05
thrust_coefficient: 0.8
layout_x: [0, 780, 1560]
layout_y: [0, 0, 0]
`
	s := writeFixtures(t, plantYAML, techYAML, turbineYAML, bad)
	_, err := Load(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wake layout has 3 turbine positions but plant declares 2 turbines")
}

func TestValidateTechnologyErrors(t *testing.T) {
	noLife := `project_parameters:
  cost_year: 2022
electrolyzer:
  rating_kw: 12000
  specific_energy_kwh_per_kg: 55.5
  turndown_ratio: 0.1
finance_parameters:
  plant_life: 30
`
	s := writeFixtures(t, plantYAML, noLife, turbineYAML, wakeYAML)
	_, err := Load(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project_lifetime")
}

func TestCloneIsDeep(t *testing.T) {
	s := writeFixtures(t, plantYAML, techYAML, turbineYAML, wakeYAML)
	cfg, err := Load(s)
	require.NoError(t, err)

	clone := cfg.Clone()
	clone.Plant.Technologies.Battery.SystemCapacityKWh = 9999
	clone.Wake.LayoutX[0] = 5000
	clone.Turbine.PowerCurve.PowerKW[0] = 1
	clone.Tech.Electrolyzer.RatingKW = 1

	assert.Equal(t, 20000.0, cfg.Plant.Technologies.Battery.SystemCapacityKWh)
	assert.Equal(t, 0.0, cfg.Wake.LayoutX[0])
	assert.Equal(t, 100.0, cfg.Turbine.PowerCurve.PowerKW[0])
	assert.Equal(t, 12000.0, cfg.Tech.Electrolyzer.RatingKW)
}

func TestLoadUncheckedSkipsValidation(t *testing.T) {
	bad := `model: jensen
decay_constant: 0.05
thrust_coefficient: 0.8
layout_x: [0]
layout_y: [0]
`
	s := writeFixtures(t, plantYAML, techYAML, turbineYAML, bad)
	cfg, err := LoadUnchecked(s)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}
