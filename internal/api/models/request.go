package models

// ConfigPaths names the four configuration documents, relative to the
// server's CONFIG_DIR unless absolute.
type ConfigPaths struct {
	PlantConfig      string `json:"plant_config" binding:"required"`
	TechnologyConfig string `json:"technology_config" binding:"required"`
	TurbineConfig    string `json:"turbine_config" binding:"required"`
	WakeConfig       string `json:"wake_config" binding:"required"`
}

// SimulateRequest runs one simulation.
type SimulateRequest struct {
	Config          ConfigPaths     `json:"config" binding:"required"`
	DesignScenario  int             `json:"design_scenario"`
	IncentiveOption int             `json:"incentive_option"`
	Options         SimulateOptions `json:"options"`
}

// SimulateOptions controls response size and persistence.
type SimulateOptions struct {
	// IncludeFlows embeds the hourly energy-flow table in the response.
	IncludeFlows bool `json:"include_flows"`
	// SaveRun persists the result to the run store when one is configured.
	SaveRun bool `json:"save_run"`
}

// ScenarioOverride is one sweep variation: nil fields keep the base value.
type ScenarioOverride struct {
	Name string `json:"name" binding:"required"`

	ElectrolyzerRatingKW *float64 `json:"electrolyzer_rating_kw"`
	PVSystemCapacityKW   *float64 `json:"pv_system_capacity_kw"`
	BatteryCapacityKWh   *float64 `json:"battery_capacity_kwh"`
	WindCapexUSDPerKW    *float64 `json:"wind_capex_usd_per_kw"`
	ElectrolyzerCapex    *float64 `json:"electrolyzer_capex_usd_per_kw"`
}

// SweepRequest runs the base configuration once per variation and ranks the
// outcomes.
type SweepRequest struct {
	Config      ConfigPaths        `json:"config" binding:"required"`
	Variations  []ScenarioOverride `json:"variations" binding:"required,min=1"`
	RankMetric  string             `json:"rank_metric"`
	MaxParallel int                `json:"max_parallel"`
}
