package models

import "time"

// ErrorDetail is the error payload body.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps every error the API returns.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Metric is one levelized-cost result.
type Metric struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// PlantSummary carries the headline performance figures.
type PlantSummary struct {
	Hours            int     `json:"hours"`
	AEPKWh           float64 `json:"aep_kwh"`
	CapacityFactor   float64 `json:"capacity_factor"`
	WakeLossFraction float64 `json:"wake_loss_fraction"`

	AnnualHydrogenKG float64 `json:"annual_hydrogen_kg"`
	ElectrolyzerCF   float64 `json:"electrolyzer_capacity_factor"`
	GridEnergyKWh    float64 `json:"grid_energy_kwh"`
}

// BreakdownRow attributes part of a levelized cost to a component.
type BreakdownRow struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	USDPerUnit float64 `json:"usd_per_unit"`
}

// FlowRow is one hourly interval of plant accounting.
type FlowRow struct {
	Index               int     `json:"index"`
	WindKW              float64 `json:"wind_kw"`
	PVKW                float64 `json:"pv_kw"`
	GenerationKW        float64 `json:"generation_kw"`
	BatteryAction       string  `json:"battery_action"`
	BatteryAbsorbedKWh  float64 `json:"battery_absorbed_kwh"`
	BatteryDeliveredKWh float64 `json:"battery_delivered_kwh"`
	BatterySOC          float64 `json:"battery_soc"`
	ToElectrolyzerKW    float64 `json:"to_electrolyzer_kw"`
	CurtailedKW         float64 `json:"curtailed_kw"`
}

// LCARow is one emission-intensity result.
type LCARow struct {
	Product string  `json:"product"`
	Pathway string  `json:"pathway"`
	Scope1  float64 `json:"scope1"`
	Scope2  float64 `json:"scope2"`
	Scope3  float64 `json:"scope3"`
	Total   float64 `json:"total"`
	Unit    string  `json:"unit"`
}

// SimulateResponse is the full result of one run.
type SimulateResponse struct {
	Status  string            `json:"status"`
	RunID   string            `json:"run_id"`
	Metrics map[string]Metric `json:"metrics"`
	Summary PlantSummary      `json:"summary"`

	LCOEBreakdown []BreakdownRow `json:"lcoe_breakdown,omitempty"`
	LCOHBreakdown []BreakdownRow `json:"lcoh_breakdown,omitempty"`
	LCOABreakdown []BreakdownRow `json:"lcoa_breakdown,omitempty"`
	LCOSBreakdown []BreakdownRow `json:"lcos_breakdown,omitempty"`

	LCA   []LCARow  `json:"lca,omitempty"`
	Flows []FlowRow `json:"flows,omitempty"`
}

// SweepEntry is one ranked scenario outcome.
type SweepEntry struct {
	Name    string            `json:"name"`
	Metrics map[string]Metric `json:"metrics,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// SweepSummary is the distribution of the ranking metric across the sweep.
type SweepSummary struct {
	Metric string  `json:"metric"`
	Unit   string  `json:"unit"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`
}

// SweepResponse ranks every variation, cheapest first.
type SweepResponse struct {
	Status  string        `json:"status"`
	Ranked  []SweepEntry  `json:"ranked"`
	Summary *SweepSummary `json:"summary,omitempty"`
}

// RunRecord is one persisted run.
type RunRecord struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	DesignScenario  int       `json:"design_scenario"`
	IncentiveOption int       `json:"incentive_option"`

	AEPKWh           float64  `json:"aep_kwh"`
	CapacityFactor   float64  `json:"capacity_factor"`
	AnnualHydrogenKG float64  `json:"annual_hydrogen_kg"`
	LCOEUSDPerKWh    *float64 `json:"lcoe_usd_per_kwh,omitempty"`
	LCOHUSDPerKG     *float64 `json:"lcoh_usd_per_kg,omitempty"`
	LCOAUSDPerKG     *float64 `json:"lcoa_usd_per_kg,omitempty"`
	LCOSUSDPerTonne  *float64 `json:"lcos_usd_per_tonne,omitempty"`
}

// ListRunsResponse wraps the run history.
type ListRunsResponse struct {
	Runs []RunRecord `json:"runs"`
}
