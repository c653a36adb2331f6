package model

import "fmt"

// Quantity is a physical or financial value paired with its unit string.
// All named simulation outputs are reported as Quantities so callers never
// have to guess units.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

func (q Quantity) String() string {
	return fmt.Sprintf("%.4f %s", q.Value, q.Unit)
}

// Canonical metric keys exposed by a simulation run.
const (
	MetricLCOE = "lcoe" // levelized cost of energy, $/kWh
	MetricLCOH = "lcoh" // levelized cost of hydrogen, $/kg
	MetricLCOA = "lcoa" // levelized cost of ammonia, $/kg
	MetricLCOS = "lcos" // levelized cost of steel, $/tonne
)
