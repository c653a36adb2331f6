// Package electrolyzer models a PEM electrolyzer plant: hourly hydrogen
// production from a delivered power profile, with turndown and an optional
// degradation penalty, plus the custom CAPEX/fixed-OM sizing rules.
package electrolyzer

import (
	"errors"
	"fmt"

	"greenheart/internal/model"
)

// Config is the electrolyzer block of the technology YAML.
type Config struct {
	// RatingKW is the plant electrical rating.
	RatingKW float64 `yaml:"rating_kw"`
	// ClusterRatingKW sets the size of one stack cluster; the plant is
	// RatingKW/ClusterRatingKW clusters, rounded up.
	ClusterRatingKW float64 `yaml:"cluster_rating_kw"`
	// SpecificEnergyKWhPerKG is the rated energy use per kg H2 (SEC).
	SpecificEnergyKWhPerKG float64 `yaml:"specific_energy_kwh_per_kg"`
	// TurndownRatio is the minimum operable power as a fraction of rating.
	TurndownRatio float64 `yaml:"turndown_ratio"`
	// IncludeDegradationPenalty applies a per-operating-hour production
	// derate representing stack voltage degradation.
	IncludeDegradationPenalty bool `yaml:"include_degradation_penalty"`
	// DegradationRatePerKHr is the fractional production loss per 1000
	// operating hours when the penalty is enabled.
	DegradationRatePerKHr float64 `yaml:"degradation_rate_per_khr"`

	// CapexUSDPerKW and FixedOMUSDPerKWYr drive the custom cost sizing.
	CapexUSDPerKW     float64 `yaml:"electrolyzer_capex"`
	FixedOMUSDPerKWYr float64 `yaml:"fixed_om"`
	// VariableOMUSDPerKG is charged per kg produced.
	VariableOMUSDPerKG float64 `yaml:"variable_om"`
	// WaterUsageKGPerKGH2 and WaterCostUSDPerKG feed the finance model.
	WaterUsageKGPerKGH2 float64 `yaml:"water_usage_kg_per_kg_h2"`
	WaterCostUSDPerKG   float64 `yaml:"water_cost_usd_per_kg"`
}

func (c *Config) Validate() error {
	if c.RatingKW <= 0 {
		return errors.New("electrolyzer rating_kw must be > 0")
	}
	if c.SpecificEnergyKWhPerKG <= 0 {
		return errors.New("electrolyzer specific_energy_kwh_per_kg must be > 0")
	}
	if c.TurndownRatio < 0 || c.TurndownRatio >= 1 {
		return errors.New("electrolyzer turndown_ratio must be in [0, 1)")
	}
	if c.ClusterRatingKW < 0 {
		return errors.New("electrolyzer cluster_rating_kw must be >= 0")
	}
	if c.IncludeDegradationPenalty && c.DegradationRatePerKHr <= 0 {
		return errors.New("degradation_rate_per_khr must be > 0 when the penalty is enabled")
	}
	return nil
}

// NumClusters is the cluster count implied by the plant and cluster ratings.
func (c *Config) NumClusters() int {
	if c.ClusterRatingKW <= 0 {
		return 1
	}
	n := int(c.RatingKW / c.ClusterRatingKW)
	if float64(n)*c.ClusterRatingKW < c.RatingKW {
		n++
	}
	return n
}

// PhysicsResults holds the production profile and its annual summaries.
type PhysicsResults struct {
	HourlyKGPerHr         []float64
	PowerToElectrolyzerKW []float64

	// Annualized figures.
	AnnualProductionKG float64
	CapacityFactor     float64
	OperatingHours     float64
	RatedKGPerHr       float64
}

// RunPhysics converts the delivered power profile into hourly hydrogen
// production. Power above rating is clipped; power below the turndown
// threshold produces nothing.
func RunPhysics(powerKW []float64, cfg Config) (*PhysicsResults, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(powerKW) == 0 {
		return nil, errors.New("no power profile provided")
	}

	res := &PhysicsResults{
		HourlyKGPerHr:         make([]float64, len(powerKW)),
		PowerToElectrolyzerKW: make([]float64, len(powerKW)),
		RatedKGPerHr:          cfg.RatingKW / cfg.SpecificEnergyKWhPerKG,
	}

	minKW := cfg.TurndownRatio * cfg.RatingKW
	operatingHours := 0.0
	totalKG := 0.0
	for i, p := range powerKW {
		if p < 0 {
			return nil, fmt.Errorf("interval %d: negative power %f", i, p)
		}
		if p > cfg.RatingKW {
			p = cfg.RatingKW
		}
		if p < minKW {
			continue
		}
		kg := p / cfg.SpecificEnergyKWhPerKG
		if cfg.IncludeDegradationPenalty {
			kg *= 1 - cfg.DegradationRatePerKHr*(operatingHours/1000)
			if kg < 0 {
				kg = 0
			}
		}
		res.PowerToElectrolyzerKW[i] = p
		res.HourlyKGPerHr[i] = kg
		totalKG += kg
		operatingHours++
	}

	hours := len(powerKW)
	res.AnnualProductionKG = model.AnnualizeKWh(totalKG, hours)
	res.OperatingHours = operatingHours * model.HoursPerYear / float64(hours)
	annualMax := res.RatedKGPerHr * model.HoursPerYear
	if annualMax > 0 {
		res.CapacityFactor = res.AnnualProductionKG / annualMax
	}
	return res, nil
}
