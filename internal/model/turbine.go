package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// TurbineSpec defines a wind turbine as loaded from the turbine YAML.
// Units:
// - RotorDiameterM, HubHeightM: m
// - RatedPowerKW: kW
// - CutInMS, CutOutMS: m/s
// - ShearExponent: dimensionless (power-law shear)
type TurbineSpec struct {
	Name           string     `yaml:"name"`
	RotorDiameterM float64    `yaml:"rotor_diameter_m"`
	HubHeightM     float64    `yaml:"hub_height_m"`
	RatedPowerKW   float64    `yaml:"rated_power_kw"`
	CutInMS        float64    `yaml:"cut_in_ms"`
	CutOutMS       float64    `yaml:"cut_out_ms"`
	ShearExponent  float64    `yaml:"shear_exponent"`
	PowerCurve     PowerCurve `yaml:"power_curve"`
}

// PowerCurve is a piecewise-linear turbine power curve.
type PowerCurve struct {
	WindSpeedMS []float64 `yaml:"wind_speed_ms"`
	PowerKW     []float64 `yaml:"power_kw"`
}

func (t *TurbineSpec) Validate() error {
	if t.Name == "" {
		return errors.New("turbine name is required")
	}
	if t.RotorDiameterM <= 0 {
		return errors.New("rotor_diameter_m must be > 0")
	}
	if t.HubHeightM <= 0 {
		return errors.New("hub_height_m must be > 0")
	}
	if t.RatedPowerKW <= 0 {
		return errors.New("rated_power_kw must be > 0")
	}
	if t.CutOutMS <= t.CutInMS {
		return errors.New("cut_out_ms must be greater than cut_in_ms")
	}
	n := len(t.PowerCurve.WindSpeedMS)
	if n < 2 {
		return errors.New("power_curve needs at least two points")
	}
	if n != len(t.PowerCurve.PowerKW) {
		return fmt.Errorf("power_curve wind_speed_ms/power_kw length mismatch: %d vs %d",
			n, len(t.PowerCurve.PowerKW))
	}
	for i := 1; i < n; i++ {
		if t.PowerCurve.WindSpeedMS[i] <= t.PowerCurve.WindSpeedMS[i-1] {
			return fmt.Errorf("power_curve wind speeds must be strictly increasing (index %d)", i)
		}
	}
	for i, p := range t.PowerCurve.PowerKW {
		if p < 0 {
			return fmt.Errorf("power_curve power_kw[%d] is negative", i)
		}
	}
	return nil
}

// Interpolator builds the power-curve interpolator. Validate must pass first.
func (t *TurbineSpec) Interpolator() (*PowerInterpolator, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(t.PowerCurve.WindSpeedMS, t.PowerCurve.PowerKW); err != nil {
		return nil, fmt.Errorf("fit power curve: %w", err)
	}
	return &PowerInterpolator{spec: t, pl: pl}, nil
}

// PowerInterpolator evaluates turbine power output at a hub-height wind speed.
type PowerInterpolator struct {
	spec *TurbineSpec
	pl   interp.PiecewiseLinear
}

// PowerKW returns turbine output for the given hub-height speed. Output is
// zero below cut-in and at/above cut-out, and clamped to the curve endpoints
// in between.
func (p *PowerInterpolator) PowerKW(speedMS float64) float64 {
	if speedMS < p.spec.CutInMS || speedMS >= p.spec.CutOutMS {
		return 0
	}
	xs := p.spec.PowerCurve.WindSpeedMS
	if speedMS <= xs[0] {
		return p.spec.PowerCurve.PowerKW[0]
	}
	if speedMS >= xs[len(xs)-1] {
		return p.spec.PowerCurve.PowerKW[len(xs)-1]
	}
	v := p.pl.Predict(speedMS)
	if v < 0 {
		return 0
	}
	if v > p.spec.RatedPowerKW {
		return p.spec.RatedPowerKW
	}
	return v
}

// ShearAdjust scales a wind speed measured at measurementHeightM up (or down)
// to hub height using the power-law profile.
func (t *TurbineSpec) ShearAdjust(speedMS, measurementHeightM float64) float64 {
	if measurementHeightM <= 0 || measurementHeightM == t.HubHeightM {
		return speedMS
	}
	alpha := t.ShearExponent
	if alpha == 0 {
		alpha = 0.14
	}
	return speedMS * math.Pow(t.HubHeightM/measurementHeightM, alpha)
}
