package model

import (
	"errors"
	"fmt"
)

// HoursPerYear is the canonical simulation horizon for annualized outputs.
const HoursPerYear = 8760

// WindResource is an hourly wind resource profile at (or near) hub height.
// SpeedMS and DirectionDeg must be the same length. Direction follows the
// meteorological convention: degrees clockwise from north, direction the
// wind is blowing FROM.
type WindResource struct {
	SpeedMS      []float64
	DirectionDeg []float64
	// MeasurementHeightM is the height the speeds were measured at. Speeds
	// are shear-adjusted to hub height during simulation when this differs.
	MeasurementHeightM float64
}

func (w *WindResource) Validate() error {
	if len(w.SpeedMS) == 0 {
		return errors.New("wind resource has no intervals")
	}
	if len(w.SpeedMS) != len(w.DirectionDeg) {
		return fmt.Errorf("wind resource speed/direction length mismatch: %d vs %d",
			len(w.SpeedMS), len(w.DirectionDeg))
	}
	if w.MeasurementHeightM <= 0 {
		return errors.New("wind resource measurement height must be > 0")
	}
	for i, v := range w.SpeedMS {
		if v < 0 {
			return fmt.Errorf("wind resource interval %d: negative speed %f", i, v)
		}
	}
	return nil
}

func (w *WindResource) Hours() int { return len(w.SpeedMS) }

// SolarResource is an hourly global horizontal irradiance profile in W/m^2.
type SolarResource struct {
	GHIWm2 []float64
}

func (s *SolarResource) Validate() error {
	if len(s.GHIWm2) == 0 {
		return errors.New("solar resource has no intervals")
	}
	for i, v := range s.GHIWm2 {
		if v < 0 {
			return fmt.Errorf("solar resource interval %d: negative irradiance %f", i, v)
		}
	}
	return nil
}

func (s *SolarResource) Hours() int { return len(s.GHIWm2) }

// AnnualizeKWh scales an energy total over `hours` simulated hours to a
// full-year equivalent. Profiles shorter than a year (test fixtures, partial
// downloads) are extrapolated proportionally.
func AnnualizeKWh(totalKWh float64, hours int) float64 {
	if hours <= 0 {
		return 0
	}
	return totalKWh * HoursPerYear / float64(hours)
}
