package plant

import (
	"fmt"

	"greenheart/internal/model"
)

// PVConfig sizes the solar array.
type PVConfig struct {
	SystemCapacityKW float64
	// Losses is the combined soiling/inverter/wiring loss fraction [0,1).
	Losses float64
}

// referenceIrradianceWm2 is the STC irradiance PV capacity is rated at.
const referenceIrradianceWm2 = 1000.0

// SimulatePV converts an irradiance profile into hourly AC output for a
// fixed-tilt array rated at SystemCapacityKW.
func SimulatePV(cfg PVConfig, res *model.SolarResource) ([]float64, error) {
	if cfg.SystemCapacityKW < 0 {
		return nil, fmt.Errorf("pv system capacity must be >= 0")
	}
	if cfg.Losses < 0 || cfg.Losses >= 1 {
		return nil, fmt.Errorf("pv losses must be in [0, 1)")
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("solar resource: %w", err)
	}
	out := make([]float64, res.Hours())
	if cfg.SystemCapacityKW == 0 {
		return out, nil
	}
	for i, ghi := range res.GHIWm2 {
		p := cfg.SystemCapacityKW * (ghi / referenceIrradianceWm2) * (1 - cfg.Losses)
		if p > cfg.SystemCapacityKW {
			p = cfg.SystemCapacityKW
		}
		out[i] = p
	}
	return out, nil
}
