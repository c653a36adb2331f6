// Package plant simulates hourly performance of the hybrid renewable plant:
// wind farm (with wakes), PV array, and an optional battery that smooths the
// power delivered to the electrolyzer.
package plant

import (
	"errors"
	"fmt"

	"greenheart/internal/model"
	"greenheart/internal/wake"
)

// Config assembles everything the performance engine needs.
type Config struct {
	Turbine *model.TurbineSpec
	Wake    *wake.Config
	Wind    WindConfig
	PV      PVConfig
	// Battery is optional; nil disables smoothing.
	Battery *model.BatteryParams
	// ElectrolyzerRatingKW is the smoothing target: surplus above it charges
	// the battery, shortfall below it discharges. Zero disables smoothing
	// even when a battery is configured.
	ElectrolyzerRatingKW float64
}

// FlowRow is one interval of plant-level energy accounting. This is the
// primary artifact for "what happened" in a performance run.
type FlowRow struct {
	Index int

	WindKW       float64
	PVKW         float64
	GenerationKW float64

	BatteryAction       model.Action
	BatteryAbsorbedKWh  float64
	BatteryDeliveredKWh float64
	BatterySOC          float64

	ToElectrolyzerKW float64
	CurtailedKW      float64
}

// Performance is the result of a hybrid plant simulation.
type Performance struct {
	Hours int
	Flows []FlowRow

	WindKW           []float64
	PVKW             []float64
	GenerationKW     []float64
	ToElectrolyzerKW []float64

	// Annualized figures.
	AEPKWh           float64
	CapacityFactor   float64
	WakeLossFraction float64
	FinalSOC         float64
}

// Simulate runs the plant hour by hour over the resource profiles. Wind and
// solar profiles must cover the same number of intervals.
func Simulate(cfg Config, windRes *model.WindResource, solarRes *model.SolarResource) (*Performance, error) {
	if cfg.Turbine == nil {
		return nil, errors.New("turbine spec is nil")
	}
	if cfg.Wake == nil {
		return nil, errors.New("wake config is nil")
	}

	farm, err := NewWindFarm(cfg.Turbine, cfg.Wake, cfg.Wind)
	if err != nil {
		return nil, err
	}
	windOut, err := farm.Simulate(windRes)
	if err != nil {
		return nil, err
	}
	pvOut, err := SimulatePV(cfg.PV, solarRes)
	if err != nil {
		return nil, err
	}
	if len(pvOut) != len(windOut.PowerKW) {
		return nil, fmt.Errorf("wind and solar profiles cover different horizons: %d vs %d intervals",
			len(windOut.PowerKW), len(pvOut))
	}

	var batt *model.Battery
	if cfg.Battery != nil && cfg.ElectrolyzerRatingKW > 0 {
		batt, err = model.NewBattery(*cfg.Battery, cfg.Battery.MinSOC)
		if err != nil {
			return nil, fmt.Errorf("battery config invalid: %w", err)
		}
	}

	hours := len(windOut.PowerKW)
	perf := &Performance{
		Hours:            hours,
		Flows:            make([]FlowRow, 0, hours),
		WindKW:           windOut.PowerKW,
		PVKW:             pvOut,
		GenerationKW:     make([]float64, hours),
		ToElectrolyzerKW: make([]float64, hours),
		WakeLossFraction: windOut.WakeLossFraction(),
	}

	const dtH = 1.0
	totalKWh := 0.0
	for i := 0; i < hours; i++ {
		gen := windOut.PowerKW[i] + pvOut[i]
		perf.GenerationKW[i] = gen
		totalKWh += gen * dtH

		row := FlowRow{
			Index:         i,
			WindKW:        windOut.PowerKW[i],
			PVKW:          pvOut[i],
			GenerationKW:  gen,
			BatteryAction: model.ActionIdle,
		}

		delivered := gen
		if batt != nil {
			target := cfg.ElectrolyzerRatingKW
			if gen > target {
				res, err := batt.Charge((gen-target)*dtH, dtH)
				if err != nil {
					return nil, fmt.Errorf("interval %d charge: %w", i, err)
				}
				delivered = gen - res.AbsorbedKWh/dtH
				row.BatteryAbsorbedKWh = res.AbsorbedKWh
				row.BatterySOC = res.SOCEnd
			} else if gen < target {
				res, err := batt.Discharge((target-gen)*dtH, dtH)
				if err != nil {
					return nil, fmt.Errorf("interval %d discharge: %w", i, err)
				}
				delivered = gen + res.DeliveredKWh/dtH
				row.BatteryDeliveredKWh = res.DeliveredKWh
				row.BatterySOC = res.SOCEnd
			} else {
				row.BatterySOC = batt.State.SOC
			}
			row.BatteryAction = model.ActionFromEnergy(row.BatteryAbsorbedKWh, row.BatteryDeliveredKWh)
		}

		row.ToElectrolyzerKW = delivered
		if cfg.ElectrolyzerRatingKW > 0 && delivered > cfg.ElectrolyzerRatingKW {
			row.CurtailedKW = delivered - cfg.ElectrolyzerRatingKW
			row.ToElectrolyzerKW = cfg.ElectrolyzerRatingKW
		}
		perf.ToElectrolyzerKW[i] = row.ToElectrolyzerKW
		perf.Flows = append(perf.Flows, row)
	}

	perf.AEPKWh = model.AnnualizeKWh(totalKWh, hours)
	ratedKW := float64(cfg.Wind.NumTurbines)*cfg.Turbine.RatedPowerKW + cfg.PV.SystemCapacityKW
	if ratedKW > 0 {
		perf.CapacityFactor = perf.AEPKWh / (ratedKW * model.HoursPerYear)
	}
	if batt != nil {
		perf.FinalSOC = batt.State.SOC
	}
	return perf, nil
}
