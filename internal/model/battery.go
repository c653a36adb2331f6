package model

import (
	"errors"
	"math"
)

// BatteryParams defines the physical parameters of the plant battery.
// Units:
// - EnergyCapacityKWh: kWh
// - PowerCapacityKW: kW
// - Efficiencies: 0..1
// - SOC: fraction 0..1
type BatteryParams struct {
	EnergyCapacityKWh   float64
	PowerCapacityKW     float64
	ChargeEfficiency    float64
	DischargeEfficiency float64
	MinSOC              float64
	MaxSOC              float64
}

// BatteryState captures mutable state.
type BatteryState struct {
	// SOC is the state of charge as a fraction [0,1].
	SOC float64
}

// Battery bundles params + state. In the hybrid plant it buffers renewable
// generation so the electrolyzer sees a steadier input: surplus above the
// electrolyzer rating charges, shortfall below it discharges.
type Battery struct {
	Params BatteryParams
	State  BatteryState
}

func NewBattery(params BatteryParams, initialSOC float64) (*Battery, error) {
	b := &Battery{
		Params: params,
		State:  BatteryState{SOC: initialSOC},
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Battery) Validate() error {
	p := b.Params
	if p.EnergyCapacityKWh <= 0 {
		return errors.New("EnergyCapacityKWh must be > 0")
	}
	if p.PowerCapacityKW <= 0 {
		return errors.New("PowerCapacityKW must be > 0")
	}
	if p.ChargeEfficiency <= 0 || p.ChargeEfficiency > 1 {
		return errors.New("ChargeEfficiency must be in (0, 1]")
	}
	if p.DischargeEfficiency <= 0 || p.DischargeEfficiency > 1 {
		return errors.New("DischargeEfficiency must be in (0, 1]")
	}
	if p.MinSOC < 0 || p.MinSOC > 1 || p.MaxSOC < 0 || p.MaxSOC > 1 || p.MinSOC > p.MaxSOC {
		return errors.New("MinSOC/MaxSOC must satisfy 0<=MinSOC<=MaxSOC<=1")
	}
	if b.State.SOC < p.MinSOC || b.State.SOC > p.MaxSOC {
		return errors.New("initial SOC must be within [MinSOC, MaxSOC]")
	}
	return nil
}

// BatteryStepResult captures what the battery did in one interval.
type BatteryStepResult struct {
	AbsorbedKWh  float64 // surplus energy pulled from the bus while charging
	DeliveredKWh float64 // energy pushed to the bus while discharging
	SOCStart     float64
	SOCEnd       float64
}

// Charge absorbs up to requestKWh of surplus energy over one interval of
// durationHours, limited by power capacity and MaxSOC.
func (b *Battery) Charge(requestKWh, durationHours float64) (BatteryStepResult, error) {
	if durationHours <= 0 {
		return BatteryStepResult{}, errors.New("durationHours must be > 0")
	}
	res := BatteryStepResult{SOCStart: b.State.SOC}
	if requestKWh <= 0 {
		res.SOCEnd = b.State.SOC
		return res, nil
	}
	absorbed := math.Min(requestKWh, b.maxChargeEnergyKWh(durationHours))
	storedKWh := absorbed * b.Params.ChargeEfficiency
	b.State.SOC = clamp01((b.State.SOC*b.Params.EnergyCapacityKWh + storedKWh) / b.Params.EnergyCapacityKWh)
	res.AbsorbedKWh = absorbed
	res.SOCEnd = b.State.SOC
	return res, nil
}

// Discharge delivers up to requestKWh of energy over one interval of
// durationHours, limited by power capacity and MinSOC.
func (b *Battery) Discharge(requestKWh, durationHours float64) (BatteryStepResult, error) {
	if durationHours <= 0 {
		return BatteryStepResult{}, errors.New("durationHours must be > 0")
	}
	res := BatteryStepResult{SOCStart: b.State.SOC}
	if requestKWh <= 0 {
		res.SOCEnd = b.State.SOC
		return res, nil
	}
	delivered := math.Min(requestKWh, b.maxDischargeEnergyKWh(durationHours))
	withdrawnKWh := delivered / b.Params.DischargeEfficiency
	b.State.SOC = clamp01((b.State.SOC*b.Params.EnergyCapacityKWh - withdrawnKWh) / b.Params.EnergyCapacityKWh)
	res.DeliveredKWh = delivered
	res.SOCEnd = b.State.SOC
	return res, nil
}

func (b *Battery) maxChargeEnergyKWh(durationHours float64) float64 {
	// Max additional stored energy before hitting MaxSOC.
	storableKWh := (b.Params.MaxSOC - b.State.SOC) * b.Params.EnergyCapacityKWh
	if storableKWh <= 0 {
		return 0
	}
	// Bus energy required = stored / eff.
	limitBySOC := storableKWh / b.Params.ChargeEfficiency
	limitByPower := b.Params.PowerCapacityKW * durationHours
	return math.Max(0, math.Min(limitBySOC, limitByPower))
}

func (b *Battery) maxDischargeEnergyKWh(durationHours float64) float64 {
	// Max withdrawable stored energy before hitting MinSOC.
	withdrawableKWh := (b.State.SOC - b.Params.MinSOC) * b.Params.EnergyCapacityKWh
	if withdrawableKWh <= 0 {
		return 0
	}
	// Bus energy delivered = withdrawn * eff.
	limitBySOC := withdrawableKWh * b.Params.DischargeEfficiency
	limitByPower := b.Params.PowerCapacityKW * durationHours
	return math.Max(0, math.Min(limitBySOC, limitByPower))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
