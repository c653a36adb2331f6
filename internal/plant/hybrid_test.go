package plant

import (
	"testing"

	"greenheart/internal/model"
	"greenheart/internal/wake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTurbine() *model.TurbineSpec {
	return &model.TurbineSpec{
		Name:           "test-2MW",
		RotorDiameterM: 90,
		HubHeightM:     100,
		RatedPowerKW:   2000,
		CutInMS:        3,
		CutOutMS:       25,
		PowerCurve: model.PowerCurve{
			WindSpeedMS: []float64{3, 12, 25},
			PowerKW:     []float64{100, 2000, 2000},
		},
	}
}

func testWake(n int) *wake.Config {
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i) * 2000 // spaced out: negligible wake interaction
	}
	return &wake.Config{
		Model:             "jensen",
		DecayConstant:     0.05,
		ThrustCoefficient: 0.8,
		LayoutX:           x,
		LayoutY:           y,
	}
}

func steadyWind(hours int, speed float64) *model.WindResource {
	res := &model.WindResource{MeasurementHeightM: 100}
	for i := 0; i < hours; i++ {
		res.SpeedMS = append(res.SpeedMS, speed)
		res.DirectionDeg = append(res.DirectionDeg, 0) // crosswind to the row
	}
	return res
}

func zeroSolar(hours int) *model.SolarResource {
	return &model.SolarResource{GHIWm2: make([]float64, hours)}
}

func TestNewWindFarmLayoutMismatch(t *testing.T) {
	_, err := NewWindFarm(testTurbine(), testWake(3), WindConfig{NumTurbines: 2, TurbineRatingKW: 2000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wake layout has 3 positions but plant declares 2 turbines")
}

func TestWindFarmLosses(t *testing.T) {
	cfg := WindConfig{NumTurbines: 2, TurbineRatingKW: 2000, Losses: 0.1}
	farm, err := NewWindFarm(testTurbine(), testWake(2), cfg)
	require.NoError(t, err)

	out, err := farm.Simulate(steadyWind(10, 12))
	require.NoError(t, err)
	// At rated speed with north wind (crosswind to the east-west row) there
	// is no wake interaction: 2 turbines x 2000 kW x 0.9.
	for _, p := range out.PowerKW {
		assert.InDelta(t, 3600, p, 1e-6)
	}
	assert.InDelta(t, 0, out.WakeLossFraction(), 1e-9, "electrical losses are not wake losses")
}

func TestWakeLossFractionExcludesElectricalLosses(t *testing.T) {
	// One turbine cannot wake itself, so any nonzero fraction here would be
	// the Losses derate leaking into the wake accounting.
	farm, err := NewWindFarm(testTurbine(), testWake(1),
		WindConfig{NumTurbines: 1, TurbineRatingKW: 2000, Losses: 0.1})
	require.NoError(t, err)
	out, err := farm.Simulate(steadyWind(6, 10))
	require.NoError(t, err)
	assert.InDelta(t, 0, out.WakeLossFraction(), 1e-9)

	// Along-row wind (from the west, down the +x row) puts the second turbine
	// in the first one's wake. The fraction must not depend on Losses.
	alongRow := &model.WindResource{MeasurementHeightM: 100}
	for i := 0; i < 6; i++ {
		alongRow.SpeedMS = append(alongRow.SpeedMS, 10)
		alongRow.DirectionDeg = append(alongRow.DirectionDeg, 270)
	}
	wakeCfg := &wake.Config{
		Model:             "jensen",
		DecayConstant:     0.05,
		ThrustCoefficient: 0.8,
		LayoutX:           []float64{0, 450},
		LayoutY:           []float64{0, 0},
	}
	lossless, err := NewWindFarm(testTurbine(), wakeCfg,
		WindConfig{NumTurbines: 2, TurbineRatingKW: 2000})
	require.NoError(t, err)
	derated, err := NewWindFarm(testTurbine(), wakeCfg,
		WindConfig{NumTurbines: 2, TurbineRatingKW: 2000, Losses: 0.1})
	require.NoError(t, err)

	outLossless, err := lossless.Simulate(alongRow)
	require.NoError(t, err)
	outDerated, err := derated.Simulate(alongRow)
	require.NoError(t, err)

	assert.Greater(t, outLossless.WakeLossFraction(), 0.0)
	assert.InDelta(t, outLossless.WakeLossFraction(), outDerated.WakeLossFraction(), 1e-9)
}

func TestSimulatePVScalesWithIrradiance(t *testing.T) {
	out, err := SimulatePV(PVConfig{SystemCapacityKW: 1000, Losses: 0.1},
		&model.SolarResource{GHIWm2: []float64{0, 500, 1000}})
	require.NoError(t, err)
	assert.InDelta(t, 0, out[0], 1e-9)
	assert.InDelta(t, 450, out[1], 1e-9)
	assert.InDelta(t, 900, out[2], 1e-9)
}

func TestSimulateHorizonMismatch(t *testing.T) {
	cfg := Config{
		Turbine: testTurbine(),
		Wake:    testWake(1),
		Wind:    WindConfig{NumTurbines: 1, TurbineRatingKW: 2000},
		PV:      PVConfig{SystemCapacityKW: 100},
	}
	_, err := Simulate(cfg, steadyWind(5, 10), zeroSolar(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different horizons")
}

func TestSimulateBatterySmoothing(t *testing.T) {
	batt := &model.BatteryParams{
		EnergyCapacityKWh:   10000,
		PowerCapacityKW:     2000,
		ChargeEfficiency:    1,
		DischargeEfficiency: 1,
		MinSOC:              0,
		MaxSOC:              1,
	}
	cfg := Config{
		Turbine:              testTurbine(),
		Wake:                 testWake(2),
		Wind:                 WindConfig{NumTurbines: 2, TurbineRatingKW: 2000},
		Battery:              batt,
		ElectrolyzerRatingKW: 3000,
	}

	// Alternate rated and calm hours: the battery charges on surplus and
	// discharges into the lull.
	res := &model.WindResource{MeasurementHeightM: 100}
	for i := 0; i < 6; i++ {
		if i%2 == 0 {
			res.SpeedMS = append(res.SpeedMS, 12)
		} else {
			res.SpeedMS = append(res.SpeedMS, 0)
		}
		res.DirectionDeg = append(res.DirectionDeg, 0)
	}

	perf, err := Simulate(cfg, res, zeroSolar(6))
	require.NoError(t, err)
	require.Len(t, perf.Flows, 6)

	// Surplus hours: generation 4000, target 3000, battery absorbs 1000.
	assert.Equal(t, model.ActionCharging, perf.Flows[0].BatteryAction)
	assert.InDelta(t, 1000, perf.Flows[0].BatteryAbsorbedKWh, 1e-6)
	assert.InDelta(t, 3000, perf.Flows[0].ToElectrolyzerKW, 1e-6)
	assert.Zero(t, perf.Flows[0].CurtailedKW)

	// Calm hours: the battery delivers what it stored.
	assert.Equal(t, model.ActionDischarging, perf.Flows[1].BatteryAction)
	assert.InDelta(t, 1000, perf.Flows[1].BatteryDeliveredKWh, 1e-6)
	assert.InDelta(t, 1000, perf.Flows[1].ToElectrolyzerKW, 1e-6)
}

func TestSimulateCurtailmentWithoutBattery(t *testing.T) {
	cfg := Config{
		Turbine:              testTurbine(),
		Wake:                 testWake(2),
		Wind:                 WindConfig{NumTurbines: 2, TurbineRatingKW: 2000},
		ElectrolyzerRatingKW: 3000,
	}
	perf, err := Simulate(cfg, steadyWind(4, 12), zeroSolar(4))
	require.NoError(t, err)
	for _, row := range perf.Flows {
		assert.InDelta(t, 3000, row.ToElectrolyzerKW, 1e-6)
		assert.InDelta(t, 1000, row.CurtailedKW, 1e-6)
		assert.Equal(t, model.ActionIdle, row.BatteryAction)
	}
}

func TestSimulateAnnualization(t *testing.T) {
	cfg := Config{
		Turbine: testTurbine(),
		Wake:    testWake(1),
		Wind:    WindConfig{NumTurbines: 1, TurbineRatingKW: 2000},
	}
	perf, err := Simulate(cfg, steadyWind(24, 12), zeroSolar(24))
	require.NoError(t, err)
	// Rated output around the clock annualizes to rated * 8760.
	assert.InDelta(t, 2000*model.HoursPerYear, perf.AEPKWh, 1e-3)
	assert.InDelta(t, 1.0, perf.CapacityFactor, 1e-9)
}
