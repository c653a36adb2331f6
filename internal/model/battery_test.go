package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() BatteryParams {
	return BatteryParams{
		EnergyCapacityKWh:   1000,
		PowerCapacityKW:     250,
		ChargeEfficiency:    0.9,
		DischargeEfficiency: 0.9,
		MinSOC:              0.1,
		MaxSOC:              0.9,
	}
}

func TestNewBatteryValidation(t *testing.T) {
	_, err := NewBattery(testParams(), 0.5)
	assert.NoError(t, err)

	bad := testParams()
	bad.ChargeEfficiency = 1.5
	_, err = NewBattery(bad, 0.5)
	assert.Error(t, err)

	_, err = NewBattery(testParams(), 0.95)
	assert.Error(t, err, "initial SOC above MaxSOC")
}

func TestChargeLimits(t *testing.T) {
	b, err := NewBattery(testParams(), 0.5)
	require.NoError(t, err)

	// Power-limited: only 250 kWh can be absorbed in one hour.
	res, err := b.Charge(400, 1)
	require.NoError(t, err)
	assert.InDelta(t, 250, res.AbsorbedKWh, 1e-9)
	// 250 kWh absorbed stores 225 kWh at 90% efficiency.
	assert.InDelta(t, 0.5+225.0/1000, res.SOCEnd, 1e-9)

	// Fill to MaxSOC; further charging absorbs nothing.
	for i := 0; i < 10; i++ {
		if _, err := b.Charge(400, 1); err != nil {
			t.Fatal(err)
		}
	}
	assert.InDelta(t, 0.9, b.State.SOC, 1e-9)
	res, err = b.Charge(400, 1)
	require.NoError(t, err)
	assert.Zero(t, res.AbsorbedKWh)
}

func TestDischargeLimits(t *testing.T) {
	b, err := NewBattery(testParams(), 0.5)
	require.NoError(t, err)

	// Power-limited delivery.
	res, err := b.Discharge(400, 1)
	require.NoError(t, err)
	assert.InDelta(t, 250, res.DeliveredKWh, 1e-9)
	// Delivering 250 kWh withdraws 250/0.9 kWh of stored energy.
	assert.InDelta(t, 0.5-(250/0.9)/1000, res.SOCEnd, 1e-9)

	// Drain to MinSOC; further discharge delivers nothing.
	for i := 0; i < 10; i++ {
		if _, err := b.Discharge(400, 1); err != nil {
			t.Fatal(err)
		}
	}
	assert.InDelta(t, 0.1, b.State.SOC, 1e-9)
	res, err = b.Discharge(400, 1)
	require.NoError(t, err)
	assert.Zero(t, res.DeliveredKWh)
}

func TestChargeDischargeEdgeCases(t *testing.T) {
	b, err := NewBattery(testParams(), 0.5)
	require.NoError(t, err)

	_, err = b.Charge(100, 0)
	assert.Error(t, err)
	_, err = b.Discharge(100, -1)
	assert.Error(t, err)

	// Non-positive requests are no-ops.
	res, err := b.Charge(0, 1)
	require.NoError(t, err)
	assert.Zero(t, res.AbsorbedKWh)
	assert.Equal(t, 0.5, res.SOCEnd)
}

func TestActionFromEnergy(t *testing.T) {
	assert.Equal(t, ActionCharging, ActionFromEnergy(10, 0))
	assert.Equal(t, ActionDischarging, ActionFromEnergy(0, 10))
	assert.Equal(t, ActionIdle, ActionFromEnergy(0, 0))
}
