package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTurbine() TurbineSpec {
	return TurbineSpec{
		Name:           "test-6MW",
		RotorDiameterM: 155,
		HubHeightM:     100,
		RatedPowerKW:   6000,
		CutInMS:        3,
		CutOutMS:       25,
		ShearExponent:  0.14,
		PowerCurve: PowerCurve{
			WindSpeedMS: []float64{3, 5, 7, 9, 11, 13, 25},
			PowerKW:     []float64{90, 780, 2210, 4300, 5700, 6000, 6000},
		},
	}
}

func TestTurbineValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TurbineSpec)
		wantErr string
	}{
		{"valid", func(s *TurbineSpec) {}, ""},
		{"missing name", func(s *TurbineSpec) { s.Name = "" }, "name is required"},
		{"zero rotor", func(s *TurbineSpec) { s.RotorDiameterM = 0 }, "rotor_diameter_m"},
		{"cut-out below cut-in", func(s *TurbineSpec) { s.CutOutMS = 2 }, "cut_out_ms"},
		{"one curve point", func(s *TurbineSpec) {
			s.PowerCurve = PowerCurve{WindSpeedMS: []float64{5}, PowerKW: []float64{100}}
		}, "at least two points"},
		{"length mismatch", func(s *TurbineSpec) {
			s.PowerCurve.PowerKW = s.PowerCurve.PowerKW[:3]
		}, "length mismatch"},
		{"non-increasing speeds", func(s *TurbineSpec) {
			s.PowerCurve.WindSpeedMS[2] = s.PowerCurve.WindSpeedMS[1]
		}, "strictly increasing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validTurbine()
			tt.mutate(&spec)
			err := spec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPowerInterpolator(t *testing.T) {
	spec := validTurbine()
	ip, err := spec.Interpolator()
	require.NoError(t, err)

	// Below cut-in and at/above cut-out produce nothing.
	assert.Zero(t, ip.PowerKW(2.9))
	assert.Zero(t, ip.PowerKW(25))
	assert.Zero(t, ip.PowerKW(30))

	// Curve points reproduce exactly.
	assert.InDelta(t, 780, ip.PowerKW(5), 1e-9)
	assert.InDelta(t, 6000, ip.PowerKW(13), 1e-9)

	// Midpoints interpolate linearly.
	assert.InDelta(t, (780+2210)/2.0, ip.PowerKW(6), 1e-9)

	// Flat top holds at rated power.
	assert.InDelta(t, 6000, ip.PowerKW(20), 1e-9)
}

func TestShearAdjust(t *testing.T) {
	spec := validTurbine()

	// Measurement at hub height is a no-op.
	assert.Equal(t, 8.0, spec.ShearAdjust(8, 100))

	// Lower measurement height scales speed up.
	adj := spec.ShearAdjust(8, 50)
	assert.Greater(t, adj, 8.0)

	// Zero measurement height is treated as already-at-hub.
	assert.Equal(t, 8.0, spec.ShearAdjust(8, 0))
}

func TestAnnualizeKWh(t *testing.T) {
	// A week extrapolates to a year.
	assert.InDelta(t, 1000*float64(HoursPerYear)/168, AnnualizeKWh(1000, 168), 1e-9)
	// A full year is unchanged.
	assert.InDelta(t, 500, AnnualizeKWh(500, HoursPerYear), 1e-9)
	assert.Zero(t, AnnualizeKWh(100, 0))
}
