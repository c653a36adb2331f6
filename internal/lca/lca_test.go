package lca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		RunLCA:                   true,
		GridCO2KGPerKWh:          0.35,
		EmbodiedWindCO2KGPerKWh:  0.011,
		EmbodiedSolarCO2KGPerKWh: 0.043,
	}
}

func testInputs() Inputs {
	return Inputs{
		AnnualH2KG:     1_000_000,
		WindEnergyKWh:  40_000_000,
		SolarEnergyKWh: 10_000_000,
		GridEnergyKWh:  5_000_000,
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	assert.NoError(t, cfg.Validate())

	disabled := Config{GridCO2KGPerKWh: -1}
	assert.NoError(t, disabled.Validate(), "disabled block skips validation")

	bad := testConfig()
	bad.GridCO2KGPerKWh = -1
	assert.Error(t, bad.Validate())
}

func TestCalculateHydrogenScopes(t *testing.T) {
	rows, err := Calculate(testConfig(), testInputs())
	require.NoError(t, err)
	require.Len(t, rows, 5, "electrolysis plus four fossil benchmarks")

	elec := rows[0]
	assert.Equal(t, "hydrogen", elec.Product)
	assert.Equal(t, "electrolysis", elec.Pathway)
	assert.Zero(t, elec.Scope1)
	assert.InDelta(t, 0.35*5_000_000/1_000_000, elec.Scope2, 1e-9)
	assert.InDelta(t, (0.011*40_000_000+0.043*10_000_000)/1_000_000, elec.Scope3, 1e-9)
	assert.InDelta(t, elec.Scope1+elec.Scope2+elec.Scope3, elec.Total, 1e-12)
	assert.Equal(t, "kg CO2e/kg H2", elec.Unit)

	pathways := map[string]bool{}
	for _, r := range rows {
		pathways[r.Pathway] = true
		assert.InDelta(t, r.Scope1+r.Scope2+r.Scope3, r.Total, 1e-12)
	}
	for _, p := range []string{"smr", "smr_ccs", "atr", "atr_ccs"} {
		assert.True(t, pathways[p], p)
	}
}

func TestCalculateNoGridDraw(t *testing.T) {
	in := testInputs()
	in.GridEnergyKWh = 0
	rows, err := Calculate(testConfig(), in)
	require.NoError(t, err)
	assert.Zero(t, rows[0].Scope2, "islanded plant has no scope 2")
}

func TestCalculateDerivatives(t *testing.T) {
	in := testInputs()
	in.AmmoniaKGPerYr = 5_000_000
	in.HydrogenPerKGNH3 = 0.197
	in.SteelTonnesPerYr = 900_000
	in.HydrogenPerTonneSteel = 66

	rows, err := Calculate(testConfig(), in)
	require.NoError(t, err)
	// 5 hydrogen rows plus 5 each for ammonia and steel.
	require.Len(t, rows, 15)

	byKey := map[string]Row{}
	for _, r := range rows {
		byKey[r.Product+"/"+r.Pathway] = r
	}

	h2SMR := byKey["hydrogen/smr"]
	nh3SMR := byKey["ammonia/smr"]
	assert.InDelta(t, 0.12+h2SMR.Scope1*0.197, nh3SMR.Scope1, 1e-9)
	assert.InDelta(t, h2SMR.Scope2*0.197, nh3SMR.Scope2, 1e-9)
	assert.Equal(t, "kg CO2e/kg NH3", nh3SMR.Unit)

	h2Elec := byKey["hydrogen/electrolysis"]
	steelElec := byKey["steel/electrolysis"]
	assert.InDelta(t, 220.0+h2Elec.Scope1*66, steelElec.Scope1, 1e-9)
	assert.InDelta(t, h2Elec.Scope3*66, steelElec.Scope3, 1e-6)
	assert.Equal(t, "kg CO2e/tonne steel", steelElec.Unit)
}

func TestCalculateErrors(t *testing.T) {
	_, err := Calculate(Config{}, testInputs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")

	in := testInputs()
	in.AnnualH2KG = 0
	_, err = Calculate(testConfig(), in)
	assert.Error(t, err)

	in = testInputs()
	in.AmmoniaKGPerYr = 1
	_, err = Calculate(testConfig(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hydrogen_per_kg_nh3")
}

func TestRecordMatchesHeader(t *testing.T) {
	rows, err := Calculate(testConfig(), testInputs())
	require.NoError(t, err)
	assert.Len(t, rows[0].Record(), len(Header()))
}
