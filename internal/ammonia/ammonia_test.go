package ammonia

import (
	"math"
	"testing"

	"greenheart/internal/finance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Enabled:                  true,
		HydrogenKGPerKG:          0.197,
		ElectricityKWhPerKG:      0.53,
		CapexBaseUSD:             900_000_000,
		CapexBaseCapacityKGPerYr: 365_000_000,
		CapexScalingExponent:     0.6,
		FixedOMFraction:          0.03,
		CapacityFactor:           0.9,
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	assert.NoError(t, cfg.Validate())

	disabled := Config{}
	assert.NoError(t, disabled.Validate(), "disabled block skips validation")

	bad := testConfig()
	bad.HydrogenKGPerKG = 0
	assert.Error(t, bad.Validate())

	bad = testConfig()
	bad.CapexScalingExponent = 1.2
	assert.Error(t, bad.Validate())

	bad = testConfig()
	bad.CapacityFactor = 0
	assert.Error(t, bad.Validate())
}

func TestRunPerformance(t *testing.T) {
	cfg := testConfig()
	perf, err := RunPerformance(cfg, 10_000_000)
	require.NoError(t, err)

	annualNH3 := 10_000_000 / 0.197
	assert.InDelta(t, annualNH3/0.9, perf.PlantCapacityKGPerYr, 1e-6)
	assert.InDelta(t, 10_000_000, perf.HydrogenDemandKGPerYr, 1e-9)
	assert.InDelta(t, 0.9, perf.CapacityFactor, 1e-9)

	_, err = RunPerformance(cfg, 0)
	assert.Error(t, err)
}

func TestRunCostsPowerLaw(t *testing.T) {
	cfg := testConfig()

	// At the reference capacity the capital equals the base cost.
	cost, err := RunCosts(cfg, PerformanceResults{PlantCapacityKGPerYr: cfg.CapexBaseCapacityKGPerYr})
	require.NoError(t, err)
	assert.InDelta(t, cfg.CapexBaseUSD, cost.CapexUSD, 1e-3)
	assert.InDelta(t, cfg.CapexBaseUSD*0.03, cost.FixedOMUSDPerYr, 1e-3)

	// Half the capacity costs (1/2)^0.6 of the base.
	cost, err = RunCosts(cfg, PerformanceResults{PlantCapacityKGPerYr: cfg.CapexBaseCapacityKGPerYr / 2})
	require.NoError(t, err)
	assert.InDelta(t, cfg.CapexBaseUSD*math.Pow(0.5, 0.6), cost.CapexUSD, 1e-3)
}

func TestRunFullModel(t *testing.T) {
	cfg := testConfig()
	a := finance.Assumptions{OperatingLifeYears: 30, DiscountRate: 0.08, GeneralInflation: 0.025, TaxRate: 0.257}

	perf, cost, fin, err := RunFullModel(cfg, 10_000_000, 4.5, 0.04, a)
	require.NoError(t, err)
	assert.Positive(t, cost.CapexUSD)
	assert.Equal(t, "$/kg", fin.LCOA.Unit)
	assert.NotEmpty(t, fin.Breakdown)

	// Hydrogen feedstock alone puts a floor under the price.
	assert.Greater(t, fin.LCOA.Value, cfg.HydrogenKGPerKG*4.5)
	assert.Positive(t, perf.PlantCapacityKGPerYr)
}

func TestRunFinanceFlatDecomposition(t *testing.T) {
	// With flat assumptions LCOA is feedstocks plus fixed O&M plus
	// capital spread over the plant life.
	cfg := testConfig()
	a := finance.Assumptions{OperatingLifeYears: 20}

	perf, err := RunPerformance(cfg, 10_000_000)
	require.NoError(t, err)
	cost, err := RunCosts(cfg, perf)
	require.NoError(t, err)
	fin, err := RunFinance(cfg, perf, cost, 4.0, 0.05, a)
	require.NoError(t, err)

	annualKG := perf.PlantCapacityKGPerYr * perf.CapacityFactor
	want := cfg.HydrogenKGPerKG*4.0 + cfg.ElectricityKWhPerKG*0.05 +
		(cost.FixedOMUSDPerYr+cost.CapexUSD/20)/annualKG
	assert.InDelta(t, want, fin.LCOA.Value, 1e-6)
}
