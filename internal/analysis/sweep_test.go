package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"greenheart/internal/config"
	"greenheart/internal/data"
	"greenheart/internal/electrolyzer"
	"greenheart/internal/finance"
	"greenheart/internal/model"
	"greenheart/internal/wake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseConfig is a minimal runnable simulation: wind only, products disabled.
func baseConfig(t *testing.T) *config.SimulationConfig {
	t.Helper()
	windPath := filepath.Join(t.TempDir(), "wind.csv")
	require.NoError(t, data.SaveWindResourceCSV(data.SyntheticWindResource(72, 5), windPath))

	return &config.SimulationConfig{
		Plant: config.PlantConfig{
			Site: config.SiteConfig{WindResourceFile: windPath, ResourceYear: 2013},
			Technologies: config.TechnologiesConfig{
				Wind: config.WindTech{NumTurbines: 2, TurbineRatingKW: 2000, Losses: 0.08},
			},
		},
		Tech: config.TechnologyConfig{
			ProjectParameters: config.ProjectParameters{ProjectLifetimeYears: 30, CostYear: 2022},
			PlantCosts:        config.PlantCosts{WindCapexUSDPerKW: 1380, FixedOMFraction: 0.02},
			Electrolyzer: electrolyzer.Config{
				RatingKW:               3000,
				SpecificEnergyKWhPerKG: 55.5,
				TurndownRatio:          0.1,
				CapexUSDPerKW:          1295,
				FixedOMUSDPerKWYr:      29,
			},
			FinanceParameters: finance.Assumptions{OperatingLifeYears: 30, DiscountRate: 0.0824, GeneralInflation: 0.025, TaxRate: 0.2574},
		},
		Turbine: model.TurbineSpec{
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
		},
		Wake: wake.Config{
			Model:             "jensen",
			DecayConstant:     0.05,
			ThrustCoefficient: 0.8,
			LayoutX:           []float64{0, 780},
			LayoutY:           []float64{0, 0},
		},
	}
}

func ratingScenarios(ratings ...float64) []Scenario {
	scs := make([]Scenario, 0, len(ratings))
	for _, r := range ratings {
		r := r
		scs = append(scs, Scenario{
			Label: fmt.Sprintf("rating_%.0fkw", r),
			Apply: func(cfg *config.SimulationConfig) {
				cfg.Tech.Electrolyzer.RatingKW = r
			},
		})
	}
	return scs
}

func TestSweepRunsAllScenarios(t *testing.T) {
	base := baseConfig(t)
	results, err := Sweep(context.Background(), base, ratingScenarios(2000, 3000, 4000), 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.NoError(t, r.Err, r.Label)
		require.NotNil(t, r.Results, r.Label)
	}
	// The base config is untouched.
	assert.Equal(t, 3000.0, base.Tech.Electrolyzer.RatingKW)
}

func TestSweepRecordsScenarioFailure(t *testing.T) {
	base := baseConfig(t)
	scs := append(ratingScenarios(3000), Scenario{
		Label: "broken",
		Apply: func(cfg *config.SimulationConfig) {
			cfg.Plant.Site.WindResourceFile = "/nonexistent/wind.csv"
		},
	})

	results, err := Sweep(context.Background(), base, scs, 1)
	require.NoError(t, err, "scenario failures do not fail the sweep")
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
}

func TestSweepDoesNotMutateBase(t *testing.T) {
	base := baseConfig(t)
	base.Plant.Technologies.Battery = &config.BatteryTech{
		SystemCapacityKWh:   1000,
		SystemCapacityKW:    500,
		ChargeEfficiency:    0.95,
		DischargeEfficiency: 0.95,
		MinSOC:              0.1,
		MaxSOC:              0.9,
	}

	scs := []Scenario{{
		Label: "mutator",
		Apply: func(cfg *config.SimulationConfig) {
			cfg.Plant.Technologies.Battery.SystemCapacityKWh = 9999
			cfg.Wake.LayoutX[0] = 5000
			cfg.Turbine.PowerCurve.PowerKW[0] = 1
		},
	}}
	results, err := Sweep(context.Background(), base, scs, 1)
	require.NoError(t, err)
	require.NoError(t, results[0].Err)

	// Mutations through pointer- and slice-backed fields stay on the clone.
	assert.Equal(t, 1000.0, base.Plant.Technologies.Battery.SystemCapacityKWh)
	assert.Equal(t, 0.0, base.Wake.LayoutX[0])
	assert.Equal(t, 100.0, base.Turbine.PowerCurve.PowerKW[0])
}

func TestSweepCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep(ctx, baseConfig(t), ratingScenarios(3000), 1)
	assert.Error(t, err)
}

func TestRankByMetric(t *testing.T) {
	base := baseConfig(t)
	results, err := Sweep(context.Background(), base, ratingScenarios(1000, 2000, 4000), 2)
	require.NoError(t, err)

	ranked := RankByMetric(results, model.MetricLCOH)
	require.Len(t, ranked, 3)
	for i := 1; i < len(ranked); i++ {
		prev, _ := ranked[i-1].Results.Metric(model.MetricLCOH)
		cur, _ := ranked[i].Results.Metric(model.MetricLCOH)
		assert.LessOrEqual(t, prev.Value, cur.Value)
	}

	label, best, err := BestMetric(results, model.MetricLCOH)
	require.NoError(t, err)
	assert.Equal(t, ranked[0].Label, label)
	got, _ := ranked[0].Results.Metric(model.MetricLCOH)
	assert.Equal(t, got.Value, best.Value)
}

func TestRankDropsFailures(t *testing.T) {
	results := []ScenarioResult{
		{Label: "failed", Err: fmt.Errorf("boom")},
	}
	assert.Empty(t, RankByMetric(results, model.MetricLCOH))

	_, _, err := BestMetric(results, model.MetricLCOH)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no successful results carry metric "lcoh"`)
}

func TestSummarize(t *testing.T) {
	base := baseConfig(t)
	results, err := Sweep(context.Background(), base, ratingScenarios(1000, 2000, 3000, 4000), 2)
	require.NoError(t, err)

	s, err := Summarize(results, model.MetricLCOH)
	require.NoError(t, err)
	assert.Equal(t, model.MetricLCOH, s.Metric)
	assert.Equal(t, "$/kg", s.Unit)
	assert.Equal(t, 4, s.Count)
	assert.LessOrEqual(t, s.Min, s.Median)
	assert.LessOrEqual(t, s.Median, s.Max)
	assert.GreaterOrEqual(t, s.Mean, s.Min)
	assert.LessOrEqual(t, s.Mean, s.Max)

	_, err = Summarize(results, "lcox")
	assert.Error(t, err)
}
