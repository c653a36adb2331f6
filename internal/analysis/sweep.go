// Package analysis runs families of simulations: parameter sweeps over the
// design space, summary statistics across the results, and ranking by
// levelized cost.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"greenheart/internal/config"
	"greenheart/internal/model"
	"greenheart/internal/sim"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// Scenario is one point in a sweep: a label plus a mutation applied to the
// base configuration before running.
type Scenario struct {
	Label string
	// Apply mutates a private deep copy of the base config. It must not
	// retain the pointer.
	Apply func(cfg *config.SimulationConfig)
}

// ScenarioResult pairs a scenario with its simulation outcome.
type ScenarioResult struct {
	Label   string
	Results *sim.Results
	Err     error
}

// Sweep runs every scenario against the base configuration, maxParallel at a
// time. A scenario failure is recorded in its result; the sweep itself only
// fails on context cancellation.
func Sweep(ctx context.Context, base *config.SimulationConfig, scenarios []Scenario, maxParallel int) ([]ScenarioResult, error) {
	if maxParallel <= 0 {
		maxParallel = 4
	}
	results := make([]ScenarioResult, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	var mu sync.Mutex

	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := base.Clone()
			if sc.Apply != nil {
				sc.Apply(cfg)
			}
			res, err := sim.Run(cfg)
			mu.Lock()
			results[i] = ScenarioResult{Label: sc.Label, Results: res, Err: err}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RankByMetric sorts successful scenario results ascending by the named
// metric (cheapest first). Failed scenarios are dropped.
func RankByMetric(results []ScenarioResult, metric string) []ScenarioResult {
	ranked := make([]ScenarioResult, 0, len(results))
	for _, r := range results {
		if r.Err != nil || r.Results == nil {
			continue
		}
		if _, err := r.Results.Metric(metric); err != nil {
			continue
		}
		ranked = append(ranked, r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, _ := ranked[i].Results.Metric(metric)
		b, _ := ranked[j].Results.Metric(metric)
		return a.Value < b.Value
	})
	return ranked
}

// MetricSummary is the distribution of one metric across a sweep.
type MetricSummary struct {
	Metric string
	Unit   string
	Count  int

	Min    float64
	Max    float64
	Mean   float64
	Median float64
	P05    float64
	P95    float64
}

// Summarize computes distribution statistics of a metric across the sweep.
func Summarize(results []ScenarioResult, metric string) (MetricSummary, error) {
	vals := make([]float64, 0, len(results))
	unit := ""
	for _, r := range results {
		if r.Err != nil || r.Results == nil {
			continue
		}
		q, err := r.Results.Metric(metric)
		if err != nil {
			continue
		}
		vals = append(vals, q.Value)
		unit = q.Unit
	}
	if len(vals) == 0 {
		return MetricSummary{}, fmt.Errorf("no successful results carry metric %q", metric)
	}

	s := MetricSummary{Metric: metric, Unit: unit, Count: len(vals)}
	var err error
	if s.Min, err = stats.Min(vals); err != nil {
		return MetricSummary{}, err
	}
	if s.Max, err = stats.Max(vals); err != nil {
		return MetricSummary{}, err
	}
	if s.Mean, err = stats.Mean(vals); err != nil {
		return MetricSummary{}, err
	}
	if s.Median, err = stats.Median(vals); err != nil {
		return MetricSummary{}, err
	}
	if s.P05, err = stats.Percentile(vals, 5); err != nil {
		return MetricSummary{}, err
	}
	if s.P95, err = stats.Percentile(vals, 95); err != nil {
		return MetricSummary{}, err
	}
	return s, nil
}

// BestMetric returns the cheapest value of a metric across the sweep.
func BestMetric(results []ScenarioResult, metric string) (string, model.Quantity, error) {
	ranked := RankByMetric(results, metric)
	if len(ranked) == 0 {
		return "", model.Quantity{}, fmt.Errorf("no successful results carry metric %q", metric)
	}
	q, _ := ranked[0].Results.Metric(metric)
	return ranked[0].Label, q, nil
}
