package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"greenheart/internal/analysis"
	"greenheart/internal/config"
	"greenheart/internal/data"
	"greenheart/internal/model"
	"greenheart/internal/report"
	"greenheart/internal/sim"
	"greenheart/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	// Best-effort: credentials for resource downloads and the run store may
	// live in a local .env.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "download":
		cmdDownload(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --plant examples/plant.yaml --tech examples/technologies.yaml --turbine examples/turbine.yaml --wake examples/wake.yaml [--out results] [--save-run]")
	fmt.Println("  cli sweep --plant ... --tech ... --turbine ... --wake ... --electrolyzer-ratings 400000,600000,800000 [--metric lcoh]")
	fmt.Println("  cli download --lat 35.2 --lon -101.9 --year 2013 --kind wind --out wind.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run writes energy flows, cost breakdowns, and a summary workbook under --out")
	fmt.Println("  - download requires NREL_API_KEY and NREL_API_EMAIL")
}

func configFlags(fs *flag.FlagSet) (plant, tech, turbine, wake *string) {
	plant = fs.String("plant", "", "Path to plant/site YAML")
	tech = fs.String("tech", "", "Path to technology YAML")
	turbine = fs.String("turbine", "", "Path to turbine YAML")
	wake = fs.String("wake", "", "Path to wake model YAML")
	return
}

func loadConfig(plant, tech, turbine, wake string, design, incentive int, verbose bool) *config.SimulationConfig {
	if plant == "" || tech == "" || turbine == "" || wake == "" {
		fmt.Println("--plant, --tech, --turbine, and --wake are required")
		os.Exit(2)
	}
	cfg, err := config.Load(config.Settings{
		PlantConfigPath:      plant,
		TechnologyConfigPath: tech,
		TurbineConfigPath:    turbine,
		WakeConfigPath:       wake,
		DesignScenario:       design,
		IncentiveOption:      incentive,
		Verbose:              verbose,
	})
	if err != nil {
		fmt.Printf("config error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	plant, tech, turbine, wake := configFlags(fs)
	outDir := fs.String("out", "results", "Output directory")
	design := fs.Int("design", 1, "Design scenario number (used in output names)")
	incentive := fs.Int("incentive", 1, "Incentive option number (used in output names)")
	verbose := fs.Bool("v", false, "Verbose progress logging")
	saveRun := fs.Bool("save-run", false, "Persist the result to the run store (DATABASE_URL)")
	_ = fs.Parse(args)

	cfg := loadConfig(*plant, *tech, *turbine, *wake, *design, *incentive, *verbose)
	cfg.Settings.SaveOutputs = true
	cfg.Settings.OutputDir = *outDir

	res, err := sim.Run(cfg)
	if err != nil {
		fmt.Printf("simulation error: %v\n", err)
		os.Exit(1)
	}

	if err := report.SaveConfigured(res); err != nil {
		fmt.Printf("report error: %v\n", err)
		os.Exit(1)
	}

	if *saveRun {
		dsn := os.Getenv("DATABASE_URL")
		st, err := store.Open(context.Background(), dsn)
		if err != nil {
			fmt.Printf("run store error: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		if err := st.Migrate(context.Background()); err != nil {
			fmt.Printf("run store error: %v\n", err)
			os.Exit(1)
		}
		if err := st.InsertRun(context.Background(), res); err != nil {
			fmt.Printf("run store error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Run %s complete. Outputs under %s\n", res.RunID, *outDir)
	printMetrics(res)
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	plant, tech, turbine, wake := configFlags(fs)
	ratings := fs.String("electrolyzer-ratings", "", "Comma-separated electrolyzer ratings (kW) to sweep")
	metric := fs.String("metric", model.MetricLCOH, "Metric to rank by (lcoe, lcoh, lcoa, lcos)")
	parallel := fs.Int("parallel", 4, "Max concurrent simulations")
	_ = fs.Parse(args)

	cfg := loadConfig(*plant, *tech, *turbine, *wake, 0, 0, false)

	values := splitFloats(*ratings)
	if len(values) == 0 {
		fmt.Println("--electrolyzer-ratings is required")
		os.Exit(2)
	}
	scenarios := make([]analysis.Scenario, len(values))
	for i, v := range values {
		v := v
		scenarios[i] = analysis.Scenario{
			Label: fmt.Sprintf("electrolyzer_%0.fkW", v),
			Apply: func(c *config.SimulationConfig) {
				c.Tech.Electrolyzer.RatingKW = v
			},
		}
	}

	results, err := analysis.Sweep(context.Background(), cfg, scenarios, *parallel)
	if err != nil {
		fmt.Printf("sweep error: %v\n", err)
		os.Exit(1)
	}

	ranked := analysis.RankByMetric(results, *metric)
	fmt.Printf("%-4s %-28s %-14s\n", "rank", "scenario", *metric)
	for i, r := range ranked {
		q, _ := r.Results.Metric(*metric)
		fmt.Printf("%-4d %-28s %.4f %s\n", i+1, r.Label, q.Value, q.Unit)
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("FAIL %-28s %v\n", r.Label, r.Err)
		}
	}
	if summary, err := analysis.Summarize(results, *metric); err == nil {
		fmt.Printf("\n%s across %d scenarios: min=%.4f median=%.4f max=%.4f %s\n",
			summary.Metric, summary.Count, summary.Min, summary.Median, summary.Max, summary.Unit)
	}
}

func cmdDownload(args []string) {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "Site latitude")
	lon := fs.Float64("lon", 0, "Site longitude")
	year := fs.Int("year", 0, "Resource year")
	kind := fs.String("kind", "wind", "Resource kind: wind or solar")
	hubHeight := fs.Float64("hub-height", 100, "Hub height (m), wind only")
	outPath := fs.String("out", "", "Output CSV path")
	_ = fs.Parse(args)

	if *outPath == "" {
		fmt.Println("--out is required")
		os.Exit(2)
	}

	client := data.NewResourceClientFromEnv("")
	q := data.ResourceQuery{Latitude: *lat, Longitude: *lon, Year: *year, HubHeightM: *hubHeight}

	switch *kind {
	case "wind":
		res, err := client.DownloadWindResource(q)
		if err != nil {
			fmt.Printf("download error: %v\n", err)
			os.Exit(1)
		}
		if err := data.SaveWindResourceCSV(res, *outPath); err != nil {
			fmt.Printf("write error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d wind intervals to %s\n", res.Hours(), *outPath)
	case "solar":
		res, err := client.DownloadSolarResource(q)
		if err != nil {
			fmt.Printf("download error: %v\n", err)
			os.Exit(1)
		}
		if err := data.SaveSolarResourceCSV(res, *outPath); err != nil {
			fmt.Printf("write error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d solar intervals to %s\n", len(res.GHIWm2), *outPath)
	default:
		fmt.Printf("unsupported resource kind: %q\n", *kind)
		os.Exit(2)
	}
}

func printMetrics(res *sim.Results) {
	names := make([]string, 0)
	for name := range res.Metrics() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		q := res.Metrics()[name]
		fmt.Printf("  %s = %s\n", strings.ToUpper(name), q)
	}
}

func splitFloats(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			fmt.Printf("invalid value %q\n", p)
			os.Exit(2)
		}
		out = append(out, v)
	}
	return out
}
