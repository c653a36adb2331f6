// Demo runs a self-contained simulation on synthetic resource data: no
// downloads, no config files, no credentials. Useful as a smoke test and as
// a worked example of the configuration surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"greenheart/internal/ammonia"
	"greenheart/internal/config"
	"greenheart/internal/data"
	"greenheart/internal/electrolyzer"
	"greenheart/internal/finance"
	"greenheart/internal/lca"
	"greenheart/internal/model"
	"greenheart/internal/report"
	"greenheart/internal/sim"
	"greenheart/internal/steel"
	"greenheart/internal/wake"
)

func main() {
	tmpDir, err := os.MkdirTemp("", "greenheart-demo-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	// One synthetic week is enough; annual figures are extrapolated.
	const hours = 168
	windPath := filepath.Join(tmpDir, "wind.csv")
	solarPath := filepath.Join(tmpDir, "solar.csv")
	if err := data.SaveWindResourceCSV(data.SyntheticWindResource(hours, 42), windPath); err != nil {
		panic(err)
	}
	if err := data.SaveSolarResourceCSV(data.SyntheticSolarResource(hours, 42), solarPath); err != nil {
		panic(err)
	}

	cfg := demoConfig(windPath, solarPath)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	res, err := sim.Run(cfg)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Run %s on %d synthetic hours\n\n", res.RunID, res.Performance.Hours)
	fmt.Printf("AEP:                %.0f kWh/yr\n", res.Performance.AEPKWh)
	fmt.Printf("Capacity factor:    %.3f\n", res.Performance.CapacityFactor)
	fmt.Printf("Wake loss:          %.3f\n", res.Performance.WakeLossFraction)
	fmt.Printf("Hydrogen:           %.0f kg/yr (CF %.3f)\n\n",
		res.Hydrogen.AnnualProductionKG, res.Hydrogen.CapacityFactor)

	names := make([]string, 0)
	for name := range res.Metrics() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		q, _ := res.Metric(name)
		fmt.Printf("%-6s %s\n", name, q)
	}

	outDir := "results/demo"
	if err := report.SaveAll(res, outDir); err != nil {
		panic(err)
	}
	fmt.Printf("\nWrote artifacts under %s\n", outDir)
}

func demoConfig(windPath, solarPath string) *config.SimulationConfig {
	return &config.SimulationConfig{
		Settings: config.Settings{DesignScenario: 1, IncentiveOption: 1, Verbose: true},
		Plant: config.PlantConfig{
			Site: config.SiteConfig{
				Latitude:          35.2,
				Longitude:         -101.9,
				WindResourceFile:  windPath,
				SolarResourceFile: solarPath,
				ResourceYear:      2013,
			},
			Technologies: config.TechnologiesConfig{
				Wind: config.WindTech{NumTurbines: 4, TurbineRatingKW: 6000, Losses: 0.08},
				PV:   config.PVTech{SystemCapacityKW: 10000, Losses: 0.12},
				Battery: &config.BatteryTech{
					SystemCapacityKWh:   20000,
					SystemCapacityKW:    5000,
					ChargeEfficiency:    0.95,
					DischargeEfficiency: 0.95,
					MinSOC:              0.1,
					MaxSOC:              0.9,
				},
			},
		},
		Tech: config.TechnologyConfig{
			ProjectParameters: config.ProjectParameters{ProjectLifetimeYears: 30, CostYear: 2022},
			PlantCosts: config.PlantCosts{
				WindCapexUSDPerKW:     1380,
				PVCapexUSDPerKW:       1050,
				BatteryCapexUSDPerKWh: 300,
				FixedOMFraction:       0.02,
			},
			Electrolyzer: electrolyzer.Config{
				RatingKW:               20000,
				ClusterRatingKW:        1000,
				SpecificEnergyKWhPerKG: 55.5,
				TurndownRatio:          0.1,
				CapexUSDPerKW:          1295,
				FixedOMUSDPerKWYr:      29,
				WaterUsageKGPerKGH2:    10,
				WaterCostUSDPerKG:      0.0012,
			},
			H2Storage: config.H2StorageConfig{Type: "pipe", CapexUSDPerKG: 560, DaysOfStorage: 2},
			Ammonia: ammonia.Config{
				Enabled:                  true,
				HydrogenKGPerKG:          0.198,
				ElectricityKWhPerKG:      0.53,
				CapexBaseUSD:             1.1e8,
				CapexBaseCapacityKGPerYr: 1.0e8,
				CapexScalingExponent:     0.6,
				FixedOMFraction:          0.03,
				CapacityFactor:           0.9,
			},
			Steel: steel.Config{
				Enabled:           true,
				Technology:        "h2_dri_eaf",
				PlantCapacityMTPY: 1_000_000,
				CostYear:          2022,
			},
			LCA: lca.Config{
				RunLCA:                   true,
				GridCO2KGPerKWh:          0.39,
				EmbodiedWindCO2KGPerKWh:  0.011,
				EmbodiedSolarCO2KGPerKWh: 0.043,
			},
			FinanceParameters: finance.Assumptions{
				OperatingLifeYears: 30,
				DiscountRate:       0.0824,
				GeneralInflation:   0.025,
				TaxRate:            0.2574,
			},
		},
		Turbine: demoTurbine(),
		Wake: wake.Config{
			Model:             "jensen",
			DecayConstant:     0.05,
			ThrustCoefficient: 0.8,
			LayoutX:           []float64{0, 780, 1560, 2340},
			LayoutY:           []float64{0, 0, 0, 0},
		},
	}
}

func demoTurbine() model.TurbineSpec {
	return model.TurbineSpec{
		Name:           "demo-6MW",
		RotorDiameterM: 155,
		HubHeightM:     100,
		RatedPowerKW:   6000,
		CutInMS:        3,
		CutOutMS:       25,
		ShearExponent:  0.14,
		PowerCurve: model.PowerCurve{
			WindSpeedMS: []float64{3, 5, 7, 9, 11, 13, 25},
			PowerKW:     []float64{90, 780, 2210, 4300, 5700, 6000, 6000},
		},
	}
}
