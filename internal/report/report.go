// Package report writes simulation artifacts to disk: hourly energy-flow
// CSVs, levelized-cost breakdown CSVs, the LCA table, and a summary Excel
// workbook.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"greenheart/internal/finance"
	"greenheart/internal/lca"
	"greenheart/internal/plant"
	"greenheart/internal/sim"

	"github.com/xuri/excelize/v2"
)

// WriteEnergyFlowsCSV writes the hourly plant accounting table.
func WriteEnergyFlowsCSV(path string, flows []plant.FlowRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"wind_kw",
		"pv_kw",
		"generation_kw",
		"battery_action",
		"battery_absorbed_kwh",
		"battery_delivered_kwh",
		"battery_soc",
		"to_electrolyzer_kw",
		"curtailed_kw",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range flows {
		row := []string{
			strconv.Itoa(r.Index),
			fmtFloat(r.WindKW),
			fmtFloat(r.PVKW),
			fmtFloat(r.GenerationKW),
			string(r.BatteryAction),
			fmtFloat(r.BatteryAbsorbedKWh),
			fmtFloat(r.BatteryDeliveredKWh),
			fmtFloat(r.BatterySOC),
			fmtFloat(r.ToElectrolyzerKW),
			fmtFloat(r.CurtailedKW),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteBreakdownCSV writes one levelized-cost breakdown table.
func WriteBreakdownCSV(path string, rows []finance.BreakdownRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"name", "category", "usd_per_unit"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Name, r.Category, fmtFloat(r.USDPerUnit)}); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteLCACSV writes the emission-intensity table.
func WriteLCACSV(path string, rows []lca.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(lca.Header()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return err
		}
	}
	return w.Error()
}

// SaveConfigured honors the run settings: when SaveOutputs is set, every
// artifact is written under OutputDir (default "results"). A no-op otherwise.
func SaveConfigured(res *sim.Results) error {
	if !res.Settings.SaveOutputs {
		return nil
	}
	dir := res.Settings.OutputDir
	if dir == "" {
		dir = "results"
	}
	return SaveAll(res, dir)
}

// SaveAll writes every artifact for a run under outDir:
//
//	outDir/data/energy_flows_design<D>_incentive<I>.csv
//	outDir/data/lcoe/cost_breakdown_design<D>_incentive<I>.csv
//	outDir/data/lcoh/cost_breakdown_design<D>_incentive<I>.csv
//	outDir/data/lca/emissions_design<D>_incentive<I>.csv
//	outDir/summary_design<D>_incentive<I>.xlsx
func SaveAll(res *sim.Results, outDir string) error {
	suffix := fmt.Sprintf("design%d_incentive%d", res.Settings.DesignScenario, res.Settings.IncentiveOption)

	dataDir := filepath.Join(outDir, "data")
	for _, d := range []string{dataDir, filepath.Join(dataDir, "lcoe"), filepath.Join(dataDir, "lcoh"), filepath.Join(dataDir, "lca")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := WriteEnergyFlowsCSV(filepath.Join(dataDir, "energy_flows_"+suffix+".csv"), res.Performance.Flows); err != nil {
		return fmt.Errorf("energy flows: %w", err)
	}
	if err := WriteBreakdownCSV(filepath.Join(dataDir, "lcoe", "cost_breakdown_"+suffix+".csv"), res.LCOEBreakdown); err != nil {
		return fmt.Errorf("lcoe breakdown: %w", err)
	}
	if err := WriteBreakdownCSV(filepath.Join(dataDir, "lcoh", "cost_breakdown_"+suffix+".csv"), res.LCOHBreakdown); err != nil {
		return fmt.Errorf("lcoh breakdown: %w", err)
	}
	if len(res.LCARows) > 0 {
		if err := WriteLCACSV(filepath.Join(dataDir, "lca", "emissions_"+suffix+".csv"), res.LCARows); err != nil {
			return fmt.Errorf("lca table: %w", err)
		}
	}
	if err := WriteWorkbook(filepath.Join(outDir, "summary_"+suffix+".xlsx"), res); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	return nil
}

// WriteWorkbook writes the summary Excel workbook: a metrics sheet, one
// sheet per cost breakdown, and the LCA table when present.
func WriteWorkbook(path string, res *sim.Results) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	f.SetCellValue(summary, "A1", "run_id")
	f.SetCellValue(summary, "B1", res.RunID)
	f.SetCellValue(summary, "A2", "metric")
	f.SetCellValue(summary, "B2", "value")
	f.SetCellValue(summary, "C2", "unit")

	names := make([]string, 0, len(res.Metrics()))
	for name := range res.Metrics() {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		q := res.Metrics()[name]
		row := i + 3
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), q.Value)
		f.SetCellValue(summary, fmt.Sprintf("C%d", row), q.Unit)
	}

	sheets := []struct {
		name string
		rows []finance.BreakdownRow
	}{
		{"LCOE", res.LCOEBreakdown},
		{"LCOH", res.LCOHBreakdown},
		{"LCOA", res.LCOABreakdown},
		{"LCOS", res.LCOSBreakdown},
	}
	for _, s := range sheets {
		if len(s.rows) == 0 {
			continue
		}
		if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		f.SetCellValue(s.name, "A1", "name")
		f.SetCellValue(s.name, "B1", "category")
		f.SetCellValue(s.name, "C1", "usd_per_unit")
		for i, r := range s.rows {
			row := i + 2
			f.SetCellValue(s.name, fmt.Sprintf("A%d", row), r.Name)
			f.SetCellValue(s.name, fmt.Sprintf("B%d", row), r.Category)
			f.SetCellValue(s.name, fmt.Sprintf("C%d", row), r.USDPerUnit)
		}
	}

	if len(res.LCARows) > 0 {
		const name = "LCA"
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		for i, h := range lca.Header() {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				return err
			}
			f.SetCellValue(name, cell, h)
		}
		for i, r := range res.LCARows {
			for j, v := range r.Record() {
				cell, err := excelize.CoordinatesToCellName(j+1, i+2)
				if err != nil {
					return err
				}
				f.SetCellValue(name, cell, v)
			}
		}
	}

	return f.SaveAs(path)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
