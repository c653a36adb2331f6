package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"greenheart/internal/model"
)

// Wind resource CSV layout: a metadata record
// ("measurement_height_m,<value>"), a header record
// ("wind_speed_ms,wind_direction_deg"), then one record per hour.

// LoadWindResourceCSV reads an hourly wind profile from disk.
func LoadWindResourceCSV(path string) (*model.WindResource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wind resource: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read wind resource %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("wind resource %s is empty", path)
	}

	res := &model.WindResource{}
	i := 0
	if records[0][0] == "measurement_height_m" {
		if len(records[0]) < 2 {
			return nil, fmt.Errorf("wind resource %s: malformed measurement height record", path)
		}
		h, err := strconv.ParseFloat(records[0][1], 64)
		if err != nil {
			return nil, fmt.Errorf("wind resource %s: measurement height: %w", path, err)
		}
		res.MeasurementHeightM = h
		i++
	}
	if i >= len(records) || records[i][0] != "wind_speed_ms" {
		return nil, fmt.Errorf("wind resource %s: missing header record", path)
	}
	i++

	for ; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 2 {
			return nil, fmt.Errorf("wind resource %s: row %d has %d fields, want 2", path, i+1, len(rec))
		}
		speed, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("wind resource %s row %d: speed: %w", path, i+1, err)
		}
		dir, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("wind resource %s row %d: direction: %w", path, i+1, err)
		}
		res.SpeedMS = append(res.SpeedMS, speed)
		res.DirectionDeg = append(res.DirectionDeg, dir)
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("wind resource %s: %w", path, err)
	}
	return res, nil
}

// SaveWindResourceCSV writes a wind profile in the layout LoadWindResourceCSV
// reads.
func SaveWindResourceCSV(res *model.WindResource, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wind resource: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if res.MeasurementHeightM > 0 {
		if err := w.Write([]string{"measurement_height_m", strconv.FormatFloat(res.MeasurementHeightM, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	if err := w.Write([]string{"wind_speed_ms", "wind_direction_deg"}); err != nil {
		return err
	}
	for i := range res.SpeedMS {
		rec := []string{
			strconv.FormatFloat(res.SpeedMS[i], 'f', -1, 64),
			strconv.FormatFloat(res.DirectionDeg[i], 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadSolarResourceCSV reads an hourly GHI profile: a "ghi_w_m2" header
// record, then one value per hour.
func LoadSolarResourceCSV(path string) (*model.SolarResource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open solar resource: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read solar resource %s: %w", path, err)
	}
	if len(records) == 0 || records[0][0] != "ghi_w_m2" {
		return nil, fmt.Errorf("solar resource %s: missing header record", path)
	}

	res := &model.SolarResource{}
	for i, rec := range records[1:] {
		ghi, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("solar resource %s row %d: %w", path, i+2, err)
		}
		res.GHIWm2 = append(res.GHIWm2, ghi)
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("solar resource %s: %w", path, err)
	}
	return res, nil
}

// SaveSolarResourceCSV writes a GHI profile in the layout LoadSolarResourceCSV
// reads.
func SaveSolarResourceCSV(res *model.SolarResource, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create solar resource: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ghi_w_m2"}); err != nil {
		return err
	}
	for _, ghi := range res.GHIWm2 {
		if err := w.Write([]string{strconv.FormatFloat(ghi, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
