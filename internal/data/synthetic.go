package data

import (
	"math"
	"math/rand"

	"greenheart/internal/model"
)

// Synthetic profiles let the demo and tests run without downloaded data.
// Profiles are deterministic for a given seed.

// SyntheticWindResource generates an hourly wind profile with a diurnal
// cycle, slow weather-scale swings, and seeded noise.
func SyntheticWindResource(hours int, seed int64) *model.WindResource {
	rng := rand.New(rand.NewSource(seed))
	res := &model.WindResource{
		SpeedMS:            make([]float64, hours),
		DirectionDeg:       make([]float64, hours),
		MeasurementHeightM: 100,
	}
	for h := 0; h < hours; h++ {
		diurnal := 1.5 * math.Sin(2*math.Pi*float64(h%24)/24)
		weather := 2.5 * math.Sin(2*math.Pi*float64(h)/(24*5.3))
		speed := 8.0 + diurnal + weather + rng.NormFloat64()*1.2
		if speed < 0 {
			speed = 0
		}
		res.SpeedMS[h] = speed
		// Prevailing westerlies with some spread.
		dir := 270 + rng.NormFloat64()*25
		res.DirectionDeg[h] = math.Mod(dir+360, 360)
	}
	return res
}

// SyntheticSolarResource generates an hourly GHI profile: zero at night, a
// half-sine through daylight hours, attenuated by seeded cloud cover.
func SyntheticSolarResource(hours int, seed int64) *model.SolarResource {
	rng := rand.New(rand.NewSource(seed))
	res := &model.SolarResource{GHIWm2: make([]float64, hours)}
	for h := 0; h < hours; h++ {
		hour := float64(h % 24)
		if hour < 6 || hour > 18 {
			continue
		}
		clearSky := 950 * math.Sin(math.Pi*(hour-6)/12)
		cloud := 0.7 + 0.3*rng.Float64()
		res.GHIWm2[h] = clearSky * cloud
	}
	return res
}
