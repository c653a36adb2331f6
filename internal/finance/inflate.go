package finance

import "fmt"

// Consumer Price Index (annual average, BLS CPI-U) and Chemical Engineering
// Plant Cost Index values used to move costs between dollar years. Capital
// equipment inflates on CEPCI, operating costs on CPI.
var cpiIndex = map[int]float64{
	2015: 237.0,
	2016: 240.0,
	2017: 245.1,
	2018: 251.1,
	2019: 255.7,
	2020: 258.8,
	2021: 271.0,
	2022: 292.7,
	2023: 304.7,
	2024: 313.7,
}

var cepciIndex = map[int]float64{
	2015: 556.8,
	2016: 541.7,
	2017: 567.5,
	2018: 603.1,
	2019: 607.5,
	2020: 596.2,
	2021: 708.8,
	2022: 816.0,
	2023: 797.9,
	2024: 800.8,
}

// InflateCPI converts an operating cost from one dollar year to another.
func InflateCPI(cost float64, fromYear, toYear int) (float64, error) {
	return inflate(cpiIndex, "CPI", cost, fromYear, toYear)
}

// InflateCEPCI converts a capital cost from one dollar year to another.
func InflateCEPCI(cost float64, fromYear, toYear int) (float64, error) {
	return inflate(cepciIndex, "CEPCI", cost, fromYear, toYear)
}

func inflate(index map[int]float64, name string, cost float64, fromYear, toYear int) (float64, error) {
	if fromYear == toYear {
		return cost, nil
	}
	from, ok := index[fromYear]
	if !ok {
		return 0, fmt.Errorf("%s index has no entry for year %d", name, fromYear)
	}
	to, ok := index[toYear]
	if !ok {
		return 0, fmt.Errorf("%s index has no entry for year %d", name, toYear)
	}
	return cost * to / from, nil
}
