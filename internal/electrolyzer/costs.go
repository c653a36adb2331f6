package electrolyzer

import "errors"

// CostResults is the sized capital and operating cost of the plant.
type CostResults struct {
	CapexUSD        float64
	FixedOMUSDPerYr float64
}

// CustomCapexFOM sizes electrolyzer CAPEX and fixed O&M from flat $/kW
// rates. Both scale linearly with the plant electrical rating.
func CustomCapexFOM(sizeKW, capexUSDPerKW, fomUSDPerKWYr float64) (CostResults, error) {
	if sizeKW <= 0 {
		return CostResults{}, errors.New("electrolyzer size must be > 0")
	}
	if capexUSDPerKW < 0 || fomUSDPerKWYr < 0 {
		return CostResults{}, errors.New("electrolyzer cost rates must be >= 0")
	}
	return CostResults{
		CapexUSD:        capexUSDPerKW * sizeKW,
		FixedOMUSDPerYr: fomUSDPerKWYr * sizeKW,
	}, nil
}

// Costs sizes the plant from its own config.
func (c *Config) Costs() (CostResults, error) {
	return CustomCapexFOM(c.RatingKW, c.CapexUSDPerKW, c.FixedOMUSDPerKWYr)
}
