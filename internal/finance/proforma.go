// Package finance implements a pro-forma cash-flow model that solves the
// breakeven (levelized) price of a commodity given capital items, fixed
// operating costs, feedstocks, and coproduct credits. It is the engine
// behind LCOE, LCOH, LCOA, and the steel finance model.
package finance

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Commodity names the product whose breakeven price is being solved.
type Commodity struct {
	Name       string
	Unit       string
	Escalation float64
}

// CapitalItem is an upfront capital expenditure depreciated straight-line.
type CapitalItem struct {
	Name            string
	CostUSD         float64
	DeprPeriodYears int
}

// FixedCost is an annual operating cost escalated yearly.
type FixedCost struct {
	Name       string
	AnnualUSD  float64
	Escalation float64
}

// Feedstock is consumed in proportion to production: Usage units of the
// feedstock per unit of commodity, at UnitCostUSD per feedstock unit.
type Feedstock struct {
	Name        string
	Usage       float64
	Unit        string
	UnitCostUSD float64
	Escalation  float64
}

// Coproduct is sold in proportion to production and credits the cash flow.
type Coproduct struct {
	Name         string
	Usage        float64
	Unit         string
	UnitPriceUSD float64
	Escalation   float64
}

// ProForma accumulates the plant's financial structure. Build one with New,
// add items, then call SolvePrice.
type ProForma struct {
	Commodity Commodity

	// CapacityPerDay is nameplate output in commodity units per day.
	CapacityPerDay float64
	// LongTermUtilization is the capacity factor applied to nameplate.
	LongTermUtilization float64
	OperatingLifeYears  int

	InstallationCostUSD float64
	LandCostUSD         float64

	GeneralInflation float64
	DiscountRate     float64
	TaxRate          float64

	capital    []CapitalItem
	fixed      []FixedCost
	feedstocks []Feedstock
	coproducts []Coproduct
}

func New(c Commodity) *ProForma {
	return &ProForma{
		Commodity:           c,
		LongTermUtilization: 1.0,
	}
}

func (pf *ProForma) AddCapitalItem(item CapitalItem) { pf.capital = append(pf.capital, item) }
func (pf *ProForma) AddFixedCost(c FixedCost)        { pf.fixed = append(pf.fixed, c) }
func (pf *ProForma) AddFeedstock(f Feedstock)        { pf.feedstocks = append(pf.feedstocks, f) }
func (pf *ProForma) AddCoproduct(c Coproduct)        { pf.coproducts = append(pf.coproducts, c) }

func (pf *ProForma) Validate() error {
	if pf.CapacityPerDay <= 0 {
		return errors.New("capacity per day must be > 0")
	}
	if pf.LongTermUtilization <= 0 || pf.LongTermUtilization > 1 {
		return errors.New("long term utilization must be in (0, 1]")
	}
	if pf.OperatingLifeYears <= 0 {
		return errors.New("operating life must be > 0")
	}
	if pf.DiscountRate < 0 || pf.TaxRate < 0 || pf.TaxRate >= 1 {
		return errors.New("discount rate must be >= 0 and tax rate in [0, 1)")
	}
	for _, ci := range pf.capital {
		if ci.CostUSD < 0 {
			return fmt.Errorf("capital item %q has negative cost", ci.Name)
		}
		if ci.DeprPeriodYears <= 0 {
			return fmt.Errorf("capital item %q needs a depreciation period", ci.Name)
		}
	}
	return nil
}

// AnnualProduction is commodity units produced per operating year.
func (pf *ProForma) AnnualProduction() float64 {
	return pf.CapacityPerDay * 365 * pf.LongTermUtilization
}

// TotalCapexUSD sums the capital items (installation and land excluded).
func (pf *ProForma) TotalCapexUSD() float64 {
	total := 0.0
	for _, ci := range pf.capital {
		total += ci.CostUSD
	}
	return total
}

// NPV evaluates the project net present value at a given first-year
// commodity price.
func (pf *ProForma) NPV(price float64) float64 {
	prod := pf.AnnualProduction()
	npv := -(pf.TotalCapexUSD() + pf.InstallationCostUSD + pf.LandCostUSD)

	for y := 1; y <= pf.OperatingLifeYears; y++ {
		revenue := price * esc(pf.Commodity.Escalation, y) * prod
		for _, cp := range pf.coproducts {
			revenue += cp.Usage * prod * cp.UnitPriceUSD * esc(cp.Escalation, y)
		}

		costs := 0.0
		for _, fc := range pf.fixed {
			costs += fc.AnnualUSD * esc(fc.Escalation, y)
		}
		for _, fs := range pf.feedstocks {
			costs += fs.Usage * prod * fs.UnitCostUSD * esc(fs.Escalation, y)
		}

		depr := 0.0
		for _, ci := range pf.capital {
			if y <= ci.DeprPeriodYears {
				depr += ci.CostUSD / float64(ci.DeprPeriodYears)
			}
		}

		// Losses are monetized: negative taxable income yields a credit.
		tax := pf.TaxRate * (revenue - costs - depr)
		cash := revenue - costs - tax
		npv += cash / disc(pf.DiscountRate, y)
	}

	// Land is a non-depreciable asset sold at end of project.
	npv += pf.LandCostUSD * esc(pf.GeneralInflation, pf.OperatingLifeYears) /
		disc(pf.DiscountRate, pf.OperatingLifeYears)
	return npv
}

// Solution is the result of a breakeven price solve.
type Solution struct {
	// PriceUSD is the first-year commodity price with NPV = 0: the
	// levelized cost per commodity unit.
	PriceUSD         float64
	Unit             string
	NPVAtPrice       float64
	AnnualProduction float64
	TotalCapexUSD    float64
}

// SolvePrice finds the breakeven first-year commodity price by bisection.
// NPV is strictly increasing in price, so the root is unique.
func (pf *ProForma) SolvePrice() (Solution, error) {
	if err := pf.Validate(); err != nil {
		return Solution{}, err
	}

	lo, hi := 0.0, 1.0
	if pf.NPV(lo) >= 0 {
		// Coproduct credits alone cover all costs.
		return Solution{
			PriceUSD:         0,
			Unit:             "$/" + pf.Commodity.Unit,
			NPVAtPrice:       pf.NPV(0),
			AnnualProduction: pf.AnnualProduction(),
			TotalCapexUSD:    pf.TotalCapexUSD(),
		}, nil
	}
	for pf.NPV(hi) < 0 {
		hi *= 2
		if hi > 1e12 {
			return Solution{}, errors.New("breakeven price solve did not bracket a root")
		}
	}
	for i := 0; i < 200 && hi-lo > 1e-10*math.Max(1, hi); i++ {
		mid := (lo + hi) / 2
		if pf.NPV(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	price := (lo + hi) / 2
	return Solution{
		PriceUSD:         price,
		Unit:             "$/" + pf.Commodity.Unit,
		NPVAtPrice:       pf.NPV(price),
		AnnualProduction: pf.AnnualProduction(),
		TotalCapexUSD:    pf.TotalCapexUSD(),
	}, nil
}

// BreakdownRow is one line of the levelized cost breakdown.
type BreakdownRow struct {
	Name     string
	Category string // "capital", "installation", "fixed opex", "feedstock", "coproduct"
	// USDPerUnit is the item's contribution to the levelized price
	// (negative for coproduct credits).
	USDPerUnit float64
}

// CostBreakdown attributes the levelized price to its components: present
// value of each cost stream divided by present value of production. Rows are
// sorted by descending contribution.
func (pf *ProForma) CostBreakdown() ([]BreakdownRow, error) {
	if err := pf.Validate(); err != nil {
		return nil, err
	}
	prod := pf.AnnualProduction()
	pvProd := 0.0
	for y := 1; y <= pf.OperatingLifeYears; y++ {
		pvProd += prod / disc(pf.DiscountRate, y)
	}
	if pvProd <= 0 {
		return nil, errors.New("present value of production is zero")
	}

	rows := make([]BreakdownRow, 0, len(pf.capital)+len(pf.fixed)+len(pf.feedstocks)+len(pf.coproducts)+1)
	for _, ci := range pf.capital {
		rows = append(rows, BreakdownRow{ci.Name, "capital", ci.CostUSD / pvProd})
	}
	if pf.InstallationCostUSD > 0 {
		rows = append(rows, BreakdownRow{"Installation", "installation", pf.InstallationCostUSD / pvProd})
	}
	for _, fc := range pf.fixed {
		pv := 0.0
		for y := 1; y <= pf.OperatingLifeYears; y++ {
			pv += fc.AnnualUSD * esc(fc.Escalation, y) / disc(pf.DiscountRate, y)
		}
		rows = append(rows, BreakdownRow{fc.Name, "fixed opex", pv / pvProd})
	}
	for _, fs := range pf.feedstocks {
		pv := 0.0
		for y := 1; y <= pf.OperatingLifeYears; y++ {
			pv += fs.Usage * prod * fs.UnitCostUSD * esc(fs.Escalation, y) / disc(pf.DiscountRate, y)
		}
		rows = append(rows, BreakdownRow{fs.Name, "feedstock", pv / pvProd})
	}
	for _, cp := range pf.coproducts {
		pv := 0.0
		for y := 1; y <= pf.OperatingLifeYears; y++ {
			pv += cp.Usage * prod * cp.UnitPriceUSD * esc(cp.Escalation, y) / disc(pf.DiscountRate, y)
		}
		rows = append(rows, BreakdownRow{cp.Name, "coproduct", -pv / pvProd})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].USDPerUnit > rows[j].USDPerUnit })
	return rows, nil
}

func esc(rate float64, year int) float64 {
	return math.Pow(1+rate, float64(year))
}

func disc(rate float64, year int) float64 {
	return math.Pow(1+rate, float64(year))
}
