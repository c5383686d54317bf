package documents

import (
	"math"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/types"
)

// Financial assumptions shared by every report
const (
	discountRate = 0.10
	horizonYears = 5
	irrMaxRate   = 10.0
	irrMinRate   = -0.99
	irrTolerance = 1e-9
	irrMaxIter   = 200
)

// ComputeKPIs evaluates a uniform annual benefit of investment × benefitRate over the horizon
func ComputeKPIs(investment, benefitRate float64) types.FinancialKPIs {
	kpis := types.FinancialKPIs{
		Investment:   catalog.RoundCents(investment),
		DiscountRate: discountRate,
		HorizonYears: horizonYears,
	}
	if investment <= 0 {
		return kpis
	}

	benefit := investment * benefitRate
	kpis.AnnualBenefit = catalog.RoundCents(benefit)
	kpis.ROIPercent = catalog.RoundCents((benefit*horizonYears - investment) / investment * 100)
	kpis.NPV = catalog.RoundCents(npv(investment, benefit, discountRate))
	if benefit > 0 {
		kpis.PaybackMonths = math.Round(investment/benefit*12*10) / 10
		kpis.ProjectedIRRPercent = catalog.RoundCents(irr(investment, benefit) * 100)
	}
	return kpis
}

func npv(investment, benefit, rate float64) float64 {
	v := -investment
	for year := 1; year <= horizonYears; year++ {
		v += benefit / math.Pow(1+rate, float64(year))
	}
	return v
}

// irr finds the rate at which npv is zero by bisection; npv decreases in the rate
func irr(investment, benefit float64) float64 {
	lo, hi := irrMinRate, irrMaxRate
	if npv(investment, benefit, hi) > 0 {
		return hi
	}
	if npv(investment, benefit, lo) < 0 {
		return lo
	}
	for i := 0; i < irrMaxIter && hi-lo > irrTolerance; i++ {
		mid := (lo + hi) / 2
		if npv(investment, benefit, mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
