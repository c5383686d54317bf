package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeKPIs(t *testing.T) {
	kpis := ComputeKPIs(10000, 0.30)

	assert.Equal(t, 10000.0, kpis.Investment)
	assert.Equal(t, 3000.0, kpis.AnnualBenefit)
	assert.Equal(t, 50.0, kpis.ROIPercent)
	assert.Equal(t, 40.0, kpis.PaybackMonths)
	assert.InDelta(t, 15.24, kpis.ProjectedIRRPercent, 0.01)
	assert.InDelta(t, 1372.36, kpis.NPV, 0.01)
	assert.Equal(t, 5, kpis.HorizonYears)
}

func TestComputeKPIs_IRRZeroesNPV(t *testing.T) {
	kpis := ComputeKPIs(5000, 0.22)
	rate := kpis.ProjectedIRRPercent / 100
	assert.InDelta(t, 0, npv(5000, 1100, rate), 1.0)
}

func TestComputeKPIs_NoInvestment(t *testing.T) {
	kpis := ComputeKPIs(0, 0.3)
	assert.Equal(t, 0.0, kpis.ROIPercent)
	assert.Equal(t, 0.0, kpis.PaybackMonths)
}

func TestComputeKPIs_NoBenefit(t *testing.T) {
	kpis := ComputeKPIs(1000, 0)
	assert.Equal(t, -100.0, kpis.ROIPercent)
	assert.Equal(t, 0.0, kpis.PaybackMonths)
	assert.Equal(t, 0.0, kpis.ProjectedIRRPercent)
}
