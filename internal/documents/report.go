package documents

import (
	"fmt"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/types"
)

const citationStyle = "APA 7th edition"

// Report builds a technical report (simple tier) or an executive report with a financial
// analysis section, KPIs and bibliography (complex tier).
func (b *Builder) Report(category types.ServiceCategory, tier types.Tier, entities types.ExtractedEntities, dc Context) types.ReportDocument {
	svc := b.service(category)
	areaM2 := area(svc, entities)
	cost := b.estimatedCost(category, tier, entities, dc)

	report := types.ReportDocument{
		Code:        documentCode("INF", svc, dc),
		Service:     category,
		ServiceName: svc.Name,
		Tier:        tier,
		Author:      b.cat.Author(),
		Client:      clientName(entities, dc),
		Date:        formatDate(dc.IssueDate),
		Standards:   svc.Standards,
		Entities:    entities,
	}

	if !tier.IsComplex() {
		report.Title = "Technical Report: " + svc.Name
		report.ReportType = types.ReportTechnical
		report.ExecutiveSummary = fmt.Sprintf("Technical assessment of %s for %.0f m², estimated at %s %.2f including tax.",
			svc.Name, areaM2, b.cat.Currency(), cost)
		report.Sections = technicalSections(svc, areaM2, floors(entities), cost, b.cat.Currency())
		report.Conclusions = baseConclusions(svc)
		report.Recommendations = baseRecommendations()
		report.SuggestedCharts = baseCharts()
		return report
	}

	kpis := ComputeKPIs(cost, svc.BenefitRate)
	report.Title = "Executive Report: " + svc.Name
	report.ReportType = types.ReportExecutive
	report.ExecutiveSummary = fmt.Sprintf("%s for %.0f m² requires an investment of %s %.2f with a projected ROI of %.2f%% over %d years.",
		svc.Name, areaM2, b.cat.Currency(), kpis.Investment, kpis.ROIPercent, kpis.HorizonYears)
	report.Sections = append(executiveSections(svc, areaM2), financialSection(kpis, b.cat.Currency()))
	report.Conclusions = append(baseConclusions(svc),
		recoveryConclusion(kpis),
		"Risks are manageable with the proposed mitigation plan",
		"The implementation plan fits the owner's operating schedule",
	)
	report.Recommendations = append(baseRecommendations(),
		"Approve the budget and the phased implementation plan",
		"Appoint an owner-side project coordinator",
		"Track the KPIs quarterly against this baseline",
	)
	report.SuggestedCharts = append(baseCharts(),
		"Cumulative cash flow",
		"Risk heat map",
		"Implementation Gantt chart",
	)
	report.KPIs = &kpis
	report.Bibliography = b.cat.Bibliography(category)
	report.CitationStyle = citationStyle
	return report
}

func technicalSections(svc catalog.Service, areaM2 float64, floorCount int, cost float64, currency string) []types.Section {
	return []types.Section{
		{
			Title:       "1. Introduction",
			Content:     "This report describes the proposed " + svc.Name + " and its technical basis.",
			Subsections: []string{"1.1 Background", "1.2 Objectives", "1.3 Scope"},
		},
		{
			Title:       "2. Regulatory Framework",
			Content:     "The design follows " + svc.Standards + ".",
			Subsections: []string{"2.1 Applicable standards", "2.2 Local regulations"},
		},
		{
			Title: "3. Technical Description",
			Content: fmt.Sprintf("The installation covers %.0f m² on %d %s.",
				areaM2, floorCount, plural(floorCount, "floor", "floors")),
			Subsections: []string{"3.1 System description", "3.2 Design criteria", "3.3 Main equipment"},
		},
		{
			Title:       "4. Methodology",
			Content:     "Works proceed in engineering, execution and commissioning stages with documented inspections.",
			Subsections: []string{"4.1 Execution procedure", "4.2 Quality control"},
		},
		{
			Title:       "5. Results",
			Content:     fmt.Sprintf("The estimated cost is %s %.2f including tax.", currency, cost),
			Subsections: []string{"5.1 Expected performance", "5.2 Estimated cost"},
		},
	}
}

func executiveSections(svc catalog.Service, areaM2 float64) []types.Section {
	return []types.Section{
		{
			Title:       "1. Executive Summary",
			Content:     "Decision summary for the " + svc.Name + " investment.",
			Subsections: []string{"1.1 Key findings", "1.2 Recommendation"},
		},
		{
			Title:       "2. Situation Analysis",
			Content:     fmt.Sprintf("Current state of the %.0f m² facility and gaps against %s.", areaM2, svc.Standards),
			Subsections: []string{"2.1 Current state", "2.2 Compliance gaps", "2.3 Opportunities"},
		},
		{
			Title:       "3. Metrics and KPIs",
			Content:     "Operational indicators used to track the project after handover.",
			Subsections: []string{"3.1 Availability", "3.2 Energy efficiency", "3.3 Maintenance cost"},
		},
		{
			Title:       "4. Risk Assessment",
			Content:     "Probability and impact of the main project risks with their mitigation.",
			Subsections: []string{"4.1 Risk matrix", "4.2 Mitigation plan"},
		},
		{
			Title:       "5. Implementation Plan",
			Content:     "Phased roadmap from engineering to handover.",
			Subsections: []string{"5.1 Phases", "5.2 Milestones", "5.3 Governance"},
		},
	}
}

func financialSection(kpis types.FinancialKPIs, currency string) types.Section {
	return types.Section{
		Title: "6. Financial Analysis",
		Content: fmt.Sprintf("Investment %s %.2f; annual benefit %s %.2f; ROI %.2f%%; payback %.1f months; IRR %.2f%%; NPV at %.0f%% %s %.2f.",
			currency, kpis.Investment, currency, kpis.AnnualBenefit, kpis.ROIPercent, kpis.PaybackMonths,
			kpis.ProjectedIRRPercent, kpis.DiscountRate*100, currency, kpis.NPV),
		Subsections: []string{"6.1 Investment", "6.2 Cash flow", "6.3 Return indicators", "6.4 Sensitivity"},
	}
}

func baseConclusions(svc catalog.Service) []string {
	return []string{
		"The proposed " + svc.Name + " is technically feasible",
		"The design complies with " + svc.Standards,
		"The estimated budget covers materials, labor and testing",
	}
}

// recoveryConclusion states whether the KPIs show the investment paying back with a
// non-negative NPV within the horizon
func recoveryConclusion(kpis types.FinancialKPIs) string {
	horizonMonths := float64(kpis.HorizonYears * 12)
	if kpis.PaybackMonths > 0 && kpis.PaybackMonths <= horizonMonths && kpis.NPV >= 0 {
		return fmt.Sprintf("The investment is recovered in %.1f months, within the %d-year evaluation horizon",
			kpis.PaybackMonths, kpis.HorizonYears)
	}
	if kpis.PaybackMonths > 0 {
		return fmt.Sprintf("The investment is not recovered within the %d-year evaluation horizon (payback %.1f months, NPV %.2f); justify it on safety and compliance grounds",
			kpis.HorizonYears, kpis.PaybackMonths, kpis.NPV)
	}
	return fmt.Sprintf("The investment produces no quantified financial return within the %d-year evaluation horizon", kpis.HorizonYears)
}

func baseRecommendations() []string {
	return []string{
		"Confirm the pending site data before procurement",
		"Schedule preventive maintenance every six months",
		"Keep the as-built documentation up to date",
	}
}

func baseCharts() []string {
	return []string{
		"Cost breakdown by line item",
		"Execution timeline by phase",
		"Equipment distribution",
	}
}
