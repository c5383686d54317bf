package types

// ReportType distinguishes the technical and executive report layouts
type ReportType string

// Report types
const (
	ReportTechnical ReportType = "technical"
	ReportExecutive ReportType = "executive"
)

// Section is a titled block of report content
type Section struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Subsections []string `json:"subsections,omitempty"`
}

// FinancialKPIs are the investment indicators attached to complex reports
type FinancialKPIs struct {
	Investment          float64 `json:"investment"`
	AnnualBenefit       float64 `json:"annual_benefit"`
	ROIPercent          float64 `json:"roi_percent"`
	PaybackMonths       float64 `json:"payback_months"`
	ProjectedIRRPercent float64 `json:"projected_irr_percent"`
	NPV                 float64 `json:"npv"`
	DiscountRate        float64 `json:"discount_rate"`
	HorizonYears        int     `json:"horizon_years"`
}

// ReportDocument is a technical or executive report for a service
type ReportDocument struct {
	Code             string            `json:"code"`
	Title            string            `json:"title"`
	Service          ServiceCategory   `json:"service"`
	ServiceName      string            `json:"service_name"`
	Tier             Tier              `json:"tier"`
	ReportType       ReportType        `json:"report_type"`
	Author           string            `json:"author"`
	Client           string            `json:"client,omitempty"`
	Date             string            `json:"date,omitempty"`
	ExecutiveSummary string            `json:"executive_summary"`
	Sections         []Section         `json:"sections"`
	Conclusions      []string          `json:"conclusions"`
	Recommendations  []string          `json:"recommendations"`
	SuggestedCharts  []string          `json:"suggested_charts"`
	KPIs             *FinancialKPIs    `json:"kpis,omitempty"`
	Bibliography     []string          `json:"bibliography,omitempty"`
	CitationStyle    string            `json:"citation_style,omitempty"`
	Standards        string            `json:"standards"`
	Entities         ExtractedEntities `json:"entities"`
}
