package types

// LineItem is one priced row of a quotation
type LineItem struct {
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// QuotationDocument is a priced quotation for a single service
type QuotationDocument struct {
	Number           string            `json:"number"`
	Service          ServiceCategory   `json:"service"`
	ServiceName      string            `json:"service_name"`
	Tier             Tier              `json:"tier"`
	Client           string            `json:"client,omitempty"`
	Description      string            `json:"description"`
	IssueDate        string            `json:"issue_date,omitempty"`
	Items            []LineItem        `json:"items"`
	Subtotal         float64           `json:"subtotal"`
	TaxRate          float64           `json:"tax_rate"`
	Tax              float64           `json:"tax"`
	Total            float64           `json:"total"`
	Currency         string            `json:"currency"`
	ValidityDays     int               `json:"validity_days"`
	Validity         string            `json:"validity"`
	ExecutionDays    int               `json:"execution_days"`
	Observations     []string          `json:"observations"`
	Standards        string            `json:"standards"`
	Entities         ExtractedEntities `json:"entities"`
	PendingQuestions []string          `json:"pending_questions,omitempty"`
}
