// Package documents builds quotations, project plans and reports from a classified service,
// a tier and the extracted entities. All builders are total and deterministic.
package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/types"
)

const dateLayout = "2006-01-02"

// Context carries caller-supplied details that are not derived from the text
type Context struct {
	// Number is a pre-assigned quotation number; empty means a draft placeholder
	Number string
	// Client overrides the client name extracted from the text
	Client string
	// Description is the source text or a summary of it
	Description string
	// IssueDate stamps the document; zero omits dates
	IssueDate time.Time
	// StartDate anchors the project schedule; zero falls back to IssueDate
	StartDate time.Time
	// EstimatedCost overrides the companion quotation total used by reports and plans
	EstimatedCost *float64
}

// Builder generates documents from a catalog
type Builder struct {
	cat *catalog.Catalog
}

// NewBuilder creates a Builder over the given catalog
func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{cat: cat}
}

// Build dispatches to the builder for kind
func (b *Builder) Build(kind types.DocumentKind, service types.ServiceCategory, tier types.Tier, entities types.ExtractedEntities, dc Context) (types.Document, error) {
	switch kind {
	case types.KindQuotation:
		return types.NewQuotation(b.Quotation(service, tier, entities, dc)), nil
	case types.KindProject:
		return types.NewProject(b.Project(service, tier, entities, dc)), nil
	case types.KindReport:
		return types.NewReport(b.Report(service, tier, entities, dc)), nil
	}
	return types.Document{}, &types.InvalidRequestError{Field: "kind", Value: string(kind)}
}

// service returns the catalog entry, or a stub carrying only the category when it is missing
func (b *Builder) service(category types.ServiceCategory) catalog.Service {
	if svc, ok := b.cat.Service(category); ok {
		return svc
	}
	return catalog.Service{Category: category, Name: string(category), Code: "GEN", ExecutionFactor: 1}
}

// area returns the extracted area or the service default
func area(svc catalog.Service, entities types.ExtractedEntities) float64 {
	def := defaultAreaM2
	if v, ok := svc.Default(types.FieldAreaM2); ok {
		def = v
	}
	return entities.ValueOr(types.FieldAreaM2, def)
}

func floors(entities types.ExtractedEntities) int {
	if entities.Floors != nil && *entities.Floors > 0 {
		return *entities.Floors
	}
	return 1
}

func clientName(entities types.ExtractedEntities, dc Context) string {
	if dc.Client != "" {
		return dc.Client
	}
	return entities.Client
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// documentCode derives a related code from a quotation number, e.g. COT-20261014-0007 -> PRY-20261014-0007
func documentCode(prefix string, svc catalog.Service, dc Context) string {
	if rest, ok := strings.CutPrefix(dc.Number, quotationPrefix+"-"); ok {
		return prefix + "-" + rest
	}
	if dc.Number != "" {
		return prefix + "-" + dc.Number
	}
	return fmt.Sprintf("%s-DRAFT-%s", prefix, svc.Code)
}

func sumTotals(items []types.LineItem) float64 {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Total
	}
	return catalog.RoundCents(subtotal)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
