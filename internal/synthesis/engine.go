// Package synthesis is the deterministic document engine: it extracts entities, classifies
// the service and builds the requested document without any external provider.
package synthesis

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/classify"
	"github.com/jonathan/docsynth/internal/documents"
	"github.com/jonathan/docsynth/internal/extraction"
	"github.com/jonathan/docsynth/internal/types"
)

// maxSummaryLen bounds the human-readable summary, in characters
const maxSummaryLen = 199

// Result is a generated document plus what the engine inferred on the way
type Result struct {
	Document types.Document          `json:"document"`
	Summary  string                  `json:"summary"`
	Service  types.ServiceCategory   `json:"service"`
	Tier     types.Tier              `json:"tier"`
	Entities types.ExtractedEntities `json:"entities"`
}

// Engine is safe for concurrent use
type Engine struct {
	cat        *catalog.Catalog
	classifier *classify.Classifier
	builder    *documents.Builder
	now        func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the clock used to date documents
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine over the catalog
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		cat:        cat,
		classifier: classify.New(cat),
		builder:    documents.NewBuilder(cat),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine prices from
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Generate produces a document of the given kind and tier from free text.
// The only error is *types.InvalidRequestError for an unrecognized kind or tier.
func (e *Engine) Generate(text string, kind types.DocumentKind, tier types.Tier) (Result, error) {
	return e.GenerateWithContext(text, kind, tier, documents.Context{})
}

// GenerateWithContext is Generate with caller-supplied numbering, client and dates
func (e *Engine) GenerateWithContext(text string, kind types.DocumentKind, tier types.Tier, dc documents.Context) (Result, error) {
	if _, err := types.ParseDocumentKind(string(kind)); err != nil {
		return Result{}, err
	}
	if _, err := types.ParseTier(string(tier)); err != nil {
		return Result{}, err
	}

	entities := extraction.Extract(text)
	service := e.classifier.Classify(text)

	if dc.IssueDate.IsZero() {
		dc.IssueDate = e.now()
	}
	if dc.Description == "" {
		dc.Description = text
	}

	doc, err := e.builder.Build(kind, service, tier, entities, dc)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Document: doc,
		Summary:  Summarize(doc),
		Service:  service,
		Tier:     tier,
		Entities: entities,
	}, nil
}

// GenerateRequest serves a validated request. An empty tier is treated as simple, the
// request client overrides the extracted one.
func (e *Engine) GenerateRequest(req types.GenerateRequest, dc documents.Context) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, types.AsInvalidRequest(err)
	}
	kind, tier, err := types.ParseKindAndTier(req.Kind, req.Tier)
	if err != nil {
		return Result{}, err
	}
	if req.Client != "" {
		dc.Client = req.Client
	}
	return e.GenerateWithContext(req.Text, kind, tier, dc)
}

// Classify exposes the classifier for callers that need the service without a document
func (e *Engine) Classify(text string) types.ServiceCategory {
	return e.classifier.Classify(text)
}

// Summarize renders a one-line description of a document, under 200 characters
func Summarize(doc types.Document) string {
	var s string
	switch {
	case doc.Quotation != nil:
		q := doc.Quotation
		s = fmt.Sprintf("Quotation %s for %s: %d line items, total %s %.2f incl. tax.",
			q.Number, q.ServiceName, len(q.Items), q.Currency, q.Total)
	case doc.Project != nil:
		p := doc.Project
		s = fmt.Sprintf("Project plan for %s: %d phases over %d days, budget %s %.2f.",
			p.ServiceName, len(p.Phases), p.TotalDurationDays, p.Currency, p.EstimatedBudget)
	case doc.Report != nil:
		r := doc.Report
		if r.KPIs != nil {
			s = fmt.Sprintf("Executive report on %s: investment %.2f, ROI %.2f%%, payback %.1f months.",
				r.ServiceName, r.KPIs.Investment, r.KPIs.ROIPercent, r.KPIs.PaybackMonths)
		} else {
			s = fmt.Sprintf("Technical report on %s with %d sections.", r.ServiceName, len(r.Sections))
		}
	default:
		s = "Empty document."
	}
	return truncate(s, maxSummaryLen)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
