package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/docsynth/internal/types"
)

// Default list paging
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// StoredDocument is a generated document as persisted
type StoredDocument struct {
	ID        uuid.UUID             `json:"id"`
	Kind      types.DocumentKind    `json:"kind"`
	Service   types.ServiceCategory `json:"service"`
	Tier      types.Tier            `json:"tier"`
	Reference string                `json:"reference"`
	Client    string                `json:"client,omitempty"`
	Summary   string                `json:"summary"`
	Provider  string                `json:"provider,omitempty"`
	Document  types.Document        `json:"document"`
	CreatedAt time.Time             `json:"created_at"`
}

// DocumentSummary is a StoredDocument without its content, as returned by listings
type DocumentSummary struct {
	ID        uuid.UUID             `json:"id"`
	Kind      types.DocumentKind    `json:"kind"`
	Service   types.ServiceCategory `json:"service"`
	Tier      types.Tier            `json:"tier"`
	Reference string                `json:"reference"`
	Client    string                `json:"client,omitempty"`
	Summary   string                `json:"summary"`
	CreatedAt time.Time             `json:"created_at"`
}

// SaveDocumentInput holds what SaveDocument persists
type SaveDocumentInput struct {
	Document types.Document
	Summary  string
	// Provider names who produced the document, e.g. "deterministic-engine"
	Provider string
}

// ListOptions filters and pages ListDocuments
type ListOptions struct {
	Kind   types.DocumentKind
	Limit  int
	Offset int
}

// normalized clamps the paging values
func (o ListOptions) normalized() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// Reference returns the human-facing identifier of a document:
// the quotation number, project code or report code
func Reference(doc types.Document) string {
	switch {
	case doc.Quotation != nil:
		return doc.Quotation.Number
	case doc.Project != nil:
		return doc.Project.Code
	case doc.Report != nil:
		return doc.Report.Code
	}
	return ""
}

func clientOf(doc types.Document) string {
	switch {
	case doc.Quotation != nil:
		return doc.Quotation.Client
	case doc.Project != nil:
		return doc.Project.Client
	case doc.Report != nil:
		return doc.Report.Client
	}
	return ""
}
