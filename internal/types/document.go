package types

import (
	"encoding/json"
	"fmt"
)

// Document is the tagged envelope around exactly one document variant
type Document struct {
	Kind      DocumentKind       `json:"kind"`
	Quotation *QuotationDocument `json:"quotation,omitempty"`
	Project   *ProjectDocument   `json:"project,omitempty"`
	Report    *ReportDocument    `json:"report,omitempty"`
}

// NewQuotation wraps a quotation in a Document
func NewQuotation(q QuotationDocument) Document {
	return Document{Kind: KindQuotation, Quotation: &q}
}

// NewProject wraps a project plan in a Document
func NewProject(p ProjectDocument) Document {
	return Document{Kind: KindProject, Project: &p}
}

// NewReport wraps a report in a Document
func NewReport(r ReportDocument) Document {
	return Document{Kind: KindReport, Report: &r}
}

// Service returns the service category of the wrapped variant
func (d Document) Service() ServiceCategory {
	switch {
	case d.Quotation != nil:
		return d.Quotation.Service
	case d.Project != nil:
		return d.Project.Service
	case d.Report != nil:
		return d.Report.Service
	}
	return ""
}

// Tier returns the tier of the wrapped variant
func (d Document) Tier() Tier {
	switch {
	case d.Quotation != nil:
		return d.Quotation.Tier
	case d.Project != nil:
		return d.Project.Tier
	case d.Report != nil:
		return d.Report.Tier
	}
	return ""
}

// Payload returns the wrapped variant matching Kind
func (d Document) Payload() any {
	switch d.Kind {
	case KindQuotation:
		return d.Quotation
	case KindProject:
		return d.Project
	case KindReport:
		return d.Report
	}
	return nil
}

// Check verifies that exactly one payload is set and that it matches Kind
func (d Document) Check() error {
	set := 0
	for _, present := range []bool{d.Quotation != nil, d.Project != nil, d.Report != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("document must carry exactly one payload, found %d", set)
	}
	ok := (d.Kind == KindQuotation && d.Quotation != nil) ||
		(d.Kind == KindProject && d.Project != nil) ||
		(d.Kind == KindReport && d.Report != nil)
	if !ok {
		return fmt.Errorf("document kind %q does not match its payload", d.Kind)
	}
	return nil
}

// UnmarshalJSON decodes a Document and rejects envelopes whose payload does not match the kind
func (d *Document) UnmarshalJSON(data []byte) error {
	type envelope Document
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	doc := Document(env)
	if err := doc.Check(); err != nil {
		return err
	}
	*d = doc
	return nil
}

// DecodePayload decodes a bare variant body (no envelope) of the given kind
func DecodePayload(kind DocumentKind, data []byte) (Document, error) {
	switch kind {
	case KindQuotation:
		var q QuotationDocument
		if err := json.Unmarshal(data, &q); err != nil {
			return Document{}, err
		}
		return NewQuotation(q), nil
	case KindProject:
		var p ProjectDocument
		if err := json.Unmarshal(data, &p); err != nil {
			return Document{}, err
		}
		return NewProject(p), nil
	case KindReport:
		var r ReportDocument
		if err := json.Unmarshal(data, &r); err != nil {
			return Document{}, err
		}
		return NewReport(r), nil
	}
	return Document{}, &InvalidRequestError{Field: "kind", Value: string(kind)}
}
