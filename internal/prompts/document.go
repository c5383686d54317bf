package prompts

import (
	"fmt"

	"github.com/jonathan/docsynth/internal/types"
)

// DocumentFile holds the per-kind document templates
const DocumentFile = "documents.json"

// DefaultCurrency is used when DocumentInput.Currency is empty
const DefaultCurrency = "USD"

// DocumentInput is the data substituted into a document template
type DocumentInput struct {
	Kind     types.DocumentKind
	Tier     types.Tier
	Request  string
	Currency string
	// Schema is the JSON Schema the response must satisfy; empty asks for prose
	Schema string
}

// DocumentKey returns the template key for a kind and tier, e.g. "report-complex"
func DocumentKey(kind types.DocumentKind, tier types.Tier) string {
	if tier == "" {
		tier = types.TierSimple
	}
	return fmt.Sprintf("%s-%s", kind, tier)
}

// BuildDocument composes the full prompt for in
func BuildDocument(in DocumentInput) (string, error) {
	set, err := Load(DocumentFile)
	if err != nil {
		return "", err
	}

	currency := in.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	preamble, err := set.Render("preamble", map[string]string{"Currency": currency})
	if err != nil {
		return "", err
	}

	instructions := ""
	if in.Schema != "" {
		if instructions, err = set.Render("json-instructions", map[string]string{"Schema": in.Schema}); err != nil {
			return "", err
		}
	}

	return set.Render(DocumentKey(in.Kind, in.Tier), map[string]string{
		"Preamble":         preamble,
		"Request":          in.Request,
		"JSONInstructions": instructions,
	})
}
