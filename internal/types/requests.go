package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenerateRequest asks the deterministic engine for a document
type GenerateRequest struct {
	Text   string `json:"text"`
	Kind   string `json:"kind" validate:"required,oneof=quotation project report"`
	Tier   string `json:"tier,omitempty" validate:"omitempty,oneof=simple complex"`
	Client string `json:"client,omitempty" validate:"max=200"`
	Save   bool   `json:"save,omitempty"`
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// OrchestrateRequest asks the provider chain for a document, with the engine as fallback
type OrchestrateRequest struct {
	Prompt      string  `json:"prompt"`
	Kind        string  `json:"kind" validate:"required,oneof=quotation project report"`
	Tier        string  `json:"tier,omitempty" validate:"omitempty,oneof=simple complex"`
	Temperature float64 `json:"temperature,omitempty" validate:"gte=0,lte=2"`
	MaxTokens   int     `json:"max_tokens,omitempty" validate:"gte=0,lte=32768"`
}

// Validate validates the OrchestrateRequest using the validator.
func (r *OrchestrateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// AsInvalidRequest converts a validator failure into an *InvalidRequestError naming the
// first offending field. Other errors are returned unchanged.
func AsInvalidRequest(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &InvalidRequestError{Field: strings.ToLower(fe.Field()), Value: fmt.Sprint(fe.Value())}
	}
	return err
}

// ParseKindAndTier resolves the kind and tier strings of a request. An empty tier means simple.
func ParseKindAndTier(kind, tier string) (DocumentKind, Tier, error) {
	k, err := ParseDocumentKind(kind)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(tier) == "" {
		return k, TierSimple, nil
	}
	t, err := ParseTier(tier)
	if err != nil {
		return "", "", err
	}
	return k, t, nil
}

// AttemptStatus is the outcome of one provider attempt
type AttemptStatus string

// Attempt statuses
const (
	AttemptSucceeded AttemptStatus = "succeeded"
	AttemptFailed    AttemptStatus = "failed"
	AttemptSkipped   AttemptStatus = "skipped"
)

// Attempt records one provider call made while serving an OrchestrateRequest
type Attempt struct {
	Provider    string        `json:"provider"`
	Priority    int           `json:"priority"`
	Status      AttemptStatus `json:"status"`
	FailureKind string        `json:"failure_kind,omitempty"`
	Error       string        `json:"error,omitempty"`
	DurationMS  int64         `json:"duration_ms"`
}

// OrchestrateResponse is the result of an orchestrated generation. Success is always true
// because the deterministic engine is the last resort.
type OrchestrateResponse struct {
	RequestID    string    `json:"request_id"`
	Success      bool      `json:"success"`
	Text         string    `json:"text"`
	ProviderUsed string    `json:"provider_used"`
	CostClass    CostClass `json:"cost_class"`
	TokensUsed   int       `json:"tokens_used,omitempty"`
	Document     *Document `json:"document,omitempty"`
	Fallback     bool      `json:"fallback"`
	Attempts     []Attempt `json:"attempts"`
}
