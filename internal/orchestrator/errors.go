package orchestrator

import (
	"fmt"

	"github.com/jonathan/docsynth/internal/llm"
)

// ProviderFailure records why one provider attempt failed. It is kept in the attempt
// ledger and never returned to callers.
type ProviderFailure struct {
	Provider string
	Kind     llm.FailureKind
	Cause    error
}

func (e *ProviderFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %s failed (%s): %v", e.Provider, e.Kind, e.Cause)
	}
	return fmt.Sprintf("provider %s failed (%s)", e.Provider, e.Kind)
}

func (e *ProviderFailure) Unwrap() error {
	return e.Cause
}
