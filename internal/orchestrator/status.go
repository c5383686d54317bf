package orchestrator

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/docsynth/internal/llm"
	"github.com/jonathan/docsynth/internal/types"
)

// probePrompt is the minimal request sent by Probe
const probePrompt = "Reply with the single word: ok"

// Status describes the configured chain
type Status struct {
	TotalProviders    int                        `json:"total_providers"`
	Providers         []types.ProviderDescriptor `json:"providers"`
	FallbackAvailable bool                       `json:"fallback_available"`
	FallbackName      string                     `json:"fallback_name"`
}

// ProbeResult is the outcome of pinging one provider
type ProbeResult struct {
	Provider    types.ProviderDescriptor `json:"provider"`
	OK          bool                     `json:"ok"`
	FailureKind string                   `json:"failure_kind,omitempty"`
	Error       string                   `json:"error,omitempty"`
	DurationMS  int64                    `json:"duration_ms"`
}

// Status lists the configured providers. The engine fallback is always available.
func (o *Orchestrator) Status() Status {
	providers := o.Providers()
	return Status{
		TotalProviders:    len(providers),
		Providers:         providers,
		FallbackAvailable: o.engine != nil,
		FallbackName:      EngineProviderName,
	}
}

// Probe pings every provider concurrently, each under the attempt timeout.
// Results are in provider order. Probe failures are reported, not returned.
func (o *Orchestrator) Probe(ctx context.Context) ([]ProbeResult, error) {
	results := make([]ProbeResult, len(o.providers))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.ProbeConcurrency)

	params := llm.Params{Temperature: 0.1, MaxTokens: 8}
	for i, p := range o.providers {
		g.Go(func() error {
			_, elapsed, failure := o.attempt(gCtx, p, probePrompt, params)
			res := ProbeResult{
				Provider:   p.Descriptor(),
				OK:         failure == nil,
				DurationMS: elapsed.Milliseconds(),
			}
			if failure != nil {
				res.FailureKind = string(failure.Kind)
				res.Error = failure.Error()
				o.logger.Printf("[orchestrator] probe: %v", failure)
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}
