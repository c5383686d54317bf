// Package orchestrator tries external providers in priority order and falls back to the
// deterministic synthesis engine when none of them produce a response.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/docsynth/internal/documents"
	"github.com/jonathan/docsynth/internal/llm"
	"github.com/jonathan/docsynth/internal/prompts"
	"github.com/jonathan/docsynth/internal/schemas"
	"github.com/jonathan/docsynth/internal/synthesis"
	"github.com/jonathan/docsynth/internal/types"
)

// Defaults
const (
	DefaultAttemptTimeout   = 30 * time.Second
	DefaultProbeConcurrency = 4

	// EngineProviderName identifies the deterministic fallback in responses
	EngineProviderName = "deterministic-engine"
)

// AttemptCallback is called after every provider attempt
type AttemptCallback func(requestID string, attempt types.Attempt)

// Options configures an Orchestrator
type Options struct {
	// AttemptTimeout bounds each provider call; zero means DefaultAttemptTimeout
	AttemptTimeout time.Duration
	// Params supplies temperature and max tokens when the request leaves them unset
	Params           llm.Params
	ProbeConcurrency int
	// Logger receives failure and fallback lines; nil means log.Default()
	Logger    *log.Logger
	OnAttempt AttemptCallback
}

// Orchestrator is safe for concurrent use. The provider list is fixed at construction.
type Orchestrator struct {
	providers []llm.Provider
	engine    *synthesis.Engine
	opts      Options
	logger    *log.Logger
	newID     func() string
}

// New creates an Orchestrator. Providers are ordered by ascending priority, keeping the
// given order for equal priorities.
func New(providers []llm.Provider, engine *synthesis.Engine, opts Options) *Orchestrator {
	sorted := make([]llm.Provider, len(providers))
	copy(sorted, providers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Descriptor().Priority < sorted[j].Descriptor().Priority
	})

	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}
	if opts.ProbeConcurrency <= 0 {
		opts.ProbeConcurrency = DefaultProbeConcurrency
	}
	opts.Params = opts.Params.WithDefaults()

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Orchestrator{
		providers: sorted,
		engine:    engine,
		opts:      opts,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
	}
}

// Providers returns the descriptors of the configured providers in attempt order
func (o *Orchestrator) Providers() []types.ProviderDescriptor {
	out := make([]types.ProviderDescriptor, 0, len(o.providers))
	for _, p := range o.providers {
		out = append(out, p.Descriptor())
	}
	return out
}

// Close closes every provider client
func (o *Orchestrator) Close() error {
	var first error
	for _, p := range o.providers {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Generate serves req from the first provider that succeeds, or from the synthesis engine.
// The only error is *types.InvalidRequestError.
func (o *Orchestrator) Generate(ctx context.Context, req types.OrchestrateRequest) (types.OrchestrateResponse, error) {
	if err := req.Validate(); err != nil {
		return types.OrchestrateResponse{}, types.AsInvalidRequest(err)
	}
	kind, tier, err := types.ParseKindAndTier(req.Kind, req.Tier)
	if err != nil {
		return types.OrchestrateResponse{}, err
	}

	resp := types.OrchestrateResponse{
		RequestID: o.newID(),
		Success:   true,
		Attempts:  []types.Attempt{},
	}

	if len(o.providers) > 0 {
		prompt := o.buildPrompt(kind, tier, req.Prompt)
		params := o.paramsFor(req)

		for i, p := range o.providers {
			desc := p.Descriptor()
			if ctx.Err() != nil {
				o.logger.Printf("[orchestrator] request %s cancelled, skipping %d remaining providers", resp.RequestID, len(o.providers)-i)
				for _, rest := range o.providers[i:] {
					o.record(&resp, types.Attempt{
						Provider: rest.Descriptor().Name,
						Priority: rest.Descriptor().Priority,
						Status:   types.AttemptSkipped,
						Error:    ctx.Err().Error(),
					})
				}
				break
			}

			out, elapsed, failure := o.attempt(ctx, p, prompt, params)
			attempt := types.Attempt{
				Provider:   desc.Name,
				Priority:   desc.Priority,
				DurationMS: elapsed.Milliseconds(),
			}
			if failure != nil {
				attempt.Status = types.AttemptFailed
				attempt.FailureKind = string(failure.Kind)
				attempt.Error = failure.Error()
				o.record(&resp, attempt)
				o.logger.Printf("[orchestrator] %v", failure)
				continue
			}

			attempt.Status = types.AttemptSucceeded
			o.record(&resp, attempt)
			resp.Text = out.Text
			resp.ProviderUsed = desc.Name
			resp.CostClass = desc.CostClass
			resp.TokensUsed = out.TokensUsed
			resp.Document = o.structuredDocument(kind, desc.Name, out.Text)
			o.logger.Printf("[orchestrator] request %s served by %s in %dms", resp.RequestID, desc.Name, attempt.DurationMS)
			return resp, nil
		}
	}

	if len(o.providers) == 0 {
		o.logger.Printf("[orchestrator] no providers configured, using %s", EngineProviderName)
	} else {
		o.logger.Printf("[orchestrator] all %d providers failed for request %s, using %s", len(o.providers), resp.RequestID, EngineProviderName)
	}

	result, err := o.engine.GenerateWithContext(req.Prompt, kind, tier, documents.Context{})
	if err != nil {
		return types.OrchestrateResponse{}, err
	}
	doc := result.Document
	resp.Text = result.Summary
	resp.ProviderUsed = EngineProviderName
	resp.CostClass = types.CostFree
	resp.Document = &doc
	resp.Fallback = true
	return resp, nil
}

type callResult struct {
	out      llm.Response
	err      error
	panicked bool
}

// attempt runs one provider call under the attempt timeout. The deadline holds even for
// providers that ignore ctx, and a panicking provider counts as a failed attempt.
func (o *Orchestrator) attempt(ctx context.Context, p llm.Provider, prompt string, params llm.Params) (llm.Response, time.Duration, *ProviderFailure) {
	desc := p.Descriptor()
	attemptCtx, cancel := context.WithTimeout(ctx, o.opts.AttemptTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: fmt.Errorf("panic: %v", r), panicked: true}
			}
		}()
		out, err := p.Generate(attemptCtx, prompt, params)
		done <- callResult{out: out, err: err}
	}()

	var res callResult
	select {
	case res = <-done:
	case <-attemptCtx.Done():
		res.err = attemptCtx.Err()
	}
	elapsed := time.Since(start)

	if res.panicked {
		return llm.Response{}, elapsed, &ProviderFailure{Provider: desc.Name, Kind: llm.FailureUnknown, Cause: res.err}
	}
	out, err := res.out, res.err
	if err == nil && strings.TrimSpace(out.Text) == "" {
		err = &llm.MalformedResponseError{Provider: desc.Name, Message: "empty response"}
	}
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return out, elapsed, &ProviderFailure{Provider: desc.Name, Kind: llm.FailureTimeout, Cause: err}
		}
		return out, elapsed, &ProviderFailure{Provider: desc.Name, Kind: llm.ClassifyError(err), Cause: err}
	}
	return out, elapsed, nil
}

func (o *Orchestrator) record(resp *types.OrchestrateResponse, attempt types.Attempt) {
	resp.Attempts = append(resp.Attempts, attempt)
	if o.opts.OnAttempt != nil {
		o.opts.OnAttempt(resp.RequestID, attempt)
	}
}

func (o *Orchestrator) paramsFor(req types.OrchestrateRequest) llm.Params {
	params := o.opts.Params
	if req.Temperature > 0 {
		params.Temperature = req.Temperature
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = req.MaxTokens
	}
	params.JSON = true
	return params
}

// buildPrompt wraps the caller's text in the document template for kind and tier.
// If a template is unavailable the raw text is sent.
func (o *Orchestrator) buildPrompt(kind types.DocumentKind, tier types.Tier, text string) string {
	schema, err := schemas.Raw(kind)
	if err != nil {
		o.logger.Printf("[orchestrator] schema unavailable for %s: %v", kind, err)
	}
	prompt, err := prompts.BuildDocument(prompts.DocumentInput{
		Kind:     kind,
		Tier:     tier,
		Request:  text,
		Currency: o.engine.Catalog().Currency(),
		Schema:   schema,
	})
	if err != nil {
		o.logger.Printf("[orchestrator] prompt template unavailable for %s/%s: %v", kind, tier, err)
		return text
	}
	return prompt
}

// structuredDocument returns the document carried by provider text, or nil when the text
// does not hold a payload that decodes and validates for kind
func (o *Orchestrator) structuredDocument(kind types.DocumentKind, provider, text string) *types.Document {
	payload := llm.CleanJSONBlock(text)
	if !json.Valid([]byte(payload)) {
		return nil
	}
	if err := schemas.ValidateDocument(kind, []byte(payload)); err != nil {
		o.logger.Printf("[orchestrator] %s output is not a valid %s document: %v", provider, kind, strings.TrimSpace(err.Error()))
		return nil
	}
	doc, err := types.DecodePayload(kind, []byte(payload))
	if err != nil {
		o.logger.Printf("[orchestrator] %s output could not be decoded as %s: %v", provider, kind, err)
		return nil
	}
	return &doc
}
