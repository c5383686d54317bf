package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/llm"
	"github.com/jonathan/docsynth/internal/synthesis"
	"github.com/jonathan/docsynth/internal/types"
)

// fakeProvider counts calls and answers with a canned result
type fakeProvider struct {
	desc   types.ProviderDescriptor
	calls  atomic.Int32
	text   string
	err    error
	delay  time.Duration
	prompt string
	params llm.Params
	mu     sync.Mutex
}

func (f *fakeProvider) Descriptor() types.ProviderDescriptor { return f.desc }

func (f *fakeProvider) Generate(ctx context.Context, prompt string, params llm.Params) (llm.Response, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.prompt, f.params = prompt, params
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return llm.Response{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.text, TokensUsed: 12}, nil
}

func (f *fakeProvider) Close() error { return nil }

// panickingProvider writes to a nil map on every call
type panickingProvider struct {
	desc types.ProviderDescriptor
}

func (p *panickingProvider) Descriptor() types.ProviderDescriptor { return p.desc }

func (p *panickingProvider) Generate(context.Context, string, llm.Params) (llm.Response, error) {
	var counts map[string]int
	counts["calls"]++
	return llm.Response{}, nil
}

func (p *panickingProvider) Close() error { return nil }

// stuckProvider ignores ctx and blocks until release is closed
type stuckProvider struct {
	desc    types.ProviderDescriptor
	release chan struct{}
}

func (p *stuckProvider) Descriptor() types.ProviderDescriptor { return p.desc }

func (p *stuckProvider) Generate(context.Context, string, llm.Params) (llm.Response, error) {
	<-p.release
	return llm.Response{Text: "too late"}, nil
}

func (p *stuckProvider) Close() error { return nil }

func failing(name string, priority int, err error) *fakeProvider {
	return &fakeProvider{desc: types.ProviderDescriptor{Name: name, Priority: priority, CostClass: types.CostFree}, err: err}
}

func succeeding(name string, priority int, text string) *fakeProvider {
	return &fakeProvider{desc: types.ProviderDescriptor{Name: name, Priority: priority, CostClass: types.CostLow}, text: text}
}

func newEngine() *synthesis.Engine {
	return synthesis.New(catalog.Default(), synthesis.WithClock(func() time.Time {
		return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	}))
}

func quotationRequest() types.OrchestrateRequest {
	return types.OrchestrateRequest{Prompt: "instalación eléctrica de casa 150 m2", Kind: "quotation"}
}

func TestGenerate_KFailuresThenSuccess(t *testing.T) {
	for k := 0; k <= 3; k++ {
		t.Run("", func(t *testing.T) {
			var providers []llm.Provider
			var failures []*fakeProvider
			for i := 0; i < k; i++ {
				f := failing("bad", i+1, &llm.APIError{Provider: "bad", StatusCode: http.StatusTooManyRequests})
				failures = append(failures, f)
				providers = append(providers, f)
			}
			good := succeeding("good", k+1, "Here is your quotation.")
			after := succeeding("after", k+2, "never")
			providers = append(providers, good, after)

			o := New(providers, newEngine(), Options{})
			resp, err := o.Generate(context.Background(), quotationRequest())
			require.NoError(t, err)

			for _, f := range failures {
				assert.Equal(t, int32(1), f.calls.Load())
			}
			assert.Equal(t, int32(1), good.calls.Load())
			assert.Equal(t, int32(0), after.calls.Load())

			assert.True(t, resp.Success)
			assert.False(t, resp.Fallback)
			assert.Equal(t, "good", resp.ProviderUsed)
			assert.Equal(t, "Here is your quotation.", resp.Text)
			assert.Nil(t, resp.Document)
			require.Len(t, resp.Attempts, k+1)
			for i := 0; i < k; i++ {
				assert.Equal(t, types.AttemptFailed, resp.Attempts[i].Status)
				assert.Equal(t, string(llm.FailureRateLimit), resp.Attempts[i].FailureKind)
			}
			assert.Equal(t, types.AttemptSucceeded, resp.Attempts[k].Status)
		})
	}
}

func TestGenerate_ZeroProvidersUsesEngine(t *testing.T) {
	o := New(nil, newEngine(), Options{})

	resp, err := o.Generate(context.Background(), quotationRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, resp.Fallback)
	assert.Equal(t, EngineProviderName, resp.ProviderUsed)
	assert.Equal(t, types.CostFree, resp.CostClass)
	assert.Empty(t, resp.Attempts)
	require.NotNil(t, resp.Document)
	require.NotNil(t, resp.Document.Quotation)
	assert.NotEmpty(t, resp.Document.Quotation.Items)
	assert.NotEmpty(t, resp.Text)
	assert.NotEmpty(t, resp.RequestID)
}

func TestGenerate_AllFailUsesEngine(t *testing.T) {
	providers := []llm.Provider{
		failing("auth", 1, &llm.APIError{Provider: "auth", StatusCode: http.StatusUnauthorized}),
		failing("malformed", 2, &llm.MalformedResponseError{Provider: "malformed", Message: "no choices"}),
		succeeding("empty", 3, "   "),
		failing("weird", 4, errors.New("boom")),
	}

	var buf bytes.Buffer
	o := New(providers, newEngine(), Options{Logger: log.New(&buf, "", 0)})
	resp, err := o.Generate(context.Background(), types.OrchestrateRequest{Prompt: "informe", Kind: "report", Tier: "complex"})
	require.NoError(t, err)

	assert.True(t, resp.Fallback)
	require.NotNil(t, resp.Document)
	require.NotNil(t, resp.Document.Report)
	assert.NotNil(t, resp.Document.Report.KPIs)

	kinds := make([]string, 0, len(resp.Attempts))
	for _, a := range resp.Attempts {
		assert.Equal(t, types.AttemptFailed, a.Status)
		kinds = append(kinds, a.FailureKind)
	}
	assert.Equal(t, []string{"auth", "malformed", "malformed", "unknown"}, kinds)
	assert.Contains(t, buf.String(), "provider auth failed (auth)")
	assert.Contains(t, buf.String(), "all 4 providers failed")
}

func TestGenerate_AttemptTimeout(t *testing.T) {
	slow := succeeding("slow", 1, "late")
	slow.delay = time.Second
	fast := succeeding("fast", 2, "on time")

	o := New([]llm.Provider{slow, fast}, newEngine(), Options{AttemptTimeout: 20 * time.Millisecond})
	resp, err := o.Generate(context.Background(), quotationRequest())
	require.NoError(t, err)

	assert.Equal(t, "fast", resp.ProviderUsed)
	require.Len(t, resp.Attempts, 2)
	assert.Equal(t, string(llm.FailureTimeout), resp.Attempts[0].FailureKind)
}

func TestGenerate_PanickingProviderIsAFailedAttempt(t *testing.T) {
	good := succeeding("good", 2, "served")
	providers := []llm.Provider{
		&panickingProvider{desc: types.ProviderDescriptor{Name: "broken", Priority: 1}},
		good,
	}

	var buf bytes.Buffer
	o := New(providers, newEngine(), Options{Logger: log.New(&buf, "", 0)})
	resp, err := o.Generate(context.Background(), quotationRequest())
	require.NoError(t, err)

	assert.Equal(t, "good", resp.ProviderUsed)
	assert.Equal(t, int32(1), good.calls.Load())
	require.Len(t, resp.Attempts, 2)
	assert.Equal(t, types.AttemptFailed, resp.Attempts[0].Status)
	assert.Equal(t, string(llm.FailureUnknown), resp.Attempts[0].FailureKind)
	assert.Contains(t, resp.Attempts[0].Error, "panic: assignment to entry in nil map")
	assert.Contains(t, buf.String(), "provider broken failed")
}

func TestGenerate_OnlyPanickingProviderFallsBack(t *testing.T) {
	o := New([]llm.Provider{&panickingProvider{desc: types.ProviderDescriptor{Name: "broken", Priority: 1}}}, newEngine(), Options{Logger: log.New(io.Discard, "", 0)})
	resp, err := o.Generate(context.Background(), quotationRequest())
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	require.NotNil(t, resp.Document)
}

func TestGenerate_TimeoutHoldsForProviderIgnoringContext(t *testing.T) {
	stuck := &stuckProvider{desc: types.ProviderDescriptor{Name: "stuck", Priority: 1}, release: make(chan struct{})}
	defer close(stuck.release)
	fast := succeeding("fast", 2, "on time")

	o := New([]llm.Provider{stuck, fast}, newEngine(), Options{AttemptTimeout: 20 * time.Millisecond, Logger: log.New(io.Discard, "", 0)})
	start := time.Now()
	resp, err := o.Generate(context.Background(), quotationRequest())
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "fast", resp.ProviderUsed)
	require.Len(t, resp.Attempts, 2)
	assert.Equal(t, string(llm.FailureTimeout), resp.Attempts[0].FailureKind)
}

func TestNew_DefaultLogger(t *testing.T) {
	o := New(nil, newEngine(), Options{})
	assert.Same(t, log.Default(), o.logger)
}

func TestGenerate_CancelledContextStillFallsBack(t *testing.T) {
	p := succeeding("p", 1, "x")
	o := New([]llm.Provider{p}, newEngine(), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := o.Generate(ctx, quotationRequest())
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, int32(0), p.calls.Load())
	require.Len(t, resp.Attempts, 1)
	assert.Equal(t, types.AttemptSkipped, resp.Attempts[0].Status)
}

func TestGenerate_PriorityOrderStable(t *testing.T) {
	var order []string
	var mu sync.Mutex
	record := func(_ string, a types.Attempt) {
		mu.Lock()
		order = append(order, a.Provider)
		mu.Unlock()
	}

	boom := errors.New("boom")
	providers := []llm.Provider{
		failing("c", 3, boom),
		failing("a1", 1, boom),
		failing("b", 2, boom),
		failing("a2", 1, boom),
	}
	o := New(providers, newEngine(), Options{OnAttempt: record})

	_, err := o.Generate(context.Background(), quotationRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, order)
}

func TestGenerate_StructuredDocument(t *testing.T) {
	payload := map[string]any{
		"number":   "COT-20261014-0001",
		"service":  "grounding",
		"tier":     "simple",
		"items":    []map[string]any{{"description": "Pozo a tierra", "unit": "und", "quantity": 1, "unit_price": 850, "total": 850}},
		"subtotal": 850, "tax_rate": 0.18, "tax": 153, "total": 1003, "currency": "USD",
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	p := succeeding("json", 1, "```json\n"+string(raw)+"\n```")
	o := New([]llm.Provider{p}, newEngine(), Options{})

	resp, err := o.Generate(context.Background(), quotationRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Document)
	require.NotNil(t, resp.Document.Quotation)
	assert.Equal(t, "COT-20261014-0001", resp.Document.Quotation.Number)
	assert.Equal(t, 1003.0, resp.Document.Quotation.Total)
}

func TestGenerate_InvalidStructuredDocumentIgnored(t *testing.T) {
	p := succeeding("json", 1, `{"number": 5}`)
	o := New([]llm.Provider{p}, newEngine(), Options{})

	resp, err := o.Generate(context.Background(), quotationRequest())
	require.NoError(t, err)
	assert.Equal(t, "json", resp.ProviderUsed)
	assert.Nil(t, resp.Document)
}

func TestGenerate_PromptAndParams(t *testing.T) {
	p := succeeding("p", 1, "ok")
	o := New([]llm.Provider{p}, newEngine(), Options{Params: llm.Params{Temperature: 0.5}})

	_, err := o.Generate(context.Background(), types.OrchestrateRequest{Prompt: "pozo a tierra", Kind: "project", MaxTokens: 900})
	require.NoError(t, err)

	assert.Contains(t, p.prompt, "pozo a tierra")
	assert.Contains(t, p.prompt, "JSON Schema")
	assert.InDelta(t, 0.5, p.params.Temperature, 1e-9)
	assert.Equal(t, 900, p.params.MaxTokens)
	assert.True(t, p.params.JSON)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	p := succeeding("p", 1, "ok")
	o := New([]llm.Provider{p}, newEngine(), Options{})

	tests := []struct {
		name  string
		req   types.OrchestrateRequest
		field string
	}{
		{name: "bad kind", req: types.OrchestrateRequest{Prompt: "x", Kind: "invoice"}, field: "kind"},
		{name: "bad tier", req: types.OrchestrateRequest{Prompt: "x", Kind: "report", Tier: "huge"}, field: "tier"},
		{name: "temperature out of range", req: types.OrchestrateRequest{Prompt: "x", Kind: "report", Temperature: 3}, field: "temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Generate(context.Background(), tt.req)
			var invalid *types.InvalidRequestError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
	assert.Equal(t, int32(0), p.calls.Load())
}

func TestStatus(t *testing.T) {
	o := New([]llm.Provider{succeeding("b", 2, "x"), succeeding("a", 1, "x")}, newEngine(), Options{})

	st := o.Status()
	assert.Equal(t, 2, st.TotalProviders)
	assert.True(t, st.FallbackAvailable)
	assert.Equal(t, "a", st.Providers[0].Name)
}

func TestProbe(t *testing.T) {
	providers := []llm.Provider{
		succeeding("up", 1, "ok"),
		failing("down", 2, &llm.APIError{Provider: "down", StatusCode: http.StatusForbidden}),
		succeeding("blank", 3, ""),
	}
	o := New(providers, newEngine(), Options{ProbeConcurrency: 2})

	results, err := o.Probe(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Equal(t, "auth", results[1].FailureKind)
	assert.False(t, results[2].OK)
	assert.Equal(t, "malformed", results[2].FailureKind)
}

func TestProviderFailure_Unwrap(t *testing.T) {
	cause := &llm.APIError{Provider: "x", StatusCode: 500}
	f := &ProviderFailure{Provider: "x", Kind: llm.FailureTransport, Cause: cause}

	var apiErr *llm.APIError
	assert.True(t, errors.As(f, &apiErr))
	assert.Contains(t, f.Error(), "transport")
}
