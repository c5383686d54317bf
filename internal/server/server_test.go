package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/db"
	"github.com/jonathan/docsynth/internal/documents"
	"github.com/jonathan/docsynth/internal/llm"
	"github.com/jonathan/docsynth/internal/orchestrator"
	"github.com/jonathan/docsynth/internal/server/ratelimit"
	"github.com/jonathan/docsynth/internal/synthesis"
	"github.com/jonathan/docsynth/internal/types"
)

var fixedNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

const residentialText = "Instalación eléctrica residencial para una casa de 150 m2 de 2 pisos, cliente Juan Pérez"

// memStore is an in-memory Store
type memStore struct {
	mu   sync.Mutex
	docs []*db.StoredDocument
	err  error
}

func (m *memStore) SaveDocument(_ context.Context, in db.SaveDocumentInput) (*db.StoredDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := &db.StoredDocument{
		ID:        uuid.New(),
		Kind:      in.Document.Kind,
		Service:   in.Document.Service(),
		Tier:      in.Document.Tier(),
		Reference: db.Reference(in.Document),
		Summary:   in.Summary,
		Provider:  in.Provider,
		Document:  in.Document,
		CreatedAt: fixedNow,
	}
	m.docs = append(m.docs, stored)
	return stored, nil
}

func (m *memStore) GetDocument(_ context.Context, id uuid.UUID) (*db.StoredDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListDocuments(_ context.Context, opts db.ListOptions) ([]db.DocumentSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.DocumentSummary
	for _, d := range m.docs {
		if opts.Kind != "" && d.Kind != opts.Kind {
			continue
		}
		out = append(out, db.DocumentSummary{ID: d.ID, Kind: d.Kind, Service: d.Service, Tier: d.Tier, Reference: d.Reference})
	}
	return out, nil
}

// stubProvider answers every prompt with the same text or error
type stubProvider struct {
	desc types.ProviderDescriptor
	text string
	err  error
}

func (p *stubProvider) Descriptor() types.ProviderDescriptor { return p.desc }

func (p *stubProvider) Generate(context.Context, string, llm.Params) (llm.Response, error) {
	if p.err != nil {
		return llm.Response{}, p.err
	}
	return llm.Response{Text: p.text, TokensUsed: 7}, nil
}

func (p *stubProvider) Close() error { return nil }

func newEngine() *synthesis.Engine {
	return synthesis.New(catalog.Default(), synthesis.WithClock(func() time.Time { return fixedNow }))
}

type serverOption func(*Config)

func withStore(store Store) serverOption {
	return func(c *Config) { c.Store = store }
}

func withProviders(providers ...llm.Provider) serverOption {
	return func(c *Config) {
		c.Orchestrator = orchestrator.New(providers, c.Engine, orchestrator.Options{AttemptTimeout: time.Second})
	}
}

func withRateLimit(rl *ratelimit.Config) serverOption {
	return func(c *Config) { c.RateLimit = rl }
}

func newTestServer(t *testing.T, opts ...serverOption) http.Handler {
	t.Helper()
	cfg := Config{
		Engine:    newEngine(),
		RateLimit: &ratelimit.Config{Enabled: false},
		Now:       func() time.Time { return fixedNow },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.10:41000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresEngine(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodOptions, "/v1/documents", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCreateDocument_QuotationNumbering(t *testing.T) {
	h := newTestServer(t, withStore(&memStore{}))
	preview := types.GenerateRequest{Text: residentialText, Kind: "quotation"}
	saved := types.GenerateRequest{Text: residentialText, Kind: "quotation", Save: true}

	for i := int64(1); i <= 2; i++ {
		w := do(t, h, http.MethodPost, "/v1/documents", preview)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[DocumentResponse](t, w)
		assert.Empty(t, resp.ID)
		require.NotNil(t, resp.Document.Quotation)
		assert.Equal(t, "COT-DRAFT-RES", resp.Document.Quotation.Number)
		assert.Equal(t, types.TierSimple, resp.Tier)
		assert.NotEmpty(t, resp.Summary)

		w = do(t, h, http.MethodPost, "/v1/documents", saved)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp = decode[DocumentResponse](t, w)
		assert.Equal(t, documents.FormatQuotationNumber(fixedNow, i), resp.Document.Quotation.Number)
	}
}

func TestCreateDocument_Kinds(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		kind string
		tier string
	}{
		{kind: "project", tier: "simple"},
		{kind: "project", tier: "complex"},
		{kind: "report", tier: "complex"},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.tier, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/documents", types.GenerateRequest{Text: residentialText, Kind: tt.kind, Tier: tt.tier})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decode[DocumentResponse](t, w)
			assert.Equal(t, types.DocumentKind(tt.kind), resp.Document.Kind)
			assert.Equal(t, types.Tier(tt.tier), resp.Tier)
		})
	}
}

func TestCreateDocument_ClientOverride(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/v1/documents", types.GenerateRequest{Text: residentialText, Kind: "quotation", Client: "ACME SAC"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[DocumentResponse](t, w)
	assert.Equal(t, "ACME SAC", resp.Document.Quotation.Client)
}

func TestCreateDocument_BadRequests(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "malformed body", body: "{not json", want: http.StatusBadRequest},
		{name: "unknown kind", body: types.GenerateRequest{Text: "x", Kind: "invoice"}, want: http.StatusBadRequest},
		{name: "unknown tier", body: types.GenerateRequest{Text: "x", Kind: "report", Tier: "premium"}, want: http.StatusBadRequest},
		{name: "save without store", body: types.GenerateRequest{Text: "x", Kind: "report", Save: true}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/documents", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestCreateDocument_SaveAndFetch(t *testing.T) {
	store := &memStore{}
	h := newTestServer(t, withStore(store))

	w := do(t, h, http.MethodPost, "/v1/documents", types.GenerateRequest{Text: residentialText, Kind: "quotation", Save: true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[DocumentResponse](t, w)
	require.NotEmpty(t, created.ID)
	require.Len(t, store.docs, 1)
	assert.Equal(t, orchestrator.EngineProviderName, store.docs[0].Provider)

	w = do(t, h, http.MethodGet, "/v1/documents/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	fetched := decode[db.StoredDocument](t, w)
	assert.Equal(t, created.ID, fetched.ID.String())
	assert.Equal(t, created.Document.Quotation.Number, fetched.Reference)
	assert.Equal(t, created.Document.Quotation.Total, fetched.Document.Quotation.Total)
}

func TestCreateDocument_StoreFailure(t *testing.T) {
	h := newTestServer(t, withStore(&memStore{err: errors.New("connection refused")}))

	w := do(t, h, http.MethodPost, "/v1/documents", types.GenerateRequest{Text: residentialText, Kind: "report", Save: true})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decode[map[string]string](t, w)["error"])
}

func TestGetDocument(t *testing.T) {
	h := newTestServer(t, withStore(&memStore{}))

	w := do(t, h, http.MethodGet, "/v1/documents/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/v1/documents/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocuments_NoStore(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/v1/documents", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/v1/documents/"+uuid.NewString(), nil).Code)
}

func TestListDocuments(t *testing.T) {
	store := &memStore{}
	h := newTestServer(t, withStore(store))

	for _, kind := range []string{"quotation", "project", "report", "quotation"} {
		w := do(t, h, http.MethodPost, "/v1/documents", types.GenerateRequest{Text: residentialText, Kind: kind, Save: true})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(t, h, http.MethodGet, "/v1/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[ListDocumentsResponse](t, w)
	assert.Len(t, all.Documents, 4)
	assert.Equal(t, db.DefaultListLimit, all.Limit)

	w = do(t, h, http.MethodGet, "/v1/documents?kind=quotation&limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	quotes := decode[ListDocumentsResponse](t, w)
	assert.Len(t, quotes.Documents, 2)
	assert.Equal(t, db.MaxListLimit, quotes.Limit)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/documents?kind=invoice", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/documents?limit=-1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/documents?offset=abc", nil).Code)
}

func TestListDocuments_Empty(t *testing.T) {
	h := newTestServer(t, withStore(&memStore{}))

	w := do(t, h, http.MethodGet, "/v1/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"documents":[]`)
}

func TestGenerate_NoOrchestrator(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/v1/generate", types.OrchestrateRequest{Prompt: "x", Kind: "quotation"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGenerate_FallbackToEngine(t *testing.T) {
	failing := &stubProvider{
		desc: types.ProviderDescriptor{Name: "gemini", Kind: types.ProviderGemini, Priority: 1},
		err:  &llm.APIError{Provider: "gemini", StatusCode: http.StatusTooManyRequests, Message: "quota"},
	}
	store := &memStore{}
	h := newTestServer(t, withStore(store), withProviders(failing))

	w := do(t, h, http.MethodPost, "/v1/generate?save=true", types.OrchestrateRequest{Prompt: residentialText, Kind: "quotation"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[GenerateResponse](t, w)
	assert.True(t, resp.Fallback)
	assert.Equal(t, orchestrator.EngineProviderName, resp.ProviderUsed)
	require.Len(t, resp.Attempts, 1)
	assert.Equal(t, types.AttemptFailed, resp.Attempts[0].Status)
	assert.Equal(t, string(llm.FailureRateLimit), resp.Attempts[0].FailureKind)
	require.NotNil(t, resp.Document)
	assert.NotEmpty(t, resp.DocumentID)
	require.Len(t, store.docs, 1)
	assert.Equal(t, orchestrator.EngineProviderName, store.docs[0].Provider)
}

func TestGenerate_ProviderSuccess(t *testing.T) {
	ok := &stubProvider{
		desc: types.ProviderDescriptor{Name: "groq", Kind: types.ProviderGroq, Priority: 4, CostClass: types.CostFree},
		text: "Here is your quotation summary.",
	}
	h := newTestServer(t, withProviders(ok))

	w := do(t, h, http.MethodPost, "/v1/generate", types.OrchestrateRequest{Prompt: residentialText, Kind: "report", Tier: "complex"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[GenerateResponse](t, w)
	assert.False(t, resp.Fallback)
	assert.True(t, resp.Success)
	assert.Equal(t, "groq", resp.ProviderUsed)
	assert.Equal(t, "Here is your quotation summary.", resp.Text)
	assert.Empty(t, resp.DocumentID)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	h := newTestServer(t, withProviders())

	w := do(t, h, http.MethodPost, "/v1/generate", types.OrchestrateRequest{Prompt: "x", Kind: "memo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/v1/generate", "[]")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProviders(t *testing.T) {
	gemini := &stubProvider{desc: types.ProviderDescriptor{Name: "gemini", Kind: types.ProviderGemini, Priority: 1}, text: "ok"}
	h := newTestServer(t, withProviders(gemini), func(c *Config) {
		c.Credentials = llm.Credentials{types.ProviderGemini: "key"}
	})

	w := do(t, h, http.MethodGet, "/v1/providers?probe=true", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[ProvidersResponse](t, w)
	require.Len(t, resp.Providers, len(llm.AllDescriptors(nil)))
	for _, p := range resp.Providers {
		assert.Equal(t, p.Kind == types.ProviderGemini, p.Configured, p.Name)
		assert.Equal(t, llm.EnvVar(p.Kind), p.EnvVar)
	}
	require.NotNil(t, resp.Chain)
	assert.Equal(t, 1, resp.Chain.TotalProviders)
	assert.True(t, resp.Chain.FallbackAvailable)
	require.Len(t, resp.Probe, 1)
	assert.True(t, resp.Probe[0].OK)
}

func TestProviders_WithoutOrchestrator(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/v1/providers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ProvidersResponse](t, w)
	assert.Nil(t, resp.Chain)
	assert.Empty(t, resp.Probe)
}

func TestCatalogServices(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/v1/catalog/services", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ServicesResponse](t, w)
	assert.Equal(t, "USD", resp.Currency)
	assert.InDelta(t, 0.18, resp.TaxRate, 1e-9)
	require.Len(t, resp.Services, len(types.AllServiceCategories()))
	for i, svc := range resp.Services {
		assert.Equal(t, types.AllServiceCategories()[i], svc.Category)
		assert.Len(t, svc.Code, 3)
		assert.NotEmpty(t, svc.Name)
	}
}

func TestValidate(t *testing.T) {
	h := newTestServer(t)

	result, err := newEngine().Generate(residentialText, types.KindQuotation, types.TierSimple)
	require.NoError(t, err)
	payload, err := json.Marshal(result.Document.Payload())
	require.NoError(t, err)

	w := do(t, h, http.MethodPost, "/v1/validate/quotation", string(payload))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[ValidationResponse](t, w).Valid)

	w = do(t, h, http.MethodPost, "/v1/validate/quotation", `{"number": 12}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[ValidationResponse](t, w)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Errors)

	w = do(t, h, http.MethodPost, "/v1/validate/invoice", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, withProviders(), withRateLimit(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/v1/generate", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	}))
	body := types.OrchestrateRequest{Prompt: residentialText, Kind: "quotation"}

	w := do(t, h, http.MethodPost, "/v1/generate", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(t, h, http.MethodPost, "/v1/generate", body)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	// other endpoints are unaffected
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
}
