package synthesis

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/documents"
	"github.com/jonathan/docsynth/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
}

func newEngine() *Engine {
	return New(catalog.Default(), WithClock(fixedClock))
}

func TestGenerate_ResidentialQuotationScenario(t *testing.T) {
	e := newEngine()

	res, err := e.Generate("residential electrical installation for a 150 m² house", types.KindQuotation, types.TierSimple)
	require.NoError(t, err)

	assert.Equal(t, types.ServiceElectricalResidential, res.Service)
	require.NotNil(t, res.Entities.AreaM2)
	assert.Equal(t, 150.0, *res.Entities.AreaM2)

	q := res.Document.Quotation
	require.NotNil(t, q)
	assert.NotEmpty(t, q.Items)
	for _, item := range q.Items {
		assert.Greater(t, item.Quantity, 0.0)
	}
	assert.Equal(t, catalog.RoundCents(q.Subtotal+q.Tax), q.Total)
	assert.Equal(t, "2026-10-14", q.IssueDate)
	assert.Less(t, utf8.RuneCountInString(res.Summary), 200)
	assert.Contains(t, res.Summary, "3593.10")
}

func TestGenerate_NoKeywordComplexReport(t *testing.T) {
	e := newEngine()

	res, err := e.Generate("general consultation about pricing", types.KindReport, types.TierComplex)
	require.NoError(t, err)

	assert.Equal(t, types.ServiceElectricalResidential, res.Service)
	r := res.Document.Report
	require.NotNil(t, r)

	hasFinancial := false
	for _, s := range r.Sections {
		if strings.Contains(s.Title, "Financial Analysis") {
			hasFinancial = true
		}
	}
	assert.True(t, hasFinancial)
	assert.NotEmpty(t, r.Bibliography)
	require.NotNil(t, r.KPIs)
}

func TestGenerate_NoAreaUsesDefaults(t *testing.T) {
	e := newEngine()

	for _, kind := range []types.DocumentKind{types.KindQuotation, types.KindProject, types.KindReport} {
		res, err := e.Generate("need a quote for lighting", kind, types.TierSimple)
		require.NoError(t, err)
		assert.Nil(t, res.Entities.AreaM2)
		assert.NoError(t, res.Document.Check())
	}

	a, _ := e.Generate("need a quote for lighting", types.KindQuotation, types.TierSimple)
	b, _ := e.Generate("need a quote for lighting", types.KindQuotation, types.TierSimple)
	assert.Equal(t, a, b)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	e := newEngine()

	_, err := e.Generate("house", "memo", types.TierSimple)
	var invalid *types.InvalidRequestError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "kind", invalid.Field)

	_, err = e.Generate("house", types.KindQuotation, "gold")
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "tier", invalid.Field)
}

func TestGenerate_EmptyText(t *testing.T) {
	res, err := newEngine().Generate("", types.KindProject, types.TierComplex)
	require.NoError(t, err)
	require.NotNil(t, res.Document.Project)
	assert.NotEmpty(t, res.Document.Project.Schedule)
}

func TestGenerateWithContext_Numbering(t *testing.T) {
	e := newEngine()
	number := documents.FormatQuotationNumber(fixedClock(), 42)

	res, err := e.GenerateWithContext("pozo a tierra para bodega", types.KindQuotation, types.TierSimple,
		documents.Context{Number: number, Client: "Bodega Sur"})
	require.NoError(t, err)

	assert.Equal(t, types.ServiceGrounding, res.Service)
	assert.Equal(t, "COT-20261014-0042", res.Document.Quotation.Number)
	assert.Equal(t, "Bodega Sur", res.Document.Quotation.Client)
}

func TestGenerate_DocumentRoundTrip(t *testing.T) {
	e := newEngine()
	for _, kind := range []types.DocumentKind{types.KindQuotation, types.KindProject, types.KindReport} {
		for _, tier := range []types.Tier{types.TierSimple, types.TierComplex} {
			res, err := e.Generate("edificio de 3 pisos y 420 m2 con sistema contraincendios", kind, tier)
			require.NoError(t, err)

			jsonBytes, err := json.Marshal(res.Document)
			require.NoError(t, err)

			var decoded types.Document
			require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
			again, err := json.Marshal(decoded)
			require.NoError(t, err)
			assert.JSONEq(t, string(jsonBytes), string(again))
		}
	}
}

func TestGenerate_ConcurrentUse(t *testing.T) {
	e := newEngine()
	want, err := e.Generate("domótica knx para departamento de 120 m2", types.KindReport, types.TierComplex)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Generate("domótica knx para departamento de 120 m2", types.KindReport, types.TierComplex)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestSummarize_Truncates(t *testing.T) {
	doc := types.NewQuotation(types.QuotationDocument{
		Number:      "COT-1",
		ServiceName: strings.Repeat("Very long service name ", 20),
		Currency:    "USD",
	})
	s := Summarize(doc)
	assert.Equal(t, maxSummaryLen, utf8.RuneCountInString(s))
	assert.True(t, strings.HasSuffix(s, "..."))
}

func TestGenerateRequest(t *testing.T) {
	e := newEngine()

	res, err := e.GenerateRequest(types.GenerateRequest{
		Text:   "cotización de pozo a tierra para bodega",
		Kind:   "quotation",
		Client: "Ferretería Central",
	}, documents.Context{})
	require.NoError(t, err)

	require.NotNil(t, res.Document.Quotation)
	assert.Equal(t, types.TierSimple, res.Tier)
	assert.Equal(t, "Ferretería Central", res.Document.Quotation.Client)
}

func TestGenerateRequest_Invalid(t *testing.T) {
	e := newEngine()

	_, err := e.GenerateRequest(types.GenerateRequest{Text: "x", Kind: "invoice"}, documents.Context{})
	require.Error(t, err)

	var invalid *types.InvalidRequestError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "kind", invalid.Field)
	assert.Equal(t, "invoice", invalid.Value)
}
