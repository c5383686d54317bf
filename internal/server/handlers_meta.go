package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/docsynth/internal/llm"
	"github.com/jonathan/docsynth/internal/orchestrator"
	"github.com/jonathan/docsynth/internal/schemas"
	"github.com/jonathan/docsynth/internal/types"
)

// ProviderInfo describes one known provider
type ProviderInfo struct {
	types.ProviderDescriptor
	// Configured is true when a credential is present
	Configured bool   `json:"configured"`
	EnvVar     string `json:"env_var"`
}

// ProvidersResponse is the body of GET /v1/providers
type ProvidersResponse struct {
	Providers []ProviderInfo             `json:"providers"`
	Chain     *orchestrator.Status       `json:"chain,omitempty"`
	Probe     []orchestrator.ProbeResult `json:"probe,omitempty"`
}

// ServiceInfo is the public view of a catalog service
type ServiceInfo struct {
	Category  types.ServiceCategory `json:"category"`
	Code      string                `json:"code"`
	Name      string                `json:"name"`
	Standards string                `json:"standards"`
	Fields    []types.EntityField   `json:"fields"`
	Items     int                   `json:"items"`
}

// ServicesResponse is the body of GET /v1/catalog/services
type ServicesResponse struct {
	Currency string        `json:"currency"`
	TaxRate  float64       `json:"tax_rate"`
	Services []ServiceInfo `json:"services"`
}

// ValidationResponse is the body of POST /v1/validate/{kind}
type ValidationResponse struct {
	Valid  bool             `json:"valid"`
	Errors []ValidationItem `json:"errors,omitempty"`
}

// ValidationItem is one schema violation
type ValidationItem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleProviders lists every known provider; ?probe=true pings the configured chain
func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	all := llm.AllDescriptors(s.llmConfig)
	resp := ProvidersResponse{Providers: make([]ProviderInfo, 0, len(all))}
	for _, d := range all {
		_, ok := s.credentials[d.Kind]
		resp.Providers = append(resp.Providers, ProviderInfo{
			ProviderDescriptor: d,
			Configured:         ok,
			EnvVar:             llm.EnvVar(d.Kind),
		})
	}

	if s.orchestrator != nil {
		status := s.orchestrator.Status()
		resp.Chain = &status
		if r.URL.Query().Get("probe") == "true" {
			results, err := s.orchestrator.Probe(r.Context())
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			resp.Probe = results
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleCatalogServices(w http.ResponseWriter, _ *http.Request) {
	cat := s.engine.Catalog()
	services := cat.Services()
	resp := ServicesResponse{
		Currency: cat.Currency(),
		TaxRate:  cat.TaxRate(),
		Services: make([]ServiceInfo, 0, len(services)),
	}
	for _, svc := range services {
		resp.Services = append(resp.Services, ServiceInfo{
			Category:  svc.Category,
			Code:      svc.Code,
			Name:      svc.Name,
			Standards: svc.Standards,
			Fields:    svc.Fields(),
			Items:     len(svc.Items),
		})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleValidate checks a bare document payload against the schema for {kind}
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	kind, err := types.ParseDocumentKind(r.PathValue("kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, &ErrBadBody{Cause: err})
		return
	}

	err = schemas.ValidateDocument(kind, body)
	var verr *schemas.ValidationError
	switch {
	case err == nil:
		s.jsonResponse(w, http.StatusOK, ValidationResponse{Valid: true})
	case errors.As(err, &verr):
		resp := ValidationResponse{Errors: make([]ValidationItem, 0, len(verr.Errors))}
		for _, fe := range verr.Errors {
			resp.Errors = append(resp.Errors, ValidationItem{Field: fe.Field, Message: fe.Message})
		}
		s.jsonResponse(w, HTTPStatus(err), resp)
	default:
		s.writeError(w, r, err)
	}
}
