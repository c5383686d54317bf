package server

import (
	"net/http"

	"github.com/jonathan/docsynth/internal/db"
	"github.com/jonathan/docsynth/internal/synthesis"
	"github.com/jonathan/docsynth/internal/types"
)

// GenerateResponse is the orchestrator outcome, with the stored id when ?save=true
type GenerateResponse struct {
	DocumentID string `json:"document_id,omitempty"`
	types.OrchestrateResponse
}

// handleGenerate walks the provider chain. Provider failures never surface as errors:
// the response carries the attempt ledger and, at worst, the engine document.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "provider orchestration"})
		return
	}

	var req types.OrchestrateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	save := r.URL.Query().Get("save") == "true"
	if save && s.store == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "persistence"})
		return
	}

	result, err := s.orchestrator.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := GenerateResponse{OrchestrateResponse: result}
	if save && result.Document != nil {
		stored, err := s.store.SaveDocument(r.Context(), db.SaveDocumentInput{
			Document: *result.Document,
			Summary:  synthesis.Summarize(*result.Document),
			Provider: result.ProviderUsed,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.DocumentID = stored.ID.String()
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
