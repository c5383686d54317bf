package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/docsynth/internal/db"
	"github.com/jonathan/docsynth/internal/documents"
	"github.com/jonathan/docsynth/internal/orchestrator"
	"github.com/jonathan/docsynth/internal/sequence"
	"github.com/jonathan/docsynth/internal/synthesis"
	"github.com/jonathan/docsynth/internal/types"
)

// DocumentResponse is a generated document, with its id when it was saved
type DocumentResponse struct {
	ID string `json:"id,omitempty"`
	synthesis.Result
}

// ListDocumentsResponse is one page of stored documents
type ListDocumentsResponse struct {
	Documents []db.DocumentSummary `json:"documents"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
}

// handleCreateDocument runs the deterministic engine. Quotations get the next number
// of the day; save=true persists the result.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, types.AsInvalidRequest(err))
		return
	}
	if req.Save && s.store == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "persistence"})
		return
	}

	now := s.now()
	dc := documents.Context{IssueDate: now}
	// previews keep the draft number so unsaved quotations leave no gaps in the sequence
	if req.Kind == string(types.KindQuotation) && req.Save {
		number, err := sequence.QuotationNumber(r.Context(), s.sequence, now)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		dc.Number = number
	}

	result, err := s.engine.GenerateRequest(req, dc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := DocumentResponse{Result: result}
	if !req.Save {
		s.jsonResponse(w, http.StatusOK, resp)
		return
	}

	stored, err := s.store.SaveDocument(r.Context(), db.SaveDocumentInput{
		Document: result.Document,
		Summary:  result.Summary,
		Provider: orchestrator.EngineProviderName,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.ID = stored.ID.String()
	s.jsonResponse(w, http.StatusCreated, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "persistence"})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.writeError(w, r, &types.InvalidRequestError{Field: "id", Value: idStr})
		return
	}

	stored, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if stored == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "document", ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, stored)
}

// handleListDocuments supports ?kind=, ?limit= and ?offset=
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "persistence"})
		return
	}

	q := r.URL.Query()
	var opts db.ListOptions
	if v := q.Get("kind"); v != "" {
		kind, err := types.ParseDocumentKind(v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Kind = kind
	}
	var err error
	if opts.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		s.writeError(w, r, err)
		return
	}

	docs, err := s.store.ListDocuments(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if docs == nil {
		docs = []db.DocumentSummary{}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = db.DefaultListLimit
	}
	s.jsonResponse(w, http.StatusOK, ListDocumentsResponse{
		Documents: docs,
		Limit:     min(limit, db.MaxListLimit),
		Offset:    max(opts.Offset, 0),
	})
}

// intParam parses an optional non-negative integer query parameter
func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, &types.InvalidRequestError{Field: name, Value: v}
	}
	return n, nil
}
