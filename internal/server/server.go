// Package server provides the HTTP REST API for document synthesis.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/docsynth/internal/db"
	"github.com/jonathan/docsynth/internal/llm"
	"github.com/jonathan/docsynth/internal/orchestrator"
	"github.com/jonathan/docsynth/internal/sequence"
	"github.com/jonathan/docsynth/internal/server/ratelimit"
	"github.com/jonathan/docsynth/internal/synthesis"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Store persists generated documents. *db.DB satisfies it.
type Store interface {
	SaveDocument(ctx context.Context, in db.SaveDocumentInput) (*db.StoredDocument, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*db.StoredDocument, error)
	ListDocuments(ctx context.Context, opts db.ListOptions) ([]db.DocumentSummary, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	engine       *synthesis.Engine
	orchestrator *orchestrator.Orchestrator
	store        Store
	sequence     sequence.Source
	credentials  llm.Credentials
	llmConfig    *llm.Config
	rateLimiter  *ratelimit.Limiter
	now          func() time.Time
}

// Config holds server configuration. Engine is required; a nil Orchestrator disables
// POST /v1/generate and a nil Store disables persistence.
type Config struct {
	Port         int
	Engine       *synthesis.Engine
	Orchestrator *orchestrator.Orchestrator
	Store        Store
	// Sequence numbers quotations; nil uses an in-memory counter
	Sequence    sequence.Source
	Credentials llm.Credentials
	LLMConfig   *llm.Config
	// RateLimit nil means ratelimit.DefaultConfig
	RateLimit *ratelimit.Config
	Now       func() time.Time
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("server requires a synthesis engine")
	}

	s := &Server{
		engine:       cfg.Engine,
		orchestrator: cfg.Orchestrator,
		store:        cfg.Store,
		sequence:     cfg.Sequence,
		credentials:  cfg.Credentials,
		llmConfig:    cfg.LLMConfig,
		rateLimiter:  ratelimit.NewLimiter(cfg.RateLimit),
		now:          cfg.Now,
	}
	if s.sequence == nil {
		s.sequence = sequence.NewMemory()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // a full provider chain can take minutes
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /v1/documents", s.handleCreateDocument)
	mux.HandleFunc("GET /v1/documents", s.handleListDocuments)
	mux.HandleFunc("GET /v1/documents/{id}", s.handleGetDocument)
	mux.HandleFunc("POST /v1/generate", s.handleGenerate)
	mux.HandleFunc("POST /v1/validate/{kind}", s.handleValidate)

	mux.HandleFunc("GET /v1/providers", s.handleProviders)
	mux.HandleFunc("GET /v1/catalog/services", s.handleCatalogServices)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// Close stops background work without serving; used when Start is never called
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS answers preflight requests and allows any origin
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests over the client's budget for the endpoint with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w.Header(), info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request and its status and latency
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d %s in %v", r.Method, r.URL.Path, rec.status, r.RemoteAddr, time.Since(start))
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status with HTTPStatus and writes it
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] %s %s failed: %v", r.Method, r.URL.Path, err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeBody decodes a bounded JSON body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrBadBody{Cause: err}
	}
	return nil
}

// clientID keys rate limits by the remote IP
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(h http.Header, info ratelimit.Info) {
	if info.Limit <= 0 {
		return
	}
	h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
}

// rateLimitResponse writes the 429 body. Retry-After is rounded up to whole seconds.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	body := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		body["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(math.Ceil(info.RetryAfter.Seconds()))
		body["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	log.Printf("[rate-limit] %s %s %s over limit %d", clientID(r), r.Method, r.URL.Path, info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, body)
}
