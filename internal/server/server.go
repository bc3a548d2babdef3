// Package server exposes the editorial HTTP API: content generation and
// editing, auto-linking against the search index, stock image search, draft
// management, and index rebuilds.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"marquee/internal/config"
	"marquee/internal/content"
	"marquee/internal/editorial"
	"marquee/internal/indexer"
	"marquee/internal/logging"
	"marquee/internal/searchindex"
)

const maxRequestBody = 4 << 20

// EditorialService covers the content operations the API exposes.
// *editorial.Service satisfies it.
type EditorialService interface {
	Generate(ctx context.Context, prompt, featuredImageURL string) (*editorial.GeneratedContent, error)
	Edit(ctx context.Context, title, subtitle, body, editPrompt string) (*content.EditResult, error)
	CreateDraft(ctx context.Context, req editorial.DraftRequest) (*editorial.Draft, error)
	PublishDraft(ctx context.Context, itemID string) error
	Authors(ctx context.Context) ([]editorial.Ref, error)
	Categories(ctx context.Context) ([]editorial.Ref, error)
	GenerateBanner(ctx context.Context, title, body string, records []searchindex.Record) (*editorial.Banner, error)
	SearchImages(ctx context.Context, title, body string) (*editorial.ImageSearch, error)
	ImportPress(ctx context.Context, articleURL string, publish bool) (*editorial.PressArticle, error)
}

// IndexRebuilder triggers a search index rebuild. *indexer.Builder satisfies it.
type IndexRebuilder interface {
	Rebuild(ctx context.Context) (*indexer.Result, error)
}

// SnapshotSource reads the current search index. *searchindex.Store satisfies it.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*searchindex.Snapshot, error)
}

// Server is the editorial HTTP API server.
type Server struct {
	bind      string
	logger    *slog.Logger
	editorial EditorialService
	index     SnapshotSource
	rebuilder IndexRebuilder

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New wires the API routes. The rebuilder may be nil, in which case the
// rebuild endpoint reports the feature as unavailable.
func New(cfg *config.Config, editorialSvc EditorialService, index SnapshotSource, rebuilder IndexRebuilder, logger *slog.Logger) (*Server, error) {
	if editorialSvc == nil {
		return nil, errors.New("editorial service required")
	}
	if index == nil {
		return nil, errors.New("search index store required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		bind:      strings.TrimSpace(cfg.Server.Bind),
		logger:    logging.NewComponentLogger(logger, "api-server"),
		editorial: editorialSvc,
		index:     index,
		rebuilder: rebuilder,
	}
	if srv.bind == "" {
		return nil, errors.New("server bind address required")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/api/authors", srv.handleAuthors)
	mux.HandleFunc("/api/categories", srv.handleCategories)
	mux.HandleFunc("/generate", srv.handleGenerate)
	mux.HandleFunc("/edit", srv.handleEdit)
	mux.HandleFunc("/auto-link", srv.handleAutoLink)
	mux.HandleFunc("/generate-banner", srv.handleGenerateBanner)
	mux.HandleFunc("/search-images", srv.handleSearchImages)
	mux.HandleFunc("/create-draft", srv.handleCreateDraft)
	mux.HandleFunc("/publish-draft", srv.handlePublishDraft)
	mux.HandleFunc("/import-press", srv.handleImportPress)
	mux.HandleFunc("/rebuild-index", srv.handleRebuildIndex)

	srv.handler = srv.withRequestID(mux)
	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving and shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// withRequestID tags each request with a correlation id and logs completion.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r.WithContext(ctx))

		s.logger.Info("request handled",
			logging.String(logging.FieldRequestID, requestID),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", recorder.status),
			logging.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{OK: false, Error: message})
}

// decodeBody parses a JSON request body into target, with a size cap.
func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
