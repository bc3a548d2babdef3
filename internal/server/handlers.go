package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"marquee/internal/editorial"
	"marquee/internal/indexer"
	"marquee/internal/linker"
	"marquee/internal/logging"
	"marquee/internal/searchindex"
	"marquee/internal/services/unsplash"
)

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type healthResponse struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

type refListResponse struct {
	OK         bool            `json:"ok"`
	Authors    []editorial.Ref `json:"authors,omitempty"`
	Categories []editorial.Ref `json:"categories,omitempty"`
}

type generateResponse struct {
	OK      bool                        `json:"ok"`
	Content *editorial.GeneratedContent `json:"content"`
}

type editResponse struct {
	OK       bool   `json:"ok"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	Changes  int    `json:"changes_applied"`
}

type autoLinkResponse struct {
	OK      bool          `json:"ok"`
	Matches linker.Result `json:"matches"`
}

type bannerResponse struct {
	OK     bool              `json:"ok"`
	Banner *editorial.Banner `json:"banner"`
}

type imagesResponse struct {
	OK     bool             `json:"ok"`
	Query  string           `json:"query"`
	Images []unsplash.Photo `json:"images"`
}

type draftResponse struct {
	OK   bool             `json:"ok"`
	Item *editorial.Draft `json:"item"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type pressResponse struct {
	OK      bool                    `json:"ok"`
	Article *editorial.PressArticle `json:"article"`
}

type rebuildResponse struct {
	OK       bool           `json:"ok"`
	Records  int            `json:"records"`
	Counts   map[string]int `json:"counts"`
	Duration string         `json:"duration"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, healthResponse{OK: true, Time: time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleAuthors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	authors, err := s.editorial.Authors(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, refListResponse{OK: true, Authors: authors})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	categories, err := s.editorial.Categories(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, refListResponse{OK: true, Categories: categories})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Prompt           string `json:"prompt"`
		FeaturedImageURL string `json:"featured_image_url"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'prompt'")
		return
	}

	result, err := s.editorial.Generate(r.Context(), req.Prompt, req.FeaturedImageURL)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, generateResponse{OK: true, Content: result})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Title      string `json:"title"`
		Subtitle   string `json:"subtitle"`
		Body       string `json:"body"`
		EditPrompt string `json:"edit_prompt"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.EditPrompt) == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'edit_prompt'")
		return
	}

	result, err := s.editorial.Edit(r.Context(), req.Title, req.Subtitle, req.Body, req.EditPrompt)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, editResponse{
		OK:       true,
		Title:    result.Title,
		Subtitle: result.Subtitle,
		Body:     result.Body,
		Changes:  result.ChangesApplied,
	})
}

func (s *Server) handleAutoLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Body) == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'title' or 'body'")
		return
	}

	snapshot, err := s.index.Snapshot(r.Context())
	if err != nil {
		if errors.Is(err, searchindex.ErrIndexUnavailable) {
			s.writeError(w, http.StatusInternalServerError, "search index not built yet; run an index rebuild first")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := linker.Analyze(req.Title, req.Body, snapshot.Records)
	s.writeJSON(w, http.StatusOK, autoLinkResponse{OK: true, Matches: result})
}

func (s *Server) handleGenerateBanner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'title' or 'body'")
		return
	}

	snapshot, err := s.index.Snapshot(r.Context())
	if err != nil {
		if errors.Is(err, searchindex.ErrIndexUnavailable) {
			s.writeError(w, http.StatusInternalServerError, "search index not built yet; run an index rebuild first")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	banner, err := s.editorial.GenerateBanner(r.Context(), req.Title, req.Body, snapshot.Records)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, bannerResponse{OK: true, Banner: banner})
}

func (s *Server) handleSearchImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'title'")
		return
	}

	result, err := s.editorial.SearchImages(r.Context(), req.Title, req.Body)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, imagesResponse{OK: true, Query: result.Query, Images: result.Images})
}

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req editorial.DraftRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'title' or 'body'")
		return
	}

	draft, err := s.editorial.CreateDraft(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, draftResponse{OK: true, Item: draft})
}

func (s *Server) handlePublishDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.ItemID) == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'item_id'")
		return
	}

	if err := s.editorial.PublishDraft(r.Context(), req.ItemID); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleImportPress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		URL     string `json:"url"`
		Publish bool   `json:"publish"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'url'")
		return
	}

	article, err := s.editorial.ImportPress(r.Context(), req.URL, req.Publish)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, pressResponse{OK: true, Article: article})
}

func (s *Server) handleRebuildIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.rebuilder == nil {
		s.writeError(w, http.StatusServiceUnavailable, "index rebuild not configured")
		return
	}

	result, err := s.rebuilder.Rebuild(r.Context())
	if err != nil {
		if errors.Is(err, indexer.ErrRebuildInProgress) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("index rebuild requested via api", logging.Int("records", result.Records))
	s.writeJSON(w, http.StatusOK, rebuildResponse{
		OK:       true,
		Records:  result.Records,
		Counts:   result.Counts,
		Duration: result.Duration.Round(time.Millisecond).String(),
	})
}
