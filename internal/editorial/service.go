// Package editorial orchestrates the content pipeline: article generation,
// edit application, draft creation in the CMS, and press-article import.
package editorial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"marquee/internal/config"
	"marquee/internal/content"
	"marquee/internal/logging"
	"marquee/internal/notifications"
	"marquee/internal/services/exa"
	"marquee/internal/services/openai"
	"marquee/internal/services/unsplash"
	"marquee/internal/services/webflow"
)

const (
	currentShowsLimit    = 5
	showDescriptionRunes = 200
)

// Service wires the CMS, model, and image clients into the editorial
// operations the HTTP API and CLI expose.
type Service struct {
	cms      *webflow.Client
	ai       *openai.Client
	stock    *unsplash.Client
	press    *exa.Client
	notifier notifications.Service
	logger   *slog.Logger

	blogCollectionID       string
	pressCollectionID      string
	showsCollectionID      string
	authorsCollectionID    string
	categoriesCollectionID string
	siteBaseURL            string

	now func() time.Time
}

// Option adjusts Service construction.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds the editorial service. The stock and press clients may be nil
// when their APIs are not configured; the dependent features degrade
// gracefully.
func New(cfg *config.Config, cms *webflow.Client, ai *openai.Client, stock *unsplash.Client, press *exa.Client, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	s := &Service{
		cms:                    cms,
		ai:                     ai,
		stock:                  stock,
		press:                  press,
		notifier:               notifier,
		logger:                 logging.NewComponentLogger(logger, "editorial"),
		blogCollectionID:       cfg.Webflow.BlogCollectionID,
		pressCollectionID:      cfg.Webflow.PressCollectionID,
		showsCollectionID:      cfg.Webflow.ShowsCollectionID,
		authorsCollectionID:    cfg.Webflow.AuthorsCollectionID,
		categoriesCollectionID: cfg.Webflow.CategoriesCollectionID,
		siteBaseURL:            strings.TrimRight(cfg.Index.SiteBaseURL, "/"),
		now:                    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratedContent is a generated article awaiting review. Nothing is written
// to the CMS until the draft is explicitly created.
type GeneratedContent struct {
	Title         string            `json:"title"`
	Subtitle      string            `json:"subtitle"`
	Body          string            `json:"body"`
	FeaturedImage *webflow.ImageRef `json:"featured_image,omitempty"`
}

// Generate produces an article for the prompt and resolves a featured image.
// When featuredImageURL is set, that image is uploaded to the CMS; otherwise a
// stock photo is searched. Image failures are not fatal.
func (s *Service) Generate(ctx context.Context, prompt, featuredImageURL string) (*GeneratedContent, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("generate: prompt required")
	}

	extraContext := s.currentShowsContext(ctx) + s.webSearchContext(ctx, prompt)
	article, err := s.ai.GenerateArticle(ctx, prompt, extraContext)
	if err != nil {
		return nil, fmt.Errorf("generate article: %w", err)
	}

	result := &GeneratedContent{
		Title:    strings.TrimSpace(article.Title),
		Subtitle: strings.TrimSpace(article.Subtitle),
		Body:     strings.TrimSpace(article.Body),
	}
	result.FeaturedImage = s.resolveFeaturedImage(ctx, result.Title, result.Body, featuredImageURL)
	return result, nil
}

// Edit asks the model for a structured edit plan and applies it locally, so
// unchanged content passes through byte-identical.
func (s *Service) Edit(ctx context.Context, title, subtitle, body, editPrompt string) (*content.EditResult, error) {
	if strings.TrimSpace(editPrompt) == "" {
		return nil, errors.New("edit: edit prompt required")
	}
	plan, err := s.ai.PlanEdit(ctx, title, subtitle, body, editPrompt)
	if err != nil {
		return nil, fmt.Errorf("plan edit: %w", err)
	}
	result := content.ApplyEditPlan(*plan, title, subtitle, body)
	s.logger.Info("edit applied",
		logging.Int("changes_applied", result.ChangesApplied),
		logging.Int("changes_planned", len(plan.BodyChanges)))
	return &result, nil
}

// resolveFeaturedImage uploads the explicit image URL when given, otherwise
// searches stock photos. Returns nil when no usable image is found.
func (s *Service) resolveFeaturedImage(ctx context.Context, title, body, featuredImageURL string) *webflow.ImageRef {
	if featuredImageURL = strings.TrimSpace(featuredImageURL); featuredImageURL != "" {
		ref, err := s.cms.UploadImageFromURL(ctx, featuredImageURL, "featured.jpg")
		if err == nil {
			return ref
		}
		s.logger.Warn("featured image upload failed, falling back to stock search",
			logging.Error(err))
	}

	if s.stock == nil {
		return nil
	}

	query := s.ai.StockQuery(ctx, title, content.StripTags(body))
	photos, err := s.stock.Search(ctx, query, title)
	if err != nil {
		s.logger.Warn("stock photo search failed", logging.Error(err))
		return nil
	}
	photo, ok := unsplash.PickFirst(unsplash.FilterTypography(photos, 1))
	if !ok || photo.URL == "" {
		return nil
	}

	filename := "unsplash-" + photo.ID + ".jpg"
	ref, err := s.cms.UploadImageFromURL(ctx, photo.URL, filename)
	if err != nil {
		s.logger.Warn("stock photo upload failed", logging.Error(err))
		return nil
	}
	if photo.Alt != "" {
		ref.Alt = photo.Alt
	}
	return ref
}

// CurrentShow is a show still running as of today.
type CurrentShow struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ClosingDate string `json:"closing_date"`
	Description string `json:"description"`
}

// CurrentShows lists shows whose closing date is after today, up to five.
// Shows with missing or unparseable closing dates are skipped.
func (s *Service) CurrentShows(ctx context.Context) ([]CurrentShow, error) {
	if s.showsCollectionID == "" {
		return nil, nil
	}
	items, err := s.cms.ListAllItems(ctx, s.showsCollectionID)
	if err != nil {
		return nil, fmt.Errorf("fetch shows: %w", err)
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	shows := make([]CurrentShow, 0, currentShowsLimit)
	for _, item := range items {
		closingRaw := item.FieldData.String("closing")
		if closingRaw == "" {
			continue
		}
		datePart, _, _ := strings.Cut(closingRaw, "T")
		closing, err := time.Parse("2006-01-02", datePart)
		if err != nil {
			continue
		}
		if !closing.After(today) {
			continue
		}

		description := item.FieldData.String("description")
		if description != "" {
			description = content.TruncateRunes(description, showDescriptionRunes) + "..."
		}
		shows = append(shows, CurrentShow{
			Name:        item.FieldData.String("name"),
			Slug:        item.FieldData.String("slug"),
			ClosingDate: closingRaw,
			Description: description,
		})
		if len(shows) == currentShowsLimit {
			break
		}
	}
	return shows, nil
}

// currentShowsContext renders the running shows as extra prompt context with
// linking rules. Failures are logged and produce empty context rather than
// blocking generation.
func (s *Service) currentShowsContext(ctx context.Context) string {
	shows, err := s.CurrentShows(ctx)
	if err != nil {
		s.logger.Warn("fetching current shows for prompt context failed", logging.Error(err))
		return ""
	}
	if len(shows) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString("\n\nCURRENTLY RUNNING SHOWS:\n")
	for _, show := range shows {
		fmt.Fprintf(&builder, "- %s (closes %s) - slug: %s\n", show.Name, show.ClosingDate, show.Slug)
	}
	builder.WriteString("\nLINKING RULES:\n")
	fmt.Fprintf(&builder, "- ONLY create show links for the shows listed above, using %s/shows/{slug}\n", s.siteBaseURL)
	builder.WriteString("- DO NOT make up show slugs or links\n")
	builder.WriteString("- If a show is not in the list above, do not link it to this site\n")
	return builder.String()
}

const webResultRunes = 2000

// webSearchContext enriches the generation prompt with fresh web results for
// the topic. Skipped silently when web search is not configured or fails.
func (s *Service) webSearchContext(ctx context.Context, topic string) string {
	if s.press == nil {
		return ""
	}
	results, err := s.press.SearchAndContents(ctx, topic, 5)
	if err != nil {
		s.logger.Warn("web search for prompt context failed", logging.Error(err))
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString("\n\nWEB SEARCH RESULTS FOR CONTEXT:\n")
	for _, result := range results {
		fmt.Fprintf(&builder, "\nSource: %s (%s)\n%s\n",
			result.Title, result.URL, content.TruncateRunes(result.Text, webResultRunes))
	}
	return builder.String()
}
