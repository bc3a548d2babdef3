package editorial

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"marquee/internal/content"
	"marquee/internal/logging"
	"marquee/internal/services/webflow"
)

// DraftRequest carries the reviewed article plus optional CMS metadata.
type DraftRequest struct {
	Title           string            `json:"title"`
	Subtitle        string            `json:"subtitle"`
	Body            string            `json:"body"`
	AuthorID        string            `json:"author_id"`
	CategoryID      string            `json:"category_id"`
	FeaturedImage   *webflow.ImageRef `json:"featured_image"`
	Publish         bool              `json:"publish"`
	PublishDate     string            `json:"publish_date"`
	PreviousItemID  string            `json:"previous_item_id"`
	MetaDescription string            `json:"meta_description"`

	BannerTitle       string `json:"banner_title"`
	BannerDescription string `json:"banner_description"`
	BannerImage       string `json:"banner_image"`
	BannerLink        string `json:"banner_link"`
	BannerCategory    string `json:"banner_category"`
}

// Draft is the created CMS item.
type Draft struct {
	ItemID         string `json:"item_id"`
	Slug           string `json:"slug"`
	Published      bool   `json:"published"`
	PublishWarning string `json:"publish_warning,omitempty"`
}

// CreateDraft writes the article to the blog collection. A previous draft is
// deleted best-effort first so re-submissions replace rather than pile up.
// When publish is requested, a publish failure is reported as a warning on the
// returned draft, not an error.
func (s *Service) CreateDraft(ctx context.Context, req DraftRequest) (*Draft, error) {
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if title == "" || body == "" {
		return nil, errors.New("create draft: title and body required")
	}
	if s.blogCollectionID == "" {
		return nil, errors.New("create draft: blog collection not configured")
	}

	if previous := strings.TrimSpace(req.PreviousItemID); previous != "" {
		if err := s.cms.DeleteItem(ctx, s.blogCollectionID, previous); err != nil {
			s.logger.Warn("deleting previous draft failed",
				logging.String("item_id", previous),
				logging.Error(err))
		}
	}

	slug := content.Slugify(title)
	publishDate := strings.TrimSpace(req.PublishDate)
	if publishDate == "" {
		publishDate = s.now().UTC().Format("2006-01-02T00:00:00.000Z")
	}

	fieldData := webflow.FieldData{
		"name":                       title,
		"slug":                       slug,
		"subtitle-small-description": strings.TrimSpace(req.Subtitle),
		"body-copy":                  body,
		"publish-date":               publishDate,
		"reading-time-in-minutes":    content.ReadingTimeMinutes(body),
	}
	if req.FeaturedImage != nil {
		fieldData["featured-image"] = req.FeaturedImage
	}
	meta := strings.TrimSpace(req.MetaDescription)
	if meta == "" {
		generated, err := s.ai.MetaDescription(ctx, title, body)
		if err != nil {
			s.logger.Warn("meta description generation failed", logging.Error(err))
		} else {
			meta = generated
		}
	}
	if meta != "" {
		fieldData["meta-description"] = meta
	}
	if req.AuthorID != "" {
		fieldData["author"] = req.AuthorID
	}
	if req.CategoryID != "" {
		fieldData["category"] = req.CategoryID
	}
	if req.BannerTitle != "" {
		fieldData["banner-title"] = req.BannerTitle
	}
	if req.BannerDescription != "" {
		fieldData["banner-description"] = req.BannerDescription
	}
	if req.BannerLink != "" {
		fieldData["banner-link"] = req.BannerLink
	}
	if req.BannerImage != "" {
		fieldData["banner-image"] = webflow.ImageRef{URL: req.BannerImage}
	}
	if req.BannerCategory != "" {
		fieldData["banner-category"] = capitalize(req.BannerCategory)
	}

	item, err := s.cms.CreateItem(ctx, s.blogCollectionID, webflow.NewItem{
		IsDraft:    !req.Publish,
		IsArchived: false,
		FieldData:  fieldData,
	})
	if err != nil {
		return nil, fmt.Errorf("create draft item: %w", err)
	}

	draft := &Draft{ItemID: item.ID, Slug: slug}
	if req.Publish && item.ID != "" {
		if err := s.cms.PublishItems(ctx, s.blogCollectionID, []string{item.ID}); err != nil {
			draft.PublishWarning = err.Error()
			s.logger.Warn("publishing new item failed", logging.Error(err))
		} else {
			draft.Published = true
		}
	}

	s.notifyDraft(ctx, title, draft)
	return draft, nil
}

// PublishDraft pushes an existing draft item live.
func (s *Service) PublishDraft(ctx context.Context, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return errors.New("publish draft: item id required")
	}
	if s.blogCollectionID == "" {
		return errors.New("publish draft: blog collection not configured")
	}
	if err := s.cms.PublishItems(ctx, s.blogCollectionID, []string{itemID}); err != nil {
		return fmt.Errorf("publish draft: %w", err)
	}
	if err := s.notifier.NotifyArticlePublished(ctx, "", itemID); err != nil {
		s.logger.Warn("publish notification failed", logging.Error(err))
	}
	return nil
}

func (s *Service) notifyDraft(ctx context.Context, title string, draft *Draft) {
	var err error
	if draft.Published {
		err = s.notifier.NotifyArticlePublished(ctx, title, draft.ItemID)
	} else {
		err = s.notifier.NotifyDraftCreated(ctx, title, draft.ItemID)
	}
	if err != nil {
		s.logger.Warn("draft notification failed", logging.Error(err))
	}
}

// capitalize upper-cases the first rune and lower-cases the rest, matching the
// CMS's banner category option labels.
func capitalize(text string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(text)))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
