package editorial

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"marquee/internal/content"
	"marquee/internal/logging"
	"marquee/internal/services/webflow"
)

var outletTitler = cases.Title(language.English)

// PressArticle is an imported press piece written to the press collection.
type PressArticle struct {
	ItemID      string `json:"item_id"`
	Title       string `json:"title"`
	Outlet      string `json:"outlet"`
	Slug        string `json:"slug"`
	ShowID      string `json:"show_id,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	Published   bool   `json:"published"`
}

// ImportPress pulls a press article from the web, cleans its body into CMS
// HTML, assigns show and category references, and creates the press item.
func (s *Service) ImportPress(ctx context.Context, articleURL string, publish bool) (*PressArticle, error) {
	articleURL = strings.TrimSpace(articleURL)
	if articleURL == "" {
		return nil, errors.New("import press: article url required")
	}
	if s.press == nil {
		return nil, errors.New("import press: web content extraction not configured")
	}
	if s.pressCollectionID == "" {
		return nil, errors.New("import press: press collection not configured")
	}

	extracted, err := s.press.GetContents(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}

	title := strings.TrimSpace(extracted.Title)
	if title == "" {
		title = "Untitled Article"
	}

	body, err := s.ai.CleanArticleHTML(ctx, extracted.Text)
	if err != nil {
		s.logger.Warn("model cleanup failed, using plain formatting", logging.Error(err))
		body = fallbackArticleHTML(extracted.Text)
	}

	shows, err := s.refOptions(ctx, s.showsCollectionID)
	if err != nil {
		return nil, err
	}
	categories, err := s.refOptions(ctx, s.categoriesCollectionID)
	if err != nil {
		return nil, err
	}
	choice, err := s.ai.ChooseShowAndCategory(ctx, title, outletFromURL(articleURL), body, shows, categories)
	if err != nil {
		return nil, fmt.Errorf("assign metadata: %w", err)
	}

	slug := content.Slugify(title)
	fieldData := webflow.FieldData{
		"name":          title,
		"slug":          slug,
		"title":         title,
		"outlet":        outletFromURL(articleURL),
		"body-text":     body,
		"read-more-url": articleURL,
	}
	if extracted.Author != "" {
		fieldData["author"] = extracted.Author
	}
	publishDate := normalizePublishDate(extracted.PublishedDate)
	if publishDate != "" {
		fieldData["publish-date"] = publishDate
	}
	if extracted.Image != "" {
		fieldData["preview-image"] = webflow.ImageRef{URL: extracted.Image}
		fieldData["main-image"] = webflow.ImageRef{URL: extracted.Image}
	}
	if choice.ShowID != "" {
		fieldData["show"] = choice.ShowID
	}
	if choice.CategoryID != "" {
		fieldData["category"] = choice.CategoryID
	}

	item, err := s.cms.CreateItem(ctx, s.pressCollectionID, webflow.NewItem{
		IsDraft:    !publish,
		IsArchived: false,
		FieldData:  fieldData,
	})
	if err != nil {
		return nil, fmt.Errorf("create press item: %w", err)
	}

	article := &PressArticle{
		ItemID:      item.ID,
		Title:       title,
		Outlet:      outletFromURL(articleURL),
		Slug:        slug,
		ShowID:      choice.ShowID,
		CategoryID:  choice.CategoryID,
		PublishDate: publishDate,
	}
	if publish && item.ID != "" {
		if err := s.cms.PublishItems(ctx, s.pressCollectionID, []string{item.ID}); err != nil {
			s.logger.Warn("publishing press item failed", logging.Error(err))
		} else {
			article.Published = true
		}
	}
	return article, nil
}

// outletFromURL derives a display outlet name from the article's host.
func outletFromURL(articleURL string) string {
	parsed, err := url.Parse(articleURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	return outletTitler.String(host)
}

// normalizePublishDate converts common date formats to RFC 3339, passing
// through values it cannot parse.
func normalizePublishDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format(time.RFC3339)
		}
	}
	return raw
}

// fallbackArticleHTML wraps the scraped text in paragraph tags when the model
// cleanup is unavailable. Short fragments and bare links are dropped.
func fallbackArticleHTML(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 20 {
			continue
		}
		if strings.HasPrefix(line, "http") || strings.HasPrefix(line, "www") ||
			strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		parts = append(parts, "<p>"+line+"</p>")
	}
	return strings.Join(parts, "\n")
}
