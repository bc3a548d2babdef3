package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marquee/internal/content"
)

// Article is generated blog content ready for editing or CMS storage.
type Article struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
}

// GenerateArticle produces a full article for the prompt. extraContext, when
// non-empty, is appended to the system prompt (current-shows listings and
// linking rules).
func (c *Client) GenerateArticle(ctx context.Context, prompt, extraContext string) (*Article, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("generate article: prompt required")
	}
	systemPrompt := articleSystemPrompt
	if extraContext != "" {
		systemPrompt += "\n" + extraContext
	}

	raw, err := c.CompleteJSON(ctx, c.cfg.Model, systemPrompt, prompt, 0.7)
	if err != nil {
		return nil, err
	}
	var article Article
	if err := DecodeModelJSON(raw, &article); err != nil {
		return nil, fmt.Errorf("generate article: parse payload: %w", err)
	}
	article.Title = strings.TrimSpace(article.Title)
	article.Subtitle = strings.TrimSpace(article.Subtitle)
	article.Body = strings.TrimSpace(article.Body)
	if article.Title == "" || article.Subtitle == "" || article.Body == "" {
		return nil, errors.New("generate article: response missing title, subtitle, or body")
	}
	return &article, nil
}

// PlanEdit asks the editing model for a structured diff applying editPrompt
// to the current content.
func (c *Client) PlanEdit(ctx context.Context, title, subtitle, body, editPrompt string) (*content.EditPlan, error) {
	editPrompt = strings.TrimSpace(editPrompt)
	if editPrompt == "" {
		return nil, errors.New("plan edit: edit prompt required")
	}

	userPrompt := fmt.Sprintf(editUserPromptFormat, editPrompt, title, subtitle, body)
	raw, err := c.CompleteJSON(ctx, c.cfg.EditModel, editSystemPrompt, userPrompt, 0)
	if err != nil {
		return nil, err
	}
	var plan content.EditPlan
	if err := DecodeModelJSON(raw, &plan); err != nil {
		return nil, fmt.Errorf("plan edit: parse payload: %w", err)
	}
	return &plan, nil
}

// stockQueryMaxLength caps queries passed to the image search API.
const stockQueryMaxLength = 100

// StockQuery condenses an article into a short stock photo search query,
// falling back to the title when the model response cannot be parsed.
func (c *Client) StockQuery(ctx context.Context, title, bodyPreview string) string {
	fallback := content.TruncateRunes(title, stockQueryMaxLength)
	userPrompt := "TITLE: " + title
	if bodyPreview != "" {
		userPrompt += "\n\nBODY PREVIEW: " + content.TruncateRunes(bodyPreview, 500)
	}

	raw, err := c.CompleteJSON(ctx, c.cfg.UtilityModel, stockQuerySystemPrompt, userPrompt, 0.7)
	if err != nil {
		return fallback
	}
	var payload struct {
		Q string `json:"q"`
	}
	if err := DecodeModelJSON(raw, &payload); err != nil {
		return fallback
	}
	query := strings.TrimSpace(payload.Q)
	if query == "" {
		return fallback
	}
	return content.TruncateRunes(query, stockQueryMaxLength)
}

// MetaDescription writes a 120-160 character SEO meta description for the
// article. Responses outside the length bounds are an error.
func (c *Client) MetaDescription(ctx context.Context, title, bodyHTML string) (string, error) {
	userPrompt := "TITLE:\n" + title + "\n\nBODY:\n" + bodyHTML
	raw, err := c.CompleteJSON(ctx, c.cfg.UtilityModel, metaDescriptionSystemPrompt, userPrompt, 0.5)
	if err != nil {
		return "", err
	}
	var payload struct {
		Meta string `json:"meta"`
	}
	if err := DecodeModelJSON(raw, &payload); err != nil {
		return "", fmt.Errorf("meta description: parse payload: %w", err)
	}
	meta := strings.TrimSpace(payload.Meta)
	if length := len(meta); length < 120 || length > 160 {
		return "", fmt.Errorf("meta description: generated length %d outside 120-160 chars", length)
	}
	return meta, nil
}

// RecommendBannerURL asks the model to pick the single most relevant URL from
// the search index for a banner recommendation. indexJSON is the serialized
// index records.
func (c *Client) RecommendBannerURL(ctx context.Context, title, body string, indexJSON []byte) (string, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return "", errors.New("recommend banner: title and body required")
	}
	userPrompt := fmt.Sprintf("Blog Post Title: %s\n\nBlog Post Content (first 1000 chars):\n%s\n\nSearch Index (all available content):\n%s",
		title, content.TruncateRunes(body, 1000), indexJSON)

	raw, err := c.CompleteJSON(ctx, c.cfg.Model, bannerSystemPrompt, userPrompt, 0)
	if err != nil {
		return "", err
	}
	var payload struct {
		URL string `json:"url"`
	}
	if err := DecodeModelJSON(raw, &payload); err != nil {
		return "", fmt.Errorf("recommend banner: parse payload: %w", err)
	}
	url := strings.TrimSpace(payload.URL)
	if url == "" {
		return "", errors.New("recommend banner: model did not return a url")
	}
	return url, nil
}

// RefOption is one selectable reference item (show or category) offered to
// the metadata assignment model.
type RefOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ShowAndCategory is the model's metadata assignment for a press article.
type ShowAndCategory struct {
	ShowID     string `json:"showId"`
	CategoryID string `json:"categoryId"`
}

// ChooseShowAndCategory picks the best matching show and category for a press
// article. IDs the model invents are discarded; a missing category falls back
// to the first option.
func (c *Client) ChooseShowAndCategory(ctx context.Context, title, outlet, bodyHTML string, shows, categories []RefOption) (ShowAndCategory, error) {
	userPayload, err := json.Marshal(map[string]any{
		"title":      title,
		"outlet":     outlet,
		"body":       content.TruncateRunes(bodyHTML, 4000),
		"shows":      shows,
		"categories": categories,
	})
	if err != nil {
		return ShowAndCategory{}, fmt.Errorf("choose metadata: encode options: %w", err)
	}

	fallback := ShowAndCategory{}
	if len(categories) > 0 {
		fallback.CategoryID = categories[0].ID
	}

	raw, err := c.CompleteJSON(ctx, c.cfg.UtilityModel, chooseShowSystemPrompt, string(userPayload), 0.2)
	if err != nil {
		return fallback, nil
	}
	var choice ShowAndCategory
	if err := DecodeModelJSON(raw, &choice); err != nil {
		return fallback, nil
	}

	if !refOptionExists(shows, choice.ShowID) {
		choice.ShowID = ""
	}
	if !refOptionExists(categories, choice.CategoryID) {
		choice.CategoryID = fallback.CategoryID
	}
	return choice, nil
}

// CleanArticleHTML reformats raw scraped article text into CMS-ready HTML.
func (c *Client) CleanArticleHTML(ctx context.Context, rawText string) (string, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return "", errors.New("clean article: raw text required")
	}

	raw, err := c.CompleteText(ctx, c.cfg.UtilityModel, cleanArticleSystemPrompt, rawText, 0.3)
	if err != nil {
		return "", fmt.Errorf("clean article: %w", err)
	}
	cleaned := strings.TrimSpace(stripCodeFence(raw))
	if cleaned == "" {
		return "", errors.New("clean article: model returned empty content")
	}
	return cleaned, nil
}

func refOptionExists(options []RefOption, id string) bool {
	if id == "" {
		return false
	}
	for _, option := range options {
		if option.ID == id {
			return true
		}
	}
	return false
}
