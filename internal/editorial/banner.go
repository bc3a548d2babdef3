package editorial

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marquee/internal/searchindex"
	"marquee/internal/services/unsplash"
)

const imageSearchLimit = 6

// Banner is a related-content recommendation resolved from the search index.
type Banner struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

// GenerateBanner asks the model for the most relevant index record given the
// article, then resolves the returned URL against the records so the model
// cannot fabricate a destination.
func (s *Service) GenerateBanner(ctx context.Context, title, body string, records []searchindex.Record) (*Banner, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, errors.New("generate banner: title and body required")
	}
	if len(records) == 0 {
		return nil, errors.New("generate banner: search index is empty")
	}

	indexJSON, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("generate banner: encode index: %w", err)
	}

	recommendedURL, err := s.ai.RecommendBannerURL(ctx, title, body, indexJSON)
	if err != nil {
		return nil, fmt.Errorf("generate banner: %w", err)
	}

	for _, record := range records {
		if record.URL == recommendedURL {
			return &Banner{
				Title:       record.Title,
				Description: record.Description,
				Link:        record.URL,
				Image:       record.Image,
				Category:    record.Category,
			}, nil
		}
	}
	return nil, fmt.Errorf("generate banner: recommended url %q not found in search index", recommendedURL)
}

// ImageSearch is the result of a stock-photo lookup for an article.
type ImageSearch struct {
	Query  string           `json:"query"`
	Images []unsplash.Photo `json:"images"`
}

// SearchImages derives a stock query from the article and returns matching
// photos with text-heavy results filtered out.
func (s *Service) SearchImages(ctx context.Context, title, body string) (*ImageSearch, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("search images: title required")
	}
	if s.stock == nil {
		return nil, errors.New("search images: stock photo search not configured")
	}

	query := s.ai.StockQuery(ctx, title, body)
	photos, err := s.stock.Search(ctx, query, title)
	if err != nil {
		return nil, fmt.Errorf("search images: %w", err)
	}
	images := unsplash.FilterTypography(photos, imageSearchLimit)
	if images == nil {
		images = []unsplash.Photo{}
	}
	return &ImageSearch{Query: query, Images: images}, nil
}
