package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultPerPage = 6

// Photo is one search result shaped for the editorial UI.
type Photo struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Thumb           string `json:"thumb"`
	Alt             string `json:"alt"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`

	// description feeds the typography filter and is not exposed.
	description string
}

// disallowedAltKeywords rejects stock photos that are mostly text or signage;
// those read poorly as article banners.
var disallowedAltKeywords = []string{
	"sign", "signage", "text", "letter", "word", "typography", "quote", "poster",
}

// Client provides access to the Unsplash photo search API.
type Client struct {
	accessKey  string
	baseURL    string
	perPage    int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPerPage overrides the result page size.
func WithPerPage(perPage int) Option {
	return func(c *Client) {
		if perPage > 0 {
			c.perPage = perPage
		}
	}
}

// New creates an Unsplash client.
func New(accessKey, baseURL string, opts ...Option) (*Client, error) {
	accessKey = strings.TrimSpace(accessKey)
	if accessKey == "" {
		return nil, errors.New("unsplash access key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}
	client := &Client{
		accessKey:  accessKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		perPage:    defaultPerPage,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchResponse struct {
	Results []struct {
		ID             string `json:"id"`
		Description    string `json:"description"`
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Regular string `json:"regular"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
		User struct {
			Name  string `json:"name"`
			Links struct {
				HTML string `json:"html"`
			} `json:"links"`
		} `json:"user"`
	} `json:"results"`
}

// Search runs a relevance-ordered landscape photo search. altFallback is used
// as alt text for photos without an alt description.
func (c *Client) Search(ctx context.Context, query, altFallback string) ([]Photo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/search/photos")
	if err != nil {
		return nil, fmt.Errorf("parse unsplash url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(c.perPage))
	params.Set("page", "1")
	params.Set("order_by", "relevant")
	params.Set("orientation", "landscape")
	params.Set("content_filter", "high")
	params.Set("client_id", c.accessKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode unsplash response: %w", err)
	}

	photos := make([]Photo, 0, len(payload.Results))
	for _, result := range payload.Results {
		alt := result.AltDescription
		if alt == "" {
			alt = altFallback
		}
		photos = append(photos, Photo{
			ID:              result.ID,
			URL:             result.URLs.Regular,
			Thumb:           result.URLs.Thumb,
			Alt:             alt,
			Photographer:    result.User.Name,
			PhotographerURL: result.User.Links.HTML,
			description:     strings.ToLower(result.Description + " " + result.AltDescription),
		})
	}
	return photos, nil
}

// FilterTypography drops photos whose description suggests text-heavy
// content. When everything is filtered out, the unfiltered head is returned
// instead of an empty set.
func FilterTypography(photos []Photo, limit int) []Photo {
	var filtered []Photo
	for _, photo := range photos {
		if !hasDisallowedKeyword(photo.description) {
			filtered = append(filtered, photo)
		}
	}
	if len(filtered) == 0 {
		filtered = photos
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// PickFirst returns the first photo that survives the typography filter,
// falling back to the first result when all are filtered.
func PickFirst(photos []Photo) (Photo, bool) {
	if len(photos) == 0 {
		return Photo{}, false
	}
	for _, photo := range photos {
		if !hasDisallowedKeyword(photo.description) {
			return photo, true
		}
	}
	return photos[0], true
}

func hasDisallowedKeyword(description string) bool {
	for _, keyword := range disallowedAltKeywords {
		if strings.Contains(description, keyword) {
			return true
		}
	}
	return false
}
