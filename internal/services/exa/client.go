package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// maxResultText caps per-result text to keep downstream prompts inside the
// model's context window.
const maxResultText = 25000

// Result is one document returned by the search API.
type Result struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Author        string `json:"author,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	Image         string `json:"image,omitempty"`
	Text          string `json:"text,omitempty"`
}

// Client provides access to the Exa semantic search API.
type Client struct {
	apiKey     string
	baseURL    string
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

// New creates an Exa client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("exa api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://api.exa.ai"
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
	Contents   struct {
		Text bool `json:"text"`
	} `json:"contents"`
}

type contentsRequest struct {
	URLs []string `json:"urls"`
	Text bool     `json:"text"`
}

type apiResponse struct {
	Results []struct {
		URL           string `json:"url"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		PublishedDate string `json:"publishedDate"`
		Image         string `json:"image"`
		Text          string `json:"text"`
	} `json:"results"`
}

func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exa %s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode exa response: %w", err)
	}
	return &decoded, nil
}

func (r *apiResponse) toResults() []Result {
	results := make([]Result, 0, len(r.Results))
	for _, entry := range r.Results {
		text := entry.Text
		if len(text) > maxResultText {
			text = text[:maxResultText] + "..."
		}
		results = append(results, Result{
			URL:           entry.URL,
			Title:         entry.Title,
			Author:        entry.Author,
			PublishedDate: entry.PublishedDate,
			Image:         entry.Image,
			Text:          text,
		})
	}
	return results
}

// SearchAndContents runs a semantic search returning document text for each
// hit, used as web context for article generation.
func (c *Client) SearchAndContents(ctx context.Context, query string, numResults int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if numResults <= 0 {
		numResults = 5
	}
	request := searchRequest{Query: query, NumResults: numResults}
	request.Contents.Text = true

	response, err := c.post(ctx, "/search", request)
	if err != nil {
		return nil, err
	}
	return response.toResults(), nil
}

// GetContents extracts the full text of a single URL, used for press article
// import.
func (c *Client) GetContents(ctx context.Context, pageURL string) (*Result, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, errors.New("url must not be empty")
	}

	response, err := c.post(ctx, "/contents", contentsRequest{URLs: []string{pageURL}, Text: true})
	if err != nil {
		return nil, err
	}
	results := response.toResults()
	if len(results) == 0 {
		return nil, fmt.Errorf("no content found for %s", pageURL)
	}
	return &results[0], nil
}
