package webflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	acceptVersion = "2.0.0"

	// pageLimit is the Webflow maximum page size for collection listings.
	pageLimit = 100
)

// Client provides access to the Webflow CMS API (v2).
type Client struct {
	token      string
	siteID     string
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

// New creates a Webflow client. siteID may be empty when asset uploads are
// not needed.
func New(token, siteID, baseURL string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("webflow api token required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("webflow base url required")
	}
	client := &Client{
		token:      token,
		siteID:     strings.TrimSpace(siteID),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept-Version", acceptVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// ListItems fetches one page of a collection.
func (c *Client) ListItems(ctx context.Context, collectionID string, offset, limit int) (*ItemList, error) {
	if collectionID == "" {
		return nil, errors.New("collection id required")
	}
	endpoint, err := url.Parse(fmt.Sprintf("%s/collections/%s/items", c.baseURL, collectionID))
	if err != nil {
		return nil, fmt.Errorf("parse webflow url: %w", err)
	}
	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	endpoint.RawQuery = params.Encode()

	req, err := c.newRequest(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("webflow list items returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload ItemList
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode items response: %w", err)
	}
	return &payload, nil
}

// ListAllItems pages through a collection until every item is fetched.
func (c *Client) ListAllItems(ctx context.Context, collectionID string) ([]Item, error) {
	var items []Item
	offset := 0
	for {
		page, err := c.ListItems(ctx, collectionID, offset, pageLimit)
		if err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			return items, nil
		}
		items = append(items, page.Items...)
		if page.Pagination.Total > 0 && len(items) >= page.Pagination.Total {
			return items, nil
		}
		offset += pageLimit
	}
}

// CreateItem creates a collection item and returns the created record.
func (c *Client) CreateItem(ctx context.Context, collectionID string, item NewItem) (*Item, error) {
	if collectionID == "" {
		return nil, errors.New("collection id required")
	}
	endpoint := fmt.Sprintf("%s/collections/%s/items", c.baseURL, collectionID)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, item)
	if err != nil {
		return nil, err
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("webflow create item returned %d: %s (latency=%v)", resp.StatusCode, strings.TrimSpace(string(body)), latency)
	}

	var created Item
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode created item: %w", err)
	}
	return &created, nil
}

// DeleteItem removes a collection item.
func (c *Client) DeleteItem(ctx context.Context, collectionID, itemID string) error {
	if collectionID == "" || itemID == "" {
		return errors.New("collection id and item id required")
	}
	endpoint := fmt.Sprintf("%s/collections/%s/items/%s", c.baseURL, collectionID, itemID)
	req, err := c.newRequest(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("webflow delete item returned %d (latency=%v)", resp.StatusCode, latency)
	}
	return nil
}

// PublishItems publishes the given items in a collection.
func (c *Client) PublishItems(ctx context.Context, collectionID string, itemIDs []string) error {
	if collectionID == "" {
		return errors.New("collection id required")
	}
	if len(itemIDs) == 0 {
		return errors.New("at least one item id required")
	}
	endpoint := fmt.Sprintf("%s/collections/%s/items/publish", c.baseURL, collectionID)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, map[string][]string{"itemIds": itemIDs})
	if err != nil {
		return err
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webflow publish returned %d: %s (latency=%v)", resp.StatusCode, strings.TrimSpace(string(body)), latency)
	}
	return nil
}
