package sitemap

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"marquee/internal/logging"
	"marquee/internal/searchindex"
)

const crawlerUserAgent = "Mozilla/5.0 (compatible; MarqueeBot/1.0)"

// Crawler fetches a public sitemap and scrapes OpenGraph metadata from the
// pages it lists, producing search index records for static site pages.
type Crawler struct {
	sitemapURL      string
	siteBaseURL     string
	excludePrefixes []string
	httpClient      *http.Client
	logger          *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for per-page progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPageTimeout overrides the per-page fetch timeout.
func WithPageTimeout(timeout time.Duration) Option {
	return func(c *Crawler) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a sitemap crawler. excludePrefixes are path prefixes to skip;
// the site root is always kept regardless of prefixes.
func New(sitemapURL, siteBaseURL string, excludePrefixes []string, opts ...Option) (*Crawler, error) {
	sitemapURL = strings.TrimSpace(sitemapURL)
	if sitemapURL == "" {
		return nil, errors.New("sitemap url required")
	}
	crawler := &Crawler{
		sitemapURL:      sitemapURL,
		siteBaseURL:     strings.TrimRight(strings.TrimSpace(siteBaseURL), "/"),
		excludePrefixes: excludePrefixes,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		logger:          logging.NewNop(),
	}
	for _, opt := range opts {
		opt(crawler)
	}
	return crawler, nil
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// FetchURLs downloads and parses the sitemap, returning the page URLs that
// survive prefix filtering, in sitemap order.
func (c *Crawler) FetchURLs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build sitemap request: %w", err)
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap fetch returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var set urlSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parse sitemap xml: %w", err)
	}

	var urls []string
	excluded := 0
	for _, entry := range set.URLs {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}
		if c.shouldExclude(loc) {
			excluded++
			continue
		}
		urls = append(urls, loc)
	}
	c.logger.Info("sitemap parsed",
		logging.Int("total", len(set.URLs)),
		logging.Int("kept", len(urls)),
		logging.Int("excluded", excluded))
	return urls, nil
}

// shouldExclude reports whether the URL's path starts with any exclusion
// prefix. The home page always survives filtering.
func (c *Crawler) shouldExclude(pageURL string) bool {
	path := pageURL
	if c.siteBaseURL != "" {
		path = strings.TrimPrefix(pageURL, c.siteBaseURL)
	}
	if path == "" || path == "/" {
		return false
	}
	for _, prefix := range c.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// CrawlPages fetches every non-excluded sitemap URL and extracts OpenGraph
// metadata. Pages that fail to fetch or parse are skipped, not fatal.
func (c *Crawler) CrawlPages(ctx context.Context) ([]searchindex.Record, error) {
	urls, err := c.FetchURLs(ctx)
	if err != nil {
		return nil, err
	}

	var records []searchindex.Record
	for i, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			c.logger.Warn("page skipped",
				logging.String("url", pageURL),
				logging.Error(err))
			continue
		}
		c.logger.Debug("page crawled",
			logging.Int("position", i+1),
			logging.Int("of", len(urls)),
			logging.String("title", record.Title))
		records = append(records, record)
	}
	c.logger.Info("sitemap crawl complete",
		logging.Int("pages", len(records)),
		logging.Int("skipped", len(urls)-len(records)))
	return records, nil
}

func (c *Crawler) fetchPage(ctx context.Context, pageURL string) (searchindex.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return searchindex.Record{}, fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", crawlerUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return searchindex.Record{}, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return searchindex.Record{}, fmt.Errorf("page returned %d", resp.StatusCode)
	}

	meta, err := extractOpenGraph(resp.Body)
	if err != nil {
		return searchindex.Record{}, fmt.Errorf("parse page html: %w", err)
	}

	title := meta.Title
	if title == "" {
		title = "Untitled"
	}
	return searchindex.Record{
		ID:          searchindex.CrawledPageID,
		Title:       title,
		URL:         pageURL,
		Image:       meta.Image,
		Category:    searchindex.CategoryHome,
		Description: truncateDescription(meta.Description, 20),
	}, nil
}

// truncateDescription caps the description at limit words, appending an
// ellipsis whenever the cap is reached.
func truncateDescription(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if len(words) <= limit {
		truncated := strings.Join(words, " ")
		if len(words) == limit {
			truncated += "..."
		}
		return truncated
	}
	return strings.Join(words[:limit], " ") + "..."
}
