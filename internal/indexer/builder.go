// Package indexer rebuilds the search index from Webflow CMS collections and
// the public sitemap. A rebuild replaces the full record set atomically and is
// guarded by a file lock so concurrent rebuild requests cannot interleave.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/notifications"
	"marquee/internal/searchindex"
	"marquee/internal/services/webflow"
	"marquee/internal/sitemap"
)

// ErrRebuildInProgress indicates another process currently holds the rebuild lock.
var ErrRebuildInProgress = errors.New("index rebuild already in progress")

const descriptionWordLimit = 20

// collectionSource describes one Webflow collection feeding the index.
type collectionSource struct {
	category     string
	collectionID string
	urlPrefix    string
}

// Builder composes CMS collections and crawled sitemap pages into the search
// index store.
type Builder struct {
	cms        *webflow.Client
	crawler    *sitemap.Crawler
	store      *searchindex.Store
	notifier   notifications.Service
	logger     *slog.Logger
	lockPath   string
	exportPath string
	sources    []collectionSource
}

// Result summarizes a completed rebuild.
type Result struct {
	Records    int
	Counts     map[string]int
	Duration   time.Duration
	ExportedTo string
}

// New builds an index Builder from configuration. Collections without a
// configured ID are skipped. The crawler may be nil when no sitemap URL is
// configured.
func New(cfg *config.Config, cms *webflow.Client, crawler *sitemap.Crawler, store *searchindex.Store, notifier notifications.Service, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	base := strings.TrimRight(cfg.Index.SiteBaseURL, "/")
	sources := make([]collectionSource, 0, 4)
	add := func(category, collectionID string) {
		collectionID = strings.TrimSpace(collectionID)
		if collectionID == "" {
			return
		}
		sources = append(sources, collectionSource{
			category:     category,
			collectionID: collectionID,
			urlPrefix:    base + "/" + category + "/",
		})
	}
	add(searchindex.CategoryPress, cfg.Webflow.PressCollectionID)
	add(searchindex.CategoryArtists, cfg.Webflow.ArtistsCollectionID)
	add(searchindex.CategoryShows, cfg.Webflow.ShowsCollectionID)
	add(searchindex.CategoryBlog, cfg.Webflow.BlogCollectionID)

	return &Builder{
		cms:        cms,
		crawler:    crawler,
		store:      store,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "indexer"),
		lockPath:   cfg.Index.LockPath,
		exportPath: cfg.Index.ExportPath,
		sources:    sources,
	}
}

// Rebuild fetches every configured collection and the sitemap pages, then
// replaces the stored index in one transaction. It returns
// ErrRebuildInProgress when another rebuild holds the lock.
func (b *Builder) Rebuild(ctx context.Context) (*Result, error) {
	release, err := b.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	records := make([]searchindex.Record, 0, 256)

	for _, source := range b.sources {
		collected, err := b.collectionRecords(ctx, source)
		if err != nil {
			b.notifyError(ctx, err, "index rebuild")
			return nil, fmt.Errorf("fetch %s collection: %w", source.category, err)
		}
		b.logger.Info("collection indexed",
			logging.String("category", source.category),
			logging.Int("records", len(collected)))
		records = append(records, collected...)
	}

	if b.crawler != nil {
		pages, err := b.crawler.CrawlPages(ctx)
		if err != nil {
			b.notifyError(ctx, err, "index rebuild")
			return nil, fmt.Errorf("crawl sitemap pages: %w", err)
		}
		b.logger.Info("sitemap pages indexed", logging.Int("records", len(pages)))
		records = append(records, pages...)
	}

	if err := b.store.Replace(ctx, records); err != nil {
		b.notifyError(ctx, err, "index rebuild")
		return nil, fmt.Errorf("store index records: %w", err)
	}

	result := &Result{
		Records:  len(records),
		Counts:   countByCategory(records),
		Duration: time.Since(start),
	}

	if strings.TrimSpace(b.exportPath) != "" {
		snapshot, err := b.store.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot for export: %w", err)
		}
		if err := snapshot.ExportJSON(b.exportPath); err != nil {
			return nil, fmt.Errorf("export index JSON: %w", err)
		}
		result.ExportedTo = b.exportPath
	}

	b.logger.Info("index rebuilt",
		logging.Int("records", result.Records),
		logging.Duration("duration", result.Duration))

	if err := b.notifier.NotifyIndexRebuilt(ctx, result.Records, result.Duration); err != nil {
		b.logger.Warn("index rebuild notification failed", logging.Error(err))
	}

	return result, nil
}

func (b *Builder) acquireLock() (func(), error) {
	if strings.TrimSpace(b.lockPath) == "" {
		return func() {}, nil
	}
	lock := flock.New(b.lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire rebuild lock: %w", err)
	}
	if !acquired {
		return nil, ErrRebuildInProgress
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			b.logger.Warn("release rebuild lock failed", logging.Error(err))
		}
	}, nil
}

func (b *Builder) collectionRecords(ctx context.Context, source collectionSource) ([]searchindex.Record, error) {
	items, err := b.cms.ListAllItems(ctx, source.collectionID)
	if err != nil {
		return nil, err
	}

	records := make([]searchindex.Record, 0, len(items))
	for _, item := range items {
		record, ok := b.itemRecord(item, source)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (b *Builder) itemRecord(item webflow.Item, source collectionSource) (searchindex.Record, bool) {
	slug := item.FieldData.String("slug")
	if item.ID == "" || slug == "" {
		b.logger.Debug("skipping item without id or slug",
			logging.String("category", source.category),
			logging.String("item_id", item.ID))
		return searchindex.Record{}, false
	}

	title := item.FieldData.String("name")
	if title == "" {
		title = item.FieldData.String("title")
	}
	if title == "" {
		title = "Untitled"
	}

	var image string
	for _, field := range []string{"featured-image", "main-image", "headshot-image"} {
		if image = item.FieldData.ImageURL(field); image != "" {
			break
		}
	}

	return searchindex.Record{
		ID:          item.ID,
		Title:       title,
		URL:         source.urlPrefix + slug,
		Image:       image,
		Category:    source.category,
		Description: itemDescription(item.FieldData, source.category),
	}, true
}

// itemDescription resolves the search blurb per collection. Press items carry
// no description; show summaries are capped at twenty words.
func itemDescription(data webflow.FieldData, category string) string {
	switch category {
	case searchindex.CategoryArtists:
		return data.String("short-bio")
	case searchindex.CategoryShows:
		return truncateWords(data.String("plain-text-summary"), descriptionWordLimit)
	case searchindex.CategoryBlog:
		return data.String("subtitle-small-description")
	default:
		return ""
	}
}

func truncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + "..."
}

func countByCategory(records []searchindex.Record) map[string]int {
	counts := make(map[string]int, 5)
	for _, record := range records {
		counts[record.Category]++
	}
	return counts
}

func (b *Builder) notifyError(ctx context.Context, err error, label string) {
	if notifyErr := b.notifier.NotifyError(ctx, err, label); notifyErr != nil {
		b.logger.Warn("error notification failed", logging.Error(notifyErr))
	}
}
