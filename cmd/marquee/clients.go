package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"marquee/internal/config"
	"marquee/internal/editorial"
	"marquee/internal/indexer"
	"marquee/internal/notifications"
	"marquee/internal/searchindex"
	"marquee/internal/services/exa"
	"marquee/internal/services/openai"
	"marquee/internal/services/unsplash"
	"marquee/internal/services/webflow"
	"marquee/internal/sitemap"
)

// serviceSet bundles the clients and services most commands need.
type serviceSet struct {
	cms       *webflow.Client
	ai        *openai.Client
	stock     *unsplash.Client
	press     *exa.Client
	notifier  notifications.Service
	editorial *editorial.Service
}

func buildServices(cfg *config.Config, logger *slog.Logger) (*serviceSet, error) {
	cms, err := webflow.New(cfg.Webflow.APIToken, cfg.Webflow.SiteID, cfg.Webflow.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("webflow client: %w", err)
	}

	ai := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		EditModel:      cfg.OpenAI.EditModel,
		UtilityModel:   cfg.OpenAI.UtilityModel,
		TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
	})

	var stock *unsplash.Client
	if strings.TrimSpace(cfg.Unsplash.AccessKey) != "" {
		opts := []unsplash.Option{}
		if cfg.Unsplash.PerPage > 0 {
			opts = append(opts, unsplash.WithPerPage(cfg.Unsplash.PerPage))
		}
		stock, err = unsplash.New(cfg.Unsplash.AccessKey, cfg.Unsplash.BaseURL, opts...)
		if err != nil {
			return nil, fmt.Errorf("unsplash client: %w", err)
		}
	}

	var press *exa.Client
	if cfg.Exa.Enabled && strings.TrimSpace(cfg.Exa.APIKey) != "" {
		press, err = exa.New(cfg.Exa.APIKey, cfg.Exa.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("exa client: %w", err)
		}
	}

	notifier := notifications.NewService(cfg)
	editorialSvc := editorial.New(cfg, cms, ai, stock, press, notifier, logger)

	return &serviceSet{
		cms:       cms,
		ai:        ai,
		stock:     stock,
		press:     press,
		notifier:  notifier,
		editorial: editorialSvc,
	}, nil
}

func buildCrawler(cfg *config.Config, logger *slog.Logger) (*sitemap.Crawler, error) {
	if strings.TrimSpace(cfg.Index.SitemapURL) == "" {
		return nil, nil
	}
	opts := []sitemap.Option{sitemap.WithLogger(logger)}
	if cfg.Index.PageTimeout > 0 {
		opts = append(opts, sitemap.WithPageTimeout(time.Duration(cfg.Index.PageTimeout)*time.Second))
	}
	return sitemap.New(cfg.Index.SitemapURL, cfg.Index.SiteBaseURL, cfg.Index.ExcludePrefixes, opts...)
}

func buildIndexer(cfg *config.Config, services *serviceSet, store *searchindex.Store, logger *slog.Logger) (*indexer.Builder, error) {
	crawler, err := buildCrawler(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sitemap crawler: %w", err)
	}
	return indexer.New(cfg, services.cms, crawler, store, services.notifier, logger), nil
}
