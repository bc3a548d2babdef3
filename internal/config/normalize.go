package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWebflow()
	c.normalizeOpenAI()
	c.normalizeUnsplash()
	c.normalizeExa()
	c.normalizeIndex()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Index.DBPath) == "" {
		c.Index.DBPath = defaultIndexDBPath
	}
	if c.Index.DBPath, err = expandPath(c.Index.DBPath); err != nil {
		return fmt.Errorf("index.db_path: %w", err)
	}
	if strings.TrimSpace(c.Index.LockPath) == "" {
		c.Index.LockPath = defaultIndexLockPath
	}
	if c.Index.LockPath, err = expandPath(c.Index.LockPath); err != nil {
		return fmt.Errorf("index.lock_path: %w", err)
	}
	if strings.TrimSpace(c.Index.ExportPath) != "" {
		if c.Index.ExportPath, err = expandPath(c.Index.ExportPath); err != nil {
			return fmt.Errorf("index.export_path: %w", err)
		}
	}
	if strings.TrimSpace(c.Logging.LogDir) != "" {
		if c.Logging.LogDir, err = expandPath(c.Logging.LogDir); err != nil {
			return fmt.Errorf("logging.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeWebflow() {
	if token, ok := os.LookupEnv("WEBFLOW_API_TOKEN"); ok && strings.TrimSpace(c.Webflow.APIToken) == "" {
		c.Webflow.APIToken = token
	}
	c.Webflow.APIToken = strings.TrimSpace(c.Webflow.APIToken)
	c.Webflow.SiteID = strings.TrimSpace(c.Webflow.SiteID)
	c.Webflow.BaseURL = strings.TrimRight(strings.TrimSpace(c.Webflow.BaseURL), "/")
	if c.Webflow.BaseURL == "" {
		c.Webflow.BaseURL = defaultWebflowBaseURL
	}
}

func (c *Config) normalizeOpenAI() {
	if key, ok := os.LookupEnv("OPENAI_API_KEY"); ok && strings.TrimSpace(c.OpenAI.APIKey) == "" {
		c.OpenAI.APIKey = key
	}
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	if strings.TrimSpace(c.OpenAI.Model) == "" {
		c.OpenAI.Model = defaultOpenAIModel
	}
	if strings.TrimSpace(c.OpenAI.EditModel) == "" {
		c.OpenAI.EditModel = defaultEditModel
	}
	if strings.TrimSpace(c.OpenAI.UtilityModel) == "" {
		c.OpenAI.UtilityModel = defaultUtilityModel
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeout
	}
}

func (c *Config) normalizeUnsplash() {
	if key, ok := os.LookupEnv("UNSPLASH_ACCESS_KEY"); ok && strings.TrimSpace(c.Unsplash.AccessKey) == "" {
		c.Unsplash.AccessKey = key
	}
	c.Unsplash.AccessKey = strings.TrimSpace(c.Unsplash.AccessKey)
	c.Unsplash.BaseURL = strings.TrimRight(strings.TrimSpace(c.Unsplash.BaseURL), "/")
	if c.Unsplash.BaseURL == "" {
		c.Unsplash.BaseURL = defaultUnsplashBaseURL
	}
	if c.Unsplash.PerPage <= 0 {
		c.Unsplash.PerPage = defaultUnsplashPerPage
	}
}

func (c *Config) normalizeExa() {
	if key, ok := os.LookupEnv("EXA_API_KEY"); ok && strings.TrimSpace(c.Exa.APIKey) == "" {
		c.Exa.APIKey = key
	}
	c.Exa.APIKey = strings.TrimSpace(c.Exa.APIKey)
	c.Exa.BaseURL = strings.TrimRight(strings.TrimSpace(c.Exa.BaseURL), "/")
	if c.Exa.BaseURL == "" {
		c.Exa.BaseURL = defaultExaBaseURL
	}
}

func (c *Config) normalizeIndex() {
	c.Index.SiteBaseURL = strings.TrimRight(strings.TrimSpace(c.Index.SiteBaseURL), "/")
	c.Index.SitemapURL = strings.TrimSpace(c.Index.SitemapURL)
	if c.Index.SitemapURL == "" && c.Index.SiteBaseURL != "" {
		c.Index.SitemapURL = c.Index.SiteBaseURL + "/sitemap.xml"
	}
	if len(c.Index.ExcludePrefixes) == 0 {
		c.Index.ExcludePrefixes = append([]string{}, defaultExcludePrefixes...)
	}
	if c.Index.PageTimeout <= 0 {
		c.Index.PageTimeout = defaultPageTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
