package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateWebflow(); err != nil {
		return err
	}
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind must be set")
	}
	return nil
}

func (c *Config) validateWebflow() error {
	if c.Webflow.APIToken == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/marquee/config.toml"
		}
		return fmt.Errorf("webflow.api_token is required. Set WEBFLOW_API_TOKEN env var or edit %s (create with 'marquee config init')", defaultPath)
	}
	if c.Webflow.BlogCollectionID == "" {
		return errors.New("webflow.blog_collection_id must be set")
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		return errors.New("openai.api_key is required. Set OPENAI_API_KEY env var or add it to the config file")
	}
	if _, err := url.Parse(c.OpenAI.BaseURL); err != nil {
		return fmt.Errorf("openai.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateIndex() error {
	if strings.TrimSpace(c.Index.SiteBaseURL) == "" {
		return errors.New("index.site_base_url must be set")
	}
	parsed, err := url.Parse(c.Index.SiteBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("index.site_base_url %q is not an absolute URL", c.Index.SiteBaseURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
