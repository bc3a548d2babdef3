package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the HTTP API bind address.
type Server struct {
	Bind string `toml:"bind"`
}

// Webflow contains credentials and collection wiring for the Webflow CMS v2 API.
type Webflow struct {
	APIToken               string `toml:"api_token"`
	SiteID                 string `toml:"site_id"`
	BaseURL                string `toml:"base_url"`
	BlogCollectionID       string `toml:"blog_collection_id"`
	PressCollectionID      string `toml:"press_collection_id"`
	ShowsCollectionID      string `toml:"shows_collection_id"`
	ArtistsCollectionID    string `toml:"artists_collection_id"`
	AuthorsCollectionID    string `toml:"authors_collection_id"`
	CategoriesCollectionID string `toml:"categories_collection_id"`
}

// OpenAI contains LLM connection settings shared by every AI-assisted feature.
type OpenAI struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	EditModel      string `toml:"edit_model"`
	UtilityModel   string `toml:"utility_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Unsplash contains configuration for the stock-photo search API.
type Unsplash struct {
	AccessKey string `toml:"access_key"`
	BaseURL   string `toml:"base_url"`
	PerPage   int    `toml:"per_page"`
}

// Exa contains configuration for the semantic search API used for web context
// and press-article extraction.
type Exa struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Index contains configuration for the search index store and rebuild job.
type Index struct {
	DBPath          string   `toml:"db_path"`
	LockPath        string   `toml:"lock_path"`
	SiteBaseURL     string   `toml:"site_base_url"`
	SitemapURL      string   `toml:"sitemap_url"`
	ExcludePrefixes []string `toml:"exclude_prefixes"`
	PageTimeout     int      `toml:"page_timeout"`
	ExportPath      string   `toml:"export_path"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Publish        bool   `toml:"publish"`
	Index          bool   `toml:"index"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	LogDir string `toml:"log_dir"`
}

// Config encapsulates all configuration values for Marquee.
//
// Configuration sections by subsystem:
//   - Server: HTTP API bind address
//   - Webflow: CMS credentials and collection IDs
//   - OpenAI: LLM connection settings
//   - Unsplash: stock-photo search API
//   - Exa: semantic search API (optional)
//   - Index: search index store, sitemap crawl, and rebuild lock
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and directory
type Config struct {
	Server        Server        `toml:"server"`
	Webflow       Webflow       `toml:"webflow"`
	OpenAI        OpenAI        `toml:"openai"`
	Unsplash      Unsplash      `toml:"unsplash"`
	Exa           Exa           `toml:"exa"`
	Index         Index         `toml:"index"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/marquee/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("marquee.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required for serve and index runs.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Index.DBPath)}
	if strings.TrimSpace(c.Logging.LogDir) != "" {
		dirs = append(dirs, c.Logging.LogDir)
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
