package config

const (
	defaultServerBind      = "127.0.0.1:8433"
	defaultWebflowBaseURL  = "https://api.webflow.com/v2"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel     = "gpt-4o"
	defaultEditModel       = "gpt-4o-mini"
	defaultUtilityModel    = "gpt-4o-mini"
	defaultOpenAITimeout   = 60
	defaultUnsplashBaseURL = "https://api.unsplash.com"
	defaultUnsplashPerPage = 6
	defaultExaBaseURL      = "https://api.exa.ai"
	defaultIndexDBPath     = "~/.local/share/marquee/index.db"
	defaultIndexLockPath   = "~/.local/share/marquee/index.lock"
	defaultPageTimeout     = 10
	defaultNtfyTimeout     = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogDir          = "~/.local/share/marquee/logs"
)

// defaultExcludePrefixes lists URL path prefixes that never enter the search
// index: account and commerce plumbing plus the collection paths already
// covered by their CMS collections.
var defaultExcludePrefixes = []string{
	"/account",
	"/admin",
	"/cart",
	"/checkout",
	"/users",
	"/utility",
	"/artists",
	"/artist",
	"/shows",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind: defaultServerBind,
		},
		Webflow: Webflow{
			BaseURL: defaultWebflowBaseURL,
		},
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			Model:          defaultOpenAIModel,
			EditModel:      defaultEditModel,
			UtilityModel:   defaultUtilityModel,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		Unsplash: Unsplash{
			BaseURL: defaultUnsplashBaseURL,
			PerPage: defaultUnsplashPerPage,
		},
		Exa: Exa{
			BaseURL: defaultExaBaseURL,
		},
		Index: Index{
			DBPath:          defaultIndexDBPath,
			LockPath:        defaultIndexLockPath,
			ExcludePrefixes: append([]string{}, defaultExcludePrefixes...),
			PageTimeout:     defaultPageTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
			Publish:        true,
			Index:          true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			LogDir: defaultLogDir,
		},
	}
}
