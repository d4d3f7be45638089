package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the service reads from the environment. Every
// field has a usable default so the server starts with no configuration.
type Config struct {
	// Provider selected for the bare "/" route: "anilist" or "crunchyroll".
	Selector string
	Port     string

	FrontendURL string

	AniList     AniListConfig
	Crunchyroll CrunchyrollConfig

	// Branding appended to every successful response.
	PoweredBy string
	CreatedBy string

	// Resolution tuning. The threshold is the minimum similarity score a
	// search candidate needs before it is accepted without the slug
	// fallback; the limit caps how many candidates are scored.
	FuzzyThreshold float64
	SearchLimit    int

	UpstreamTimeout time.Duration

	CachePath   string
	CacheMaxAge time.Duration
}

type AniListConfig struct {
	APIURL        string
	OAuthTokenURL string
	ClientID      string
	ClientSecret  string
}

type CrunchyrollConfig struct {
	BaseURL   string
	StaticURL string
	Locale    string
	UserAgent string

	// Fixed basic-auth credential for the anonymous device handshake.
	AnonymousAuthToken string

	// Fallback token lifetime when the upstream token carries no readable
	// expiry. Effectively non-expiring for the process lifetime.
	TokenTTL time.Duration
}

func Load() *Config {
	return &Config{
		Selector:    getEnvOrDefault("API_SELECTOR", "anilist"),
		Port:        getEnvOrDefault("API_PORT", "8080"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "*"),

		AniList: AniListConfig{
			APIURL:        getEnvOrDefault("ANILIST_API_URL", "https://graphql.anilist.co"),
			OAuthTokenURL: getEnvOrDefault("ANILIST_OAUTH_TOKEN_URL", "https://anilist.co/api/v2/oauth/token"),
			ClientID:      os.Getenv("ANILIST_CLIENT_ID"),
			ClientSecret:  os.Getenv("ANILIST_CLIENT_SECRET"),
		},

		Crunchyroll: CrunchyrollConfig{
			BaseURL:            getEnvOrDefault("CRUNCHYROLL_BASE_URL", "https://www.crunchyroll.com"),
			StaticURL:          getEnvOrDefault("CRUNCHYROLL_STATIC_URL", "https://static.crunchyroll.com"),
			Locale:             getEnvOrDefault("CRUNCHYROLL_LOCALE", "en-US"),
			UserAgent:          getEnvOrDefault("CRUNCHYROLL_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			AnonymousAuthToken: getEnvOrDefault("CRUNCHYROLL_ANONYMOUS_AUTH_TOKEN", "dC1rZGdwMmg4YzNqdWI4Zm4wZnE6eWZMRGZNZnJZdktYaDRKWFMxTEVJMmNDcXUxdjVXYW4="),
			TokenTTL:           time.Duration(getEnvInt("CRUNCHYROLL_TOKEN_TTL_HOURS", 24*365*10)) * time.Hour,
		},

		PoweredBy: getEnvOrDefault("POWERED_BY", "@Blaze_Updatez"),
		CreatedBy: getEnvOrDefault("CREATED_BY", "@Bharath_boy"),

		FuzzyThreshold: getEnvFloat("FUZZY_THRESHOLD", 0.8),
		SearchLimit:    getEnvInt("SEARCH_LIMIT", 3),

		UpstreamTimeout: time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second,

		CachePath:   getEnvOrDefault("CACHE_PATH", "./data/responses.db"),
		CacheMaxAge: time.Duration(getEnvInt("CACHE_MAX_AGE_SECONDS", 3600)) * time.Second,
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
