package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for MetalScout.
type Config struct {
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	Search    SearchConfig    `mapstructure:"search"    yaml:"search"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"   yaml:"fetcher"`
	Extractor ExtractorConfig `mapstructure:"extractor" yaml:"extractor"`
	Enrich    EnrichConfig    `mapstructure:"enrich"    yaml:"enrich"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// DiscoveryConfig controls the discovery fan-out and the fetch-extract pool.
type DiscoveryConfig struct {
	Target        int  `mapstructure:"target"          yaml:"target"`
	PagesPerQuery int  `mapstructure:"pages_per_query" yaml:"pages_per_query"`
	MaxWorkers    int  `mapstructure:"max_workers"     yaml:"max_workers"`
	SearchWorkers int  `mapstructure:"search_workers"  yaml:"search_workers"`
	Broaden       bool `mapstructure:"broaden"         yaml:"broaden"`
}

// SearchConfig controls the search backends.
type SearchConfig struct {
	Engines        []string      `mapstructure:"engines"         yaml:"engines"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	APIEndpoint    string        `mapstructure:"api_endpoint"    yaml:"api_endpoint"`
	APIKey         string        `mapstructure:"api_key"         yaml:"api_key"`
}

// FetcherConfig controls the HTTP fetcher shared by search backends and
// candidate page fetches.
type FetcherConfig struct {
	PageTimeout     time.Duration `mapstructure:"page_timeout"      yaml:"page_timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	MaxRetries      int           `mapstructure:"max_retries"       yaml:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"       yaml:"retry_delay"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
}

// ExtractorConfig controls field extraction. Keyword and provider lists
// live in configuration so deployments can tune them without a rebuild.
type ExtractorConfig struct {
	Materials       []string `mapstructure:"materials"         yaml:"materials"`
	SocialProviders []string `mapstructure:"social_providers"  yaml:"social_providers"`
	DefaultRegion   string   `mapstructure:"default_region"    yaml:"default_region"`
	MaxContactPages int      `mapstructure:"max_contact_pages" yaml:"max_contact_pages"`
}

// EnrichConfig controls the optional LLM enrichment pass.
type EnrichConfig struct {
	Enabled     bool    `mapstructure:"enabled"     yaml:"enabled"`
	Provider    string  `mapstructure:"provider"    yaml:"provider"`
	Endpoint    string  `mapstructure:"endpoint"    yaml:"endpoint"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	APIKey      string  `mapstructure:"api_key"     yaml:"api_key"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// StorageConfig controls output/storage.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"`
	OutputPath      string `mapstructure:"output_path"      yaml:"output_path"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			Target:        50,
			PagesPerQuery: 1,
			MaxWorkers:    12,
			SearchWorkers: 4,
			Broaden:       true,
		},
		Search: SearchConfig{
			Engines:        []string{"bing", "ddg"},
			RequestTimeout: 10 * time.Second,
		},
		Fetcher: FetcherConfig{
			PageTimeout:     14 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			MaxRetries:      3,
			RetryDelay:      400 * time.Millisecond,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:129.0) Gecko/20100101 Firefox/129.0",
			},
		},
		Extractor: ExtractorConfig{
			Materials: []string{
				"copper", "aluminum", "aluminium", "steel", "stainless", "iron", "brass",
				"lead", "zinc", "nickel", "battery", "catalytic", "catalytic converter",
				"cable", "wire", "radiator", "bronze", "carbide", "titanium", "magnesium",
			},
			SocialProviders: []string{
				"facebook.com", "instagram.com", "x.com", "twitter.com", "linkedin.com",
				"youtube.com", "tiktok.com", "t.me", "wa.me", "whatsapp.com",
			},
			DefaultRegion:   "US",
			MaxContactPages: 3,
		},
		Enrich: EnrichConfig{
			Enabled:     false,
			Provider:    "ollama",
			Endpoint:    "http://localhost:11434",
			Model:       "llama3.2",
			MaxTokens:   1024,
			Temperature: 0,
		},
		Storage: StorageConfig{
			Type:            "json",
			OutputPath:      "./output/companies.json",
			MongoDatabase:   "metalscout",
			MongoCollection: "companies",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
