package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults from struct
	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix("METALSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search default locations
		v.SetConfigName("metalscout")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".metalscout"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	return Load(path)
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("discovery.target", cfg.Discovery.Target)
	v.SetDefault("discovery.pages_per_query", cfg.Discovery.PagesPerQuery)
	v.SetDefault("discovery.max_workers", cfg.Discovery.MaxWorkers)
	v.SetDefault("discovery.search_workers", cfg.Discovery.SearchWorkers)
	v.SetDefault("discovery.broaden", cfg.Discovery.Broaden)

	v.SetDefault("search.engines", cfg.Search.Engines)
	v.SetDefault("search.request_timeout", cfg.Search.RequestTimeout)

	v.SetDefault("fetcher.page_timeout", cfg.Fetcher.PageTimeout)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)
	v.SetDefault("fetcher.max_retries", cfg.Fetcher.MaxRetries)
	v.SetDefault("fetcher.retry_delay", cfg.Fetcher.RetryDelay)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)

	v.SetDefault("extractor.materials", cfg.Extractor.Materials)
	v.SetDefault("extractor.social_providers", cfg.Extractor.SocialProviders)
	v.SetDefault("extractor.default_region", cfg.Extractor.DefaultRegion)
	v.SetDefault("extractor.max_contact_pages", cfg.Extractor.MaxContactPages)

	v.SetDefault("enrich.enabled", cfg.Enrich.Enabled)
	v.SetDefault("enrich.provider", cfg.Enrich.Provider)
	v.SetDefault("enrich.endpoint", cfg.Enrich.Endpoint)
	v.SetDefault("enrich.model", cfg.Enrich.Model)
	v.SetDefault("enrich.max_tokens", cfg.Enrich.MaxTokens)
	v.SetDefault("enrich.temperature", cfg.Enrich.Temperature)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)
	v.SetDefault("storage.mongo_database", cfg.Storage.MongoDatabase)
	v.SetDefault("storage.mongo_collection", cfg.Storage.MongoCollection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
}
