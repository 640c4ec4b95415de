package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Discovery.Target < 1 {
		return fmt.Errorf("discovery.target must be >= 1, got %d", cfg.Discovery.Target)
	}
	if cfg.Discovery.PagesPerQuery < 1 {
		return fmt.Errorf("discovery.pages_per_query must be >= 1, got %d", cfg.Discovery.PagesPerQuery)
	}
	if cfg.Discovery.MaxWorkers < 1 {
		return fmt.Errorf("discovery.max_workers must be >= 1, got %d", cfg.Discovery.MaxWorkers)
	}
	if cfg.Discovery.MaxWorkers > 256 {
		return fmt.Errorf("discovery.max_workers must be <= 256, got %d", cfg.Discovery.MaxWorkers)
	}
	if cfg.Discovery.SearchWorkers < 1 {
		return fmt.Errorf("discovery.search_workers must be >= 1, got %d", cfg.Discovery.SearchWorkers)
	}

	if len(cfg.Search.Engines) == 0 {
		return fmt.Errorf("search.engines must list at least one engine")
	}
	validEngines := map[string]bool{
		"bing": true, "ddg": true, "webapi": true,
	}
	for _, e := range cfg.Search.Engines {
		if !validEngines[e] {
			return fmt.Errorf("search.engines entry %q is not supported (valid: bing, ddg, webapi)", e)
		}
		if e == "webapi" && cfg.Search.APIEndpoint == "" {
			return fmt.Errorf("search.api_endpoint is required when the webapi engine is enabled")
		}
	}
	if cfg.Search.RequestTimeout <= 0 {
		return fmt.Errorf("search.request_timeout must be > 0")
	}

	if cfg.Fetcher.PageTimeout <= 0 {
		return fmt.Errorf("fetcher.page_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}
	if cfg.Fetcher.MaxRetries < 0 {
		return fmt.Errorf("fetcher.max_retries must be >= 0, got %d", cfg.Fetcher.MaxRetries)
	}
	if len(cfg.Fetcher.UserAgents) == 0 {
		return fmt.Errorf("fetcher.user_agents must list at least one user agent")
	}

	if cfg.Extractor.MaxContactPages < 0 {
		return fmt.Errorf("extractor.max_contact_pages must be >= 0")
	}

	if cfg.Enrich.Enabled {
		if cfg.Enrich.Provider != "ollama" && cfg.Enrich.Provider != "openai" {
			return fmt.Errorf("enrich.provider must be 'ollama' or 'openai', got %q", cfg.Enrich.Provider)
		}
		if cfg.Enrich.Provider == "openai" && cfg.Enrich.APIKey == "" {
			return fmt.Errorf("enrich.api_key is required for the openai provider")
		}
	}

	validStorageTypes := map[string]bool{
		"json": true, "jsonl": true, "csv": true, "mongo": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: json, jsonl, csv, mongo)", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongo" && cfg.Storage.MongoURI == "" {
		return fmt.Errorf("storage.mongo_uri is required when storage.type is mongo")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a fetch target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
