// Package search queries web search engines for candidate business
// URLs. Backends return raw result links; unwrapping and filtering is
// the caller's concern.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/fetcher"
	"github.com/IshaanNene/MetalScout/internal/types"
)

// Backend is the interface all search engine adapters implement.
type Backend interface {
	// Name identifies the backend in logs and results.
	Name() types.BackendName

	// Search returns the raw result URLs for one results page.
	// Page numbering starts at 0. An empty slice with a nil error
	// means the engine returned a page with no recognizable results.
	Search(ctx context.Context, query string, page int) ([]string, error)
}

// FromConfig builds the configured backends. Unknown engine names are
// rejected at construction time, not at query time.
func FromConfig(cfg *config.Config, f fetcher.Fetcher, logger *slog.Logger) ([]Backend, error) {
	backends := make([]Backend, 0, len(cfg.Search.Engines))
	for _, name := range cfg.Search.Engines {
		switch name {
		case "bing":
			backends = append(backends, NewBing(f, cfg.Search.RequestTimeout, logger))
		case "ddg":
			backends = append(backends, NewDuckDuckGo(f, cfg.Search.RequestTimeout, logger))
		case "webapi":
			backends = append(backends, NewWebAPI(cfg.Search, logger))
		default:
			return nil, fmt.Errorf("unknown search engine %q", name)
		}
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no search engines configured")
	}
	return backends, nil
}
