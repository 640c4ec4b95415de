// Package fetcher retrieves web pages over HTTP with rotation, retry,
// and transparent decompression.
package fetcher

import (
	"context"

	"github.com/IshaanNene/MetalScout/internal/types"
)

// Fetcher is the interface for page retrieval implementations.
type Fetcher interface {
	// Fetch retrieves the content at the given URL.
	Fetch(ctx context.Context, rawURL string) (*types.Page, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
