// Package storage persists CompanyRecords to files or MongoDB.
package storage

import (
	"fmt"
	"log/slog"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/types"
)

// Storage is the interface for all storage backends.
type Storage interface {
	// Store persists a batch of records.
	Store(records []types.CompanyRecord) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// FromConfig builds the configured storage backend.
func FromConfig(cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case "json":
		return NewJSONStorage(cfg.OutputPath, logger)
	case "jsonl":
		return NewJSONLStorage(cfg.OutputPath, logger)
	case "csv":
		return NewCSVStorage(cfg.OutputPath, logger)
	case "mongo":
		return NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
