package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/IshaanNene/MetalScout/internal/types"
)

// --- JSON Storage ---

// JSONStorage buffers records and writes them as a JSON array on Close.
type JSONStorage struct {
	path    string
	records []types.CompanyRecord
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewJSONStorage creates a new JSON file storage.
func NewJSONStorage(outputPath string, logger *slog.Logger) (*JSONStorage, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, &types.StorageError{Backend: "json", Err: fmt.Errorf("create output dir: %w", err)}
	}
	return &JSONStorage{
		path:   outputPath,
		logger: logger.With("component", "json_storage"),
	}, nil
}

func (s *JSONStorage) Name() string { return "json" }

func (s *JSONStorage) Store(records []types.CompanyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	s.logger.Debug("records buffered", "count", len(records), "total", len(s.records))
	return nil
}

func (s *JSONStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(s.path)
	if err != nil {
		return &types.StorageError{Backend: "json", Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.records); err != nil {
		return &types.StorageError{Backend: "json", Err: fmt.Errorf("encode JSON: %w", err)}
	}

	s.logger.Info("JSON written", "path", s.path, "records", len(s.records))
	return nil
}

// --- JSONL Storage ---

// JSONLStorage streams records as newline-delimited JSON.
type JSONLStorage struct {
	path   string
	file   *os.File
	enc    *json.Encoder
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewJSONLStorage creates a new JSONL file storage (streaming writes).
func NewJSONLStorage(outputPath string, logger *slog.Logger) (*JSONLStorage, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, &types.StorageError{Backend: "jsonl", Err: fmt.Errorf("create output dir: %w", err)}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, &types.StorageError{Backend: "jsonl", Err: err}
	}
	return &JSONLStorage{
		path:   outputPath,
		file:   f,
		enc:    json.NewEncoder(f),
		logger: logger.With("component", "jsonl_storage"),
	}, nil
}

func (s *JSONLStorage) Name() string { return "jsonl" }

func (s *JSONLStorage) Store(records []types.CompanyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range records {
		if err := s.enc.Encode(records[i]); err != nil {
			return &types.StorageError{Backend: "jsonl", Err: err}
		}
	}
	s.count += len(records)
	return nil
}

func (s *JSONLStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("JSONL written", "path", s.path, "records", s.count)
	return s.file.Close()
}

// --- CSV Storage ---

var csvHeader = []string{
	"name", "website", "street_address", "city", "region", "postal_code",
	"country", "phones", "emails", "whatsapp_links", "social_links",
	"opening_hours", "materials", "price_mentions", "description",
}

// CSVStorage writes records as CSV rows. List fields are joined with
// "; " inside a single cell.
type CSVStorage struct {
	path   string
	file   *os.File
	w      *csv.Writer
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewCSVStorage creates a new CSV file storage and writes the header.
func NewCSVStorage(outputPath string, logger *slog.Logger) (*CSVStorage, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, &types.StorageError{Backend: "csv", Err: fmt.Errorf("create output dir: %w", err)}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, &types.StorageError{Backend: "csv", Err: err}
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, &types.StorageError{Backend: "csv", Err: err}
	}
	return &CSVStorage{
		path:   outputPath,
		file:   f,
		w:      w,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

func (s *CSVStorage) Store(records []types.CompanyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range records {
		rec := &records[i]
		row := []string{
			rec.Name, rec.Website, rec.StreetAddress, rec.City, rec.Region,
			rec.PostalCode, rec.Country,
			strings.Join(rec.Phones, "; "),
			strings.Join(rec.Emails, "; "),
			strings.Join(rec.WhatsappLinks, "; "),
			strings.Join(rec.SocialLinks, "; "),
			rec.OpeningHours,
			strings.Join(rec.Materials, "; "),
			strings.Join(rec.PriceMentions, "; "),
			rec.Description,
		}
		if err := s.w.Write(row); err != nil {
			return &types.StorageError{Backend: "csv", Err: err}
		}
	}
	s.count += len(records)
	return nil
}

func (s *CSVStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return &types.StorageError{Backend: "csv", Err: err}
	}
	s.logger.Info("CSV written", "path", s.path, "records", s.count)
	return s.file.Close()
}
