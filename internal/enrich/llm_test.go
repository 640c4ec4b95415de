package enrich

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/IshaanNene/MetalScout/internal/config"
)

func TestEnrichParsesOllamaResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		// Model wraps the JSON in prose, extractJSON must cope.
		w.Write([]byte(`{"response": "Here you go:\n{\"materials\": [\"copper\", \"brass\"], \"prices\": [\"copper $3.40/lb\"]}"}`))
	}))
	defer srv.Close()

	cfg := config.EnrichConfig{Provider: "ollama", Endpoint: srv.URL, Model: "llama3.2"}
	e := NewLLMEnricher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := e.Enrich(context.Background(), "https://yard.example.com/", []string{"coper"}, nil)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if !reflect.DeepEqual(result.Materials, []string{"copper", "brass"}) {
		t.Errorf("Materials = %v", result.Materials)
	}
	if !reflect.DeepEqual(result.Prices, []string{"copper $3.40/lb"}) {
		t.Errorf("Prices = %v", result.Prices)
	}
}

func TestEnrichFailsOnUnreachableEndpoint(t *testing.T) {
	cfg := config.EnrichConfig{Provider: "ollama", Endpoint: "http://127.0.0.1:0", Model: "llama3.2"}
	e := NewLLMEnricher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := e.Enrich(context.Background(), "https://yard.example.com/", nil, nil); err == nil {
		t.Error("expected error from unreachable endpoint")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": {\"b\": 2}}\n```", `{"a": {"b": 2}}`},
		{"no json here", "{}"},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
