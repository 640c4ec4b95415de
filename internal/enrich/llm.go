// Package enrich refines extracted material and price data through an
// LLM. Enrichment is strictly best-effort: any failure leaves the
// record exactly as the extractor produced it.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/pipeline"
)

// Provider specifies which LLM backend to use.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// LLMEnricher implements pipeline.Enricher against an LLM endpoint.
type LLMEnricher struct {
	cfg    config.EnrichConfig
	client *http.Client
	logger *slog.Logger
}

// NewLLMEnricher creates an enricher from configuration.
func NewLLMEnricher(cfg config.EnrichConfig, logger *slog.Logger) *LLMEnricher {
	return &LLMEnricher{
		cfg: cfg,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger.With("component", "llm_enricher"),
	}
}

const enrichPromptTemplate = `You are reviewing data scraped from a scrap metal business website.
Website: %s
Materials found so far: %s
Price mentions found so far: %s

Return ONLY a JSON object with two keys:
  "materials": array of scrap material names this business accepts (lowercase, deduplicated)
  "prices": array of price strings in the form "<material> <price>/<unit>"

Correct obvious extraction mistakes and drop entries that are not real
materials or prices. If unsure, return the inputs unchanged.`

// Enrich implements pipeline.Enricher.
func (e *LLMEnricher) Enrich(ctx context.Context, pageURL string, materials, prices []string) (*pipeline.Enrichment, error) {
	prompt := fmt.Sprintf(enrichPromptTemplate,
		pageURL,
		strings.Join(materials, ", "),
		strings.Join(prices, "; "),
	)

	response, err := e.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Materials []string `json:"materials"`
		Prices    []string `json:"prices"`
	}
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		return nil, fmt.Errorf("parse enrichment response: %w", err)
	}

	e.logger.Debug("enrichment complete",
		"url", pageURL,
		"materials", len(parsed.Materials),
		"prices", len(parsed.Prices),
	)
	return &pipeline.Enrichment{
		Materials: parsed.Materials,
		Prices:    parsed.Prices,
	}, nil
}

// generate sends a prompt to the configured provider.
func (e *LLMEnricher) generate(ctx context.Context, prompt string) (string, error) {
	switch Provider(e.cfg.Provider) {
	case ProviderOllama:
		return e.generateOllama(ctx, prompt)
	case ProviderOpenAI:
		return e.generateOpenAI(ctx, prompt)
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s", e.cfg.Provider)
	}
}

func (e *LLMEnricher) generateOllama(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":  e.cfg.Model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": e.cfg.Temperature,
			"num_predict": e.cfg.MaxTokens,
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", e.cfg.Endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return result.Response, nil
}

func (e *LLMEnricher) generateOpenAI(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": e.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  e.cfg.MaxTokens,
		"temperature": e.cfg.Temperature,
	}

	body, _ := json.Marshal(payload)
	endpoint := e.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return result.Choices[0].Message.Content, nil
}

// extractJSON finds the first balanced JSON object in an LLM response,
// tolerating prose or code fences around it.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return "{}"
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return "{}"
}
