package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/types"
)

// WebAPI queries a JSON search API (SerpAPI-compatible shape) instead
// of scraping an HTML results page. Useful when HTML scraping is
// blocked or a paid API quota is available.
type WebAPI struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

// webAPIResponse is the subset of the provider response we consume.
type webAPIResponse struct {
	Results []struct {
		URL  string `json:"url"`
		Link string `json:"link"`
	} `json:"results"`
	OrganicResults []struct {
		Link string `json:"link"`
	} `json:"organic_results"`
}

// NewWebAPI creates a WebAPI backend from search configuration.
func NewWebAPI(cfg config.SearchConfig, logger *slog.Logger) *WebAPI {
	return &WebAPI{
		endpoint: cfg.APIEndpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.RequestTimeout},
		logger:   logger.With("component", "search_webapi"),
	}
}

// Name implements Backend.
func (w *WebAPI) Name() types.BackendName { return types.BackendWebAPI }

// Search implements Backend.
func (w *WebAPI) Search(ctx context.Context, query string, page int) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", fmt.Sprintf("%d", page))
	if w.apiKey != "" {
		params.Set("api_key", w.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &types.BackendError{Backend: types.BackendWebAPI, Query: query, Page: page, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, &types.BackendError{Backend: types.BackendWebAPI, Query: query, Page: page, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &types.BackendError{
			Backend: types.BackendWebAPI, Query: query, Page: page,
			Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, body),
		}
	}

	var parsed webAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &types.BackendError{Backend: types.BackendWebAPI, Query: query, Page: page, Err: err}
	}

	var links []string
	for _, r := range parsed.Results {
		if r.URL != "" {
			links = append(links, r.URL)
		} else if r.Link != "" {
			links = append(links, r.Link)
		}
	}
	for _, r := range parsed.OrganicResults {
		if r.Link != "" {
			links = append(links, r.Link)
		}
	}

	w.logger.Debug("api search complete", "query", query, "page", page, "links", len(links))
	return links, nil
}
