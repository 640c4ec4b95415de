package search

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/MetalScout/internal/fetcher"
	"github.com/IshaanNene/MetalScout/internal/types"
)

const ddgSearchURL = "https://html.duckduckgo.com/html/"

// ddgSelectors is the cascade of result-link selectors tried in order.
// The no-JS endpoint has shipped several layouts; the first selector
// that matches anything wins.
var ddgSelectors = []string{
	"a.result__a",
	"h2.result__title a",
	".results .result a.result__url",
}

// DuckDuckGo scrapes the DuckDuckGo HTML (no-JS) results page.
type DuckDuckGo struct {
	fetcher fetcher.Fetcher
	timeout time.Duration
	logger  *slog.Logger
}

// NewDuckDuckGo creates a DuckDuckGo backend.
func NewDuckDuckGo(f fetcher.Fetcher, timeout time.Duration, logger *slog.Logger) *DuckDuckGo {
	return &DuckDuckGo{
		fetcher: f,
		timeout: timeout,
		logger:  logger.With("component", "search_ddg"),
	}
}

// Name implements Backend.
func (d *DuckDuckGo) Name() types.BackendName { return types.BackendDuckDuckGo }

// Search implements Backend. The HTML endpoint paginates with an s=
// offset of 50 results per page.
func (d *DuckDuckGo) Search(ctx context.Context, query string, page int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	if page > 0 {
		params.Set("s", fmt.Sprintf("%d", page*50))
	}

	fetchURL := ddgSearchURL + "?" + params.Encode()
	resp, err := d.fetcher.Fetch(ctx, fetchURL)
	if err != nil {
		return nil, &types.BackendError{Backend: types.BackendDuckDuckGo, Query: query, Page: page, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &types.BackendError{
			Backend: types.BackendDuckDuckGo, Query: query, Page: page,
			Err: fmt.Errorf("HTTP %d from results page", resp.StatusCode),
		}
	}

	links, err := parseDDGResults(resp.Body)
	if err != nil {
		return nil, &types.BackendError{Backend: types.BackendDuckDuckGo, Query: query, Page: page, Err: err}
	}

	d.logger.Debug("search page parsed",
		"query", query,
		"page", page,
		"links", len(links),
	)
	return links, nil
}

func parseDDGResults(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var links []string
	for _, selector := range ddgSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			href = strings.TrimSpace(href)
			if !ok || href == "" {
				return
			}
			// Redirect links come back relative (//duckduckgo.com/l/?uddg=
			// or /l/?uddg=); absolutize so the unwrap codec can parse them.
			if strings.HasPrefix(href, "//") {
				href = "https:" + href
			} else if strings.HasPrefix(href, "/") {
				href = "https://duckduckgo.com" + href
			}
			links = append(links, href)
		})
		if len(links) > 0 {
			break
		}
	}
	return links, nil
}
