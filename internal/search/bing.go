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

const bingSearchURL = "https://www.bing.com/search"

// bingSelectors is the cascade of result-link selectors tried in
// order. Bing changes its result markup between layouts; the first
// selector that matches anything wins.
var bingSelectors = []string{
	"li.b_algo h2 a",
	"h2.b_topTitle a, h2.b_title a",
	".b_algo .b_vlist2col a, .b_subModule a",
}

// Bing scrapes the Bing HTML results page.
type Bing struct {
	fetcher fetcher.Fetcher
	timeout time.Duration
	logger  *slog.Logger
}

// NewBing creates a Bing backend.
func NewBing(f fetcher.Fetcher, timeout time.Duration, logger *slog.Logger) *Bing {
	return &Bing{
		fetcher: f,
		timeout: timeout,
		logger:  logger.With("component", "search_bing"),
	}
}

// Name implements Backend.
func (b *Bing) Name() types.BackendName { return types.BackendBing }

// Search implements Backend. Bing paginates with first=1, 11, 21, ...
func (b *Bing) Search(ctx context.Context, query string, page int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	if page > 0 {
		params.Set("first", fmt.Sprintf("%d", page*10+1))
	}

	fetchURL := bingSearchURL + "?" + params.Encode()
	resp, err := b.fetcher.Fetch(ctx, fetchURL)
	if err != nil {
		return nil, &types.BackendError{Backend: types.BackendBing, Query: query, Page: page, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &types.BackendError{
			Backend: types.BackendBing, Query: query, Page: page,
			Err: fmt.Errorf("HTTP %d from results page", resp.StatusCode),
		}
	}

	links, err := parseBingResults(resp.Body)
	if err != nil {
		return nil, &types.BackendError{Backend: types.BackendBing, Query: query, Page: page, Err: err}
	}

	b.logger.Debug("search page parsed",
		"query", query,
		"page", page,
		"links", len(links),
	)
	return links, nil
}

func parseBingResults(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	for _, selector := range bingSelectors {
		var links []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			href = strings.TrimSpace(href)
			if !ok || href == "" {
				return
			}
			links = append(links, href)
		})
		if len(links) > 0 {
			return links, nil
		}
	}
	return nil, nil
}
