package discover

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/IshaanNene/MetalScout/internal/search"
	"github.com/IshaanNene/MetalScout/internal/types"
	"github.com/IshaanNene/MetalScout/internal/urlx"
)

// fakeBackend returns canned URLs for every query/page.
type fakeBackend struct {
	name types.BackendName
	urls []string
	err  error
}

func (f *fakeBackend) Name() types.BackendName { return f.name }

func (f *fakeBackend) Search(_ context.Context, _ string, _ int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.urls, nil
}

func newTestAggregator(backends ...*fakeBackend) *Aggregator {
	list := make([]search.Backend, 0, len(backends))
	for _, b := range backends {
		list = append(list, b)
	}
	return NewAggregator(list, urlx.NewResolver(nil), 2, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAggregateDedupesByHost(t *testing.T) {
	b := &fakeBackend{name: types.BackendBing, urls: []string{
		"https://scrapco.example.com/",
		"https://www.scrapco.example.com/contact",
		"https://other.example.org/",
	}}
	agg := newTestAggregator(b)

	candidates, err := agg.Aggregate(context.Background(), []string{"scrap yard"}, 1)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	hosts := make(map[string]int)
	for _, c := range candidates {
		hosts[c.Host]++
	}
	for host, n := range hosts {
		if n > 1 {
			t.Errorf("host %q appears %d times, want 1", host, n)
		}
	}
	if len(candidates) != 2 {
		t.Errorf("got %d candidates, want 2", len(candidates))
	}
	// First-seen URL wins for the deduped host.
	for _, c := range candidates {
		if c.Host == "scrapco.example.com" && c.URL != "https://scrapco.example.com/" {
			t.Errorf("kept URL = %q, want first-seen homepage", c.URL)
		}
	}
}

func TestAggregateFiltersUnusableURLs(t *testing.T) {
	b := &fakeBackend{name: types.BackendBing, urls: []string{
		"https://www.yelp.com/biz/some-yard",
		"https://www.google.com/maps/place/x",
		"https://goodsite.example.com/",
	}}
	agg := newTestAggregator(b)

	candidates, err := agg.Aggregate(context.Background(), []string{"scrap yard"}, 1)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(candidates), candidates)
	}
	if candidates[0].Host != "goodsite.example.com" {
		t.Errorf("kept host = %q", candidates[0].Host)
	}
}

func TestAggregateSurvivesBackendFailure(t *testing.T) {
	broken := &fakeBackend{name: types.BackendDuckDuckGo, err: errors.New("boom")}
	working := &fakeBackend{name: types.BackendBing, urls: []string{"https://goodsite.example.com/"}}
	agg := newTestAggregator(broken, working)

	candidates, err := agg.Aggregate(context.Background(), []string{"scrap yard"}, 1)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("got %d candidates, want 1 from the working backend", len(candidates))
	}
}

func TestAggregateRanksShortInformationalURLsFirst(t *testing.T) {
	b := &fakeBackend{name: types.BackendBing, urls: []string{
		"https://longname-irrelevant.example.com/blog/2024/07/some-long-article-path",
		"https://scrapco.example.com/",
	}}
	agg := newTestAggregator(b)

	candidates, err := agg.Aggregate(context.Background(), []string{"scrap yard"}, 1)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].Host != "scrapco.example.com" {
		t.Errorf("top candidate = %q, want the short scrap homepage", candidates[0].Host)
	}
}

func TestAggregateEmptyWhenNothingSurvives(t *testing.T) {
	b := &fakeBackend{name: types.BackendBing, urls: []string{
		"https://www.yelp.com/biz/a",
	}}
	agg := newTestAggregator(b)

	candidates, err := agg.Aggregate(context.Background(), []string{"scrap yard"}, 1)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("got %d candidates, want 0", len(candidates))
	}
}

func TestScoreCandidate(t *testing.T) {
	home := scoreCandidate("https://scrapco.com/")
	listing := scoreCandidate("https://megadirectory-of-businesses.example.com/listing/scrap-yards-in-houston-texas")
	if home <= listing {
		t.Errorf("homepage score %d should beat listing score %d", home, listing)
	}
}
