// Package extract turns fetched business pages into CompanyRecords
// using a layered strategy: embedded structured data first, then HTML
// heuristics, then regex fallbacks. Fields already filled by an
// earlier layer are never overwritten by a later one.
package extract

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/fetcher"
	"github.com/IshaanNene/MetalScout/internal/types"
)

// Extractor produces CompanyRecords from fetched pages.
type Extractor struct {
	cfg     *config.ExtractorConfig
	fetcher fetcher.Fetcher
	logger  *slog.Logger
}

// NewExtractor creates an Extractor. The fetcher is only used for the
// bounded contact-page fallback; pass nil to disable it.
func NewExtractor(cfg *config.ExtractorConfig, f fetcher.Fetcher, logger *slog.Logger) *Extractor {
	return &Extractor{
		cfg:     cfg,
		fetcher: f,
		logger:  logger.With("component", "extractor"),
	}
}

// Extract builds a CompanyRecord from a fetched page. The location is
// used as a fallback for address fields no pass could resolve. A nil
// record with a nil error means the page was not extractable HTML.
func (e *Extractor) Extract(ctx context.Context, page *types.Page, loc types.Location) (*types.CompanyRecord, error) {
	if !page.IsHTML() || len(page.Body) == 0 {
		return nil, &types.ExtractError{URL: page.FinalURL, Err: types.ErrNotHTML}
	}
	doc, err := page.Document()
	if err != nil {
		return nil, &types.ExtractError{URL: page.FinalURL, Err: err}
	}

	rec := &types.CompanyRecord{
		Website:     page.FinalURL,
		ExtractedAt: page.FetchedAt,
	}
	text := doc.Text()

	// Pass 1: structured metadata
	e.applyStructuredData(doc, rec)

	// Pass 2: HTML heuristics
	if rec.Name == "" {
		rec.Name = extractName(doc)
	}
	if rec.StreetAddress == "" {
		e.applyHeuristicAddress(doc, text, rec)
	}
	if rec.OpeningHours == "" {
		rec.OpeningHours = extractHoursHeuristic(text)
	}
	e.applySocialLinks(doc, rec)
	if rec.Description == "" {
		rec.Description = extractDescription(doc)
	}

	// Pass 3: regex fallbacks
	region := regionForCountry(loc.Country, e.cfg.DefaultRegion)
	rec.Phones = formatPhones(rec.Phones, region)
	rec.Phones = types.DedupStrings(append(rec.Phones, e.extractPhones(doc, text, region)...))
	rec.Emails = types.DedupStrings(append(rec.Emails, extractEmails(doc, text)...))
	rec.Materials = e.extractMaterials(text)
	rec.PriceMentions = e.extractPriceMentions(doc, text)

	// Pass 4: contact-page fallback
	if len(rec.Phones) == 0 && len(rec.Emails) == 0 && rec.StreetAddress == "" {
		e.contactPageFallback(ctx, doc, page.FinalURL, region, rec)
	}

	// Location fills whatever the page never said.
	if rec.City == "" {
		rec.City = loc.City
	}
	if rec.Region == "" {
		rec.Region = loc.Region
	}
	if rec.Country == "" {
		rec.Country = loc.Country
	}

	rec.Cap()

	e.logger.Debug("extraction complete",
		"url", page.FinalURL,
		"name", rec.Name,
		"phones", len(rec.Phones),
		"emails", len(rec.Emails),
	)
	return rec, nil
}

// extractName resolves the business name by priority: first heading,
// page title, og:site_name, og:title.
func extractName(doc *goquery.Document) string {
	if h1 := cleanText(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if title := cleanText(doc.Find("title").First().Text()); title != "" {
		// Titles often carry a tagline after a separator.
		for _, sep := range []string{" | ", " - ", " – ", " — "} {
			if i := strings.Index(title, sep); i > 0 {
				title = title[:i]
				break
			}
		}
		return strings.TrimSpace(title)
	}
	if name, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if name, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	return ""
}

// extractDescription reads the page's meta description, preferring
// the standard tag over OpenGraph.
func extractDescription(doc *goquery.Document) string {
	if d, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(d) != "" {
		return strings.TrimSpace(d)
	}
	if d, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && strings.TrimSpace(d) != "" {
		return strings.TrimSpace(d)
	}
	return ""
}

// applySocialLinks collects links to known social providers, routing
// WhatsApp links into their own field.
func (e *Extractor) applySocialLinks(doc *goquery.Document, rec *types.CompanyRecord) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		lower := strings.ToLower(href)
		if strings.Contains(lower, "wa.me/") || strings.Contains(lower, "whatsapp.com") {
			rec.WhatsappLinks = append(rec.WhatsappLinks, href)
			return
		}
		for _, provider := range e.cfg.SocialProviders {
			if strings.Contains(lower, provider) {
				rec.SocialLinks = append(rec.SocialLinks, href)
				return
			}
		}
	})
	rec.WhatsappLinks = types.DedupStrings(rec.WhatsappLinks)
	rec.SocialLinks = types.DedupStrings(rec.SocialLinks)
}

// contactPageFallback fetches a bounded number of same-host
// contact-labeled links and re-scans them for phones and emails only.
func (e *Extractor) contactPageFallback(ctx context.Context, doc *goquery.Document, pageURL, region string, rec *types.CompanyRecord) {
	if e.fetcher == nil || e.cfg.MaxContactPages <= 0 {
		return
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	var targets []string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		label := strings.ToLower(s.Text() + " " + href)
		if !strings.Contains(label, "contact") {
			return true
		}
		u, err := base.Parse(href)
		if err != nil || u.Host != base.Host {
			return true
		}
		u.Fragment = ""
		targets = append(targets, u.String())
		return len(targets) < e.cfg.MaxContactPages
	})
	targets = types.DedupStrings(targets)

	for _, target := range targets {
		if ctx.Err() != nil {
			return
		}
		sub, err := e.fetcher.Fetch(ctx, target)
		if err != nil || !sub.IsSuccess() || !sub.IsHTML() {
			continue
		}
		subDoc, err := sub.Document()
		if err != nil {
			continue
		}
		text := subDoc.Text()
		rec.Phones = types.DedupStrings(append(rec.Phones, e.extractPhones(subDoc, text, region)...))
		rec.Emails = types.DedupStrings(append(rec.Emails, extractEmails(subDoc, text)...))
		if len(rec.Phones) > 0 || len(rec.Emails) > 0 {
			return
		}
	}
}

// cleanText collapses whitespace runs in element text.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
