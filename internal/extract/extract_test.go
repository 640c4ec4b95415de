package extract

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/types"
)

const localBusinessHTML = `<!DOCTYPE html>
<html>
<head>
<title>Acme Metals | Houston Scrap Buyers</title>
<meta name="description" content="Acme Metals buys copper, brass, and aluminum scrap in Houston.">
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "LocalBusiness",
  "name": "Acme Metals",
  "telephone": "+1 713 555 0100",
  "address": {
    "@type": "PostalAddress",
    "streetAddress": "1200 Scrapyard Rd",
    "addressLocality": "Houston",
    "addressRegion": "TX",
    "postalCode": "77001",
    "addressCountry": "US"
  },
  "openingHoursSpecification": [
    {"@type": "OpeningHoursSpecification", "dayOfWeek": ["Monday","Friday"], "opens": "08:00", "closes": "17:00"}
  ]
}
</script>
</head>
<body>
<h1>Welcome to Acme Metals</h1>
<p>We buy copper and brass. Copper $3.20/lb this week.</p>
<a href="https://facebook.com/acmemetals">Facebook</a>
<a href="https://wa.me/17135550100">WhatsApp us</a>
</body>
</html>`

const heuristicOnlyHTML = `<!DOCTYPE html>
<html>
<head><title>Scrap King Metals - Sell Your Scrap</title>
<meta name="description" content="Family owned scrap yard."></head>
<body>
<h1>Scrap King Metals</h1>
<p>Call us at (713) 555-0142 or email sales@scrapking.example.com</p>
<footer>4501 Salvage Way, Houston, TX 77002</footer>
<h3>Business Hours</h3>
<div>Monday - Friday: 8am - 5pm
Saturday: 9am - 1pm</div>
</body>
</html>`

const noContactHTML = `<!DOCTYPE html>
<html><head><title>Some Blog</title></head>
<body><h1>Thoughts on metal</h1><p>No way to reach anyone here.</p></body>
</html>`

const priceTableHTML = `<!DOCTYPE html>
<html><head><title>Today's Scrap Prices</title></head>
<body>
<p>Contact: yard@prices.example.com</p>
<table>
  <tr><th>Material</th><th>Price</th></tr>
  <tr><td>Bare Bright Copper</td><td>$3.45/lb</td></tr>
  <tr><td>Aluminum Cans</td><td>$0.55/lb</td></tr>
  <tr><td>Office Paper</td><td>$0.02/lb</td></tr>
</table>
</body></html>`

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	cfg := config.DefaultConfig().Extractor
	return NewExtractor(&cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func htmlPage(body string) *types.Page {
	return &types.Page{
		URL:         "https://example.com/",
		FinalURL:    "https://example.com/",
		StatusCode:  200,
		Body:        []byte(body),
		ContentType: "text/html; charset=utf-8",
		FetchedAt:   time.Now(),
	}
}

func TestExtractStructuredData(t *testing.T) {
	e := testExtractor(t)
	loc := types.Location{Country: "USA", Region: "Texas", City: "Houston"}

	rec, err := e.Extract(context.Background(), htmlPage(localBusinessHTML), loc)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.Name != "Acme Metals" {
		t.Errorf("Name = %q, want %q", rec.Name, "Acme Metals")
	}
	if len(rec.Phones) != 1 {
		t.Fatalf("Phones = %v, want one formatted number", rec.Phones)
	}
	if !strings.HasPrefix(rec.Phones[0], "+1") {
		t.Errorf("phone %q not formatted internationally", rec.Phones[0])
	}
	if rec.StreetAddress != "1200 Scrapyard Rd" {
		t.Errorf("StreetAddress = %q", rec.StreetAddress)
	}
	if rec.City != "Houston" || rec.Region != "TX" || rec.PostalCode != "77001" {
		t.Errorf("address = %q %q %q", rec.City, rec.Region, rec.PostalCode)
	}
	if !strings.Contains(rec.OpeningHours, "Monday") || !strings.Contains(rec.OpeningHours, "08:00") {
		t.Errorf("OpeningHours = %q", rec.OpeningHours)
	}
	if !rec.HasContact() {
		t.Error("record should pass validation")
	}
	if len(rec.WhatsappLinks) != 1 {
		t.Errorf("WhatsappLinks = %v", rec.WhatsappLinks)
	}
	if len(rec.SocialLinks) != 1 {
		t.Errorf("SocialLinks = %v", rec.SocialLinks)
	}
}

func TestExtractHeuristics(t *testing.T) {
	e := testExtractor(t)
	loc := types.Location{Country: "USA"}

	rec, err := e.Extract(context.Background(), htmlPage(heuristicOnlyHTML), loc)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.Name != "Scrap King Metals" {
		t.Errorf("Name = %q", rec.Name)
	}
	if len(rec.Phones) == 0 {
		t.Fatal("expected a phone number")
	}
	if len(rec.Emails) != 1 || rec.Emails[0] != "sales@scrapking.example.com" {
		t.Errorf("Emails = %v", rec.Emails)
	}
	if rec.StreetAddress != "4501 Salvage Way" {
		t.Errorf("StreetAddress = %q", rec.StreetAddress)
	}
	if rec.City != "Houston" {
		t.Errorf("City = %q", rec.City)
	}
	if !strings.Contains(rec.OpeningHours, "Monday") {
		t.Errorf("OpeningHours = %q", rec.OpeningHours)
	}
}

func TestExtractNoContactFailsValidation(t *testing.T) {
	e := testExtractor(t)

	rec, err := e.Extract(context.Background(), htmlPage(noContactHTML), types.Location{Country: "USA"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.HasContact() {
		t.Errorf("record with no phone/email should fail validation: %+v", rec)
	}
}

func TestExtractLocationFallback(t *testing.T) {
	e := testExtractor(t)
	loc := types.Location{Country: "Canada", Region: "Ontario", City: "Toronto"}

	rec, err := e.Extract(context.Background(), htmlPage(noContactHTML), loc)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.City != "Toronto" || rec.Region != "Ontario" || rec.Country != "Canada" {
		t.Errorf("location fallback not applied: %q %q %q", rec.City, rec.Region, rec.Country)
	}
}

func TestExtractMaterialsAndPrices(t *testing.T) {
	e := testExtractor(t)

	rec, err := e.Extract(context.Background(), htmlPage(localBusinessHTML), types.Location{Country: "USA"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	hasCopper := false
	for _, m := range rec.Materials {
		if m == "copper" {
			hasCopper = true
		}
	}
	if !hasCopper {
		t.Errorf("Materials = %v, want copper", rec.Materials)
	}
	if len(rec.PriceMentions) == 0 {
		t.Fatalf("expected a copper price mention")
	}
	if !strings.Contains(rec.PriceMentions[0], "$3.20/lb") {
		t.Errorf("PriceMentions = %v", rec.PriceMentions)
	}
}

func TestExtractPriceTable(t *testing.T) {
	e := testExtractor(t)

	rec, err := e.Extract(context.Background(), htmlPage(priceTableHTML), types.Location{Country: "USA"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	var copper, aluminum, paper bool
	for _, m := range rec.PriceMentions {
		switch {
		case strings.Contains(m, "copper") && strings.Contains(m, "$3.45"):
			copper = true
		case strings.Contains(m, "aluminum") && strings.Contains(m, "$0.55"):
			aluminum = true
		case strings.Contains(strings.ToLower(m), "paper"):
			paper = true
		}
	}
	if !copper || !aluminum {
		t.Errorf("PriceMentions = %v, want copper and aluminum rows", rec.PriceMentions)
	}
	if paper {
		t.Errorf("non-material row leaked into PriceMentions: %v", rec.PriceMentions)
	}
}

func TestExtractRejectsNonHTML(t *testing.T) {
	e := testExtractor(t)
	page := &types.Page{
		URL:         "https://example.com/data.pdf",
		FinalURL:    "https://example.com/data.pdf",
		StatusCode:  200,
		Body:        []byte("%PDF-1.7"),
		ContentType: "application/pdf",
	}
	if _, err := e.Extract(context.Background(), page, types.Location{}); err == nil {
		t.Error("expected error for non-HTML content")
	}
}

func TestExtractCaps(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><head><title>Caps</title></head><body>")
	for i := 0; i < 12; i++ {
		b.WriteString("<a href=\"mailto:person")
		b.WriteByte(byte('a' + i))
		b.WriteString("@caps.example.com\">mail</a>")
	}
	b.WriteString("</body></html>")

	e := testExtractor(t)
	rec, err := e.Extract(context.Background(), htmlPage(b.String()), types.Location{Country: "USA"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(rec.Emails) > types.MaxEmails {
		t.Errorf("Emails over cap: %d", len(rec.Emails))
	}
}

func TestRegionForCountry(t *testing.T) {
	cases := []struct {
		country string
		want    string
	}{
		{"USA", "US"},
		{"united kingdom", "GB"},
		{"Canada", "CA"},
		{"Narnia", "US"},
		{"", "US"},
	}
	for _, tc := range cases {
		if got := regionForCountry(tc.country, "US"); got != tc.want {
			t.Errorf("regionForCountry(%q) = %q, want %q", tc.country, got, tc.want)
		}
	}
}
