package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nyaruka/phonenumbers"
)

// countryRegions maps location country strings to phone region codes.
var countryRegions = map[string]string{
	"us":             "US",
	"usa":            "US",
	"united states":  "US",
	"canada":         "CA",
	"uk":             "GB",
	"united kingdom": "GB",
	"australia":      "AU",
	"new zealand":    "NZ",
	"ireland":        "IE",
	"india":          "IN",
	"south africa":   "ZA",
}

// phoneCandidateRe pulls phone-shaped character runs out of page text
// for validation by the phone-number library.
var phoneCandidateRe = regexp.MustCompile(`[+(]?\d[\d\s().\-]{6,18}\d`)

// naFallbackRe matches plain North-American numbers when the library
// validates nothing on the page.
var naFallbackRe = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

// regionForCountry resolves a free-text country to a region code,
// falling back to the configured default.
func regionForCountry(country, defaultRegion string) string {
	if region, ok := countryRegions[strings.ToLower(strings.TrimSpace(country))]; ok {
		return region
	}
	if defaultRegion != "" {
		return defaultRegion
	}
	return "US"
}

// formatPhones normalizes numbers collected by earlier passes.
// Numbers the library cannot validate are kept verbatim, structured
// data is trusted even when unparseable.
func formatPhones(phones []string, region string) []string {
	out := make([]string, 0, len(phones))
	for _, p := range phones {
		num, err := phonenumbers.Parse(p, region)
		if err == nil && phonenumbers.IsValidNumber(num) {
			out = append(out, phonenumbers.Format(num, phonenumbers.INTERNATIONAL))
			continue
		}
		out = append(out, p)
	}
	return out
}

// extractPhones finds phone numbers in tel: links and page text,
// validated and formatted by the phone-number library for the given
// region. If nothing validates, a loose NANP-shaped regex is the
// last resort.
func (e *Extractor) extractPhones(doc *goquery.Document, text, region string) []string {
	var candidates []string

	doc.Find(`a[href^="tel:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		candidates = append(candidates, strings.TrimPrefix(href, "tel:"))
	})
	candidates = append(candidates, phoneCandidateRe.FindAllString(text, 40)...)

	var phones []string
	seen := make(map[string]bool)
	for _, cand := range candidates {
		num, err := phonenumbers.Parse(cand, region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		formatted := phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
		if !seen[formatted] {
			seen[formatted] = true
			phones = append(phones, formatted)
		}
	}
	if len(phones) > 0 {
		return phones
	}

	for _, m := range naFallbackRe.FindAllString(text, 10) {
		m = strings.TrimSpace(m)
		if !seen[m] {
			seen[m] = true
			phones = append(phones, m)
		}
	}
	return phones
}
