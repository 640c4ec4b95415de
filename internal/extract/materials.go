package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// priceWindow is the character distance within which a material
// keyword must co-occur with a price match.
const priceWindow = 60

// pricePatterns require a currency marker and a per-unit marker.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[$£€]\s?\d+(?:\.\d+)?\s?(?:/|per)\s?(?:lb|pound|kg|kilogram|ton|tonne)`),
	regexp.MustCompile(`(?i)(?:USD|CAD|GBP|AUD|NZD|EUR|ZAR|INR)\s?\d+(?:\.\d+)?\s?(?:/|per)\s?(?:lb|pound|kg|kilogram|ton|tonne)`),
}

// priceCellRe recognizes a price-bearing table cell.
var priceCellRe = regexp.MustCompile(`(?i)[$£€]\s?\d+(?:\.\d+)?|\d+(?:\.\d+)?\s?(?:/|per)\s?(?:lb|kg|ton)`)

// extractMaterials matches the configured material keywords against
// the page text. Compound keywords are preferred over their prefixes
// ("catalytic converter" suppresses a bare "catalytic" hit).
func (e *Extractor) extractMaterials(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]bool)
	for _, kw := range e.cfg.Materials {
		if strings.Contains(lower, kw) {
			found[kw] = true
		}
	}
	// Drop keywords that are strict prefixes of another match.
	var materials []string
	for kw := range found {
		shadowed := false
		for other := range found {
			if other != kw && strings.HasPrefix(other, kw+" ") {
				shadowed = true
				break
			}
		}
		if !shadowed {
			materials = append(materials, kw)
		}
	}
	return materials
}

// extractPriceMentions collects price phrases co-located with a
// material keyword, then scans HTML tables whose headers mention
// prices or rates.
func (e *Extractor) extractPriceMentions(doc *goquery.Document, text string) []string {
	var mentions []string
	seen := make(map[string]bool)
	add := func(m string) {
		m = cleanText(m)
		if m != "" && !seen[m] {
			seen[m] = true
			mentions = append(mentions, m)
		}
	}

	lower := strings.ToLower(text)
	for _, re := range pricePatterns {
		for _, loc := range re.FindAllStringIndex(text, 30) {
			start := loc[0] - priceWindow
			if start < 0 {
				start = 0
			}
			end := loc[1] + priceWindow
			if end > len(text) {
				end = len(text)
			}
			window := lower[start:end]
			for _, kw := range e.cfg.Materials {
				if strings.Contains(window, kw) {
					add(kw + " " + text[loc[0]:loc[1]])
					break
				}
			}
		}
	}

	if html, err := doc.Html(); err == nil {
		for _, m := range e.scanPriceTables(html) {
			add(m)
		}
	}
	return mentions
}

// scanPriceTables treats tables whose header mentions price/rate as a
// structured price source: rows pairing a material cell with a
// price-shaped cell become "material price" mentions.
func (e *Extractor) scanPriceTables(html string) []string {
	root, err := htmlquery.Parse(bytes.NewReader([]byte(html)))
	if err != nil {
		return nil
	}

	var mentions []string
	for _, table := range htmlquery.Find(root, "//table") {
		header := ""
		if th := htmlquery.FindOne(table, ".//tr[1]"); th != nil {
			header = strings.ToLower(htmlquery.InnerText(th))
		}
		if !strings.Contains(header, "price") && !strings.Contains(header, "rate") {
			continue
		}

		for _, row := range htmlquery.Find(table, ".//tr[position()>1]") {
			cells := htmlquery.Find(row, ".//td|.//th")
			if len(cells) < 2 {
				continue
			}
			label := strings.ToLower(cleanText(htmlquery.InnerText(cells[0])))
			material := ""
			for _, kw := range e.cfg.Materials {
				if strings.Contains(label, kw) {
					material = kw
					break
				}
			}
			if material == "" {
				continue
			}
			for _, cell := range cells[1:] {
				if price := priceCellRe.FindString(htmlquery.InnerText(cell)); price != "" {
					mentions = append(mentions, material+" "+cleanText(price))
					break
				}
			}
		}
	}
	return mentions
}
