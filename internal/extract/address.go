package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/MetalScout/internal/types"
)

// looseAddressRe matches "1234 Some Street, City, ST 77001" shapes,
// with the postal code optional.
var looseAddressRe = regexp.MustCompile(
	`\d{1,5}\s+[A-Za-z0-9 .'\-]{3,50},\s*[A-Za-z .'\-]{2,40},\s*[A-Za-z]{2,20}\.?\s*\d{0,6}(?:[-\s]\d{3,4})?`)

var dayTokenRe = regexp.MustCompile(`(?i)\b(mon|tue|wed|thu|fri|sat|sun)[a-z]*\b`)

// hoursLabelRe locates an "hours"-labeled section of text.
var hoursLabelRe = regexp.MustCompile(`(?i)\b(?:opening|business|store|working)?\s*hours\b`)

// applyHeuristicAddress fills address fields from address-tagged
// elements, falling back to a loose regex over the page text.
func (e *Extractor) applyHeuristicAddress(doc *goquery.Document, text string, rec *types.CompanyRecord) {
	var addr string
	doc.Find("address, .address, .location, footer").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := cleanText(s.Text())
		if m := looseAddressRe.FindString(t); m != "" {
			addr = m
			return false
		}
		return true
	})
	if addr == "" {
		addr = looseAddressRe.FindString(text)
	}
	if addr == "" {
		return
	}

	// Split "street, city, region postal"
	parts := strings.SplitN(addr, ",", 3)
	setDefault(&rec.StreetAddress, strings.TrimSpace(parts[0]))
	if len(parts) > 1 {
		setDefault(&rec.City, strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 {
		tail := strings.TrimSpace(parts[2])
		fields := strings.Fields(tail)
		if len(fields) > 0 {
			setDefault(&rec.Region, fields[0])
		}
		if len(fields) > 1 {
			setDefault(&rec.PostalCode, strings.Join(fields[1:], " "))
		}
	}
}

// extractHoursHeuristic locates day-of-week tokens near an "hours"
// label: a bounded window of text after the label is sliced into
// lines and only ones carrying a day token are kept, at most seven.
func extractHoursHeuristic(text string) string {
	loc := hoursLabelRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	start := loc[0] - 100
	if start < 0 {
		start = 0
	}
	end := loc[1] + 400
	if end > len(text) {
		end = len(text)
	}
	window := text[start:end]

	var lines []string
	for _, line := range strings.Split(window, "\n") {
		line = cleanText(line)
		if line == "" || !dayTokenRe.MatchString(line) {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 7 {
			break
		}
	}
	return strings.Join(lines, "; ")
}
