package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/MetalScout/internal/types"
)

// businessTypes are the schema.org types treated as a business entity.
var businessTypes = map[string]bool{
	"LocalBusiness":   true,
	"Organization":    true,
	"RecyclingCenter": true,
	"Store":           true,
	"AutoRepair":      true,
}

// applyStructuredData runs the structured metadata pass: JSON-LD
// business nodes first, then microdata. Fields fill with setdefault
// semantics, the first value seen for a field wins.
func (e *Extractor) applyStructuredData(doc *goquery.Document, rec *types.CompanyRecord) {
	for _, node := range findBusinessNodes(doc) {
		applyBusinessNode(node, rec)
	}
	applyMicrodata(doc, rec)
}

// findBusinessNodes parses every ld+json script and returns the nodes
// whose @type is a business type. Handles top-level objects, arrays,
// and @graph containers. Malformed JSON is skipped, not an error.
func findBusinessNodes(doc *goquery.Document) []map[string]any {
	var nodes []map[string]any

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var single map[string]any
		if err := json.Unmarshal([]byte(raw), &single); err == nil {
			nodes = append(nodes, collectBusinessNodes(single)...)
			return
		}

		var arr []map[string]any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			for _, item := range arr {
				nodes = append(nodes, collectBusinessNodes(item)...)
			}
		}
	})

	return nodes
}

// collectBusinessNodes descends into @graph containers looking for
// business-typed nodes.
func collectBusinessNodes(node map[string]any) []map[string]any {
	var out []map[string]any
	if isBusinessType(node["@type"]) {
		out = append(out, node)
	}
	if graph, ok := node["@graph"].([]any); ok {
		for _, item := range graph {
			if m, ok := item.(map[string]any); ok && isBusinessType(m["@type"]) {
				out = append(out, m)
			}
		}
	}
	return out
}

// isBusinessType handles @type as a string or a list of strings.
func isBusinessType(v any) bool {
	switch t := v.(type) {
	case string:
		return businessTypes[t]
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && businessTypes[s] {
				return true
			}
		}
	}
	return false
}

// applyBusinessNode copies name/contact/address/hours fields from a
// JSON-LD node into the record without overwriting earlier values.
func applyBusinessNode(node map[string]any, rec *types.CompanyRecord) {
	setDefault(&rec.Name, stringValue(node["name"]))
	setDefault(&rec.Description, stringValue(node["description"]))

	if tel := stringValue(node["telephone"]); tel != "" {
		rec.Phones = types.DedupStrings(append(rec.Phones, tel))
	}
	if email := stringValue(node["email"]); email != "" {
		email = strings.TrimPrefix(strings.ToLower(email), "mailto:")
		rec.Emails = types.DedupStrings(append(rec.Emails, email))
	}

	if addr, ok := node["address"].(map[string]any); ok {
		setDefault(&rec.StreetAddress, stringValue(addr["streetAddress"]))
		setDefault(&rec.City, stringValue(addr["addressLocality"]))
		setDefault(&rec.Region, stringValue(addr["addressRegion"]))
		setDefault(&rec.PostalCode, stringValue(addr["postalCode"]))
		setDefault(&rec.Country, stringValue(addr["addressCountry"]))
	} else if addr := stringValue(node["address"]); addr != "" {
		setDefault(&rec.StreetAddress, addr)
	}

	setDefault(&rec.OpeningHours, formatOpeningHours(node))
}

// formatOpeningHours renders openingHours or openingHoursSpecification
// from a JSON-LD node into a single display string.
func formatOpeningHours(node map[string]any) string {
	switch oh := node["openingHours"].(type) {
	case string:
		return strings.TrimSpace(oh)
	case []any:
		var parts []string
		for _, item := range oh {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	specs, ok := node["openingHoursSpecification"].([]any)
	if !ok {
		if single, ok := node["openingHoursSpecification"].(map[string]any); ok {
			specs = []any{single}
		}
	}
	var parts []string
	for _, item := range specs {
		spec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		days := dayNames(spec["dayOfWeek"])
		opens := stringValue(spec["opens"])
		closes := stringValue(spec["closes"])
		if days == "" || opens == "" || closes == "" {
			continue
		}
		parts = append(parts, days+" "+opens+"-"+closes)
	}
	return strings.Join(parts, "; ")
}

// dayNames renders a dayOfWeek value (string, URL, or list) as
// comma-joined day names.
func dayNames(v any) string {
	var days []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		// schema.org URIs like https://schema.org/Monday
		if i := strings.LastIndex(s, "/"); i != -1 {
			s = s[i+1:]
		}
		if s != "" {
			days = append(days, s)
		}
	}
	switch t := v.(type) {
	case string:
		add(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}
	return strings.Join(days, ",")
}

// applyMicrodata fills address and contact fields from itemprop
// attributes, again without overwriting.
func applyMicrodata(doc *goquery.Document, rec *types.CompanyRecord) {
	prop := func(name string) string {
		var val string
		doc.Find(`[itemprop="` + name + `"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
				val = strings.TrimSpace(content)
				return false
			}
			if text := cleanText(s.Text()); text != "" {
				val = text
				return false
			}
			return true
		})
		return val
	}

	setDefault(&rec.Name, prop("name"))
	setDefault(&rec.StreetAddress, prop("streetAddress"))
	setDefault(&rec.City, prop("addressLocality"))
	setDefault(&rec.Region, prop("addressRegion"))
	setDefault(&rec.PostalCode, prop("postalCode"))
	setDefault(&rec.Country, prop("addressCountry"))
	if tel := prop("telephone"); tel != "" {
		rec.Phones = types.DedupStrings(append(rec.Phones, tel))
	}
	if email := prop("email"); email != "" {
		rec.Emails = types.DedupStrings(append(rec.Emails, strings.ToLower(email)))
	}
}

// setDefault assigns val to dst only if dst is empty.
func setDefault(dst *string, val string) {
	if *dst == "" && val != "" {
		*dst = val
	}
}

// stringValue coerces a JSON value to a trimmed string. Lists take
// their first string element.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
