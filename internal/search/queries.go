package search

import (
	"strings"

	"github.com/IshaanNene/MetalScout/internal/types"
)

// baseTopics are the standalone industry queries issued regardless of
// location.
var baseTopics = []string{
	"scrap metal recycling center",
	"scrap yard",
	"metal recycling services",
	"scrap metal buyers",
	"scrap metal collection",
}

// placeTemplates produce location-qualified queries. %s is replaced
// with the place string.
var placeTemplates = []string{
	"metal recycling %s",
	"scrap yard near %s",
	"sell scrap metal %s",
	"scrap prices %s",
}

// BuildQueries expands a location into the full deterministic query
// list: each base topic qualified by the place, then the place
// templates. Duplicates are removed preserving first occurrence.
func BuildQueries(loc types.Location) []string {
	place := loc.Place()

	var queries []string
	for _, topic := range baseTopics {
		if place == "" {
			queries = append(queries, topic)
			continue
		}
		queries = append(queries, topic+" "+place)
	}
	if place != "" {
		for _, tmpl := range placeTemplates {
			queries = append(queries, strings.Replace(tmpl, "%s", place, 1))
		}
	}

	return types.DedupStrings(queries)
}
