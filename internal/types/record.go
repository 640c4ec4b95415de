// Package types defines the core data model shared across subsystems.
package types

import (
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Default per-field caps for a CompanyRecord. List fields are truncated to
// these sizes, never rejected for exceeding them.
const (
	MaxPhones        = 5
	MaxEmails        = 5
	MaxWhatsapp      = 5
	MaxSocialLinks   = 10
	MaxPriceMentions = 20
	MaxDescription   = 400
)

// Location is the geographic scope of a discovery run. Country is required;
// Region and City narrow the search and are dropped one at a time when the
// run needs to broaden.
type Location struct {
	Country string
	Region  string
	City    string
}

// Place returns the location parts joined most-specific first, suitable for
// embedding in a search query ("Houston Texas United States").
func (l Location) Place() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.Region, l.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Display returns a comma-separated human-readable form ("Houston, Texas, United States").
func (l Location) Display() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.Region, l.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Broaden returns a copy with the most specific part removed (city first,
// then region). ok is false when there is nothing left to drop.
func (l Location) Broaden() (Location, bool) {
	switch {
	case l.City != "":
		return Location{Country: l.Country, Region: l.Region}, true
	case l.Region != "":
		return Location{Country: l.Country}, true
	default:
		return l, false
	}
}

// BackendName identifies which search backend produced a hit.
type BackendName string

const (
	BackendBing       BackendName = "bing"
	BackendDuckDuckGo BackendName = "ddg"
	BackendWebAPI     BackendName = "webapi"
)

// RawHit is a single raw result URL as returned by a search backend, before
// redirect unwrapping. Ephemeral: consumed immediately by the URL codec.
type RawHit struct {
	URL        string
	Backend    BackendName
	QueryIndex int
	PageIndex  int
}

// Candidate is a normalized, deduplicated URL waiting to be fetched.
type Candidate struct {
	// URL is the normalized candidate URL.
	URL string

	// Host is the lowercased hostname, the dedup key.
	Host string

	// Score is the ranking heuristic value; higher sorts first.
	Score int

	// SeenIndex is the discovery-order index, used to break score ties.
	SeenIndex int
}

// CompanyRecord is the terminal entity of the pipeline: one extracted
// business. A record is valid only if Phones or Emails is non-empty.
type CompanyRecord struct {
	Name          string   `json:"name"           bson:"name"`
	Website       string   `json:"website"        bson:"website"`
	StreetAddress string   `json:"street_address" bson:"street_address"`
	City          string   `json:"city"           bson:"city"`
	Region        string   `json:"region"         bson:"region"`
	PostalCode    string   `json:"postal_code"    bson:"postal_code"`
	Country       string   `json:"country"        bson:"country"`
	Phones        []string `json:"phones"         bson:"phones"`
	Emails        []string `json:"emails"         bson:"emails"`
	WhatsappLinks []string `json:"whatsapp_links" bson:"whatsapp_links"`
	SocialLinks   []string `json:"social_links"   bson:"social_links"`
	OpeningHours  string   `json:"opening_hours"  bson:"opening_hours"`
	Materials     []string `json:"materials"      bson:"materials"`
	PriceMentions []string `json:"price_mentions" bson:"price_mentions"`
	Description   string   `json:"description"    bson:"description"`

	// ExtractedAt is when the record was produced.
	ExtractedAt time.Time `json:"extracted_at" bson:"extracted_at"`
}

// HasContact reports whether the record carries at least one direct contact
// channel. Records without one are rejected by the validator.
func (r *CompanyRecord) HasContact() bool {
	return len(r.Phones) > 0 || len(r.Emails) > 0
}

// Host returns the normalized hostname of the record's website, or "" if the
// website URL does not parse. Normalization matches candidate dedup: the host
// is lowercased and a leading "www." is stripped, so "example.com" and
// "www.example.com" claim the same host.
func (r *CompanyRecord) Host() string {
	u, err := url.Parse(r.Website)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// Cap truncates all list fields to their maximum sizes and sorts Materials.
// Truncation preserves first-seen order; Materials is rendered sorted so the
// set has a stable textual form.
func (r *CompanyRecord) Cap() {
	r.Phones = truncate(r.Phones, MaxPhones)
	r.Emails = truncate(r.Emails, MaxEmails)
	r.WhatsappLinks = truncate(r.WhatsappLinks, MaxWhatsapp)
	r.SocialLinks = truncate(r.SocialLinks, MaxSocialLinks)
	r.PriceMentions = truncate(r.PriceMentions, MaxPriceMentions)
	sort.Strings(r.Materials)
	if utf8.RuneCountInString(r.Description) > MaxDescription {
		rs := []rune(r.Description)
		r.Description = string(rs[:MaxDescription])
	}
}

func truncate(s []string, max int) []string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// DedupStrings removes duplicates from a string slice, preserving first-seen
// order. Empty strings are dropped.
func DedupStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
