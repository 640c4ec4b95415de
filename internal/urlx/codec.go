// Package urlx normalizes search-result URLs. Search engines wrap the
// destination in redirect links (DuckDuckGo's /l/?uddg=, Bing's /ck/a
// with a base64url u= payload); this package unwraps them and filters
// out URLs that cannot be a business's own site.
package urlx

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/IshaanNene/MetalScout/internal/types"
)

// searchEngineHosts are hosts that serve search results or tracking
// redirects rather than destination content.
var searchEngineHosts = map[string]bool{
	"duckduckgo.com":      true,
	"html.duckduckgo.com": true,
	"bing.com":            true,
	"www.bing.com":        true,
	"cn.bing.com":         true,
	"r.msn.com":           true,
	"r.bing.com":          true,
	"c.bing.com":          true,
	"google.com":          true,
	"www.google.com":      true,
	"yahoo.com":           true,
	"search.yahoo.com":    true,
	"msn.com":             true,
	"go.microsoft.com":    true,
}

// blockedHosts are aggregators and platforms that never represent a
// business's own website.
var blockedHosts = []string{
	"facebook.com", "instagram.com", "twitter.com", "x.com", "linkedin.com",
	"youtube.com", "yelp.com", "yellowpages.com", "bbb.org", "mapquest.com",
	"foursquare.com", "tripadvisor.com", "glassdoor.com", "indeed.com",
	"wikipedia.org", "pinterest.com", "reddit.com", "angi.com", "thumbtack.com",
	"manta.com", "dnb.com", "bizapedia.com", "chamberofcommerce.com",
	"cylex.us.com", "hotfrog.com", "superpages.com", "merchantcircle.com",
	"amazon.com", "tiktok.com", "medium.com",
}

// badPathMarkers reject map, translation, and search result paths.
var badPathMarkers = []string{
	"/maps", "maps.google", "translate.google", "/dir/", "/directories/", "/search?",
}

// redirectParams are query parameters that carry a wrapped destination
// URL, in the order they are checked.
var redirectParams = []string{"uddg", "u", "url", "target"}

// Normalize unwraps redirect wrappers from a search result URL without
// any network I/O. It returns the destination URL, or an error if the
// input is unusable. Normalize is idempotent: normalizing its own
// output returns the same URL.
func Normalize(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", types.ErrInvalidURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", types.ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", types.ErrInvalidURL
	}
	if u.Host == "" {
		return "", types.ErrInvalidURL
	}

	// Unwrap redirect parameters, repeatedly in case of nesting.
	for i := 0; i < 3; i++ {
		inner, ok := unwrapOnce(u)
		if !ok {
			break
		}
		u = inner
	}

	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", types.ErrInvalidURL
	}
	return u.String(), nil
}

// unwrapOnce extracts a wrapped destination from one layer of redirect
// parameters. Returns false when the URL carries no wrapped target.
func unwrapOnce(u *url.URL) (*url.URL, bool) {
	if !IsSearchHost(u.Host) {
		return nil, false
	}
	q := u.Query()
	for _, param := range redirectParams {
		val := q.Get(param)
		if val == "" {
			continue
		}
		if dest := decodeTarget(val); dest != nil {
			return dest, true
		}
	}
	return nil, false
}

// decodeTarget interprets a redirect parameter value as either a
// URL-encoded URL or a base64url payload (Bing's u= with its "a1"
// prefix and stripped padding).
func decodeTarget(val string) *url.URL {
	// Plain or percent-encoded URL
	if strings.HasPrefix(val, "http://") || strings.HasPrefix(val, "https://") {
		if u, err := url.Parse(val); err == nil && u.Host != "" {
			return u
		}
	}
	if unescaped, err := url.QueryUnescape(val); err == nil {
		if strings.HasPrefix(unescaped, "http://") || strings.HasPrefix(unescaped, "https://") {
			if u, err := url.Parse(unescaped); err == nil && u.Host != "" {
				return u
			}
		}
	}

	// base64url: try the value as-is, then with Bing's two-char
	// version prefix ("a1") stripped.
	if u := decodeBase64URL(val); u != nil {
		return u
	}
	if len(val) > 2 && val[0] == 'a' {
		return decodeBase64URL(val[2:])
	}
	return nil
}

// decodeBase64URL decodes a base64url payload (padding restored) into a
// URL. Returns nil unless the decoded text is an http(s) URL.
func decodeBase64URL(payload string) *url.URL {
	if pad := len(payload) % 4; pad != 0 {
		payload += strings.Repeat("=", 4-pad)
	}
	decoded, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	s := string(decoded)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}

// Resolver unwraps URLs, following live redirects for tracking hosts
// that cannot be decoded offline (r.msn.com and friends).
type Resolver struct {
	client *http.Client
}

// NewResolver creates a Resolver that uses the given client for the
// single-hop live lookup. A nil client disables live resolution.
func NewResolver(client *http.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve normalizes rawURL, then if the result still points at a
// search or tracking host, follows redirects once over the network to
// find the destination. Results still on a search host are rejected.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	normalized, err := Normalize(rawURL)
	if err != nil {
		return "", err
	}

	u, _ := url.Parse(normalized)
	if !IsSearchHost(u.Host) {
		return normalized, nil
	}

	if r.client == nil {
		return "", types.ErrInvalidURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return "", types.ErrInvalidURL
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", types.ErrInvalidURL
	}
	resp.Body.Close()

	final := resp.Request.URL
	if IsSearchHost(final.Host) {
		return "", types.ErrInvalidURL
	}
	return final.String(), nil
}

// IsSearchHost reports whether host belongs to a search engine or its
// redirect/tracking infrastructure.
func IsSearchHost(host string) bool {
	host = strings.ToLower(stripPort(host))
	if searchEngineHosts[host] {
		return true
	}
	for h := range searchEngineHosts {
		if strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// IsUsable reports whether a normalized URL can plausibly be a
// business's own website. Blocked platforms, search hosts, and bad
// paths are rejected.
func IsUsable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(stripPort(u.Host))
	if IsSearchHost(host) {
		return false
	}
	for _, blocked := range blockedHosts {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return false
		}
	}
	full := strings.ToLower(u.Path)
	if u.RawQuery != "" {
		full += "?" + strings.ToLower(u.RawQuery)
	}
	for _, marker := range badPathMarkers {
		if strings.Contains(full, marker) || strings.Contains(strings.ToLower(rawURL), marker) {
			return false
		}
	}
	return true
}

// CanonicalHost lowercases the host and strips a leading "www." and
// any port, for host-level deduplication.
func CanonicalHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(stripPort(u.Host))
	host = strings.TrimPrefix(host, "www.")
	return host
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i != -1 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}
