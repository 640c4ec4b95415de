package urlx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeUnwrapsDuckDuckGo(t *testing.T) {
	in := "https://duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fscrap&rut=abc123"
	got, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "https://example.com/scrap" {
		t.Errorf("Normalize = %q, want %q", got, "https://example.com/scrap")
	}
}

func TestNormalizeUnwrapsBingBase64(t *testing.T) {
	// Bing wraps destinations in a base64url u= param with an "a1"
	// prefix and stripped padding.
	in := "https://www.bing.com/ck/a?!&&p=deadbeef&u=a1aHR0cHM6Ly9zY3JhcGtpbmdtZXRhbHMuY29tL2xvY2F0aW9ucw&ntb=1"
	got, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "https://scrapkingmetals.com/locations" {
		t.Errorf("Normalize = %q, want %q", got, "https://scrapkingmetals.com/locations")
	}
}

func TestNormalizeUnwrapsPlainBase64(t *testing.T) {
	// DuckDuckGo sometimes base64url-encodes uddg without any version
	// prefix; the payload must decode as-is.
	in := "https://duckduckgo.com/l/?uddg=aHR0cHM6Ly9hY21lLW1ldGFscy50ZXN0"
	got, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "https://acme-metals.test" {
		t.Errorf("Normalize = %q, want %q", got, "https://acme-metals.test")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	urls := []string{
		"https://duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2F",
		"https://www.bing.com/ck/a?u=a1aHR0cHM6Ly9leGFtcGxlLmNvbS8",
		"https://example.com/contact",
	}
	for _, in := range urls {
		first, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		second, err := Normalize(first)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)): %v", in, err)
		}
		if first != second {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, first, second)
		}
	}
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "   ", "ftp://example.com/x", "javascript:alert(1)", "/relative/path"} {
		if _, err := Normalize(in); err == nil {
			t.Errorf("Normalize(%q): expected error", in)
		}
	}
}

func TestNormalizeDoesNotUnwrapOrdinaryHosts(t *testing.T) {
	// A u= param on a non-search host is plain query data.
	in := "https://example.com/page?u=aHR0cHM6Ly9ldmlsLmNvbS8"
	got, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != in {
		t.Errorf("Normalize = %q, want unchanged %q", got, in)
	}
}

func TestResolvePassesThroughOrdinaryURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("resolver should not touch the network for ordinary URLs")
	}))
	defer srv.Close()

	r := NewResolver(srv.Client())
	got, err := r.Resolve(context.Background(), "https://scrapkingmetals.com/locations")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://scrapkingmetals.com/locations" {
		t.Errorf("Resolve = %q, want passthrough", got)
	}
}

func TestResolveRejectsUndecodableTrackingLinks(t *testing.T) {
	// r.msn.com links carry no decodable payload; without a client
	// for the live follow they are rejected.
	r := NewResolver(nil)
	if _, err := r.Resolve(context.Background(), "https://r.msn.com/track?id=xyz"); err == nil {
		t.Error("expected error for tracking link with nil client")
	}
}

func TestIsUsable(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://scrapkingmetals.com/", true},
		{"https://www.acmerecycling.co.uk/contact", true},
		{"https://www.yelp.com/biz/some-yard", false},
		{"https://facebook.com/somepage", false},
		{"https://m.yellowpages.com/listing", false},
		{"https://www.google.com/maps/place/x", false},
		{"https://example.com/dir/listing", false},
		{"https://translate.google.com/translate?u=x", false},
		{"https://example.com/search?q=scrap", false},
	}
	for _, tc := range cases {
		if got := IsUsable(tc.url); got != tc.want {
			t.Errorf("IsUsable(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestCanonicalHost(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.Example.COM/page", "example.com"},
		{"http://example.com:8080/", "example.com"},
		{"https://sub.example.com/", "sub.example.com"},
	}
	for _, tc := range cases {
		if got := CanonicalHost(tc.url); got != tc.want {
			t.Errorf("CanonicalHost(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
