package types

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is the result of fetching a URL.
type Page struct {
	// URL is the originally requested URL.
	URL string

	// FinalURL is the URL after any redirects.
	FinalURL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers are the response HTTP headers.
	Headers http.Header

	// Body is the raw (decompressed) response body.
	Body []byte

	// ContentType is the MIME type of the response.
	ContentType string

	// FetchDuration is how long the fetch took.
	FetchDuration time.Duration

	// FetchedAt is when this response was received.
	FetchedAt time.Time

	// doc is a parsed goquery document, lazily loaded.
	doc *goquery.Document
}

// Document returns a parsed goquery document for the body, lazily
// initializing it on first use.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}

// IsSuccess returns true if the response status is 2xx.
func (p *Page) IsSuccess() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// IsHTML reports whether the response looks like an HTML document. A missing
// Content-Type falls back to sniffing the body prefix.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(p.ContentType)
	if strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml") {
		return true
	}
	if ct != "" {
		return false
	}
	head := bytes.ToLower(p.Body[:min(len(p.Body), 512)])
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<!doctype html"))
}
