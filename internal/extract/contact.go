package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

// junkEmailSuffixes filter asset filenames that match the email shape
// (logo@2x.png and friends).
var junkEmailSuffixes = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".css", ".js",
}

// extractEmails finds addresses in mailto: links and page text.
func extractEmails(doc *goquery.Document, text string) []string {
	var emails []string
	seen := make(map[string]bool)
	add := func(email string) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			return
		}
		for _, suffix := range junkEmailSuffixes {
			if strings.HasSuffix(email, suffix) {
				return
			}
		}
		seen[email] = true
		emails = append(emails, email)
	}

	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i != -1 {
			addr = addr[:i]
		}
		if emailRe.MatchString(addr) {
			add(addr)
		}
	})

	for _, m := range emailRe.FindAllString(text, 20) {
		add(m)
	}
	return emails
}
