package types

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRecordHostNormalization(t *testing.T) {
	cases := []struct {
		website string
		want    string
	}{
		{"https://example.com/", "example.com"},
		{"https://www.example.com/contact", "example.com"},
		{"https://WWW.Example.COM/", "example.com"},
		{"http://example.com:8080/", "example.com"},
		{"https://sub.example.com/", "sub.example.com"},
		{"://missing-scheme", ""},
	}
	for _, tc := range cases {
		rec := &CompanyRecord{Website: tc.website}
		if got := rec.Host(); got != tc.want {
			t.Errorf("Host(%q) = %q, want %q", tc.website, got, tc.want)
		}
	}
}

func TestCapTruncatesDescriptionOnRuneBoundary(t *testing.T) {
	rec := &CompanyRecord{
		Description: strings.Repeat("é", MaxDescription+50),
	}
	rec.Cap()
	if !utf8.ValidString(rec.Description) {
		t.Error("truncated description is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(rec.Description); n != MaxDescription {
		t.Errorf("description length = %d runes, want %d", n, MaxDescription)
	}
}

func TestCapTruncatesListFields(t *testing.T) {
	rec := &CompanyRecord{
		Phones: make([]string, MaxPhones+3),
		Emails: make([]string, MaxEmails+1),
	}
	for i := range rec.Phones {
		rec.Phones[i] = "p"
	}
	for i := range rec.Emails {
		rec.Emails[i] = "e"
	}
	rec.Cap()
	if len(rec.Phones) != MaxPhones {
		t.Errorf("phones = %d, want %d", len(rec.Phones), MaxPhones)
	}
	if len(rec.Emails) != MaxEmails {
		t.Errorf("emails = %d, want %d", len(rec.Emails), MaxEmails)
	}
}
