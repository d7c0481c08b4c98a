// Package normalize contains the pure field normalizers used by the
// transformers: phone canonicalization, category standardization, and
// multi-format date parsing. All functions are deterministic and side-effect
// free apart from a warning log on unparseable dates.
package normalize

import (
	"log"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ISODate is the canonical date layout emitted by Date.
const ISODate = "2006-01-02"

// dateLayouts are tried in this exact order. DD/MM/YYYY is deliberately tried
// before MM/DD/YYYY, so an ambiguous value like 03/04/2024 resolves as DD/MM.
// The ordering is load-bearing for compatibility; do not re-sort.
var dateLayouts = []string{
	"2006-01-02", // YYYY-MM-DD
	"02/01/2006", // DD/MM/YYYY
	"01-02-2006", // MM-DD-YYYY
	"02-01-2006", // DD-MM-YYYY
	"2006/01/02", // YYYY/MM/DD
	"01/02/2006", // MM/DD/YYYY
}

// categorySynonyms maps lowercased, trimmed input to the canonical category
// name. Unmatched non-empty input passes through title-cased.
var categorySynonyms = map[string]string{
	"electronics":        "Electronics",
	"furniture":          "Furniture",
	"furnitures":         "Furniture",
	"stationery":         "Stationery",
	"kitchen":            "Kitchen Appliances",
	"kitchen appliances": "Kitchen Appliances",
}

// Phone canonicalizes an Indian subscriber number to "+91-XXXXXXXXXX".
//
// All characters other than digits and '+' are stripped, then a leading
// country code ("91" or "+91") or trunk "0" is removed. A 10-digit remainder
// is accepted as-is; longer remainders keep their last 10 digits; anything
// shorter yields ok=false. An absent phone is droppable data, not an error.
func Phone(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	switch {
	case strings.HasPrefix(clean, "+91"):
		clean = clean[3:]
	case strings.HasPrefix(clean, "91"):
		clean = clean[2:]
	case strings.HasPrefix(clean, "0"):
		clean = clean[1:]
	}

	switch {
	case len(clean) == 10:
		return "+91-" + clean, true
	case len(clean) > 10:
		return "+91-" + clean[len(clean)-10:], true
	default:
		return "", false
	}
}

// Category maps a raw category value onto its canonical name using the fixed
// synonym table (case- and whitespace-insensitive). Unmatched non-empty input
// is title-cased and passed through; empty input yields ok=false.
func Category(raw string) (string, bool) {
	c := strings.TrimSpace(raw)
	if c == "" {
		return "", false
	}
	if canonical, ok := categorySynonyms[strings.ToLower(c)]; ok {
		return canonical, true
	}
	return Title(c), true
}

// Date parses a raw date using the fixed layout priority order and returns it
// in ISO YYYY-MM-DD form. Unparseable input logs a warning and yields
// ok=false.
func Date(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate), true
		}
	}
	log.Printf("could not parse date: %q", s)
	return "", false
}

// Title returns s title-cased per English casing rules.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
