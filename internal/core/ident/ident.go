// Package ident canonicalizes order and product identifiers so that values
// exported by different marketplaces compare equal.
package ident

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Dash-like code points seen in marketplace exports. All are rewritten to
// ASCII hyphen before comparison.
var dashRunes = map[rune]struct{}{
	'‐': {}, // hyphen
	'‑': {}, // non-breaking hyphen
	'‒': {}, // figure dash
	'–': {}, // en dash
	'—': {}, // em dash
	'―': {}, // horizontal bar
	'−': {}, // minus sign
	'﹘': {}, // small em dash
	'﹣': {}, // small hyphen-minus
	'－': {}, // fullwidth hyphen-minus
}

// NormalizeID converts any identifier value to its canonical form: trimmed,
// Unicode-normalized, every dash variant rewritten to "-". Empty input yields
// "". The function is idempotent.
func NormalizeID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// NFKC folds fullwidth and compatibility forms before the dash pass.
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := dashRunes[r]; ok {
			b.WriteRune('-')
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// ExtractProductID pulls a marketplace catalog id out of free text: the input
// is upper-cased and scanned for runs of exactly 10 alphanumerics. A
// candidate starting with "B0" wins (standard catalog-id prefix); otherwise
// the last candidate found is returned. ok is false when no run exists.
func ExtractProductID(raw string) (id string, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	// Only runs of exactly 10 characters qualify; a 12-character SKU must
	// not contribute a 10-character substring.
	var exact []string
	for _, c := range alphanumericRuns(s) {
		if len(c) == 10 {
			exact = append(exact, c)
		}
	}
	if len(exact) == 0 {
		return "", false
	}
	for _, c := range exact {
		if strings.HasPrefix(c, "B0") {
			return c, true
		}
	}
	return exact[len(exact)-1], true
}

// alphanumericRuns returns every maximal alphanumeric run in s.
func alphanumericRuns(s string) []string {
	var runs []string
	start := -1
	for i, r := range s {
		alnum := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if alnum {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}
