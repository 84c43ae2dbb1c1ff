// Package textnorm canonicalizes free-text names so that equivalent-looking
// strings always collide to the same key. The same functions are applied to
// brand names, product names and dictionary keys; mixing normalization
// strategies between producers and consumers is what breaks fuzzy matching.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize decomposes Unicode accents, strips combining marks and lowercases.
// Total: any failure returns the lowercased input rather than an error.
func Normalize(s string) string {
	lowered := strings.ToLower(s)
	result, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		return lowered
	}
	return result
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// CanonicalKey builds a compact matching key: accent-stripped, lowercased,
// with every run of non-alphanumeric characters collapsed and all whitespace
// removed. "Kuhn-Modelo 3" and "kuhn modelo3" both yield "kuhnmodelo3".
func CanonicalKey(s string) string {
	spaced := nonAlnum.ReplaceAllString(Normalize(s), " ")
	return strings.Join(strings.Fields(spaced), "")
}

var (
	integralFloat = regexp.MustCompile(`^(\d+)\.0+$`)
	nonDigit      = regexp.MustCompile(`\D`)
)

// CleanTariffCode standardizes a tariff code cell to its digits.
// Numeric cells rendered as integral floats ("1234.0") keep only the integer
// part; everything else has all non-digit characters stripped, so "8432.10"
// becomes "843210".
func CleanTariffCode(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := integralFloat.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return nonDigit.ReplaceAllString(trimmed, "")
}
