// Package textkey derives the search keys stored next to every label value.
//
// A key is the lowercase, compatibility-decomposed form of the display text
// reduced to ASCII letters and digits, so "Café-123" and "cafe 123" share
// the key "cafe123". Text in non-Latin scripts reduces to an empty key.
package textkey

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var drop = runes.Predicate(func(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
})

// Normalize returns the search key for text.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	// Chains hold state; one per call.
	t := transform.Chain(norm.NFKD, runes.Remove(drop))
	key, _, _ := transform.String(t, strings.ToLower(text))
	return key
}
