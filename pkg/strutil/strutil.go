// Package strutil turns titles into hash friendly slugs.
package strutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWord   = regexp.MustCompile(`[^0-9a-zA-Z\x{C0}-\x{FF} \-]`)
	camelCase = regexp.MustCompile(`([a-z\x{E0}-\x{FF}])([A-Z\x{C0}\x{DF}])`)
	spaces    = regexp.MustCompile(` +`)

	// letters that have no canonical decomposition
	ligatures = strings.NewReplacer(
		"Æ", "AE", "æ", "ae",
		"Ð", "D", "ð", "D",
		"Ø", "O", "ø", "o",
		"Þ", "P", "þ", "p",
		"ß", "B",
	)
)

// Hyphenate removes non-word characters, splits camelCase words, replaces
// spaces with hyphens and strips accents.
//
//	Hyphenate("Lorem Ipsum dolorSit") == "Lorem-Ipsum-dolor-Sit"
func Hyphenate(s string) string {
	s = nonWord.ReplaceAllString(s, "")
	s = camelCase.ReplaceAllString(s, "$1 $2")
	s = spaces.ReplaceAllString(s, "-")
	return RemoveAccents(s)
}

// RemoveAccents replaces Latin-1 accented letters with their ASCII base.
func RemoveAccents(s string) string {
	s = ligatures.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
