// SPDX-License-Identifier: MIT

package epg

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	unorm "golang.org/x/text/unicode/norm"
)

// clean trims s and normalises it to NFC.
func clean(s string) string {
	return unorm.NFC.String(strings.TrimSpace(s))
}

// capitalize upper-cases the first rune and lower-cases the rest.
// "dessin ANIMÉ" becomes "Dessin animé".
func capitalize(s string) string {
	s = clean(s)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	rest := cases.Lower(language.French).String(s[size:])
	return unorm.NFC.String(string(unicode.ToTitle(r)) + rest)
}
