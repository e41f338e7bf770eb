// Package search normaliza texto para búsquedas insensibles a mayúsculas y diacríticos.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold pasa a minúsculas y elimina marcas diacríticas ("Café Ñandú" → "cafe nandu").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Matches indica si query (ya plegada o no) aparece en alguno de los campos.
// Una query vacía coincide siempre.
func Matches(query string, fields ...string) bool {
	q := Fold(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(Fold(f), q) {
			return true
		}
	}
	return false
}
