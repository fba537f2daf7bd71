package userform

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// upper applies pt-BR casing rules to a single leading rune.
// cases.Caser is stateful, so each call gets its own.
func upper(s string) string {
	return cases.Upper(language.BrazilianPortuguese).String(s)
}

// CapitalizeWords trims s and upper-cases the first character of every
// space-delimited word, leaving the rest of each word untouched.
//
// Input is NFC-normalized first so a decomposed "é" (e + U+0301) counts as a
// single leading character. Empty tokens from repeated spaces are kept as-is,
// so "ana  maria" becomes "Ana  Maria".
func CapitalizeWords(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = upper(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}

// NormalizeEmail lower-cases an e-mail address. It does not trim; the syntax
// rule rejects surrounding whitespace.
func NormalizeEmail(s string) string {
	return strings.ToLower(s)
}
