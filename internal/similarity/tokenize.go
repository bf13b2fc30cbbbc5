// Package similarity scores how related two filenames are and groups a
// directory listing into clusters of related files.
package similarity

import (
	"slices"
	"strings"
	"unicode"
)

// knownPhrases are kept as single tokens whenever they occur in a name.
var knownPhrases = []string{
	"whatsapp chat",
	"whatsapp chats",
	"whatsapp image",
	"screenshot",
	"screen shot",
	"chatgpt",
	"img_",
	"photo",
	"picture",
	"document",
	"download",
}

// TokenSet is an unordered set of normalized tokens.
type TokenSet map[string]struct{}

// Has reports whether tok is in the set.
func (s TokenSet) Has(tok string) bool {
	_, ok := s[tok]
	return ok
}

// Sorted returns the tokens in lexical order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tok := range s {
		out = append(out, tok)
	}
	slices.Sort(out)
	return out
}

func (s TokenSet) add(tok string) {
	s[tok] = struct{}{}
}

// isAlnum counts combining vowel signs (Other_Alphabetic) as letters so
// scripts such as Devanagari keep whole words.
func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r)
}

func isTokenDelimiter(r rune) bool {
	switch r {
	case '-', '_', '.', '(', ')', '[', ']', '{', '}', ' ':
		return true
	}
	return false
}

// StripExtension drops everything from the last '.' onwards.
func StripExtension(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[:i]
	}
	return filename
}

// Tokenize turns a filename into its token set: the cleaned full name,
// recognized phrases, delimiter-split words and word bigrams.
func Tokenize(filename string) TokenSet {
	tokens := make(TokenSet)

	name := StripExtension(filename)
	lower := strings.ToLower(name)

	clean := strings.TrimSpace(strings.Map(func(r rune) rune {
		if isAlnum(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lower))
	if clean != "" {
		tokens.add(clean)
	}

	for _, phrase := range knownPhrases {
		if strings.Contains(lower, phrase) {
			tokens.add(phrase)
		}
	}

	for _, word := range strings.FieldsFunc(name, isTokenDelimiter) {
		word = strings.ToLower(word)
		// Bare sequence numbers would match unrelated files.
		if len(word) > 1 && !allNumeric(word) {
			tokens.add(word)
		}
	}

	words := make([]string, 0, 8)
	for _, w := range strings.FieldsFunc(name, func(r rune) bool { return !isAlnum(r) && r != ' ' }) {
		if strings.TrimSpace(w) == "" {
			continue
		}
		words = append(words, strings.ToLower(w))
	}
	for i := 0; i+1 < len(words); i++ {
		tokens.add(words[i] + " " + words[i+1])
	}

	return tokens
}

func allNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
