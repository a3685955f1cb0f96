package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLen is the shortest token kept; anything at or below
// two runes is noise for matching.
const minTokenLen = 3

var defaultStopWords = []string{
	// articles
	"el", "la", "los", "las", "un", "una", "unos", "unas", "lo",
	// conjunctions
	"y", "e", "o", "u", "ni", "pero", "que", "sino", "porque", "como", "cuando", "aunque", "pues",
	// prepositions and contractions
	"a", "al", "ante", "bajo", "con", "contra", "de", "del", "desde", "en", "entre", "hacia",
	"hasta", "para", "por", "según", "segun", "sin", "sobre", "tras",
	// possessives and pronouns that carry no topic
	"mi", "mis", "tu", "tus", "su", "sus", "me", "te", "se", "nos", "les", "este", "esta", "estos", "estas", "eso", "esa",
	// English counterparts
	"the", "an", "and", "or", "but", "of", "in", "on", "at", "to", "for", "with", "from", "by", "about", "into", "over", "this", "that",
}

// Normalize lower-cases and trims a query.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tokenize splits normalized text on anything that is not a letter or digit,
// drops short tokens and stop words, and removes duplicates keeping first occurrence.
func Tokenize(normalized string, stopWords map[string]struct{}) []string {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenLen {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[Normalize(w)] = struct{}{}
	}
	return set
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
