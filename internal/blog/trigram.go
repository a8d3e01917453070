package blog

import (
	"strings"
	"unicode"
)

// SimilarityThreshold is the minimum trigram similarity a title must score
// against the query to be retained as a search result.
const SimilarityThreshold = 0.3

// TrigramSimilarity returns a normalized fuzzy-match score in [0,1] between
// two strings based on shared character trigrams. Strings are lowercased and
// split into words; each word is padded with two leading spaces and one
// trailing space before extraction, matching the pg_trgm convention, so 1.0
// means identical trigram sets and 0.0 means no shared trigrams. The measure
// is symmetric.
func TrigramSimilarity(a, b string) float64 {
	setA := trigramSet(a)
	setB := trigramSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for gram := range setA {
		if _, ok := setB[gram]; ok {
			shared++
		}
	}

	union := len(setA) + len(setB) - shared
	if union == 0 {
		return 0
	}

	return float64(shared) / float64(union)
}

func trigramSet(s string) map[string]struct{} {
	set := make(map[string]struct{})

	for _, word := range splitWords(strings.ToLower(s)) {
		padded := "  " + word + " "
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			set[string(runes[i:i+3])] = struct{}{}
		}
	}

	return set
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
