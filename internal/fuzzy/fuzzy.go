// Package fuzzy provides string similarity scoring for handling typos and
// variations in state/crop names. Uses Levenshtein distance.
package fuzzy

import "strings"

// Levenshtein calculates the edit distance between two strings: the minimum
// number of single-character inserts, deletes or substitutions needed to
// change s1 into s2.
func Levenshtein(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// Two rolling rows of the DP table for space efficiency
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = minInt(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// Similarity scores two strings between 0 and 1 (1 = identical, 0 = completely
// different). Comparison is case-insensitive; equal strings always score 1.0.
func Similarity(s1, s2 string) float64 {
	s1Lower := strings.ToLower(s1)
	s2Lower := strings.ToLower(s2)

	if s1Lower == s2Lower {
		return 1.0
	}

	maxLen := len([]rune(s1))
	if l2 := len([]rune(s2)); l2 > maxLen {
		maxLen = l2
	}
	if maxLen == 0 {
		return 0.0
	}

	distance := Levenshtein(s1Lower, s2Lower)
	return 1.0 - float64(distance)/float64(maxLen)
}

// FindBestMatch scans candidates for the one most similar to query. The first
// candidate with the strictly highest score wins; the result only counts when
// its score reaches threshold.
func FindBestMatch(query string, candidates []string, threshold float64) (string, float64, bool) {
	if query == "" || len(candidates) == 0 {
		return "", 0, false
	}

	bestMatch := ""
	bestScore := 0.0

	for _, candidate := range candidates {
		score := Similarity(query, candidate)
		if score > bestScore {
			bestScore = score
			bestMatch = candidate
		}
	}

	if bestScore >= threshold {
		return bestMatch, bestScore, true
	}

	return "", 0, false
}

// cropSynonyms maps a crop key to its interchangeable name variants. Every
// group contains the key itself.
var cropSynonyms = map[string][]string{
	"rice":         {"paddy", "rice", "dhan"},
	"paddy":        {"paddy", "rice", "dhan"},
	"dhan":         {"paddy", "rice", "dhan"},
	"maize":        {"maize", "corn", "makka"},
	"corn":         {"maize", "corn", "makka"},
	"makka":        {"maize", "corn", "makka"},
	"millet":       {"millet", "pearl millet", "bajra", "bajri"},
	"pearl millet": {"millet", "pearl millet", "bajra", "bajri"},
	"bajra":        {"millet", "pearl millet", "bajra", "bajri"},
	"bajri":        {"millet", "pearl millet", "bajra", "bajri"},
	"wheat":        {"wheat", "gehun", "gehu"},
	"gehun":        {"wheat", "gehun", "gehu"},
	"gehu":         {"wheat", "gehun", "gehu"},
	"sugarcane":    {"sugarcane", "sugar cane", "ganna"},
	"sugar cane":   {"sugarcane", "sugar cane", "ganna"},
	"ganna":        {"sugarcane", "sugar cane", "ganna"},
}

// CropSynonyms returns the known synonym group for a crop name, or the name
// itself when no group is registered. Lookup is case-insensitive.
func CropSynonyms(crop string) []string {
	key := strings.ToLower(strings.TrimSpace(crop))
	if group, ok := cropSynonyms[key]; ok {
		return group
	}
	return []string{crop}
}

func minInt(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
