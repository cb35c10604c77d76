package fuzz

import (
	"math"
	"sort"
	"strings"
)

// Scorer computes the similarity of two strings on a 0-100 scale,
// where 0 means no similarity and 100 means an exact match after
// normalization. Implementations must be pure and deterministic.
type Scorer interface {
	Score(a, b string) int
}

// Ratio scores strings by normalized edit distance.
type Ratio struct{}

// TokenSortRatio scores strings by normalized edit distance after
// sorting their tokens, making the score order-insensitive.
type TokenSortRatio struct{}

// TokenSetRatio scores strings using set operations over their tokens
// before comparing. It is the most tolerant scorer of the three: shared
// tokens dominate the score even when one side carries extra words.
type TokenSetRatio struct{}

func (Ratio) Score(a, b string) int {
	return ratio(normalize(a), normalize(b))
}

func (TokenSortRatio) Score(a, b string) int {
	return ratio(sortTokens(normalize(a)), sortTokens(normalize(b)))
}

func (TokenSetRatio) Score(a, b string) int {
	ta := tokenSet(normalize(a))
	tb := tokenSet(normalize(b))

	var inter, diffA, diffB []string
	for tok := range ta {
		if tb[tok] {
			inter = append(inter, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	base := strings.Join(inter, " ")
	combinedA := joinNonEmpty(base, strings.Join(diffA, " "))
	combinedB := joinNonEmpty(base, strings.Join(diffB, " "))

	best := ratio(base, combinedA)
	if s := ratio(base, combinedB); s > best {
		best = s
	}
	if s := ratio(combinedA, combinedB); s > best {
		best = s
	}
	return best
}

// normalize lowercases and collapses runs of whitespace to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}

// ratio converts matched-character count into a 0-100 score using the
// 2*M/T formulation, where M is the length of the longest common
// subsequence and T the combined length of both inputs.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	matched := lcsLength(ra, rb)
	return int(math.Round(200 * float64(matched) / float64(total)))
}

// lcsLength computes the longest common subsequence length with a
// two-row dynamic program.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// LevenshteinDistance computes the edit distance between two strings,
// counting insertions, deletions and substitutions at unit cost.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
