// Package correct replaces free-text values with their best match from a
// reference list of canonical values when the similarity clears a
// threshold. Absence of a qualifying match is a normal outcome, not an
// error: the value comes back unchanged with the best score found so
// callers can audit near-misses.
package correct

import (
	"github.com/fuzzyload/internal/fuzz"
)

// Match is the outcome of correcting a single value.
type Match struct {
	Chosen    string `json:"chosen"`
	Score     int    `json:"score"`
	Corrected bool   `json:"corrected"`
}

// Corrector scans candidates with a similarity scorer and accepts the
// best one at or above the threshold. A Corrector is stateless across
// calls and safe for concurrent use.
type Corrector struct {
	scorer    fuzz.Scorer
	threshold int
}

// New creates a Corrector. The threshold is the minimum acceptable
// similarity on the scorer's 0-100 scale; values above 100 mean no
// candidate can ever be accepted.
func New(scorer fuzz.Scorer, threshold int) *Corrector {
	return &Corrector{scorer: scorer, threshold: threshold}
}

// Correct scores value against every candidate and returns the best
// candidate if its score meets the threshold, else the original value.
// Ties on the maximum score go to the earliest candidate in input
// order, which keeps runs reproducible.
func (c *Corrector) Correct(value string, candidates []string) Match {
	if value == "" {
		return Match{Chosen: value, Score: 0}
	}

	bestScore := -1
	bestIdx := -1
	for i, candidate := range candidates {
		score := c.scorer.Score(value, candidate)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return Match{Chosen: value, Score: 0}
	}

	if bestScore >= c.threshold {
		return Match{Chosen: candidates[bestIdx], Score: bestScore, Corrected: true}
	}
	return Match{Chosen: value, Score: bestScore}
}

// CorrectColumn applies Correct to each value independently. The result
// has the same length and order as values.
func (c *Corrector) CorrectColumn(values, candidates []string) []Match {
	matches := make([]Match, len(values))
	for i, value := range values {
		matches[i] = c.Correct(value, candidates)
	}
	return matches
}

// BestScore returns the highest similarity between value and any
// candidate, ignoring the threshold. Returns 0 when value is empty or
// there are no candidates.
func (c *Corrector) BestScore(value string, candidates []string) int {
	if value == "" {
		return 0
	}
	best := 0
	for _, candidate := range candidates {
		if score := c.scorer.Score(value, candidate); score > best {
			best = score
		}
	}
	return best
}
