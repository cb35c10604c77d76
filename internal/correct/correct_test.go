package correct

import (
	"testing"

	"github.com/fuzzyload/internal/fuzz"
)

func TestCorrect(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		candidates    []string
		threshold     int
		wantChosen    string
		wantCorrected bool
	}{
		{
			name:          "near miss above threshold",
			value:         "Jhon Smtih",
			candidates:    []string{"John Smith", "Jane Smith"},
			threshold:     80,
			wantChosen:    "John Smith",
			wantCorrected: true,
		},
		{
			name:          "below threshold returns original",
			value:         "Xyz Qrstuv",
			candidates:    []string{"John Smith"},
			threshold:     80,
			wantChosen:    "Xyz Qrstuv",
			wantCorrected: false,
		},
		{
			name:          "exact match beats earlier partial match",
			value:         "Jon",
			candidates:    []string{"Jon", "John"},
			threshold:     50,
			wantChosen:    "Jon",
			wantCorrected: true,
		},
		{
			name:          "exact match wins regardless of position",
			value:         "Jon",
			candidates:    []string{"John", "Jon"},
			threshold:     50,
			wantChosen:    "Jon",
			wantCorrected: true,
		},
		{
			name:          "tie goes to first candidate in order",
			value:         "abc",
			candidates:    []string{"abd", "abx"},
			threshold:     50,
			wantChosen:    "abd",
			wantCorrected: true,
		},
		{
			name:          "empty value is never matched",
			value:         "",
			candidates:    []string{"John Smith"},
			threshold:     0,
			wantChosen:    "",
			wantCorrected: false,
		},
		{
			name:          "impossible threshold never accepts",
			value:         "John Smith",
			candidates:    []string{"John Smith"},
			threshold:     101,
			wantChosen:    "John Smith",
			wantCorrected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(fuzz.Ratio{}, tt.threshold)
			got := c.Correct(tt.value, tt.candidates)
			if got.Chosen != tt.wantChosen {
				t.Errorf("Correct(%q).Chosen = %q, want %q", tt.value, got.Chosen, tt.wantChosen)
			}
			if got.Corrected != tt.wantCorrected {
				t.Errorf("Correct(%q).Corrected = %v, want %v", tt.value, got.Corrected, tt.wantCorrected)
			}
		})
	}
}

func TestCorrectNearMissScore(t *testing.T) {
	c := New(fuzz.Ratio{}, 80)
	got := c.Correct("Jhon Smtih", []string{"John Smith", "Jane Smith"})
	if got.Score < 80 {
		t.Errorf("near-miss score = %d, want >= 80", got.Score)
	}

	c = New(fuzz.Ratio{}, 80)
	got = c.Correct("Xyz Qrstuv", []string{"John Smith"})
	if got.Score >= 80 {
		t.Errorf("below-threshold score = %d, want < 80", got.Score)
	}
}

// Threshold zero accepts the best match for any non-empty value, so the
// chosen value is always drawn from the candidate list.
func TestCorrectThresholdZeroAlwaysAccepts(t *testing.T) {
	candidates := []string{"John Smith", "Jane Smith", "Bob Jones"}
	values := []string{"Jhon Smtih", "Xyz Qrstuv", "bob", "JANE"}

	c := New(fuzz.Ratio{}, 0)
	for _, value := range values {
		got := c.Correct(value, candidates)
		if !got.Corrected {
			t.Errorf("Correct(%q) with threshold 0 not corrected", value)
			continue
		}
		found := false
		for _, candidate := range candidates {
			if got.Chosen == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Correct(%q).Chosen = %q, not in candidates", value, got.Chosen)
		}
	}
}

// Re-correcting an already corrected value must yield the same value:
// an exact match always scores 100.
func TestCorrectIdempotent(t *testing.T) {
	candidates := []string{"John Smith", "Jane Smith"}

	c := New(fuzz.Ratio{}, 75)
	first := c.Correct("Jhon Smtih", candidates)
	second := c.Correct(first.Chosen, candidates)

	if second.Chosen != first.Chosen {
		t.Errorf("re-correction changed value: %q -> %q", first.Chosen, second.Chosen)
	}
	if second.Score != 100 {
		t.Errorf("re-correction score = %d, want 100", second.Score)
	}
}

func TestCorrectDeterministic(t *testing.T) {
	candidates := []string{"John Smith", "Jane Smith", "Bob Jones"}

	c := New(fuzz.TokenSetRatio{}, 60)
	first := c.Correct("Jhon Smtih", candidates)
	for i := 0; i < 20; i++ {
		if got := c.Correct("Jhon Smtih", candidates); got != first {
			t.Fatalf("call %d returned %+v, first call returned %+v", i, got, first)
		}
	}
}

func TestCorrectColumn(t *testing.T) {
	candidates := []string{"John Smith", "Jane Smith"}
	values := []string{"Jhon Smtih", "", "Jane Smtih", "Xyz Qrstuv"}

	c := New(fuzz.Ratio{}, 80)
	matches := c.CorrectColumn(values, candidates)

	if len(matches) != len(values) {
		t.Fatalf("len(matches) = %d, want %d", len(matches), len(values))
	}

	// Positional correspondence with the input.
	for i, value := range values {
		single := c.Correct(value, candidates)
		if matches[i] != single {
			t.Errorf("matches[%d] = %+v, want %+v", i, matches[i], single)
		}
	}
}

func TestBestScore(t *testing.T) {
	c := New(fuzz.Ratio{}, 0)

	if got := c.BestScore("John Smith", []string{"Bob Jones", "John Smith"}); got != 100 {
		t.Errorf("BestScore with exact candidate = %d, want 100", got)
	}
	if got := c.BestScore("", []string{"John Smith"}); got != 0 {
		t.Errorf("BestScore with empty value = %d, want 0", got)
	}
	if got := c.BestScore("John Smith", nil); got != 0 {
		t.Errorf("BestScore with no candidates = %d, want 0", got)
	}
}
