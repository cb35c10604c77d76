// Package refdata loads the census name frequency lists used to pick
// the most plausible full name for a joined record.
package refdata

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLimit caps how many names are read from each frequency file.
// The files are ordered by descending frequency, so the head of the
// file carries almost all of the matching value.
const DefaultLimit = 1000

// ReferenceNames holds the canonical first and last name lists. First
// is the female list followed by the male list; the order matters for
// tie-breaks and must stay stable between runs.
type ReferenceNames struct {
	First []string
	Last  []string
}

// Load reads first_female.txt, first_male.txt and last.txt from dir.
// A limit <= 0 uses DefaultLimit.
func Load(dir string, limit int) (*ReferenceNames, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	female, err := LoadCensusFile(filepath.Join(dir, "first_female.txt"), limit)
	if err != nil {
		return nil, err
	}
	male, err := LoadCensusFile(filepath.Join(dir, "first_male.txt"), limit)
	if err != nil {
		return nil, err
	}
	last, err := LoadCensusFile(filepath.Join(dir, "last.txt"), limit)
	if err != nil {
		return nil, err
	}

	return &ReferenceNames{
		First: append(female, male...),
		Last:  last,
	}, nil
}

// LoadCensusFile parses a whitespace-delimited census frequency file
// (NAME pct cum_pct rank) and returns at most limit names in file
// order. Blank lines are skipped; malformed lines are an error.
func LoadCensusFile(path string, limit int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference names %s: %w", path, err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("reference names %s: malformed line %d", path, line)
		}
		names = append(names, fields[0])
		if len(names) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference names %s: %w", path, err)
	}
	return names, nil
}
