// Package pipeline runs the load -> correct -> join -> upload batch.
// Each stage is fatal on error; no external state is touched until the
// final upload replaces the destination table.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fuzzyload/internal/config"
	"github.com/fuzzyload/internal/correct"
	"github.com/fuzzyload/internal/debug"
	"github.com/fuzzyload/internal/fuzz"
	"github.com/fuzzyload/internal/refdata"
	"github.com/fuzzyload/internal/table"
	"github.com/fuzzyload/internal/warehouse"
)

const (
	// DefaultThreshold is the minimum similarity for accepting a
	// customer-name correction.
	DefaultThreshold = 75

	// DefaultTable is the destination table name.
	DefaultTable = "CUSTOMER_TRANSACTIONS"

	nameColumn = "customer_name"
)

// Pipeline holds the run settings. Zero values are filled by New.
type Pipeline struct {
	cfg       *config.Config
	Scorer    fuzz.Scorer
	Threshold int
	NameLimit int
	Debug     bool
}

// New creates a pipeline with the default scorer and threshold.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		Scorer:    fuzz.TokenSetRatio{},
		Threshold: DefaultThreshold,
		NameLimit: refdata.DefaultLimit,
	}
}

// AuditEntry records one correction decision for later review.
type AuditEntry struct {
	Row      int    `json:"row"`
	Raw      string `json:"raw_value"`
	Chosen   string `json:"chosen"`
	Score    int    `json:"score"`
	Accepted bool   `json:"accepted"`
}

// Result summarizes a run.
type Result struct {
	Transactions int
	Customers    int
	Corrected    int
	NearMisses   int
	RowsUploaded int
	Audit        []AuditEntry
}

// Prepare runs every stage short of the upload and returns the merged
// table ready for the warehouse.
func (p *Pipeline) Prepare(dataDir, namesDir string) (*table.Table, *Result, error) {
	done := debug.Timing(p.Debug, "load CSV data")
	transactions, err := table.ReadCSV(filepath.Join(dataDir, "transactions.csv"))
	if err != nil {
		return nil, nil, err
	}
	customers, err := table.ReadCSV(filepath.Join(dataDir, "customers.csv"))
	if err != nil {
		return nil, nil, err
	}
	done()

	var refs *refdata.ReferenceNames
	if namesDir != "" {
		refs, err = refdata.Load(namesDir, p.NameLimit)
		if err != nil {
			return nil, nil, err
		}
		debug.Output(p.Debug, "loaded %d first names, %d last names", len(refs.First), len(refs.Last))
	}

	customerNames, err := customers.Column(nameColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("customers CSV: %w", err)
	}
	rawNames, err := transactions.Column(nameColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("transactions CSV: %w", err)
	}

	done = debug.Timing(p.Debug, "correct customer names")
	corrector := correct.New(p.Scorer, p.Threshold)
	matches := corrector.CorrectColumn(rawNames, customerNames)
	done()

	result := &Result{
		Transactions: transactions.NumRows(),
		Customers:    customers.NumRows(),
		Audit:        make([]AuditEntry, len(matches)),
	}
	for i, m := range matches {
		result.Audit[i] = AuditEntry{
			Row:      i,
			Raw:      rawNames[i],
			Chosen:   m.Chosen,
			Score:    m.Score,
			Accepted: m.Corrected,
		}
		if m.Corrected {
			result.Corrected++
		} else {
			result.NearMisses++
		}
	}

	merged, err := joinCustomers(transactions, customers, matches)
	if err != nil {
		return nil, nil, err
	}

	done = debug.Timing(p.Debug, "select full names")
	if refs != nil {
		err = selectFullNames(merged, corrector, refs)
	} else {
		err = resolveNames(merged)
	}
	done()
	if err != nil {
		return nil, nil, err
	}

	merged.UpperCaseColumns()
	return merged, result, nil
}

// Run executes the full pipeline and uploads the result.
func (p *Pipeline) Run(dataDir, namesDir, tableName string) (*Result, error) {
	merged, result, err := p.Prepare(dataDir, namesDir)
	if err != nil {
		return nil, err
	}

	if tableName == "" {
		tableName = DefaultTable
	}
	tableName = strings.ToUpper(tableName)

	done := debug.Timing(p.Debug, "upload to warehouse")
	defer done()

	conn, err := warehouse.Connect(p.cfg)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := conn.ReplaceTable(tableName, merged.Columns); err != nil {
		return nil, err
	}
	rows, err := conn.Append(tableName, merged)
	if err != nil {
		return nil, err
	}
	result.RowsUploaded = rows

	return result, nil
}

// joinCustomers left-joins transactions to customers on the corrected
// name. The overlapping customer_name column is suffixed _1/_2;
// unmatched transactions join blank customer fields. When several
// customers share a name the first row wins.
func joinCustomers(transactions, customers *table.Table, matches []correct.Match) (*table.Table, error) {
	custNameIdx := customers.ColumnIndex(nameColumn)
	if custNameIdx < 0 {
		return nil, fmt.Errorf("customers CSV: column %q not found", nameColumn)
	}

	byName := make(map[string]int)
	for i, row := range customers.Rows {
		if _, seen := byName[row[custNameIdx]]; !seen {
			byName[row[custNameIdx]] = i
		}
	}

	columns := make([]string, 0, len(transactions.Columns)+len(customers.Columns))
	for _, col := range transactions.Columns {
		if col == nameColumn {
			col = nameColumn + "_1"
		}
		columns = append(columns, col)
	}
	for _, col := range customers.Columns {
		if col == nameColumn {
			col = nameColumn + "_2"
		}
		columns = append(columns, col)
	}

	merged := table.New(columns)
	blank := make([]string, len(customers.Columns))
	for i, row := range transactions.Rows {
		joined := make([]string, 0, len(columns))
		joined = append(joined, row...)

		custRow := blank
		if matches[i].Corrected {
			if idx, ok := byName[matches[i].Chosen]; ok {
				custRow = customers.Rows[idx]
			}
		}
		joined = append(joined, custRow...)

		if err := merged.AppendRow(joined); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// selectFullNames scores both joined name variants against the census
// reference lists and keeps the more plausible first and last name.
// Ties keep the transaction-side name, matching the join's left bias.
func selectFullNames(merged *table.Table, corrector *correct.Corrector, refs *refdata.ReferenceNames) error {
	names1, err := merged.Column(nameColumn + "_1")
	if err != nil {
		return err
	}
	names2, err := merged.Column(nameColumn + "_2")
	if err != nil {
		return err
	}

	full := make([]string, len(names1))
	for i := range names1 {
		first1, last1 := splitName(names1[i])
		first2, last2 := splitName(names2[i])

		best := first1
		if corrector.BestScore(first2, refs.First) > corrector.BestScore(first1, refs.First) {
			best = first2
		}
		bestLast := last1
		if corrector.BestScore(last2, refs.Last) > corrector.BestScore(last1, refs.Last) {
			bestLast = last2
		}
		full[i] = strings.TrimSpace(best + " " + bestLast)
	}

	return replaceNameColumns(merged, full)
}

// resolveNames is the fallback when no reference names are available:
// the matched customer name wins, else the raw transaction name stays.
func resolveNames(merged *table.Table) error {
	names1, err := merged.Column(nameColumn + "_1")
	if err != nil {
		return err
	}
	names2, err := merged.Column(nameColumn + "_2")
	if err != nil {
		return err
	}

	full := make([]string, len(names1))
	for i := range names1 {
		if names2[i] != "" {
			full[i] = names2[i]
		} else {
			full[i] = names1[i]
		}
	}

	return replaceNameColumns(merged, full)
}

func replaceNameColumns(merged *table.Table, full []string) error {
	if err := merged.DropColumn(nameColumn + "_1"); err != nil {
		return err
	}
	if err := merged.DropColumn(nameColumn + "_2"); err != nil {
		return err
	}
	return merged.AddColumn(nameColumn, full)
}

// splitName returns the first and second whitespace token of a name.
func splitName(name string) (string, string) {
	tokens := strings.Fields(name)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return tokens[0], tokens[1]
	}
}
