package pipeline

import (
	"fmt"
	"strconv"

	"github.com/fuzzyload/internal/table"
)

var auditColumns = []string{"row", "raw_value", "chosen", "score", "accepted"}

// WriteAudit writes the correction audit trail as CSV for review.
func WriteAudit(path string, audit []AuditEntry) error {
	t := table.New(auditColumns)
	for _, entry := range audit {
		row := []string{
			strconv.Itoa(entry.Row),
			entry.Raw,
			entry.Chosen,
			strconv.Itoa(entry.Score),
			strconv.FormatBool(entry.Accepted),
		}
		if err := t.AppendRow(row); err != nil {
			return err
		}
	}
	return t.WriteCSV(path)
}

// ReadAudit loads an audit trail written by WriteAudit.
func ReadAudit(path string) ([]AuditEntry, error) {
	t, err := table.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	if len(t.Columns) != len(auditColumns) {
		return nil, fmt.Errorf("audit file %s: unexpected columns %v", path, t.Columns)
	}

	entries := make([]AuditEntry, len(t.Rows))
	for i, row := range t.Rows {
		rowNum, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("audit file %s: bad row number on line %d: %w", path, i+2, err)
		}
		score, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("audit file %s: bad score on line %d: %w", path, i+2, err)
		}
		accepted, err := strconv.ParseBool(row[4])
		if err != nil {
			return nil, fmt.Errorf("audit file %s: bad accepted flag on line %d: %w", path, i+2, err)
		}
		entries[i] = AuditEntry{Row: rowNum, Raw: row[1], Chosen: row[2], Score: score, Accepted: accepted}
	}
	return entries, nil
}
