// Package warehouse is the egress boundary: it owns the database
// connection and the drop-and-reload of the destination table. Failure
// anywhere here is fatal to the run; no partial-write recovery is
// attempted.
package warehouse

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/fuzzyload/internal/config"
	"github.com/fuzzyload/internal/table"
)

// Connection holds the warehouse connection.
type Connection struct {
	DB *sql.DB
}

// Connect opens and verifies a warehouse connection from the config.
// The schema maps to search_path and the warehouse name travels as
// application_name so the server can attribute the load.
func Connect(cfg *config.Config) (*Connection, error) {
	host, port := cfg.HostPort()

	parts := []string{
		fmt.Sprintf("host=%s", host),
		fmt.Sprintf("port=%s", port),
		fmt.Sprintf("user=%s", cfg.User),
		fmt.Sprintf("password=%s", cfg.Password),
		fmt.Sprintf("dbname=%s", cfg.Database),
		fmt.Sprintf("sslmode=%s", cfg.SSLMode),
	}
	if cfg.Schema != "" {
		parts = append(parts, fmt.Sprintf("search_path=%s", cfg.Schema))
	}
	if cfg.Warehouse != "" {
		parts = append(parts, fmt.Sprintf("application_name=%s", cfg.Warehouse))
	}

	db, err := sql.Open("postgres", strings.Join(parts, " "))
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	return &Connection{DB: db}, nil
}

// Close closes the warehouse connection.
func (c *Connection) Close() error {
	return c.DB.Close()
}

// ReplaceTable drops and recreates the destination table so each run
// replaces the previous output wholesale.
func (c *Connection) ReplaceTable(name string, columns []string) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", pq.QuoteIdentifier(col), columnType(col))
	}

	tx, err := c.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(name))); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	createStmt := fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(name), strings.Join(defs, ", "))
	if _, err := tx.Exec(createStmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table replacement: %w", err)
	}
	return nil
}

// Append bulk-loads the table rows with COPY and returns the number of
// rows written. Blank cells load as NULL so unmatched join fields do
// not break typed columns.
func (c *Connection) Append(name string, t *table.Table) (int, error) {
	tx, err := c.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyIn(name, t.Columns...))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare COPY for %s: %w", name, err)
	}

	for i, row := range t.Rows {
		values := make([]interface{}, len(row))
		for j, cell := range row {
			if strings.TrimSpace(cell) == "" {
				values[j] = nil
			} else {
				values[j] = cell
			}
		}
		if _, err := stmt.Exec(values...); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("failed to buffer row %d: %w", i, err)
		}
	}

	// Flush the COPY buffer.
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("failed to flush COPY to %s: %w", name, err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("failed to close COPY statement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upload to %s: %w", name, err)
	}
	return t.NumRows(), nil
}

// columnType maps known pipeline columns to warehouse types; anything
// unrecognized lands as TEXT.
func columnType(column string) string {
	switch strings.ToUpper(column) {
	case "TRANSACTION_ID", "AMOUNT", "CUSTOMER_ID":
		return "INTEGER"
	case "TRANSACTION_DATE":
		return "DATE"
	default:
		return "TEXT"
	}
}
