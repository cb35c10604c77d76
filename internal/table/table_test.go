package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t, "transaction_id,amount,customer_name\n1,100,Jhon Smtih\n2,250,Jane Smith\n")

	tbl, err := ReadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"transaction_id", "amount", "customer_name"}, tbl.Columns)
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"1", "100", "Jhon Smtih"}, tbl.Rows[0])

	names, err := tbl.Column("customer_name")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jhon Smtih", "Jane Smith"}, names)
}

func TestReadCSVRaggedRowFails(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,2\n3\n")

	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestColumnOperations(t *testing.T) {
	tbl := &Table{
		Columns: []string{"id", "name"},
		Rows:    [][]string{{"1", "John"}, {"2", "Jane"}},
	}

	require.NoError(t, tbl.AddColumn("score", []string{"80", "95"}))
	assert.Equal(t, []string{"id", "name", "score"}, tbl.Columns)
	assert.Equal(t, []string{"1", "John", "80"}, tbl.Rows[0])

	require.NoError(t, tbl.RenameColumn("name", "customer_name"))
	assert.Equal(t, -1, tbl.ColumnIndex("name"))
	assert.Equal(t, 1, tbl.ColumnIndex("customer_name"))

	require.NoError(t, tbl.DropColumn("score"))
	assert.Equal(t, []string{"id", "customer_name"}, tbl.Columns)
	assert.Equal(t, []string{"2", "Jane"}, tbl.Rows[1])

	assert.Error(t, tbl.DropColumn("score"))
	assert.Error(t, tbl.AddColumn("bad", []string{"only one"}))
}

func TestUpperCaseColumns(t *testing.T) {
	tbl := New([]string{"transaction_id", "customer_name"})
	tbl.UpperCaseColumns()
	assert.Equal(t, []string{"TRANSACTION_ID", "CUSTOMER_NAME"}, tbl.Columns)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl := New([]string{"id", "name"})
	require.NoError(t, tbl.AppendRow([]string{"1", "John, Smith"}))
	require.NoError(t, tbl.AppendRow([]string{"2", ""}))

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, tbl.WriteCSV(path))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns, got.Columns)
	assert.Equal(t, tbl.Rows, got.Rows)
}
