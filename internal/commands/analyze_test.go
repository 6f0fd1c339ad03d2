package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens-dev/spendlens/internal/export"
)

const testExport = `Date/Time of transaction,Description,Amount (GBP),Amount (in Charged Currency),Currency,Category,Debit or Credit,Country
2025-03-04 12:15:00,PRET A MANGER,6.50,6.50,GBP,Eating Out,Debit,GB
2025-03-04 09:00:00,TESCO,30.00,30.00,GBP,Groceries,Debit,GB
2025-03-05 10:00:00,AMAZON,20.00,20.00,GBP,Shopping,Credit,GB
`

func writeExportFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(testExport), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestAnalyze(t *testing.T) {
	path := writeExportFile(t)

	out, err := execute(t, "analyze", path, "--budget", "100")
	require.NoError(t, err)

	// Refunds included by default: 6.50 + 30.00 - 20.00.
	assert.Contains(t, out, "Total spend:        £16.50")
	assert.Contains(t, out, "Transactions:       3")
	assert.Contains(t, out, "Work lunches:       £6.50 over 1 txns")
	assert.Contains(t, out, "Eating Out")
	assert.Contains(t, out, "2025-03")
}

func TestAnalyze_ExcludeRefunds(t *testing.T) {
	path := writeExportFile(t)

	out, err := execute(t, "analyze", path, "--include-refunds=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Total spend:        £36.50")
	assert.Contains(t, out, "Transactions:       2")
}

func TestAnalyze_Filters(t *testing.T) {
	path := writeExportFile(t)

	out, err := execute(t, "analyze", path, "--category", "Groceries")
	require.NoError(t, err)
	assert.Contains(t, out, "Total spend:        £30.00")

	out, err = execute(t, "analyze", path, "--search", "pret")
	require.NoError(t, err)
	assert.Contains(t, out, "Total spend:        £6.50")

	out, err = execute(t, "analyze", path, "--from", "2025-03-05", "--to", "2025-03-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Total spend:        £-20.00")
}

func TestAnalyze_NoMatches(t *testing.T) {
	path := writeExportFile(t)

	_, err := execute(t, "analyze", path, "--search", "no such merchant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transactions match")
}

func TestAnalyze_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Description,Category\nX,Y\n"), 0o644))

	_, err := execute(t, "analyze", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestAnalyze_ExportDir(t *testing.T) {
	path := writeExportFile(t)
	dir := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, "analyze", path, "--export-dir", dir)
	require.NoError(t, err)

	for _, name := range []string{export.TransactionsFile, export.DailyFile, export.MonthlyFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
}

func TestAnomalies(t *testing.T) {
	csvData := "Date/Time of transaction,Description,Amount (GBP),Amount (in Charged Currency),Currency,Category,Debit or Credit,Country\n" +
		"2025-03-03 08:00:00,CAFE,3.00,3.00,GBP,Coffee,Debit,GB\n" +
		"2025-03-04 08:00:00,CAFE,3.20,3.20,GBP,Coffee,Debit,GB\n" +
		"2025-03-05 08:00:00,CAFE,2.80,2.80,GBP,Coffee,Debit,GB\n" +
		"2025-03-06 08:00:00,CAFE,3.10,3.10,GBP,Coffee,Debit,GB\n" +
		"2025-03-07 08:00:00,FANCY DINNER,60.00,60.00,GBP,Coffee,Debit,GB\n"
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o644))

	out, err := execute(t, "anomalies", path)
	require.NoError(t, err)
	assert.Contains(t, out, "FANCY DINNER")
	assert.NotContains(t, out, "2025-03-03")
}

func TestAnomalies_NoneDetected(t *testing.T) {
	path := writeExportFile(t)

	out, err := execute(t, "anomalies", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No anomalies detected")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "spendlens.yaml")

	_, err = os.Stat(filepath.Join(dir, ConfigFile))
	require.NoError(t, err)

	// Refuses to overwrite.
	_, err = execute(t, "init", dir)
	require.Error(t, err)
}
