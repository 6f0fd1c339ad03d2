package model

import "strings"

// Required column names in the bank export, order-independent.
const (
	ColTimestamp = "Date/Time of transaction"
	ColDesc      = "Description"
	ColAmountGBP = "Amount (GBP)"
	ColAmountCCY = "Amount (in Charged Currency)"
	ColCurrency  = "Currency"
	ColCategory  = "Category"
	ColDebitCred = "Debit or Credit"
	ColCountry   = "Country"
)

// RequiredColumns is the fixed whitelist a raw export must provide.
var RequiredColumns = []string{
	ColTimestamp,
	ColDesc,
	ColAmountGBP,
	ColAmountCCY,
	ColCurrency,
	ColCategory,
	ColDebitCred,
	ColCountry,
}

// RawTable is an unvalidated CSV export: a header row plus data rows.
// Cells are addressed by column name, not position.
type RawTable struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewRawTable builds a RawTable with a column index over the header.
// Header names are matched after trimming surrounding whitespace.
func NewRawTable(header []string, rows [][]string) RawTable {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	return RawTable{Header: header, Rows: rows, index: index}
}

// HasColumn reports whether the header contains name.
func (t RawTable) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the named column of row i, or "" when the row is short.
func (t RawTable) Cell(i int, name string) string {
	col, ok := t.index[name]
	if !ok {
		return ""
	}
	row := t.Rows[i]
	if col >= len(row) {
		return ""
	}
	return row[col]
}

// Len returns the number of data rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}
