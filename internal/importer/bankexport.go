package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spendlens-dev/spendlens/internal/model"
)

// BankExportParser parses the GBP personal-account CSV export: a header row
// naming the columns, then one row per transaction. Column order is not fixed;
// the header decides everything.
type BankExportParser struct{}

// Format returns the parser name.
func (p *BankExportParser) Format() string { return "bank-export" }

// Parse reads the export and returns a RawTable keyed by the header row.
// No per-cell validation happens here; that is the normalizer's job.
func (p *BankExportParser) Parse(r io.Reader) (model.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // header width is authoritative, rows may be ragged

	records, err := cr.ReadAll()
	if err != nil {
		return model.RawTable{}, fmt.Errorf("reading bank export CSV: %w", err)
	}

	if len(records) == 0 {
		return model.NewRawTable(nil, nil), nil
	}

	header := records[0]
	for i, rec := range records[1:] {
		if len(rec) > len(header) {
			return model.RawTable{}, fmt.Errorf("row %d: %d fields, header has %d", i+2, len(rec), len(header))
		}
	}
	return model.NewRawTable(header, records[1:]), nil
}

// ParseFile opens and parses a bank export from disk.
func ParseFile(p Parser, path string) (model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f)
}
