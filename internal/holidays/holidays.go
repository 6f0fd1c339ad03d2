package holidays

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spendlens-dev/spendlens/internal/model"
)

const (
	numFields  = 2
	dateFormat = "2006-01-02"
	colDate    = 0
	colName    = 1
)

// Calendar provides day-keyed lookup over a set of public holidays.
// The work-lunch rule consults it only when holiday observance is enabled.
type Calendar struct {
	days map[time.Time]string
}

// NewCalendar creates a Calendar from holiday dates and names.
func NewCalendar(dates map[time.Time]string) *Calendar {
	days := make(map[time.Time]string, len(dates))
	for d, name := range dates {
		days[model.DateOnly(d)] = name
	}
	return &Calendar{days: days}
}

// Empty returns a Calendar with no holidays.
func Empty() *Calendar {
	return &Calendar{days: map[time.Time]string{}}
}

// Contains reports whether the day of t is a holiday.
func (c *Calendar) Contains(t time.Time) bool {
	_, ok := c.days[model.DateOnly(t)]
	return ok
}

// Len returns the number of holidays loaded.
func (c *Calendar) Len() int {
	return len(c.days)
}

// Read parses a holidays CSV ("date,name" header, ISO dates).
func Read(r io.Reader) (*Calendar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading holidays CSV: %w", err)
	}

	if len(records) == 0 {
		return Empty(), nil
	}

	days := make(map[time.Time]string, len(records)-1)
	for i, rec := range records[1:] {
		d, err := time.Parse(dateFormat, rec[colDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[colDate], err)
		}
		days[d] = rec[colName]
	}
	return NewCalendar(days), nil
}

// Load reads a holidays CSV from disk.
func Load(path string) (*Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening holidays file: %w", err)
	}
	defer f.Close()
	return Read(f)
}
