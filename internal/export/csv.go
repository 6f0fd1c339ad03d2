package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spendlens-dev/spendlens/internal/aggregate"
	"github.com/spendlens-dev/spendlens/internal/model"
)

// TransactionsHeader is the CSV header for the filtered-transactions export.
const TransactionsHeader = "timestamp,merchant,description,category,amount_gbp,signed_amount,currency,country,work_lunch"

const (
	txnNumFields    = 9
	timestampFormat = "2006-01-02 15:04:05"
	dateFormat      = "2006-01-02"

	colTimestamp = 0
	colMerchant  = 1
	colDesc      = 2
	colCategory  = 3
	colAmount    = 4
	colSigned    = 5
	colCurrency  = 6
	colCountry   = 7
	colWorkLunch = 8
)

// WriteTransactions writes the filtered canonical set as CSV with header.
// Amounts are plain decimal numbers, UTF-8 throughout.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TransactionsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(marshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalTransaction(txn model.Transaction) []string {
	row := make([]string, txnNumFields)
	row[colTimestamp] = txn.Timestamp.Format(timestampFormat)
	row[colMerchant] = txn.Merchant
	row[colDesc] = txn.Description
	row[colCategory] = txn.Category
	row[colAmount] = txn.Amount.String()
	row[colSigned] = txn.SignedAmount.String()
	row[colCurrency] = txn.Currency
	row[colCountry] = txn.Country
	row[colWorkLunch] = strconv.FormatBool(txn.WorkLunch)
	return row
}

// WriteDaily writes the daily aggregate as CSV with header.
func WriteDaily(w io.Writer, daily []aggregate.DailySum) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Date", "Daily Spend (GBP)"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, d := range daily {
		if err := cw.Write([]string{d.Date.Format(dateFormat), d.Sum.String()}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteMonthly writes the monthly aggregate as CSV with header.
func WriteMonthly(w io.Writer, monthly []aggregate.MonthlySum) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Month", "Monthly Spend (GBP)"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, m := range monthly {
		if err := cw.Write([]string{m.Month, m.Sum.String()}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
