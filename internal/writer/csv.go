package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/idn-statement-reader/internal/statement"
)

// CSVWriter writes the transaction table to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

type csvRow struct {
	Date        string `csv:"Date"`
	Time        string `csv:"Time"`
	Description string `csv:"Description"`
	Debit       string `csv:"Debit"`
	Credit      string `csv:"Credit"`
	Balance     string `csv:"Balance"`
	Partner     string `csv:"Partner"`
	Direction   string `csv:"Direction"`
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *statement.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write writes transactions in CSV format to the given writer. With
// IncludeHeader the account metadata precedes the table as "# " rows.
func (w *CSVWriter) Write(out io.Writer, res *statement.Result) error {
	if w.IncludeHeader {
		meta := csv.NewWriter(out)
		for _, kv := range metadata(res) {
			if err := meta.Write([]string{"# " + kv[0], kv[1]}); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
		meta.Flush()
		if err := meta.Error(); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	rows := make([]csvRow, 0, len(res.Transactions))
	for _, txn := range res.Transactions {
		rows = append(rows, csvRow{
			Date:        txn.Date,
			Time:        txn.Time,
			Description: strings.ReplaceAll(txn.Description, "\n", " "),
			Debit:       formatAmount(txn.Debit),
			Credit:      formatAmount(txn.Credit),
			Balance:     formatBalance(txn.Balance),
			Partner:     txn.Partner,
			Direction:   string(txn.Direction),
		})
	}
	if err := gocsv.Marshal(rows, out); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// metadata lists the non-empty account fields in display order.
func metadata(res *statement.Result) [][2]string {
	a := res.Account
	fields := [][2]string{
		{"Bank", string(a.Bank)},
		{"Format", string(res.Format)},
		{"Account Holder", a.Name},
		{"Account Number", a.Number},
		{"Product", a.ProductName},
		{"Currency", a.Currency},
		{"Branch", a.Branch},
		{"Statement Period", a.Period},
		{"Report Date", a.ReportDate},
	}
	out := fields[:0]
	for _, f := range fields {
		if f[1] != "" {
			out = append(out, f)
		}
	}
	return out
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return formatBalance(amount)
}

func formatBalance(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
