package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
	"github.com/insightdelivered/idn-statement-reader/internal/statement"
)

// Workbook sheet names, in tab order.
const (
	SheetAccount      = "Account Info"
	SheetSummary      = "Balance Summary"
	SheetAnalytics    = "Analytics"
	SheetTransactions = "Transactions"
	SheetPartners     = "Partner Summary"
)

// numFmtAmount is excelize's built-in "#,##0.00".
const numFmtAmount = 4

// WorkbookWriter writes every result table to one sheet of an xlsx workbook.
type WorkbookWriter struct{}

// WriteToFile writes the workbook to path.
func (w *WorkbookWriter) WriteToFile(path string, res *statement.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write streams the workbook to out.
func (w *WorkbookWriter) Write(out io.Writer, res *statement.Result) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Workbook builds the in-memory workbook. The caller closes it.
func Workbook(res *statement.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	b := &sheetBuilder{f: f}

	if err := f.SetSheetName("Sheet1", SheetAccount); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{SheetSummary, SheetAnalytics, SheetTransactions, SheetPartners} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
	}

	var err error
	if b.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	if b.amount, err = f.NewStyle(&excelize.Style{NumFmt: numFmtAmount}); err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	b.accountSheet(res)
	b.summarySheet(res.Summary)
	b.analyticsSheet(res.Analytics)
	b.transactionSheet(res.Transactions)
	b.partnerSheet(res.PartnerTable)
	if b.err != nil {
		f.Close()
		return nil, b.err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// sheetBuilder keeps the first error so the sheet functions read linearly.
type sheetBuilder struct {
	f      *excelize.File
	bold   int
	amount int
	err    error
}

func (b *sheetBuilder) row(sheet string, r int, values ...interface{}) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err == nil {
		err = b.f.SetSheetRow(sheet, cell, &values)
	}
	if err != nil {
		b.err = fmt.Errorf("failed to write %s row %d: %w", sheet, r, err)
	}
}

func (b *sheetBuilder) header(sheet string, columns ...string) {
	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	b.row(sheet, 1, values...)
	b.style(sheet, 1, 1, len(columns), 1, b.bold)
	if b.err == nil {
		last, _ := excelize.ColumnNumberToName(len(columns))
		b.err = b.f.SetColWidth(sheet, "A", last, 18)
	}
}

func (b *sheetBuilder) style(sheet string, col1, row1, col2, row2, style int) {
	if b.err != nil || row2 < row1 {
		return
	}
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		b.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetCellStyle(sheet, from, to, style)
}

func (b *sheetBuilder) accountSheet(res *statement.Result) {
	a := res.Account
	b.header(SheetAccount, "Field", "Value")
	rows := [][2]string{
		{"Bank", string(a.Bank)},
		{"Format", string(res.Format)},
		{"Account Holder", a.Name},
		{"Account Number", a.Number},
		{"Product", a.ProductName},
		{"Currency", a.Currency},
		{"Branch", a.Branch},
		{"Branch Address", a.BranchAddress},
		{"Report Date", a.ReportDate},
		{"Period", a.Period},
		{"Period Start", a.PeriodStart},
		{"Period End", a.PeriodEnd},
		{"Address", a.Address},
	}
	for i, r := range rows {
		b.row(SheetAccount, i+2, r[0], r[1])
	}
}

func (b *sheetBuilder) summarySheet(s models.BalanceSummary) {
	b.header(SheetSummary, "Opening Balance", "Total Debit", "Total Credit", "Closing Balance", "Debit Count", "Credit Count")
	b.row(SheetSummary, 2,
		optional(s.Opening), optional(s.TotalDebit), optional(s.TotalCredit), optional(s.Closing),
		optionalInt(s.DebitCount), optionalInt(s.CreditCount))
	b.style(SheetSummary, 1, 2, 4, 2, b.amount)
}

func (b *sheetBuilder) analyticsSheet(a models.StatementAnalytics) {
	b.header(SheetAnalytics, "Metric", "Value", "Display")
	rows := []struct {
		label   string
		value   interface{}
		display string
	}{
		{"Credit Transactions", a.CreditCount, ""},
		{"Credit Amount", a.CreditAmount, FormatRupiah(a.CreditAmount)},
		{"Debit Transactions", a.DebitCount, ""},
		{"Debit Amount", a.DebitAmount, FormatRupiah(a.DebitAmount)},
		{"Partners", a.PartnerCount, ""},
		{"Top Partner", a.TopPartner, ""},
		{"Top Partner Volume", a.TopPartnerAmount, FormatRupiah(a.TopPartnerAmount)},
	}
	for i, r := range rows {
		b.row(SheetAnalytics, i+2, r.label, r.value, r.display)
	}
}

func (b *sheetBuilder) transactionSheet(txns []models.Transaction) {
	b.header(SheetTransactions, "Date", "Time", "Description", "Teller ID", "Debit", "Credit", "Balance", "Partner", "Direction")
	for i, t := range txns {
		b.row(SheetTransactions, i+2,
			t.Date, t.Time, t.Description, t.TellerID, t.Debit, t.Credit, t.Balance, t.Partner, string(t.Direction))
	}
	b.style(SheetTransactions, 5, 2, 7, len(txns)+1, b.amount)
	if b.err == nil {
		b.err = b.f.SetColWidth(SheetTransactions, "C", "C", 60)
	}
}

func (b *sheetBuilder) partnerSheet(table []models.PartnerTotals) {
	b.header(SheetPartners, "Partner", "Total Credit", "Total Debit", "Credit Count", "Debit Count", "Total Transactions")
	for i, p := range table {
		b.row(SheetPartners, i+2,
			p.Partner, p.TotalCredit, p.TotalDebit, p.CreditCount, p.DebitCount, p.TotalTransactions)
	}
	b.style(SheetPartners, 2, 2, 3, len(table)+1, b.amount)
}

func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
