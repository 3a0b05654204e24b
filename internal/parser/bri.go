package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
)

// trailingColumns is the number of fixed columns at the end of a BRI line.
const trailingColumns = 4

var (
	// "01/03/24 10:15:00": every BRI transaction opens with date and time
	briAnchorPattern = regexp.MustCompile(`^(\d{2}/\d{2}/\d{2,4})\s+(\d{2}:\d{2}(?::\d{2})?)(?:\s|$)`)
	briClassifier    = NewClassifier(briAnchorPattern, AnchorRules{})

	briNumericToken = regexp.MustCompile(`^\d[\d,.]*$`)
	// CMS teller ids: CMSPYRL, BRIMDBT, BRI0001 ...
	briReferenceToken = regexp.MustCompile(`^(?:CMS[A-Z]{4}|BRI[A-Z0-9]{4})$`)
)

// briColumns gives the position of each field within the four trailing tokens.
type briColumns struct {
	teller, debit, credit, balance int
}

// briLayout describes one BRI layout generation.
type briLayout struct {
	format      models.Format
	minTokens   int
	columns     briColumns
	references  bool // teller column may hold a reference code
	stopPhrases []string
	header      func(text string) (models.AccountInfo, models.BalanceSummary)
}

var (
	briEStatementLayout = briLayout{
		format:    models.FormatBRIEStatement,
		minTokens: 7,
		columns:   briColumns{teller: 0, debit: 1, credit: 2, balance: 3},
		stopPhrases: []string{
			"Saldo Awal", "Opening Balance", "Total Transaksi", "Halaman", "Page ",
			"Tanggal Transaksi", "Transaction Date", "Terbilang", "Biaya Materai",
		},
		header: parseBRIEStatementHeader,
	}
	briCMSLayout = briLayout{
		format:     models.FormatBRICMS,
		minTokens:  6,
		columns:    briColumns{debit: 0, credit: 1, balance: 2, teller: 3},
		references: true,
		stopPhrases: []string{
			"OPENING BALANCE", "Posting Date", "Account Statement", "Page ", "Printed By",
		},
		header: parseBRICMSHeader,
	}
)

// BRIParser parses the fine-grained BRI layouts: one date+time stamped line
// per transaction, ending in teller id, debit, credit and balance columns.
type BRIParser struct {
	layout briLayout
}

// NewBRIEStatementParser returns a parser for the 2025 BRI e-statement.
func NewBRIEStatementParser() *BRIParser { return &BRIParser{layout: briEStatementLayout} }

// NewBRICMSParser returns a parser for the BRI CMS export.
func NewBRICMSParser() *BRIParser { return &BRIParser{layout: briCMSLayout} }

func (p *BRIParser) BankName() string { return "Bank Rakyat Indonesia" }

func (p *BRIParser) Format() models.Format { return p.layout.format }

// Parse extracts header, summary and transactions. Lines that do not yield a
// well-formed record are skipped.
func (p *BRIParser) Parse(text string) *models.StatementInfo {
	info := &models.StatementInfo{Format: p.layout.format}
	info.Account, info.Summary = p.layout.header(text)

	for _, g := range briClassifier.Group(SplitLines(text)) {
		if !g.Anchored {
			continue
		}
		if txn, ok := p.parseGroup(g); ok {
			info.Transactions = append(info.Transactions, txn)
		}
	}
	return info
}

func (p *BRIParser) parseGroup(g LineGroup) (models.Transaction, bool) {
	fields := strings.Fields(g.Lines[0])
	if len(fields) < p.layout.minTokens {
		return models.Transaction{}, false
	}
	trailing, ok := p.trailingTokens(fields)
	if !ok {
		return models.Transaction{}, false
	}

	cols := p.layout.columns
	txn := models.Transaction{
		Date:     fields[0],
		Time:     fields[1],
		TellerID: trailing[cols.teller],
		Debit:    columnAmount(trailing[cols.debit]),
		Credit:   columnAmount(trailing[cols.credit]),
		Balance:  columnAmount(trailing[cols.balance]),
		Format:   p.layout.format,
	}
	if txn.Debit > 0 && txn.Credit > 0 {
		return models.Transaction{}, false
	}

	desc := []string{strings.Join(fields[2:len(fields)-trailingColumns], " ")}
	for _, line := range g.Lines[1:] {
		line = strings.TrimSpace(line)
		if containsAny(line, p.layout.stopPhrases) {
			break
		}
		desc = append(desc, line)
	}
	txn.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	return txn, true
}

// trailingTokens returns the last four tokens when all of them are
// numeric-shaped (or a reference code, for layouts that print one).
func (p *BRIParser) trailingTokens(fields []string) ([]string, bool) {
	tail := fields[len(fields)-trailingColumns:]
	for _, tok := range tail {
		if briNumericToken.MatchString(tok) {
			continue
		}
		if p.layout.references && briReferenceToken.MatchString(tok) {
			continue
		}
		return nil, false
	}
	return tail, true
}

func columnAmount(tok string) float64 {
	if tok == "0.00" {
		return 0
	}
	return NormalizeAmount(tok)
}
