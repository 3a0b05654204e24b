package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
)

const openingBalancePhrase = "SALDO AWAL"

var (
	// amounts always carry two decimals and, below 10,000, thousands grouping
	bcaAmountPattern = regexp.MustCompile(`\b(\d{1,3}(?:[.,]\d{3})+[.,]\d{2}|\d{4,}[.,]\d{2})\b`)
	bcaMarkerPattern = regexp.MustCompile(`\b(CR|DB)\b`)
	// page footers and the closing summary end the current block
	bcaTrailerPattern = regexp.MustCompile(`(?i)Bersambung\s+ke\s+Halaman\s+berikut|SALDO\s+AWAL\s*:|MUTASI\s+(?:CR|DB)\s*:|SALDO\s+AKHIR\s*:`)

	bcaAnchorRules = AnchorRules{
		ReferenceMarkers: []string{"ID ", "ID:", "REF", "NO.", "NO:", "WSID", "FTSCY", "FTFVA", "FTRTG", "BYRVA", "TGL", "TANGGAL"},
		TransactionKeywords: []string{
			"TRSF", "TRANSFER", "SETORAN", "TARIKAN", "BIAYA", "BUNGA", "PAJAK",
			"KR OTOMATIS", "DB OTOMATIS", "SWITCHING", "BI-FAST", "BYR VIA",
			"TRANSAKSI DEBIT", "KARTU", "FLAZZ", "CR KOREKSI", "DR KOREKSI",
			openingBalancePhrase,
		},
	}

	bcaDebitKeywords = []string{
		"TARIKAN", "TARIK TUNAI", "BIAYA", "PAJAK", "DB OTOMATIS", "BYR VIA",
		"TRSF E-BANKING DB", "SWITCHING DB",
		"TRANSAKSI DEBIT", "DEBIT", "DEBET", "KARTU KREDIT", "ADM", "TRANSFER KE",
		"PEMBAYARAN", "DR KOREKSI", "FEE", "TAX", "WITHDRAWAL",
	}
	bcaCreditKeywords = []string{
		"KR OTOMATIS", "TRSF E-BANKING CR", "SWITCHING CR", "SETORAN", "BUNGA",
		"KREDIT", "TRANSFER DARI", "CR KOREKSI", "INTEREST", "REFUND", "INCOMING",
	}
)

// bcaLayout is one BCA layout generation; they differ only in the date anchor.
type bcaLayout struct {
	format     models.Format
	classifier *Classifier
}

var bcaLayouts = []bcaLayout{
	{
		format:     models.FormatBCAEStatement,
		classifier: NewClassifier(regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})(?:\s|$)`), bcaAnchorRules),
	},
	{
		format:     models.FormatBCAMutasi,
		classifier: NewClassifier(regexp.MustCompile(`^(\d{2}/\d{2})(?:\s|$)`), bcaAnchorRules),
	},
}

// BCAParser parses the block-structured BCA layouts, where a record is a
// date-anchored block whose last amount is the running balance.
type BCAParser struct {
	layout bcaLayout
}

// NewBCAEStatementParser returns a parser for the newer BCA e-statement.
func NewBCAEStatementParser() *BCAParser { return &BCAParser{layout: bcaLayouts[0]} }

// NewBCAMutasiParser returns a parser for the legacy BCA mutasi rekening.
func NewBCAMutasiParser() *BCAParser { return &BCAParser{layout: bcaLayouts[1]} }

func (p *BCAParser) BankName() string { return "Bank Central Asia" }

func (p *BCAParser) Format() models.Format { return p.layout.format }

// bcaBlock is one record group reduced to its parts.
type bcaBlock struct {
	date        string
	description string
	amount      float64
	balance     float64
	marker      models.Direction
}

// Parse extracts header, summary and transactions.
//
// The balance of every emitted record is recomputed from the opening balance
// and the classified amounts; printed balances are only used to seed the
// running balance and to classify blocks without a direction marker.
func (p *BCAParser) Parse(text string) *models.StatementInfo {
	info := &models.StatementInfo{Format: p.layout.format}
	info.Account, info.Summary = parseBCAHeader(text)

	keywords := newKeywordDirection(bcaDebitKeywords, bcaCreditKeywords)
	var (
		running decimal.Decimal
		seeded  bool
	)

	for _, g := range p.layout.classifier.Group(SplitLines(text)) {
		if !g.Anchored {
			continue
		}
		b, ok := parseBCABlock(g)
		if !ok {
			continue
		}

		if strings.Contains(strings.ToUpper(b.description), openingBalancePhrase) {
			// later pages repeat the carried-forward balance
			if len(info.Transactions) > 0 || seeded {
				continue
			}
			running, seeded = decimal.NewFromFloat(b.balance), true
			info.Transactions = append(info.Transactions, models.Transaction{
				Date:        b.date,
				Description: b.description,
				Balance:     b.balance,
				Opening:     true,
				Format:      p.layout.format,
			})
			continue
		}

		dir := b.marker
		if dir == models.DirectionUnknown {
			dir = keywords.classify(b.description)
		}
		if dir == models.DirectionUnknown {
			dir = classifyByBalance(b.amount, b.balance, running.InexactFloat64(), seeded)
		}

		txn := models.Transaction{
			Date:        b.date,
			Description: b.description,
			Format:      p.layout.format,
		}
		amt := decimal.NewFromFloat(b.amount)
		switch dir {
		case models.DirectionDebit:
			txn.Debit = b.amount
			running = running.Sub(amt)
		case models.DirectionCredit:
			txn.Credit = b.amount
			running = running.Add(amt)
		}
		if !seeded {
			running, seeded = decimal.NewFromFloat(b.balance), true
		}
		txn.Balance = running.InexactFloat64()
		info.Transactions = append(info.Transactions, txn)
	}
	return info
}

// parseBCABlock strips the date, amounts and direction marker from a group.
// Groups without any amount are rejected.
func parseBCABlock(g LineGroup) (bcaBlock, bool) {
	text := g.Text(" ")
	if from := trailerSearchStart(text, g); from < len(text) {
		if loc := bcaTrailerPattern.FindStringIndex(text[from:]); loc != nil {
			text = text[:from+loc[0]]
		}
	}
	body := strings.TrimPrefix(text, g.Anchor)

	locs := bcaAmountPattern.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		return bcaBlock{}, false
	}

	b := bcaBlock{date: g.Anchor, marker: models.DirectionUnknown}
	last := locs[len(locs)-1]
	b.balance = NormalizeAmount(body[last[0]:last[1]])
	b.amount = b.balance
	if len(locs) > 1 {
		prev := locs[len(locs)-2]
		b.amount = NormalizeAmount(body[prev[0]:prev[1]])
	}

	cuts := locs
	if m := recordMarker(body, locs); m != nil {
		if body[m[2]:m[3]] == "CR" {
			b.marker = models.DirectionCredit
		} else {
			b.marker = models.DirectionDebit
		}
		cuts = insertSpan(locs, []int{m[0], m[1]})
	}

	var rest strings.Builder
	pos := 0
	for _, loc := range cuts {
		rest.WriteString(body[pos:loc[0]])
		rest.WriteByte(' ')
		pos = loc[1]
	}
	rest.WriteString(body[pos:])
	b.description = strings.TrimRight(collapseSpaces(rest.String()), " :")
	return b, true
}

// trailerSearchStart returns the offset from which footer and closing-summary
// phrases end the block. The anchor line itself is only cut after its first
// amount, so an opening row printed as "SALDO AWAL : 1.000.000,00" survives.
func trailerSearchStart(text string, g LineGroup) int {
	if len(g.Lines) == 0 {
		return 0
	}
	from := len(strings.TrimSpace(g.Lines[0]))
	if loc := bcaAmountPattern.FindStringIndex(text); loc != nil && loc[1] < from {
		from = loc[1]
	}
	return min(from, len(text))
}

// recordMarker returns the last CR/DB token that sits directly next to an
// amount. Codes inside the narrative ("DB OTOMATIS", "TRSF E-BANKING CR 0203/...")
// are left for keyword inference and attribution.
func recordMarker(body string, amounts [][]int) []int {
	var found []int
	for _, m := range bcaMarkerPattern.FindAllStringSubmatchIndex(body, -1) {
		for _, a := range amounts {
			after := a[1] <= m[0] && strings.TrimSpace(body[a[1]:m[0]]) == ""
			before := m[1] <= a[0] && strings.TrimSpace(body[m[1]:a[0]]) == ""
			if after || before {
				found = m
				break
			}
		}
	}
	return found
}

// insertSpan returns spans with span added in offset order.
func insertSpan(spans [][]int, span []int) [][]int {
	out := make([][]int, 0, len(spans)+1)
	added := false
	for _, s := range spans {
		if !added && span[0] < s[0] {
			out = append(out, span)
			added = true
		}
		out = append(out, s)
	}
	if !added {
		out = append(out, span)
	}
	return out
}
