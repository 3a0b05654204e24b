package partner

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
)

// Enrich returns a copy of txns with partner and direction filled in.
// The opening-balance record keeps an empty partner and direction.
func Enrich(txns []models.Transaction, family models.Family) []models.Transaction {
	a := NewAttributor(family)
	out := make([]models.Transaction, len(txns))
	for i, t := range txns {
		if !t.Opening {
			t.Partner = a.Attribute(t.Description)
			t.Direction = models.DirectionOf(t.Debit, t.Credit)
		}
		out[i] = t
	}
	return out
}

type directionKey struct {
	partner   string
	direction models.Direction
}

type sums struct {
	debit, credit decimal.Decimal
	count         int
}

// SummarizeByDirection groups attributed transactions by partner and direction,
// largest amount first. Groups with equal amounts keep first-appearance order.
func SummarizeByDirection(txns []models.Transaction) []models.PartnerSummary {
	index := make(map[directionKey]int)
	var keys []directionKey
	var totals []sums

	for _, t := range txns {
		if t.Partner == "" {
			continue
		}
		k := directionKey{t.Partner, t.Direction}
		i, ok := index[k]
		if !ok {
			i = len(keys)
			index[k] = i
			keys = append(keys, k)
			totals = append(totals, sums{})
		}
		totals[i].debit = totals[i].debit.Add(decimal.NewFromFloat(t.Debit))
		totals[i].credit = totals[i].credit.Add(decimal.NewFromFloat(t.Credit))
		totals[i].count++
	}

	out := make([]models.PartnerSummary, len(keys))
	for i, k := range keys {
		s := totals[i]
		out[i] = models.PartnerSummary{
			Partner:   k.partner,
			Direction: k.direction,
			Debit:     s.debit.InexactFloat64(),
			Credit:    s.credit.InexactFloat64(),
			Amount:    s.debit.Add(s.credit).InexactFloat64(),
			Count:     s.count,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

// SummarizeByPartner builds one row per partner, largest volume first.
// Partners with equal volume keep first-appearance order.
func SummarizeByPartner(txns []models.Transaction) []models.PartnerTotals {
	index := make(map[string]int)
	var rows []models.PartnerTotals
	var credit, debit []decimal.Decimal

	for _, t := range txns {
		if t.Partner == "" {
			continue
		}
		i, ok := index[t.Partner]
		if !ok {
			i = len(rows)
			index[t.Partner] = i
			rows = append(rows, models.PartnerTotals{Partner: t.Partner})
			credit = append(credit, decimal.Zero)
			debit = append(debit, decimal.Zero)
		}
		credit[i] = credit[i].Add(decimal.NewFromFloat(t.Credit))
		debit[i] = debit[i].Add(decimal.NewFromFloat(t.Debit))
		if t.Credit > 0 {
			rows[i].CreditCount++
		}
		if t.Debit > 0 {
			rows[i].DebitCount++
		}
		rows[i].TotalTransactions++
	}

	for i := range rows {
		rows[i].TotalCredit = credit[i].InexactFloat64()
		rows[i].TotalDebit = debit[i].InexactFloat64()
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Volume() > rows[j].Volume() })
	return rows
}

// Analyze reduces the per-partner table to statement-wide figures. The top
// partner is the first one with the largest volume.
func Analyze(totals []models.PartnerTotals) models.StatementAnalytics {
	var a models.StatementAnalytics
	creditAmount, debitAmount := decimal.Zero, decimal.Zero
	top := -1

	for i, p := range totals {
		a.CreditCount += p.CreditCount
		a.DebitCount += p.DebitCount
		creditAmount = creditAmount.Add(decimal.NewFromFloat(p.TotalCredit))
		debitAmount = debitAmount.Add(decimal.NewFromFloat(p.TotalDebit))
		if top < 0 || p.Volume() > totals[top].Volume() {
			top = i
		}
	}

	a.CreditAmount = creditAmount.InexactFloat64()
	a.DebitAmount = debitAmount.InexactFloat64()
	a.PartnerCount = len(totals)
	if top >= 0 {
		a.TopPartner = totals[top].Partner
		a.TopPartnerAmount = totals[top].Volume()
	}
	return a
}
