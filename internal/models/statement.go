package models

// AccountInfo holds account metadata extracted from the statement header.
// Empty fields were not found in the text.
type AccountInfo struct {
	Bank          Bank   `json:"bank,omitempty"`
	Name          string `json:"name,omitempty"`
	Number        string `json:"number,omitempty"`
	Branch        string `json:"branch,omitempty"`
	BranchAddress string `json:"branchAddress,omitempty"`
	Currency      string `json:"currency,omitempty"`
	ProductName   string `json:"productName,omitempty"`
	ReportDate    string `json:"reportDate,omitempty"`
	Period        string `json:"period,omitempty"`
	PeriodStart   string `json:"periodStart,omitempty"`
	PeriodEnd     string `json:"periodEnd,omitempty"`
	Address       string `json:"address,omitempty"`
}

// BalanceSummary holds the period totals printed on the statement.
// A nil field was not found.
type BalanceSummary struct {
	Opening     *float64 `json:"opening,omitempty"`
	Closing     *float64 `json:"closing,omitempty"`
	TotalDebit  *float64 `json:"totalDebit,omitempty"`
	TotalCredit *float64 `json:"totalCredit,omitempty"`
	DebitCount  *int     `json:"debitCount,omitempty"`
	CreditCount *int     `json:"creditCount,omitempty"`
}

// IsEmpty reports whether no summary field was found.
func (s BalanceSummary) IsEmpty() bool {
	return s.Opening == nil && s.Closing == nil && s.TotalDebit == nil &&
		s.TotalCredit == nil && s.DebitCount == nil && s.CreditCount == nil
}

// PartnerSummary aggregates the transactions of one partner in one direction.
type PartnerSummary struct {
	Partner   string    `json:"partner"`
	Direction Direction `json:"direction"`
	Debit     float64   `json:"debit"`
	Credit    float64   `json:"credit"`
	Amount    float64   `json:"amount"`
	Count     int       `json:"count"`
}

// PartnerTotals aggregates all transactions of one partner.
type PartnerTotals struct {
	Partner           string  `json:"partner"`
	TotalCredit       float64 `json:"totalCredit"`
	TotalDebit        float64 `json:"totalDebit"`
	CreditCount       int     `json:"creditCount"`
	DebitCount        int     `json:"debitCount"`
	TotalTransactions int     `json:"totalTransactions"`
}

// Volume is the combined debit and credit movement.
func (p PartnerTotals) Volume() float64 {
	return p.TotalCredit + p.TotalDebit
}

// StatementAnalytics is the whole-statement rollup over attributed transactions.
type StatementAnalytics struct {
	CreditCount      int     `json:"creditCount"`
	DebitCount       int     `json:"debitCount"`
	CreditAmount     float64 `json:"creditAmount"`
	DebitAmount      float64 `json:"debitAmount"`
	PartnerCount     int     `json:"partnerCount"`
	TopPartner       string  `json:"topPartner,omitempty"`
	TopPartnerAmount float64 `json:"topPartnerAmount"`
}
