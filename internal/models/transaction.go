package models

// Transaction represents a single bank statement transaction.
//
// Every statement layout is normalised into this shape right after parsing,
// so nothing downstream needs to know which layout produced a row.
type Transaction struct {
	Date        string    `json:"date"`
	Time        string    `json:"time,omitempty"` // fine-grained layouts only
	Description string    `json:"description"`
	TellerID    string    `json:"tellerId,omitempty"`
	Debit       float64   `json:"debit"`
	Credit      float64   `json:"credit"`
	Balance     float64   `json:"balance"`
	Partner     string    `json:"partner,omitempty"` // empty when no counterparty was found
	Direction   Direction `json:"direction,omitempty"`
	Opening     bool      `json:"opening,omitempty"` // opening-balance pseudo-record
	Format      Format    `json:"format"`
}

// Amount returns the absolute movement of the transaction.
func (t Transaction) Amount() float64 {
	return t.Debit + t.Credit
}

// Direction is the debit/credit sense of a transaction.
type Direction string

const (
	DirectionDebit   Direction = "DEBIT"
	DirectionCredit  Direction = "CREDIT"
	DirectionUnknown Direction = "UNKNOWN"
)

// DirectionOf derives the direction from which amount column is non-zero.
func DirectionOf(debit, credit float64) Direction {
	switch {
	case debit > 0:
		return DirectionDebit
	case credit > 0:
		return DirectionCredit
	default:
		return DirectionUnknown
	}
}

// Bank identifies the issuing bank.
type Bank string

const (
	BankBRI Bank = "BRI"
	BankBCA Bank = "BCA"
)

// Family groups statement layouts that share a transaction grammar.
type Family string

const (
	// FamilyFineGrained layouts print one date+time stamped line per transaction.
	FamilyFineGrained Family = "fine_grained"
	// FamilyBlock layouts print date-anchored blocks with a trailing balance.
	FamilyBlock Family = "block"
)

// Format represents a supported statement layout.
type Format string

const (
	FormatBRIEStatement Format = "bri_estatement"
	FormatBRICMS        Format = "bri_cms"
	FormatBCAEStatement Format = "bca_estatement"
	FormatBCAMutasi     Format = "bca_mutasi"
)

// Formats lists every supported layout in default trial order.
var Formats = []Format{FormatBRIEStatement, FormatBRICMS, FormatBCAEStatement, FormatBCAMutasi}

// Family returns the parser family of the layout.
func (f Format) Family() Family {
	switch f {
	case FormatBCAEStatement, FormatBCAMutasi:
		return FamilyBlock
	default:
		return FamilyFineGrained
	}
}

// Bank returns the issuing bank of the layout.
func (f Format) Bank() Bank {
	if f.Family() == FamilyBlock {
		return BankBCA
	}
	return BankBRI
}

// ParseFormat maps user input (CLI flag, form value) onto a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "bri", "bri_estatement", "estatement", "bri-2025":
		return FormatBRIEStatement, true
	case "bri_cms", "cms":
		return FormatBRICMS, true
	case "bca", "bca_estatement":
		return FormatBCAEStatement, true
	case "bca_mutasi", "mutasi":
		return FormatBCAMutasi, true
	}
	return "", false
}

// StatementInfo holds everything a parser extracted from one document.
type StatementInfo struct {
	Format       Format
	Account      AccountInfo
	Summary      BalanceSummary
	Transactions []Transaction
}
