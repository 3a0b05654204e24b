package parser

import (
	"fmt"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
)

// Parser defines the interface for statement layout parsers.
type Parser interface {
	// Parse takes the extracted text of one statement and returns its
	// structured content. Malformed input yields empty fields, never an error.
	Parse(text string) *models.StatementInfo
	// BankName returns the human-readable bank name.
	BankName() string
	// Format returns the layout this parser reads.
	Format() models.Format
}

// New returns the parser for the given layout.
func New(format models.Format) (Parser, error) {
	switch format {
	case models.FormatBRIEStatement:
		return NewBRIEStatementParser(), nil
	case models.FormatBRICMS:
		return NewBRICMSParser(), nil
	case models.FormatBCAEStatement:
		return NewBCAEStatementParser(), nil
	case models.FormatBCAMutasi:
		return NewBCAMutasiParser(), nil
	default:
		return nil, fmt.Errorf("unsupported statement format: %q", format)
	}
}

// Layout-specific phrases, checked in order.
var layoutHints = []struct {
	format  models.Format
	needles []string
}{
	{models.FormatBRICMS, []string{"OPENING BALANCE TOTAL DEBET", "Today Hold", "Teller ID", "Account Statement"}},
	{models.FormatBRIEStatement, []string{"Kepada Yth", "Tanggal Laporan", "Periode Transaksi", "Laporan Transaksi Finansial"}},
	{models.FormatBCAMutasi, []string{"MUTASI REKENING", "INFORMASI REKENING - MUTASI"}},
	{models.FormatBCAEStatement, []string{"REKENING GIRO", "REKENING TAHAPAN", "Bersambung ke Halaman berikut"}},
}

var bankHints = []struct {
	bank    models.Bank
	needles []string
}{
	{models.BankBRI, []string{"Bank Rakyat Indonesia", "BRImo", "bri.co.id"}},
	{models.BankBCA, []string{"Bank Central Asia", "KlikBCA", "bca.co.id", "HALO BCA"}},
}

// DetectFormat identifies the layout from phrases only that layout prints.
func DetectFormat(text string) (models.Format, bool) {
	for _, h := range layoutHints {
		if containsAny(text, h.needles) {
			return h.format, true
		}
	}
	return "", false
}

// DetectBank identifies the issuing bank from the statement content.
func DetectBank(text string) (models.Bank, bool) {
	if f, ok := DetectFormat(text); ok {
		return f.Bank(), true
	}
	for _, h := range bankHints {
		if containsAny(text, h.needles) {
			return h.bank, true
		}
	}
	return "", false
}
