package writer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatRupiah renders an amount the way Indonesian statements print it,
// e.g. Rp1.500.000,00.
func FormatRupiah(amount float64) string {
	currency := money.GetCurrency(money.IDR)
	cents := decimal.NewFromFloat(amount).
		Mul(decimal.New(1, int32(currency.Fraction))).
		Round(0).
		IntPart()
	return money.New(cents, money.IDR).Display()
}

// FormatOptionalRupiah renders nil as "-".
func FormatOptionalRupiah(amount *float64) string {
	if amount == nil {
		return "-"
	}
	return FormatRupiah(*amount)
}
