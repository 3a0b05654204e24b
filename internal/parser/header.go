package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
)

// Header fields are extracted independently: a template that fails leaves its
// field empty without affecting the others.

// BRI e-statement (2025 layout, bilingual labels).
var (
	briSalutationPattern = regexp.MustCompile(`(?i)Kepada\s+Yth\.?\s*(?:/\s*To)?\s*:?`)
	// labels that end the salutation block
	briSalutationStop = regexp.MustCompile(`(?i)No\.?\s*Rekening|Account\s+No|Tanggal\s+Laporan|Statement\s+Date|Periode\s+Transaksi|Transaction\s+Period|Nama\s+Produk|Product\s+Name`)
	briPeriodLine     = regexp.MustCompile(`(?i)Periode|Period`)

	briReportDate = templates(
		`(?i)Tanggal\s+Laporan\s*(?:/\s*Statement\s+Date)?\s*[:\s]*(\d{2}/\d{2}/\d{2,4})`,
		`(?i)Statement\s+Date\s*[:\s]*(\d{2}/\d{2}/\d{2,4})`,
	)
	briPeriod = templates(
		`(?i)Periode\s+Transaksi\s*(?:/\s*Transaction\s+Period)?\s*[:\s]*(\d{2}/\d{2}/\d{2,4})\s*-\s*(\d{2}/\d{2}/\d{2,4})`,
		`(?i)Transaction\s+Period\s*[:\s]*(\d{2}/\d{2}/\d{2,4})\s*-\s*(\d{2}/\d{2}/\d{2,4})`,
	)
	briAccountNumber = templates(
		`(?i)No\.?\s*Rekening\s*\n*\s*Account\s*No\s*[,:]*\s*(\d+)`,
		`(?i)No\.?\s*Rekening\s*(?:/\s*Account\s*No)?\s*[:\s]*(\d+)`,
		`(?i)Account\s*No\s*[:\s]*(\d+)`,
	)
	briProductName = templates(
		`(?i)Nama\s+Produk\s*\n\s*Product\s+Name[ \t]*[,:]*[ \t]*([^\n]*?)[ \t]*(?:Unit\s+Kerja|Business\s+Unit|Valuta|Currency|\n|$)`,
		`(?i)Nama\s+Produk[ \t]*(?:/[ \t]*Product\s+Name)?[ \t]*[,:]*[ \t]*([^\n]*?)[ \t]*(?:Unit\s+Kerja|Business\s+Unit|Valuta|Currency|\n|$)`,
		`(?i)Product\s+Name[ \t]*[,:]*[ \t]*([^\n]*?)[ \t]*(?:Unit\s+Kerja|Business\s+Unit|Valuta|Currency|\n|$)`,
	)
	briCurrency = templates(
		`(?i)Valuta\s*\n*\s*Currency\s*[,:]*\s*([A-Z]{3})\b`,
		`(?i)Valuta\s*(?:/\s*Currency)?\s*[:\s]*([A-Z]{3})\b`,
		`(?i)Currency\s*[:\s]*([A-Z]{3})\b`,
	)
	briBusinessUnit = templates(
		`(?i)Unit\s+Kerja\s*\n*\s*Business\s+Unit\s*[,:]*[ \t]*([A-Z][A-Z .]*?)\s*(?:Alamat\s+Unit|Business\s+Unit\s+Address|\n|$)`,
		`(?i)Unit\s+Kerja\s*(?:/\s*Business\s+Unit)?\s*:[ \t]*([A-Z][A-Z .]*?)\s*(?:Alamat\s+Unit|Business\s+Unit\s+Address|\n|$)`,
		`(?i)Business\s+Unit\s*:[ \t]*([A-Z][A-Z .]*?)\s*(?:\n|$)`,
	)
	briBusinessUnitAddress = templates(
		`(?i)(?:Alamat\s+Unit\s+Kerja|Business\s+Unit\s+Address)\s*[,:]*[ \t]*\n\s*([A-Z0-9][^\n]*)`,
		`(?i)(?:Alamat\s+Unit\s+Kerja|Business\s+Unit\s+Address)\s*(?:/\s*Business\s+Unit\s+Address)?\s*:[ \t]*([A-Z0-9][^\n]*)`,
	)
	briEStatementSummary = templates(
		`(?i)Saldo\s+Awal(?:\s*(?:/\s*)?Opening\s+Balance)?\s+Total\s+Transaksi\s+Debe?t(?:\s*(?:/\s*)?Total\s+Debit\s+Transaction)?\s+Total\s+Transaksi\s+Kredit(?:\s*(?:/\s*)?Total\s+Credit\s+Transaction)?\s+Saldo\s+Akhir(?:\s*(?:/\s*)?Closing\s+Balance)?\s*:?\s+(\d[\d,.]*)\s+(\d[\d,.]*)\s+(\d[\d,.]*)\s+(\d[\d,.]*)`,
		`(?i)Opening\s+Balance\s+Total\s+Debit\s+Transaction\s+Total\s+Credit\s+Transaction\s+Closing\s+Balance\s*:?\s+(\d[\d,.]*)\s+(\d[\d,.]*)\s+(\d[\d,.]*)\s+(\d[\d,.]*)`,
	)
)

// BRI CMS export.
var (
	briCMSAccountNumber = templates(
		`(?i)Account\s+No\s*:?\s*(\d{4}-\d{2}-\d{6}-\d{2}-\d)`,
		`(?i)Account\s+No\s*\n*\s*:?\s*(\d{4}-\d{2}-\d{6}-\d{2}-\d)`,
		`(?i)Account\s+No\s*:?\s*(\d{6,})`,
		`(?i)Account\s+No\s*\n*\s*:?\s*(\d{6,})`,
	)
	briCMSAccountName = templates(
		`(?i)Account\s+Name\s*:?\s*([A-Z][A-Z &.,]*?)\s*(?:Today\s*Hold|Period|Account\s*Status|\n|$)`,
		`(?i)Account\s+Name\s*\n\s*:?\s*([A-Z][A-Z &.,]*?)\s*(?:\n|$)`,
	)
	briCMSPeriod = templates(
		`(?i)Period\s*\n*\s*:?\s*(\d{2}/\d{2}/\d{2,4})\s*-\s*(\d{2}/\d{2}/\d{2,4})`,
	)
	briCMSSummary = templates(
		`(?i)OPENING\s+BALANCE\s+TOTAL\s+DEBE?T\s+TOTAL\s+CREDIT\s+CLOSING\s+BALANCE\s*:?\s+(\d[\d,.]*)\s+(\d[\d,.]*)\s+(\d[\d,.]*)\s+(\d[\d,.]*)`,
	)
	briCMSAccountLine = regexp.MustCompile(`(\d{4}-\d{2}-\d{6}-\d{2}-\d)`)
	briCMSNameLine    = regexp.MustCompile(`(?i)^Account\s+Name\s*:?\s*(.+)$`)
)

// BCA (both generations).
var (
	bcaAccountNumber = templates(
		`(?i)NO\.?\s*REKENING\s*:\s*(\d[\d-]*\d)`,
		`(?i)Account\s+No\.?\s*:\s*(\d[\d-]*\d)`,
	)
	// the holder name is printed left of the account-number label
	bcaNameBeforeLabel = regexp.MustCompile(`(?i)^\s*([A-Z][A-Z .,&'-]*?)\s+NO\.?\s*REKENING\s*:`)
	bcaName            = templates(
		`(?i)\bNAMA\s*:\s*([^\n]+)`,
		`(?i)Account\s+Name\s*:\s*([^\n]+)`,
	)
	bcaBranch = templates(
		`(?m)^\s*((?:KCU|KCP|KC)\s+[A-Za-z .]*[A-Za-z])\s*$`,
		`(?i)CABANG\s*:\s*([^\n]+)`,
	)
	bcaPeriod = templates(
		`(?i)PERIODE\s*:\s*(\d{2}/\d{2}/\d{2,4})\s*(?:-|S/?D)\s*(\d{2}/\d{2}/\d{2,4})`,
		`(?i)PERIODE\s*:\s*([A-Z]+\s+\d{4})`,
	)
	bcaCurrency = templates(
		`(?i)MATA\s+UANG\s*:\s*([A-Z]{3})\b`,
		`(?i)Currency\s*:\s*([A-Z]{3})\b`,
	)
	// labels printed on the right-hand side of the address column
	bcaRightLabel   = regexp.MustCompile(`(?i)\s*\b(?:HALAMAN|PERIODE|MATA\s+UANG|PAGE|CURRENCY)\s*:.*$`)
	bcaAddressStop  = regexp.MustCompile(`(?i)^\s*(?:TANGGAL|KETERANGAN|CATATAN|MATA\s+UANG|REKENING)\b`)
	bcaOpening      = templates(`(?i)SALDO\s+AWAL\s*:\s*([\d.,]+)`)
	bcaCreditTotal  = templates(`(?i)MUTASI\s+CR\s*:\s*([\d.,]+)\s+(\d+)`)
	bcaDebitTotal   = templates(`(?i)MUTASI\s+DB\s*:\s*([\d.,]+)\s+(\d+)`)
	bcaClosing      = templates(`(?i)SALDO\s+AKHIR\s*:\s*([\d.,]+)`)
)

const maxAddressLines = 4

// parseBRIEStatementHeader extracts account metadata and the balance summary
// from a BRI e-statement.
func parseBRIEStatementHeader(text string) (models.AccountInfo, models.BalanceSummary) {
	info := models.AccountInfo{Bank: models.BankBRI}
	info.Name, info.Address = salutationBlock(SplitLines(text))
	info.ReportDate = briReportDate.first(text)
	if m := briPeriod.firstSubmatch(text); m != nil {
		info.PeriodStart, info.PeriodEnd = m[1], m[2]
		info.Period = m[1] + " - " + m[2]
	}
	info.Number = briAccountNumber.first(text)
	info.ProductName = briProductName.first(text)
	info.Currency = strings.ToUpper(briCurrency.first(text))
	info.Branch = briBusinessUnit.first(text)
	info.BranchAddress = briBusinessUnitAddress.first(text)

	return info, fourFieldSummary(briEStatementSummary, text)
}

// salutationBlock returns the addressee name and address printed under the
// "Kepada Yth. / To :" salutation. Date-shaped and period lines interleaved by
// the extractor are dropped from the address.
func salutationBlock(lines []string) (name, address string) {
	start := -1
	var rest string
	for i, line := range lines {
		if loc := briSalutationPattern.FindStringIndex(line); loc != nil {
			start = i
			rest = strings.TrimSpace(line[loc[1]:])
			break
		}
	}
	if start < 0 {
		return "", ""
	}

	var block []string
	if rest != "" {
		block = append(block, rest)
	}
	for _, line := range lines[start+1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if briSalutationStop.MatchString(line) {
			break
		}
		block = append(block, line)
		if len(block) > maxAddressLines+1 {
			break
		}
	}
	if len(block) == 0 {
		return "", ""
	}

	name = collapseSpaces(block[0])
	var addr []string
	for _, line := range block[1:] {
		if dateOnlyPattern.MatchString(line) || briPeriodLine.MatchString(line) {
			continue
		}
		addr = append(addr, line)
	}
	return name, collapseSpaces(strings.Join(addr, " "))
}

// parseBRICMSHeader extracts account metadata and the balance summary from a
// BRI CMS export.
func parseBRICMSHeader(text string) (models.AccountInfo, models.BalanceSummary) {
	info := models.AccountInfo{Bank: models.BankBRI}
	info.Number = briCMSAccountNumber.first(text)
	info.Name = briCMSAccountName.first(text)
	if m := briCMSPeriod.firstSubmatch(text); m != nil {
		info.PeriodStart, info.PeriodEnd = m[1], m[2]
		info.Period = m[1] + " - " + m[2]
	}
	if info.Number == "" && info.Name == "" {
		briCMSHeaderFallback(text, &info)
	}
	return info, fourFieldSummary(briCMSSummary, text)
}

// briCMSHeaderFallback scans line by line when the export wrapped the labels
// away from their values.
func briCMSHeaderFallback(text string, info *models.AccountInfo) {
	for _, line := range SplitLines(text) {
		line = strings.TrimSpace(line)
		if info.Number == "" {
			if m := briCMSAccountLine.FindStringSubmatch(line); m != nil {
				info.Number = m[1]
			}
		}
		if info.Name == "" {
			if m := briCMSNameLine.FindStringSubmatch(line); m != nil {
				name := m[1]
				if i := strings.Index(strings.ToUpper(name), "TODAY HOLD"); i >= 0 {
					name = name[:i]
				}
				info.Name = collapseSpaces(strings.TrimLeft(name, ": "))
			}
		}
	}
}

// fourFieldSummary reads an "opening, debit, credit, closing" block.
func fourFieldSummary(ts fieldTemplates, text string) models.BalanceSummary {
	m := ts.firstSubmatch(text)
	if m == nil || len(m) < 5 {
		return models.BalanceSummary{}
	}
	return models.BalanceSummary{
		Opening:     floatPtr(NormalizeSummaryAmount(m[1])),
		TotalDebit:  floatPtr(NormalizeSummaryAmount(m[2])),
		TotalCredit: floatPtr(NormalizeSummaryAmount(m[3])),
		Closing:     floatPtr(NormalizeSummaryAmount(m[4])),
	}
}

// parseBCAHeader extracts account metadata and the closing summary from
// either BCA generation.
func parseBCAHeader(text string) (models.AccountInfo, models.BalanceSummary) {
	info := models.AccountInfo{Bank: models.BankBCA}
	info.Number = bcaAccountNumber.first(text)
	info.Branch = bcaBranch.first(text)
	info.Currency = strings.ToUpper(bcaCurrency.first(text))
	if m := bcaPeriod.firstSubmatch(text); m != nil {
		if len(m) > 2 && m[2] != "" {
			info.PeriodStart, info.PeriodEnd = m[1], m[2]
			info.Period = m[1] + " - " + m[2]
		} else {
			info.Period = collapseSpaces(m[1])
		}
	}
	info.Name, info.Address = bcaHolder(SplitLines(text))
	if info.Name == "" {
		info.Name = bcaName.first(text)
	}

	var summary models.BalanceSummary
	if v := bcaOpening.first(text); v != "" {
		summary.Opening = floatPtr(NormalizeSummaryAmount(v))
	}
	if m := bcaCreditTotal.firstSubmatch(text); m != nil {
		summary.TotalCredit = floatPtr(NormalizeSummaryAmount(m[1]))
		summary.CreditCount = atoiPtr(m[2])
	}
	if m := bcaDebitTotal.firstSubmatch(text); m != nil {
		summary.TotalDebit = floatPtr(NormalizeSummaryAmount(m[1]))
		summary.DebitCount = atoiPtr(m[2])
	}
	if v := bcaClosing.first(text); v != "" {
		summary.Closing = floatPtr(NormalizeSummaryAmount(v))
	}
	return info, summary
}

// bcaHolder finds the holder name left of the account-number label and the
// address lines below it, with the right-hand labels cut off.
func bcaHolder(lines []string) (name, address string) {
	for i, line := range lines {
		m := bcaNameBeforeLabel.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name = collapseSpaces(m[1])

		var addr []string
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" {
				continue
			}
			if bcaAddressStop.MatchString(next) {
				break
			}
			part := strings.TrimSpace(bcaRightLabel.ReplaceAllString(next, ""))
			if part == "" {
				break
			}
			addr = append(addr, part)
			if len(addr) == maxAddressLines {
				break
			}
		}
		return name, collapseSpaces(strings.Join(addr, " "))
	}
	return "", ""
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return intPtr(n)
}
