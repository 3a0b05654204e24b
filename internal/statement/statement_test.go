package statement

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/idn-statement-reader/internal/logger"
	"github.com/insightdelivered/idn-statement-reader/internal/metrics"
	"github.com/insightdelivered/idn-statement-reader/internal/models"
)

const cmsText = `Account Statement
Account No : 0123-01-000123-30-1
Account Name : PT MAJU BERSAMA Today Hold : 0.00
Period : 01/03/2024 - 31/03/2024
Posting Date Remark Debet Credit Ledger Teller ID
01/03/24 08:00:00 BM2403010001 1234 5678 PT SUMBER REJEKI 0.00 5,000,000.00 15,000,000.00 CMSPYRL
ESB:PYRL:0001
02/03/24 09:00:00 PAYROLL MARET 2,000,000.00 0.00 13,000,000.00 BRIMDBT
OPENING BALANCE TOTAL DEBET TOTAL CREDIT CLOSING BALANCE
10,000,000.00 2,000,000.00 5,000,000.00 13,000,000.00
`

const bcaText = `PT BANK CENTRAL ASIA Tbk
REKENING GIRO
KCU SUDIRMAN
BUDI SANTOSA NO. REKENING : 0123456789
JL MERDEKA NO 1 HALAMAN : 1 / 1
JAKARTA PERIODE : 01/03/2024 - 31/03/2024
MATA UANG : IDR
TANGGAL KETERANGAN CBG MUTASI SALDO
01/03/2024 SALDO AWAL 1.000.000,00
02/03/2024 TRSF E-BANKING CR 0203/FTSCY/WS95031 500.000,00 1.500.000,00
SITI AMINAH
05/03/2024 BIAYA ADM 15.000,00 DB 1.485.000,00
10/03/2024 KR OTOMATIS LLG-BANK MANDIRI PT SUMBER MAKMUR 2.000.000,00 3.485.000,00
Bersambung ke Halaman berikut
SALDO AWAL : 1.000.000,00
MUTASI CR : 2.500.000,00 2
MUTASI DB : 15.000,00 1
SALDO AKHIR : 3.485.000,00
`

func TestProcess_SingleFineGrainedLine(t *testing.T) {
	res := Process(Document{
		Text: "01/03/24 10:15:00 TRANSFER KE BUDI SANTOSA 1234567 0.00 500000.00 1500000.00",
	})

	require.Len(t, res.Transactions, 1)
	txn := res.Transactions[0]
	assert.Equal(t, "01/03/24", txn.Date)
	assert.Equal(t, 0.0, txn.Debit)
	assert.Equal(t, 500000.0, txn.Credit)
	assert.Equal(t, 1500000.0, txn.Balance)
	assert.Equal(t, "TRANSFER KE BUDI SANTOSA", txn.Description)
	assert.Equal(t, models.DirectionCredit, txn.Direction)
	assert.Equal(t, models.FormatBRIEStatement, res.Format)
	assert.False(t, res.Fallback)
}

func TestProcess_FallsBackToSecondCandidate(t *testing.T) {
	// the year in the filename points at the e-statement layout, which reads nothing here
	res := Process(Document{Name: "rekening_2024.pdf", Text: cmsText})

	assert.Equal(t, models.FormatBRICMS, res.Format)
	assert.True(t, res.Fallback)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "PT SUMBER REJEKI", res.Transactions[0].Partner)
	assert.Equal(t, "PAYROLL", res.Transactions[1].Partner)
	assert.Equal(t, "0123-01-000123-30-1", res.Account.Number)
	require.NotNil(t, res.Summary.Closing)
	assert.Equal(t, 13000000.0, *res.Summary.Closing)
}

func TestProcess_AllEmptyKeepsFirstCandidate(t *testing.T) {
	res := Process(Document{Name: "notes.pdf", Text: "nothing to see here"})

	assert.True(t, res.Empty())
	assert.Equal(t, models.FormatBRIEStatement, res.Format)
	assert.False(t, res.Fallback)
	assert.Empty(t, res.PartnerTable)
	assert.Equal(t, models.StatementAnalytics{}, res.Analytics)
}

func TestProcess_EmptyText(t *testing.T) {
	res := Process(Document{})
	assert.True(t, res.Empty())
	assert.True(t, res.Summary.IsEmpty())
}

func TestProcess_ForcedFormatDisablesFallback(t *testing.T) {
	res := Process(Document{Text: cmsText, Format: models.FormatBRIEStatement})
	assert.True(t, res.Empty())
	assert.Equal(t, models.FormatBRIEStatement, res.Format)
	assert.False(t, res.Fallback)
}

func TestProcess_BlockPipeline(t *testing.T) {
	res := Process(Document{Name: "upload.pdf", Text: bcaText})

	assert.Equal(t, models.FormatBCAEStatement, res.Format)
	require.Len(t, res.Transactions, 4)
	assert.True(t, res.Transactions[0].Opening)
	assert.Empty(t, res.Transactions[0].Partner)

	require.Len(t, res.PartnerTable, 2)
	assert.Equal(t, "SUMBER MAKMUR", res.PartnerTable[0].Partner)
	assert.Equal(t, "SITI AMINAH", res.PartnerTable[1].Partner)

	assert.Equal(t, 2, res.Analytics.CreditCount)
	assert.Equal(t, 0, res.Analytics.DebitCount)
	assert.Equal(t, 2500000.0, res.Analytics.CreditAmount)
	assert.Equal(t, 2, res.Analytics.PartnerCount)
	assert.Equal(t, "SUMBER MAKMUR", res.Analytics.TopPartner)
	assert.Equal(t, 2000000.0, res.Analytics.TopPartnerAmount)
}

func TestProcess_PartnerVolumeConserved(t *testing.T) {
	for _, text := range []string{cmsText, bcaText} {
		res := Process(Document{Text: text})
		var want, got float64
		for _, t := range res.Transactions {
			if t.Partner != "" {
				want += t.Debit + t.Credit
			}
		}
		for _, p := range res.PartnerTable {
			got += p.TotalDebit + p.TotalCredit
		}
		assert.InDelta(t, want, got, 0.001)
	}
}

func TestProcessor_LogsAndRecords(t *testing.T) {
	var buf bytes.Buffer
	m := metrics.New()
	p := NewProcessor(logger.New("debug", &buf), m)

	p.Process(Document{Name: "rekening_2024.pdf", Text: cmsText})
	p.Process(Document{Name: "empty.pdf"})

	out := buf.String()
	assert.Contains(t, out, `"msg":"format tried"`)
	assert.Contains(t, out, `"msg":"statement parsed"`)
	assert.Contains(t, out, `"msg":"no transactions found"`)
	assert.Contains(t, out, `"fallback":true`)
}
