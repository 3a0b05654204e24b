package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
)

func TestBCAParser_EStatement(t *testing.T) {
	info := NewBCAEStatementParser().Parse(bcaEStatementText)
	require.Len(t, info.Transactions, 4)

	opening := info.Transactions[0]
	assert.True(t, opening.Opening)
	assert.Equal(t, "01/03/2024", opening.Date)
	assert.Equal(t, 1000000.0, opening.Balance)
	assert.Zero(t, opening.Debit)
	assert.Zero(t, opening.Credit)
	assert.Empty(t, opening.Direction)
	assert.Empty(t, opening.Partner)

	tests := []struct {
		desc    string
		debit   float64
		credit  float64
		balance float64
	}{
		{"TRSF E-BANKING CR 0203/FTSCY/WS95031 SITI AMINAH", 0, 500000, 1500000},
		{"BIAYA ADM", 15000, 0, 1485000},
		{"KR OTOMATIS LLG-BANK MANDIRI PT SUMBER MAKMUR", 0, 2000000, 3485000},
	}
	for i, tt := range tests {
		txn := info.Transactions[i+1]
		if txn.Description != tt.desc {
			t.Errorf("txn %d description: got %q, want %q", i+1, txn.Description, tt.desc)
		}
		if txn.Debit != tt.debit || txn.Credit != tt.credit || txn.Balance != tt.balance {
			t.Errorf("txn %d: got debit=%f credit=%f balance=%f, want %f/%f/%f",
				i+1, txn.Debit, txn.Credit, txn.Balance, tt.debit, tt.credit, tt.balance)
		}
	}
}

func TestBCAParser_Mutasi(t *testing.T) {
	info := NewBCAMutasiParser().Parse(bcaMutasiText)
	require.Len(t, info.Transactions, 4)

	assert.True(t, info.Transactions[0].Opening)
	assert.Equal(t, 2000000.0, info.Transactions[0].Balance)

	switching := info.Transactions[1]
	assert.Equal(t, "04/03", switching.Date)
	assert.Equal(t, 750000.0, switching.Credit)
	assert.Equal(t, 2750000.0, switching.Balance)
	// the WSID line is a continuation, not a new record
	assert.Contains(t, switching.Description, "WSID:Z1234")

	assert.Equal(t, 250000.0, info.Transactions[2].Debit)
	assert.Equal(t, 100000.0, info.Transactions[3].Credit)
	assert.Equal(t, 2600000.0, info.Transactions[3].Balance)
}

func TestBCAParser_RunningBalance(t *testing.T) {
	for _, tc := range []struct {
		name   string
		parser *BCAParser
		text   string
	}{
		{"estatement", NewBCAEStatementParser(), bcaEStatementText},
		{"mutasi", NewBCAMutasiParser(), bcaMutasiText},
	} {
		t.Run(tc.name, func(t *testing.T) {
			txns := tc.parser.Parse(tc.text).Transactions
			require.NotEmpty(t, txns)
			for i := 1; i < len(txns); i++ {
				want := txns[i-1].Balance - txns[i].Debit + txns[i].Credit
				assert.InDelta(t, want, txns[i].Balance, 0.001, "record %d", i)
				assert.True(t, txns[i].Debit == 0 || txns[i].Credit == 0)
			}
		})
	}
}

func TestBCAParser_RecomputesBalance(t *testing.T) {
	text := "01/03 SALDO AWAL 1,000,000.00\n02/03 TRSF E-BANKING CR 100,000.00 9,999,999.00"
	txns := NewBCAMutasiParser().Parse(text).Transactions
	require.Len(t, txns, 2)
	assert.Equal(t, 1100000.0, txns[1].Balance)
}

func TestBCAParser_BalanceProgressionFallback(t *testing.T) {
	text := "01/03 SALDO AWAL 1,000,000.00\n02/03 ABCDEF GHIJ 50,000.00 950,000.00\n03/03 QWERTY 25,000.00 975,000.00"
	txns := NewBCAMutasiParser().Parse(text).Transactions
	require.Len(t, txns, 3)
	assert.Equal(t, 50000.0, txns[1].Debit)
	assert.Equal(t, 25000.0, txns[2].Credit)
	assert.Equal(t, 975000.0, txns[2].Balance)
}

func TestBCAParser_SeedsFromFirstPrintedBalance(t *testing.T) {
	text := "02/03 ABCDEF 50,000.00 950,000.00\n03/03 TRSF E-BANKING DB 10,000.00 940,000.00"
	txns := NewBCAMutasiParser().Parse(text).Transactions
	require.Len(t, txns, 2)

	assert.False(t, txns[0].Opening)
	assert.Equal(t, 950000.0, txns[0].Balance)
	assert.Equal(t, models.DirectionUnknown, models.DirectionOf(txns[0].Debit, txns[0].Credit))
	assert.Equal(t, 10000.0, txns[1].Debit)
	assert.Equal(t, 940000.0, txns[1].Balance)
}

func TestBCAParser_SingleAmountIsBoth(t *testing.T) {
	text := "01/03 SALDO AWAL 1,000,000.00\n02/03 BUNGA 1,000,500.00"
	txns := NewBCAMutasiParser().Parse(text).Transactions
	require.Len(t, txns, 2)
	assert.Equal(t, 1000500.0, txns[1].Credit)
}

func TestBCAParser_DropsGroupsWithoutAmount(t *testing.T) {
	text := "01/03 SALDO AWAL 1,000,000.00\n02/03 TRSF E-BANKING CR\nno amount here\n03/03 BIAYA ADM 5,000.00 995,000.00"
	txns := NewBCAMutasiParser().Parse(text).Transactions
	require.Len(t, txns, 2)
	assert.Equal(t, "BIAYA ADM", txns[1].Description)
	assert.Equal(t, 995000.0, txns[1].Balance)
}

func TestParseBCABlock_MarkerNextToAmount(t *testing.T) {
	g := LineGroup{
		Anchor:   "01/03",
		Anchored: true,
		Lines:    []string{"01/03 DB OTOMATIS REVERSAL CR 10,000.00 20,000.00"},
	}
	b, ok := parseBCABlock(g)
	require.True(t, ok)
	assert.Equal(t, models.DirectionCredit, b.marker)
	assert.Equal(t, "DB OTOMATIS REVERSAL", b.description)
	assert.Equal(t, 10000.0, b.amount)
	assert.Equal(t, 20000.0, b.balance)
}

func TestParseBCABlock_InTextCodesStay(t *testing.T) {
	tests := []struct {
		line   string
		marker models.Direction
		desc   string
	}{
		{"01/03 DB OTOMATIS RTGS-BANK BNI PT ABADI JAYA 10,000.00 20,000.00", models.DirectionUnknown, "DB OTOMATIS RTGS-BANK BNI PT ABADI JAYA"},
		{"01/03 TRSF E-BANKING CR 0103/FTSCY/WS95031 10,000.00 20,000.00", models.DirectionUnknown, "TRSF E-BANKING CR 0103/FTSCY/WS95031"},
		{"01/03 BIAYA ADM 10,000.00 DB 20,000.00", models.DirectionDebit, "BIAYA ADM"},
		{"01/03 SETORAN TUNAI 10,000.00 20,000.00 CR", models.DirectionCredit, "SETORAN TUNAI"},
	}
	for _, tt := range tests {
		b, ok := parseBCABlock(LineGroup{Anchor: "01/03", Anchored: true, Lines: []string{tt.line}})
		require.True(t, ok, tt.line)
		if b.marker != tt.marker {
			t.Errorf("%q marker: got %q, want %q", tt.line, b.marker, tt.marker)
		}
		if b.description != tt.desc {
			t.Errorf("%q description: got %q, want %q", tt.line, b.description, tt.desc)
		}
	}
}

func TestBCAParser_DebitClearingWithoutMarker(t *testing.T) {
	text := "01/03 SALDO AWAL 100,000.00\n02/03 DB OTOMATIS RTGS-BANK BNI PT ABADI JAYA 10,000.00 90,000.00"
	txns := NewBCAMutasiParser().Parse(text).Transactions
	require.Len(t, txns, 2)
	assert.Equal(t, "DB OTOMATIS RTGS-BANK BNI PT ABADI JAYA", txns[1].Description)
	assert.Equal(t, 10000.0, txns[1].Debit)
	assert.Equal(t, 90000.0, txns[1].Balance)
}

func TestBCAParser_OpeningRowWithColon(t *testing.T) {
	text := "01/03/2024 SALDO AWAL : 1.000.000,00\n02/03/2024 TRSF E-BANKING CR 500.000,00 1.500.000,00\n" +
		"SALDO AWAL : 1.000.000,00\nSALDO AKHIR : 1.500.000,00\n"
	txns := NewBCAEStatementParser().Parse(text).Transactions
	require.Len(t, txns, 2)

	assert.True(t, txns[0].Opening)
	assert.Equal(t, "SALDO AWAL", txns[0].Description)
	assert.Equal(t, 1000000.0, txns[0].Balance)
	assert.Equal(t, 500000.0, txns[1].Credit)
	assert.Equal(t, 1500000.0, txns[1].Balance)
	assert.Equal(t, "TRSF E-BANKING", txns[1].Description)
}
