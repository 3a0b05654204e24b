package parser

const briEStatementText = `LAPORAN TRANSAKSI FINANSIAL
Kepada Yth. / To :
PT MAJU BERSAMA
JL SUDIRMAN NO 10
01/04/25
JAKARTA PUSAT
No. Rekening : 123401000123301
Tanggal Laporan : 01/04/25
Periode Transaksi : 01/03/25 - 31/03/25
Nama Produk : BRITAMA BISNIS
Valuta : IDR
Unit Kerja : KC JAKARTA SUDIRMAN
Alamat Unit Kerja : JL. JEND SUDIRMAN KAV 44
Tanggal Transaksi Uraian Transaksi Teller Debet Kredit Saldo
01/03/25 08:01:12 NBMB BUDI SANTOSA TO MAJU BERSAMA 8888123 0.00 2,500,000.00 12,500,000.00
02/03/25 09:30:00 BIAYA ADM 0000000 15,000.00 0.00 12,485,000.00
03/03/25 10:15:00 IBIZ TRANSFER TO CV SINAR ABADI 7777321 1,000,000.00 0.00 11,485,000.00
ESB:IBIZ:0123456
Saldo Awal Total Transaksi Debet Total Transaksi Kredit Saldo Akhir
10,000,000.00 1,015,000.00 2,500,000.00 11,485,000.00
`

const briCMSText = `Account Statement
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

const bcaEStatementText = `PT BANK CENTRAL ASIA Tbk
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

const bcaMutasiText = `MUTASI REKENING
NO. REKENING : 8420012345
NAMA : CV SINAR ABADI
PERIODE : MARET 2024
MATA UANG : IDR
TGL KETERANGAN CBG MUTASI SALDO
01/03 SALDO AWAL 2,000,000.00
04/03 SWITCHING CR TRANSFER DR 014 ANDI WIJAYA 750,000.00 2,750,000.00
05/03 WSID:Z1234 0001
06/03 TARIKAN ATM 06/03 250,000.00 2,500,000.00
07/03 SETORAN TUNAI 100,000.00 2,600,000.00
`
