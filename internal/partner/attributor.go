// Package partner attributes transactions to counterparties and rolls them up
// into per-partner tables.
package partner

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cloudflare/ahocorasick"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
)

// Administrative postings are never counterparties.
var (
	sharedExclusions = []string{
		"BIAYA", "ADM", "BUNGA", "PAJAK", "KLIRING", "TARIK TUNAI", "SETORAN",
		"BPJS", "TAX", "INTEREST", "FEE",
	}
	briExclusions = []string{"BI-FAST", "SINGLE CN", "POLLING", "REWARD", "CLAIM"}
	bcaExclusions = []string{"TARIKAN"}

	stopWords = map[string]bool{
		"THE": true, "AND": true, "OR": true, "TO": true, "FROM": true, "FOR": true, "WITH": true,
		"KE": true, "DARI": true, "DAN": true, "UNTUK": true, "YANG": true,
	}
)

const maxNameWords = 4

// grammar recognizes one transaction code. ok reports that the grammar's
// trigger fired, which ends the dispatch even when no name was found.
type grammar struct {
	name    string
	extract func(desc, upper string) (name string, ok bool)
}

// Attributor finds the counterparty named in a transaction description.
//
// An Attributor is not safe for concurrent use; build one per document.
type Attributor struct {
	exclude  *ahocorasick.Matcher
	grammars []grammar
}

// NewAttributor returns an attributor for descriptions produced by the given
// parser family.
func NewAttributor(family models.Family) *Attributor {
	exclusions := append([]string{}, sharedExclusions...)
	grammars := briGrammars
	if family == models.FamilyBlock {
		exclusions = append(exclusions, bcaExclusions...)
		grammars = bcaGrammars
	} else {
		exclusions = append(exclusions, briExclusions...)
	}
	return &Attributor{
		exclude:  ahocorasick.NewStringMatcher(exclusions),
		grammars: grammars,
	}
}

// Attribute returns the partner name, or "" when the description names none.
func (a *Attributor) Attribute(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	upper := strings.ToUpper(desc)
	if len(a.exclude.Match([]byte(upper))) > 0 {
		return ""
	}
	for _, g := range a.grammars {
		if name, ok := g.extract(desc, upper); ok {
			return name
		}
	}
	return ""
}

// alphaWords returns the whitespace-separated tokens of s made of letters only
// and at least two letters long.
func alphaWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if isAlpha(w) {
			words = append(words, w)
		}
	}
	return words
}

// leadingWords returns the alphabetic words of s up to the first token that
// is not one.
func leadingWords(s string, limit int) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if !isAlpha(w) || len(words) == limit {
			break
		}
		words = append(words, w)
	}
	return words
}

func isAlpha(w string) bool {
	n := 0
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
		n++
	}
	return n >= 2
}

func joinWords(words []string, limit int) string {
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return strings.Join(words, " ")
}

func contentWords(words []string) []string {
	var out []string
	for _, w := range words {
		if !stopWords[strings.ToUpper(w)] {
			out = append(out, w)
		}
	}
	return out
}

// literal maps a keyword onto a fixed label.
func literal(label string, needles ...string) func(string, string) (string, bool) {
	return func(_, upper string) (string, bool) {
		for _, n := range needles {
			if strings.Contains(upper, n) {
				return label, true
			}
		}
		return "", false
	}
}

func salesDeposit(_, upper string) (string, bool) {
	if strings.Contains(upper, "SETOR") && strings.Contains(upper, "PENJUALAN") {
		return "PENJUALAN INTERNAL", true
	}
	return "", false
}

// genericFallback keeps the alphabetic words left after noise removal and
// needs at least two of them.
func genericFallback(noise []*regexp.Regexp) func(string, string) (string, bool) {
	return func(desc, _ string) (string, bool) {
		for _, re := range noise {
			desc = re.ReplaceAllString(desc, " ")
		}
		words := contentWords(alphaWords(desc))
		if len(words) < 2 {
			return "", true
		}
		return joinWords(words, maxNameWords), true
	}
}

var (
	esbTrailer       = regexp.MustCompile(`(?s)ESB:.*`)
	longDigits       = regexp.MustCompile(`\b\d{7,}\b`)
	alphanumericCode = regexp.MustCompile(`\b[A-Z]{2,}\d+[A-Z]*\b`)
	ptPrefix         = regexp.MustCompile(`(?i)^PT\.?\s+`)
)

// BRI vocabulary.
var (
	bmCode       = regexp.MustCompile(`BM\d+`)
	bmCodeLine   = regexp.MustCompile(`^BM\d+\s+\d+\s+\d+\s+(.+)`)
	nbmbPattern  = regexp.MustCompile(`(?is)NBMB\s+(.*?)\s+TO\s+(.*?)(?:\n|ESB:|$)`)
	wbnkCode     = regexp.MustCompile(`(?i)WBNKTRF\w+`)
	bfstCode     = regexp.MustCompile(`(?i)BFST\d+`)
	eightDigits  = regexp.MustCompile(`\d{8,}`)
	bankSuffix   = regexp.MustCompile(`(?is)(.*?)(?:-BANK|-BCA|-BNI|-MANDIRI|-DANAMON)`)
	ibizReceiver = regexp.MustCompile(`(?i) TO `)

	briGrammars = []grammar{
		{"payroll batch", briPayrollBatch},
		{"nbmb", briNBMB},
		{"wbnktrf", briWBNKTRF},
		{"bfst", briBFST},
		{"bank suffix", briBankSuffix},
		{"ibiz", briIBIZ},
		{"payroll", literal("PAYROLL", "PAYROLL")},
		{"sales deposit", salesDeposit},
		{"generic", genericFallback([]*regexp.Regexp{esbTrailer, longDigits, alphanumericCode})},
	}
)

// briPayrollBatch reads a CMS payroll batch: a "BMnnn nnn nnn NAME" code line,
// optional name continuation lines and an ESB trailer.
func briPayrollBatch(desc, _ string) (string, bool) {
	if !bmCode.MatchString(desc) {
		return "", false
	}
	var words []string
	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ESB:") {
			break
		}
		if m := bmCodeLine.FindStringSubmatch(line); m != nil {
			line = m[1]
		}
		words = append(words, alphaWords(line)...)
	}
	if len(words) == 0 {
		// not a payroll batch after all
		return "", false
	}
	return strings.Join(words, " "), true
}

func briNBMB(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "NBMB") {
		return "", false
	}
	m := nbmbPattern.FindStringSubmatch(desc)
	if m == nil {
		return "", true
	}
	if receiver := strings.Join(strings.Fields(m[2]), " "); receiver != "" {
		return receiver, true
	}
	return strings.Join(strings.Fields(m[1]), " "), true
}

func briWBNKTRF(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "WBNKTRF") {
		return "", false
	}
	rest := esbTrailer.ReplaceAllString(wbnkCode.ReplaceAllString(desc, " "), " ")
	return strings.Join(alphaWords(rest), " "), true
}

func briBFST(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "BFST") {
		return "", false
	}
	rest := bfstCode.ReplaceAllString(desc, " ")
	rest = esbTrailer.ReplaceAllString(rest, " ")
	rest = eightDigits.ReplaceAllString(rest, " ")

	if !strings.Contains(rest, ":") {
		return strings.Join(alphaWords(rest), " "), true
	}
	for _, segment := range strings.Split(rest, ":") {
		name := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsSpace(r) {
				return r
			}
			return -1
		}, segment)
		name = strings.Join(strings.Fields(name), " ")
		if len(name) >= 3 {
			return name, true
		}
	}
	return "", true
}

func briBankSuffix(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "BCA") && !strings.Contains(upper, "BNI") &&
		!strings.Contains(upper, "MANDIRI") && !strings.Contains(upper, "DANAMON") {
		return "", false
	}
	m := bankSuffix.FindStringSubmatch(desc)
	if m == nil {
		return "", true
	}
	company := ptPrefix.ReplaceAllString(strings.TrimSpace(m[1]), "")
	return strings.Join(alphaWords(company), " "), true
}

func briIBIZ(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "IBIZ") {
		return "", false
	}
	loc := ibizReceiver.FindStringIndex(desc)
	if loc == nil {
		return "", true
	}
	receiver, _, _ := strings.Cut(desc[loc[1]:], "ESB:")
	return joinWords(alphaWords(receiver), maxNameWords), true
}

// BCA vocabulary.
var (
	bcaRefID      = regexp.MustCompile(`(?i)\b\d{4}/[A-Z]+/\w+`)
	bcaWSID       = regexp.MustCompile(`(?i)WSID:?\s*\S+`)
	bcaDigits     = regexp.MustCompile(`\b\d{5,}\b`)
	bcaDate       = regexp.MustCompile(`\b\d{2}/\d{2}(?:/\d{2,4})?\b`)
	bcaTRSFPrefix = regexp.MustCompile(`(?i)TRSF\s+E-BANKING(?:\s+(?:CR|DB))?`)
	bcaSwitching  = regexp.MustCompile(`(?i)(?:DR|KE)\s+\d{3}\s+(.+)`)
	bcaOtomatis   = regexp.MustCompile(`(?i)(?:LLG|RTGS)-\S+(?:\s+(?:MANDIRI|BNI|BRI|CIMB|DANAMON|PERMATA|BTN|BSI|PANIN|OCBC))?\s+(.+)`)
	bcaBiller     = regexp.MustCompile(`(?i)BYR\s+VIA\s+E-BANKING`)
	bcaCardDebit  = regexp.MustCompile(`(?i)TRANSAKSI\s+DEBIT|TGL:?\s*\d{2}/\d{2}|\bQR\s+\d+`)

	bcaNoise = []*regexp.Regexp{bcaRefID, bcaWSID, bcaDigits, bcaDate}

	bcaGrammars = []grammar{
		{"trsf e-banking", bcaTransfer},
		{"switching", bcaSwitchingTransfer},
		{"otomatis", bcaClearing},
		{"biller", bcaBillPayment},
		{"card debit", bcaMerchant},
		{"payroll", literal("PAYROLL", "PAYROLL", "GAJI")},
		{"sales deposit", salesDeposit},
		{"generic", genericFallback(append(append([]*regexp.Regexp{}, bcaNoise...), alphanumericCode))},
	}
)

func stripNoise(s string, extra ...*regexp.Regexp) string {
	for _, re := range append(extra, bcaNoise...) {
		s = re.ReplaceAllString(s, " ")
	}
	return s
}

func bcaTransfer(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "TRSF E-BANKING") {
		return "", false
	}
	rest := stripNoise(desc, bcaTRSFPrefix)
	return joinWords(contentWords(alphaWords(rest)), maxNameWords), true
}

func bcaSwitchingTransfer(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "SWITCHING") && !strings.Contains(upper, "BI-FAST") {
		return "", false
	}
	m := bcaSwitching.FindStringSubmatch(desc)
	if m == nil {
		return "", true
	}
	return strings.Join(leadingWords(m[1], maxNameWords), " "), true
}

func bcaClearing(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "KR OTOMATIS") && !strings.Contains(upper, "DB OTOMATIS") {
		return "", false
	}
	m := bcaOtomatis.FindStringSubmatch(desc)
	if m == nil {
		return "", true
	}
	name := ptPrefix.ReplaceAllString(strings.TrimSpace(m[1]), "")
	return strings.Join(leadingWords(name, maxNameWords), " "), true
}

func bcaBillPayment(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "BYR VIA") {
		return "", false
	}
	rest := stripNoise(desc, bcaBiller)
	return joinWords(alphaWords(rest), maxNameWords), true
}

func bcaMerchant(desc, upper string) (string, bool) {
	if !strings.Contains(upper, "TRANSAKSI DEBIT") {
		return "", false
	}
	rest := stripNoise(desc, bcaCardDebit)
	return joinWords(alphaWords(rest), maxNameWords), true
}
