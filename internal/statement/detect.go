package statement

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
	"github.com/insightdelivered/idn-statement-reader/internal/parser"
)

const (
	fuzzyScanLines   = 40
	maxFuzzyDistance = 24
)

var yearToken = regexp.MustCompile(`(?:^|[^0-9])20\d{2}(?:[^0-9]|$)`)

// Filename markers that name a layout outright.
var filenameMarkers = []struct {
	needle string
	format models.Format
}{
	{"CMS", models.FormatBRICMS},
	{"MUTASI", models.FormatBCAMutasi},
	{"KORAN", models.FormatBCAMutasi},
	{"BCA", models.FormatBCAEStatement},
	{"BRI", models.FormatBRIEStatement},
}

var fuzzyBankNames = []struct {
	bank  models.Bank
	names []string
}{
	{models.BankBRI, []string{"bank rakyat indonesia"}},
	{models.BankBCA, []string{"bank central asia"}},
}

// Candidates orders the formats to try for one document. An explicit filename
// marker wins; otherwise content hints pick the layout or the bank, and the
// fine-grained layouts go first when nothing is known.
func Candidates(filename, text string) []models.Format {
	if f, ok := formatFromFilename(filename); ok {
		return promote(f)
	}
	if f, ok := parser.DetectFormat(text); ok {
		return promote(f)
	}
	if b, ok := parser.DetectBank(text); ok {
		return promoteBank(b)
	}
	if b, ok := fuzzyBank(text); ok {
		return promoteBank(b)
	}
	return promote(models.FormatBRIEStatement)
}

// formatFromFilename reads layout markers from the base name. A bare year
// token or an e-statement marker points at the BRI e-statement.
func formatFromFilename(filename string) (models.Format, bool) {
	name := strings.ToUpper(filepath.Base(filename))
	if filename == "" || name == "." {
		return "", false
	}
	for _, m := range filenameMarkers {
		if strings.Contains(name, m.needle) {
			return m.format, true
		}
	}
	compact := strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
	if strings.Contains(compact, "ESTATEMENT") || yearToken.MatchString(name) {
		return models.FormatBRIEStatement, true
	}
	return "", false
}

// fuzzyBank looks for a bank's legal name in the first lines of the text,
// tolerating the spacing and punctuation noise of PDF extraction.
func fuzzyBank(text string) (models.Bank, bool) {
	lines := parser.SplitLines(text)
	if len(lines) > fuzzyScanLines {
		lines = lines[:fuzzyScanLines]
	}

	var best models.Bank
	bestDistance := -1
	for _, fb := range fuzzyBankNames {
		for _, name := range fb.names {
			for _, line := range lines {
				d := fuzzy.RankMatchNormalizedFold(name, line)
				if d < 0 || d > maxFuzzyDistance {
					continue
				}
				if bestDistance < 0 || d < bestDistance {
					best, bestDistance = fb.bank, d
				}
			}
		}
	}
	return best, bestDistance >= 0
}

// promote returns every format with f first, then its sibling layout, then
// the other bank's layouts.
func promote(f models.Format) []models.Format {
	out := []models.Format{f}
	for _, g := range models.Formats {
		if g != f && g.Bank() == f.Bank() {
			out = append(out, g)
		}
	}
	for _, g := range models.Formats {
		if g.Bank() != f.Bank() {
			out = append(out, g)
		}
	}
	return out
}

func promoteBank(b models.Bank) []models.Format {
	for _, f := range models.Formats {
		if f.Bank() == b {
			return promote(f)
		}
	}
	return promote(models.FormatBRIEStatement)
}
