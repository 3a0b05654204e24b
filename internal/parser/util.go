package parser

import (
	"math"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/insightdelivered/idn-statement-reader/internal/models"
)

// balanceTolerance absorbs rounding in printed balances.
const balanceTolerance = 0.015

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	// a standalone date such as "01/04/25" or "31/03/2025"
	dateOnlyPattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}(?:/\d{2,4})?$`)
)

// fieldTemplates is an ordered list of patterns for one header field.
// The first pattern with a non-empty capture wins.
type fieldTemplates []*regexp.Regexp

func templates(patterns ...string) fieldTemplates {
	ts := make(fieldTemplates, len(patterns))
	for i, p := range patterns {
		ts[i] = regexp.MustCompile(p)
	}
	return ts
}

// firstSubmatch returns the submatches of the first template whose first
// capture group is non-empty.
func (ts fieldTemplates) firstSubmatch(text string) []string {
	for _, re := range ts {
		m := re.FindStringSubmatch(text)
		if len(m) > 1 && strings.TrimSpace(m[1]) != "" {
			return m
		}
	}
	return nil
}

// first returns the trimmed first capture of the first matching template.
func (ts fieldTemplates) first(text string) string {
	if m := ts.firstSubmatch(text); m != nil {
		return collapseSpaces(m[1])
	}
	return ""
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(strings.ToLower(text), strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

// classifyByBalance determines whether a transaction is a debit or a credit
// by comparing the amount and printed balance against the previous balance.
// It returns DirectionUnknown when there is no previous balance or neither
// progression fits.
func classifyByBalance(amt, bal, prevBal float64, hasPrev bool) models.Direction {
	if !hasPrev {
		return models.DirectionUnknown
	}
	debitDiff := math.Abs((prevBal - amt) - bal)
	creditDiff := math.Abs((prevBal + amt) - bal)

	switch {
	case debitDiff < balanceTolerance && creditDiff >= balanceTolerance:
		return models.DirectionDebit
	case creditDiff < balanceTolerance && debitDiff >= balanceTolerance:
		return models.DirectionCredit
	case debitDiff < balanceTolerance && creditDiff < balanceTolerance:
		// zero amount: both fit
		if debitDiff <= creditDiff {
			return models.DirectionDebit
		}
		return models.DirectionCredit
	}
	return models.DirectionUnknown
}

// keywordDirection classifies a description from debit and credit keyword
// tables. Debit keywords win when both tables hit.
//
// Matchers are not safe for concurrent use, so one keywordDirection is built
// per document.
type keywordDirection struct {
	debit  *ahocorasick.Matcher
	credit *ahocorasick.Matcher
}

func newKeywordDirection(debit, credit []string) *keywordDirection {
	return &keywordDirection{
		debit:  ahocorasick.NewStringMatcher(debit),
		credit: ahocorasick.NewStringMatcher(credit),
	}
}

func (k *keywordDirection) classify(desc string) models.Direction {
	upper := []byte(strings.ToUpper(desc))
	if len(k.debit.Match(upper)) > 0 {
		return models.DirectionDebit
	}
	if len(k.credit.Match(upper)) > 0 {
		return models.DirectionCredit
	}
	return models.DirectionUnknown
}
