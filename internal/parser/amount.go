package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// "1,234.5" / "1,234.56": dot is the decimal point
	dotDecimalPattern = regexp.MustCompile(`\.\d{1,2}$`)
	// "1.234,5" / "1.234,56": comma is the decimal point
	commaDecimalPattern = regexp.MustCompile(`,\d{1,2}$`)
)

// NormalizeAmount converts a transaction-column amount to a float64.
//
// Indonesian statements mix "1.234.567,89" and "1,234,567.89". A dot
// followed by one or two trailing digits is a decimal point; a rightmost comma
// followed by one or two digits is a decimal comma; every other separator is
// thousands grouping. Anything unparseable, including "", yields 0.
func NormalizeAmount(s string) float64 {
	s, neg := cleanAmount(s)
	if s == "" {
		return 0
	}

	switch {
	case !strings.ContainsAny(s, ".,"):
	case dotDecimalPattern.MatchString(s):
		last := strings.LastIndex(s, ".")
		s = stripSeparators(s[:last]) + s[last:]
	case strings.LastIndex(s, ",") > strings.LastIndex(s, ".") && commaDecimalPattern.MatchString(s):
		last := strings.LastIndex(s, ",")
		s = stripSeparators(s[:last]) + "." + s[last+1:]
	default:
		s = stripSeparators(s)
	}
	return toFloat(s, neg)
}

// NormalizeSummaryAmount converts an amount from a balance-summary block.
//
// Summary blocks are European-first: a comma right of the last dot is the
// decimal comma, other commas are dropped, and when several dots remain only
// the segment after the last one is the fraction.
func NormalizeSummaryAmount(s string) float64 {
	s, neg := cleanAmount(s)
	if s == "" {
		return 0
	}

	switch {
	case strings.Contains(s, ",") && strings.LastIndex(s, ",") > strings.LastIndex(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		last := strings.LastIndex(s, ".")
		intPart := strings.ReplaceAll(s[:last], ".", "")
		if frac := s[last+1:]; frac != "" {
			s = intPart + "." + frac
		} else {
			s = intPart
		}
	}
	return toFloat(s, neg)
}

// cleanAmount removes whitespace, currency markers and the sign.
func cleanAmount(s string) (string, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0':
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "IDR")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	return s, neg
}

func stripSeparators(s string) string {
	return strings.NewReplacer(".", "", ",", "").Replace(s)
}

func toFloat(s string, neg bool) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}
