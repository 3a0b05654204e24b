package parser

import (
	"regexp"
	"strings"
)

// shortDatePattern is a day/month token without a year ("15/03").
var shortDatePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)

// AnchorRules disambiguates yearless date tokens at the start of a line.
//
// Reference fragments inside a wrapped description ("15/03 ID 0012345") look
// exactly like a new record, so a short date followed by a reference marker is
// treated as continuation text. A short date followed by a transaction
// keyword always opens a new record. Both lists are matched as upper-case
// prefixes of the text after the date token; keywords are checked first.
type AnchorRules struct {
	ReferenceMarkers    []string
	TransactionKeywords []string
}

// LineGroup is one logical record: an anchor line plus its continuation lines.
// The first group is unanchored when text precedes the first anchor.
type LineGroup struct {
	Anchor   string
	Anchored bool
	Lines    []string
}

// Text joins the trimmed lines of the group with sep.
func (g LineGroup) Text(sep string) string {
	parts := make([]string, 0, len(g.Lines))
	for _, line := range g.Lines {
		parts = append(parts, strings.TrimSpace(line))
	}
	return strings.Join(parts, sep)
}

// Classifier partitions statement lines into record groups.
type Classifier struct {
	anchor *regexp.Regexp // group 1 must capture the date token
	rules  AnchorRules
}

// NewClassifier returns a classifier whose anchors match the given pattern.
func NewClassifier(anchor *regexp.Regexp, rules AnchorRules) *Classifier {
	return &Classifier{anchor: anchor, rules: rules}
}

// Anchor reports whether line opens a new record and returns its anchor token
// (the date, plus the time for fine-grained layouts).
func (c *Classifier) Anchor(line string) (string, bool) {
	line = strings.TrimSpace(line)
	m := c.anchor.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	token := strings.TrimSpace(m[0])
	if !shortDatePattern.MatchString(m[1]) {
		return token, true
	}

	rest := strings.ToUpper(strings.TrimSpace(line[len(m[0]):]))
	for _, kw := range c.rules.TransactionKeywords {
		if strings.HasPrefix(rest, kw) {
			return token, true
		}
	}
	for _, marker := range c.rules.ReferenceMarkers {
		if strings.HasPrefix(rest, marker) {
			return "", false
		}
	}
	return token, true
}

// Group splits lines into record groups. Blank lines are dropped; every other
// line lands in exactly one group, in input order.
func (c *Classifier) Group(lines []string) []LineGroup {
	var groups []LineGroup
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if anchor, ok := c.Anchor(line); ok {
			groups = append(groups, LineGroup{Anchor: anchor, Anchored: true, Lines: []string{line}})
			continue
		}
		if len(groups) == 0 {
			groups = append(groups, LineGroup{})
		}
		last := &groups[len(groups)-1]
		last.Lines = append(last.Lines, line)
	}
	return groups
}

// SplitLines splits extracted text into physical lines.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
