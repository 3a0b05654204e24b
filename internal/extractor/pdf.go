// Package extractor turns statement PDFs into one ordered text blob.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable means no extraction method produced statement-like text.
var ErrUnreadable = errors.New("no readable text could be extracted from PDF; it may be scanned or use custom font encodings")

// TextOf returns the text of a PDF held in memory, or "" when it cannot be
// read. It never panics.
func TextOf(data []byte) string {
	text, err := fromBytes(data)
	if err != nil {
		return ""
	}
	return text
}

// Extract reads the PDF at path. When the library cannot produce readable
// text it falls back to the pdftotext command (poppler-utils) if installed.
func Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text, libErr := fromBytes(data)
	if libErr == nil {
		return text, nil
	}

	text, popplerErr := extractWithPdftotext(path)
	if popplerErr == nil && isReadableText(text) {
		return text, nil
	}
	return "", fmt.Errorf("extract %s: %w", path, libErr)
}

func fromBytes(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	if len(data) == 0 {
		return "", errors.New("empty PDF")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	if numPages == 0 {
		return "", errors.New("PDF has no pages")
	}

	// Row grouping keeps the column layout the line parsers rely on, so it
	// goes first.
	methods := []func() []string{
		func() []string { return extractByRow(r, numPages) },
		func() []string { return extractByContent(r, numPages) },
		func() []string { return extractByPagePlainText(r, numPages) },
		func() []string { return []string{extractByReaderPlainText(r)} },
	}
	for _, m := range methods {
		text := strings.Join(m(), "\n")
		if isReadableText(text) {
			return text, nil
		}
	}
	return "", ErrUnreadable
}

// statementWords appear in virtually every Indonesian statement, in either
// language.
var statementWords = []string{
	"rekening", "saldo", "mutasi", "tanggal", "periode", "debet", "debit",
	"kredit", "credit", "transaksi", "account", "balance", "statement",
	"bank", "valuta", "teller", "halaman",
}

// textQuality returns the share of plain ASCII letters, digits, whitespace
// and statement punctuation.
func textQuality(text string) float64 {
	total, readable := 0, 0
	for _, r := range text {
		total++
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) ||
			unicode.IsSpace(r) || strings.ContainsRune(".,-/:;()'\"%&@#!?+=*", r)) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadableText requires more than 50 characters, over 60% of them readable,
// and at least one statement word.
func isReadableText(text string) bool {
	if len(strings.TrimSpace(text)) <= 50 {
		return false
	}
	if textQuality(text) <= 0.6 {
		return false
	}
	lower := strings.ToLower(text)
	for _, w := range statementWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func extractWithPdftotext(path string) (string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", fmt.Errorf("pdftotext not available: %w", err)
	}
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent rebuilds rows from raw text objects: pieces are grouped by
// rounded Y (top of page first) and ordered by X within a row.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type piece struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]piece)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], piece{x: t.X, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			items := rows[y]
			sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })

			var sb strings.Builder
			var prevX float64
			for j, item := range items {
				// a wide gap separates columns
				if j > 0 && item.x-prevX > 15 {
					sb.WriteString(" ")
				}
				sb.WriteString(item.s)
				prevX = item.x
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
