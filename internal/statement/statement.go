// Package statement runs the full reading pipeline for one statement text:
// layout selection, parsing, partner attribution and aggregation.
package statement

import (
	"log/slog"
	"time"

	"github.com/insightdelivered/idn-statement-reader/internal/logger"
	"github.com/insightdelivered/idn-statement-reader/internal/metrics"
	"github.com/insightdelivered/idn-statement-reader/internal/models"
	"github.com/insightdelivered/idn-statement-reader/internal/parser"
	"github.com/insightdelivered/idn-statement-reader/internal/partner"
)

// Document is one already-extracted statement.
type Document struct {
	// Name is the source filename, used only for layout detection.
	Name string
	Text string
	// Format forces a layout and disables detection and fallback.
	Format models.Format
}

// Result holds the tables produced for one statement.
type Result struct {
	Format         models.Format             `json:"format"`
	Fallback       bool                      `json:"fallback"`
	Account        models.AccountInfo        `json:"account"`
	Summary        models.BalanceSummary     `json:"summary"`
	Transactions   []models.Transaction      `json:"transactions"`
	PartnerSummary []models.PartnerSummary   `json:"partnerSummary"`
	PartnerTable   []models.PartnerTotals    `json:"partnerTable"`
	Analytics      models.StatementAnalytics `json:"analytics"`
}

// Empty reports whether no transaction was extracted.
func (r *Result) Empty() bool {
	return len(r.Transactions) == 0
}

// Processor runs documents through the pipeline. It holds no per-document
// state and is safe for concurrent use.
type Processor struct {
	log     *slog.Logger
	metrics metrics.Recorder
}

// NewProcessor creates a processor. Nil arguments disable logging or metrics.
func NewProcessor(log *slog.Logger, rec metrics.Recorder) *Processor {
	if log == nil {
		log = logger.Discard()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Processor{log: log, metrics: rec}
}

// Process never fails: a document nothing can read yields an empty Result
// tagged with the first candidate layout.
func (p *Processor) Process(doc Document) *Result {
	start := time.Now()

	candidates := Candidates(doc.Name, doc.Text)
	if doc.Format != "" {
		candidates = []models.Format{doc.Format}
	}

	var first *models.StatementInfo
	var chosen *models.StatementInfo
	fallback := false
	for i, f := range candidates {
		prs, err := parser.New(f)
		if err != nil {
			p.log.Warn("skipping unknown format", "format", f, "error", err)
			continue
		}
		info := prs.Parse(doc.Text)
		p.log.Debug("format tried", "document", doc.Name, "format", f, "transactions", len(info.Transactions))
		if first == nil {
			first = info
		}
		if len(info.Transactions) > 0 {
			chosen = info
			fallback = i > 0
			break
		}
	}
	if chosen == nil {
		chosen = first
	}
	if chosen == nil {
		chosen = &models.StatementInfo{}
	}

	res := Build(chosen)
	res.Fallback = fallback

	if res.Empty() {
		p.metrics.ObserveEmpty()
		p.log.Info("no transactions found", "document", doc.Name, "format", res.Format)
		return res
	}
	p.metrics.ObserveParse(string(res.Format), res.Fallback, len(res.Transactions), time.Since(start))
	p.log.Info("statement parsed",
		"document", doc.Name,
		"format", res.Format,
		"fallback", res.Fallback,
		"transactions", len(res.Transactions),
		"partners", res.Analytics.PartnerCount,
	)
	return res
}

// Build enriches one parser output with partners and aggregates.
func Build(info *models.StatementInfo) *Result {
	txns := partner.Enrich(info.Transactions, info.Format.Family())
	table := partner.SummarizeByPartner(txns)
	return &Result{
		Format:         info.Format,
		Account:        info.Account,
		Summary:        info.Summary,
		Transactions:   txns,
		PartnerSummary: partner.SummarizeByDirection(txns),
		PartnerTable:   table,
		Analytics:      partner.Analyze(table),
	}
}

// Process runs doc through a processor without logging or metrics.
func Process(doc Document) *Result {
	return NewProcessor(nil, nil).Process(doc)
}
