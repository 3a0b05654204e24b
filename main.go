package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/insightdelivered/idn-statement-reader/internal/api"
	"github.com/insightdelivered/idn-statement-reader/internal/batch"
	"github.com/insightdelivered/idn-statement-reader/internal/config"
	"github.com/insightdelivered/idn-statement-reader/internal/logger"
	"github.com/insightdelivered/idn-statement-reader/internal/metrics"
	"github.com/insightdelivered/idn-statement-reader/internal/models"
	"github.com/insightdelivered/idn-statement-reader/internal/statement"
	"github.com/insightdelivered/idn-statement-reader/internal/writer"
)

const version = "1.0.0"

func main() {
	// CLI flags
	formatFlag := flag.String("format", "", "Statement layout: bri_estatement, bri_cms, bca_estatement, bca_mutasi (auto-detected if omitted)")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with the output extension; single input only)")
	outFormatFlag := flag.String("out-format", "", "Output format: xlsx or csv (defaults to OUTPUT_FORMAT, then the -output extension)")
	workersFlag := flag.Int("workers", 0, "Number of files converted in parallel (defaults to WORKER_POOL_SIZE)")
	textFlag := flag.Bool("text", false, "Inputs are already-extracted text files instead of PDFs")
	headerFlag := flag.Bool("header", true, "Include account metadata rows in CSV output")
	serveFlag := flag.Bool("serve", false, "Start the HTTP API instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Indonesian Bank Statement Reader
by Insight Delivered (QEA AutoLens)

Reads BRI and BCA statement PDFs and writes the account details, balance
summary, transactions, partner summary and analytics to a workbook or CSV.

Usage:
  idn-statement-reader [flags] <input.pdf> [input2.pdf ...]
  idn-statement-reader -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Auto-detect the layout and write statement.xlsx
  idn-statement-reader statement.pdf

  # Force the BRI CMS layout and write CSV
  idn-statement-reader -format=bri_cms -out-format=csv rekening.pdf

  # Convert a month of statements, eight at a time
  idn-statement-reader -workers=8 jan.pdf feb.pdf mar.pdf

  # Serve POST /api/convert on SERVER_PORT
  idn-statement-reader -serve

Supported Layouts:
  bri_estatement  - BRI e-statement (DD/MM/YY HH:MM:SS, teller, debet, kredit, saldo)
  bri_cms         - BRI CMS account statement (debet, credit, ledger, teller id)
  bca_estatement  - BCA e-statement (DD/MM/YYYY, 1.000.000,00)
  bca_mutasi      - BCA mutasi rekening (DD/MM, 1,000,000.00)
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("idn-statement-reader v%s\n", version)
		os.Exit(0)
	}

	if *helpFlag || (!*serveFlag && flag.NArg() == 0) {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fatalf("Configuration error: %v\n", err)
	}

	log := logger.New(cfg.Logging.Level, os.Stderr)
	log.Debug("logger initialized", "level", cfg.Logging.Level)

	if *serveFlag {
		if err := serve(cfg, log); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	var format models.Format
	if *formatFlag != "" {
		f, ok := models.ParseFormat(*formatFlag)
		if !ok {
			fatalf("Unknown format %q. Supported: bri_estatement, bri_cms, bca_estatement, bca_mutasi\n", *formatFlag)
		}
		format = f
	}

	outFormat := *outFormatFlag
	if outFormat == "" && *outputFlag == "" {
		outFormat = cfg.Output.Format
	}
	workers := *workersFlag
	if workers <= 0 {
		workers = cfg.WorkerPool.Size
	}

	runner, err := batch.NewRunner(workers, statement.NewProcessor(log, nil), log, batch.Options{
		Format:        format,
		Output:        *outputFlag,
		OutFormat:     outFormat,
		IncludeHeader: *headerFlag,
		TextInput:     *textFlag,
	})
	if err != nil {
		fatalf("%v\n", err)
	}
	defer runner.Release()

	failed := 0
	for _, fr := range runner.Run(flag.Args()) {
		if fr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", fr.Input, fr.Err)
			failed++
			continue
		}
		printSummary(fr)
	}
	if failed > 0 {
		runner.Release()
		os.Exit(1)
	}
}

func printSummary(fr batch.FileResult) {
	res := fr.Result
	fmt.Printf("Processing: %s\n", fr.Input)
	fmt.Printf("  Layout: %s", res.Format)
	if res.Fallback {
		fmt.Print(" (fallback)")
	}
	fmt.Println()
	fmt.Printf("  Found %d transaction(s)\n", len(res.Transactions))

	if res.Empty() {
		fmt.Println("  Warning: No transactions found. The PDF layout may not match expected patterns.")
		fmt.Println("  Try specifying the layout explicitly with -format.")
	}

	fmt.Printf("  Output: %s\n", fr.Output)

	a := res.Account
	if a.Name != "" {
		fmt.Printf("  Account holder: %s\n", a.Name)
	}
	if a.Number != "" {
		fmt.Printf("  Account number: %s\n", a.Number)
	}
	if a.Period != "" {
		fmt.Printf("  Period: %s\n", a.Period)
	}
	if res.Summary.Opening != nil || res.Summary.Closing != nil {
		fmt.Printf("  Balance: %s -> %s\n",
			writer.FormatOptionalRupiah(res.Summary.Opening), writer.FormatOptionalRupiah(res.Summary.Closing))
	}
	if res.Analytics.PartnerCount > 0 {
		fmt.Printf("  Partners: %d, top %s (%s)\n", res.Analytics.PartnerCount,
			res.Analytics.TopPartner, writer.FormatRupiah(res.Analytics.TopPartnerAmount))
	}

	fmt.Println("  Done.")
}

func serve(cfg *config.Config, log *slog.Logger) error {
	var m *metrics.Metrics
	var rec metrics.Recorder
	if cfg.Metrics.Enabled {
		m = metrics.New()
		rec = m
	}

	h := api.NewHandler(statement.NewProcessor(log, rec), log, version)
	app := api.NewApp(h, cfg.Server, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + strconv.Itoa(cfg.Server.Port)
		log.Info("server starting", "app", cfg.Application.Name, "addr", addr, "metrics", cfg.Metrics.Enabled)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down server")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
