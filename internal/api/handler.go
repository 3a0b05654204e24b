package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/insightdelivered/idn-statement-reader/internal/extractor"
	"github.com/insightdelivered/idn-statement-reader/internal/logger"
	"github.com/insightdelivered/idn-statement-reader/internal/models"
	"github.com/insightdelivered/idn-statement-reader/internal/statement"
	"github.com/insightdelivered/idn-statement-reader/internal/writer"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV  = "text/csv; charset=utf-8"
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success bool              `json:"success"`
	ID      string            `json:"id,omitempty"`
	Error   string            `json:"error,omitempty"`
	Warning string            `json:"warning,omitempty"`
	Result  *statement.Result `json:"result,omitempty"`
	Count   int               `json:"count"`
	Version string            `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	processor *statement.Processor
	log       *slog.Logger
	version   string
}

// NewHandler wires the handlers to a statement processor.
func NewHandler(p *statement.Processor, log *slog.Logger, version string) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	if p == nil {
		p = statement.NewProcessor(log, nil)
	}
	return &Handler{processor: p, log: log, version: version}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.version,
	})
}

// HandleConvert reads one statement from the multipart field "file" (PDF) or
// the form value "text" and answers with JSON, CSV or a workbook depending on
// "output". "format" forces a layout.
func (h *Handler) HandleConvert(c *fiber.Ctx) (err error) {
	id := uuid.NewString()
	log := h.log.With("conversion_id", id)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("convert panicked", "panic", rec)
			err = writeError(c, fiber.StatusInternalServerError, id,
				fmt.Sprintf("Internal server error (recovered from crash): %v", rec))
		}
	}()

	var format models.Format
	if v := c.FormValue("format"); v != "" {
		f, ok := models.ParseFormat(v)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, id,
				fmt.Sprintf("Unknown format: %q. Use bri_estatement, bri_cms, bca_estatement or bca_mutasi.", v))
		}
		format = f
	}

	output := strings.ToLower(c.FormValue("output", "json"))
	if output != "json" && output != "csv" && output != "xlsx" {
		return writeError(c, fiber.StatusBadRequest, id,
			fmt.Sprintf("Unknown output: %q. Use json, csv or xlsx.", output))
	}

	name := "statement"
	text := c.FormValue("text")
	warning := ""
	if text == "" {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			return writeError(c, fiber.StatusBadRequest, id, "No file uploaded. Use form field 'file' or 'text'.")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, id, "Only PDF files are supported.")
		}
		name = fh.Filename

		f, ferr := fh.Open()
		if ferr != nil {
			return writeError(c, fiber.StatusInternalServerError, id, "Failed to read uploaded file.")
		}
		defer f.Close()
		data, ferr := io.ReadAll(f)
		if ferr != nil {
			return writeError(c, fiber.StatusInternalServerError, id, "Failed to read uploaded file.")
		}

		text = extractor.TextOf(data)
		if text == "" {
			warning = "No readable text could be extracted from the PDF."
			log.Warn("extraction produced no text", "document", name, "bytes", len(data))
		}
	}

	res := h.processor.Process(statement.Document{Name: name, Text: text, Format: format})
	if res.Transactions == nil {
		res.Transactions = []models.Transaction{}
	}
	if res.Empty() && warning == "" {
		warning = "No transactions were recognised in the statement."
	}
	log.Info("statement converted", "document", name, "format", res.Format, "output", output,
		"transactions", len(res.Transactions))

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	switch output {
	case "csv":
		var buf bytes.Buffer
		if werr := (&writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}).Write(&buf, res); werr != nil {
			return writeError(c, fiber.StatusInternalServerError, id, fmt.Sprintf("CSV generation failed: %v", werr))
		}
		return sendAttachment(c, mimeCSV, base+".csv", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if werr := (&writer.WorkbookWriter{}).Write(&buf, res); werr != nil {
			return writeError(c, fiber.StatusInternalServerError, id, fmt.Sprintf("Workbook generation failed: %v", werr))
		}
		return sendAttachment(c, mimeXLSX, base+".xlsx", buf.Bytes())
	}

	return c.JSON(ConvertResponse{
		Success: true,
		ID:      id,
		Warning: warning,
		Result:  res,
		Count:   len(res.Transactions),
		Version: h.version,
	})
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

func writeError(c *fiber.Ctx, status int, id, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		ID:      id,
		Error:   msg,
	})
}
