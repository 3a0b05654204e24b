package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/idn-statement-reader/internal/config"
	"github.com/insightdelivered/idn-statement-reader/internal/metrics"
	"github.com/insightdelivered/idn-statement-reader/internal/statement"
)

const singleLine = "01/03/24 10:15:00 TRANSFER KE BUDI SANTOSA 1234567 0.00 500000.00 1500000.00"

func setupTestApp() (*fiber.App, *metrics.Metrics) {
	m := metrics.New()
	h := NewHandler(statement.NewProcessor(nil, m), nil, "test")
	return NewApp(h, config.ServerConfig{BodyLimitMB: 10}, m), m
}

func newConvertRequest(t *testing.T, fields map[string]string, filename string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func doConvert(t *testing.T, app *fiber.App, fields map[string]string, filename string, file []byte) (int, string, []byte) {
	t.Helper()
	body, contentType := newConvertRequest(t, fields, filename, file)
	req := httptest.NewRequest("POST", "/api/convert", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Content-Type"), data
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupTestApp()

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}
	if result["engine"] != "fiber" {
		t.Errorf("expected engine=fiber, got %q", result["engine"])
	}
}

func TestConvertEndpointRequiresFile(t *testing.T) {
	app, _ := setupTestApp()

	status, _, body := doConvert(t, app, nil, "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "No file uploaded")
}

func TestConvertEndpointRejectsNonPDF(t *testing.T) {
	app, _ := setupTestApp()

	status, _, body := doConvert(t, app, nil, "statement.txt", []byte(singleLine))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "Only PDF files are supported.")
}

func TestConvertEndpointText(t *testing.T) {
	app, _ := setupTestApp()

	status, contentType, body := doConvert(t, app, map[string]string{"text": singleLine}, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, contentType, "application/json")

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 1, resp.Count)
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.Transactions, 1)
	assert.Equal(t, 500000.0, resp.Result.Transactions[0].Credit)
	assert.Equal(t, "TRANSFER KE BUDI SANTOSA", resp.Result.Transactions[0].Description)
}

func TestConvertEndpointUnreadablePDF(t *testing.T) {
	app, _ := setupTestApp()

	status, _, body := doConvert(t, app, nil, "scan.pdf", []byte("%PDF-1.4 not really"))
	require.Equal(t, fiber.StatusOK, status)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Count)
	assert.Contains(t, resp.Warning, "No readable text")
	require.NotNil(t, resp.Result)
	assert.NotNil(t, resp.Result.Transactions)
}

func TestConvertEndpointOutputs(t *testing.T) {
	tests := []struct {
		output      string
		contentType string
		contains    string
	}{
		{"csv", "text/csv", "Date,Time,Description,Debit,Credit,Balance,Partner,Direction"},
		{"xlsx", mimeXLSX, "PK"},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			app, _ := setupTestApp()
			status, contentType, body := doConvert(t, app,
				map[string]string{"text": singleLine, "output": tt.output}, "", nil)
			require.Equal(t, fiber.StatusOK, status)
			assert.Contains(t, contentType, tt.contentType)
			assert.True(t, strings.Contains(string(body), tt.contains))
		})
	}
}

func TestConvertEndpointValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{"unknown format", map[string]string{"text": singleLine, "format": "mandiri"}, "Unknown format"},
		{"unknown output", map[string]string{"text": singleLine, "output": "pdf"}, "Unknown output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setupTestApp()
			status, _, body := doConvert(t, app, tt.fields, "", nil)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Contains(t, string(body), tt.want)
		})
	}
}

func TestConvertEndpointForcedFormat(t *testing.T) {
	app, _ := setupTestApp()

	status, _, body := doConvert(t, app,
		map[string]string{"text": singleLine, "format": "bca_mutasi"}, "", nil)
	require.Equal(t, fiber.StatusOK, status)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, "bca_mutasi", string(resp.Result.Format))
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := setupTestApp()
	doConvert(t, app, map[string]string{"text": singleLine}, "", nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `statement_reader_statements_parsed_total{format="bri_estatement"} 1`)
}
