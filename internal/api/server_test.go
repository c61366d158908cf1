package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
	"github.com/ginjaninja78/csv-sales-watcher/internal/export"
	"github.com/ginjaninja78/csv-sales-watcher/internal/metrics"
	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
)

var july5 = civil.Date{Year: 2025, Month: 7, Day: 5}

type fakeReports struct{}

func (fakeReports) Build(kind report.Kind) (report.Table, error) {
	return report.Table{
		Kind:    kind,
		Title:   string(kind),
		Columns: []string{"Day", "Total sales"},
		Rows:    []report.Row{{Day: july5, Values: []string{"300"}}},
	}, nil
}

func (f fakeReports) All() []report.Table {
	tables := make([]report.Table, 0, len(report.Kinds))
	for _, k := range report.Kinds {
		t, _ := f.Build(k)
		tables = append(tables, t)
	}
	return tables
}

func newTestServer(t *testing.T) (*Server, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	m := metrics.New()
	m.SetStoreSize(1)
	return New(config.HTTPSettings{Addr: "127.0.0.1:0"}, fakeReports{}, m.Handler(), logger), hook
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name        string
		path        string
		status      int
		contentType string
		contains    string
	}{
		{name: "health", path: "/healthz", status: http.StatusOK, contentType: "application/json", contains: `"status":"ok"`},
		{name: "all reports", path: "/api/reports", status: http.StatusOK, contentType: "application/json", contains: `"kind":"outliers"`},
		{name: "one report", path: "/api/reports/daily-totals", status: http.StatusOK, contentType: "application/json", contains: `"day":"2025-07-05"`},
		{name: "all by name", path: "/api/reports/all", status: http.StatusOK, contentType: "application/json", contains: `"kind":"sales-trend"`},
		{name: "unknown report", path: "/api/reports/weekly", status: http.StatusNotFound, contentType: "application/json", contains: "unknown report kind"},
		{name: "export xml", path: "/api/reports/daily-totals/export/xml", status: http.StatusOK, contentType: "application/xml", contains: "<TotalSales>300</TotalSales>"},
		{name: "export all json", path: "/api/reports/all/export/json", status: http.StatusOK, contentType: "application/json", contains: `"kind": "average-sales"`},
		{name: "export pdf", path: "/api/reports/outliers/export/pdf", status: http.StatusOK, contentType: "application/pdf", contains: "%PDF"},
		{name: "unknown format", path: "/api/reports/daily-totals/export/csv", status: http.StatusBadRequest, contentType: "application/json", contains: "unknown export format"},
		{name: "unknown kind export", path: "/api/reports/weekly/export/json", status: http.StatusNotFound, contentType: "application/json"},
		{name: "metrics", path: "/metrics", status: http.StatusOK, contains: "saleswatch_store_days 1"},
		{name: "not found", path: "/nope", status: http.StatusNotFound, contentType: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv.Handler(), tt.path)
			assert.Equal(t, tt.status, rec.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			}
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
			assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestExportSetsAttachmentName(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv.Handler(), "/api/reports/sales-trend/export/xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="sales-trend_\d{8}_\d{6}\.xlsx"`, rec.Header().Get("Content-Disposition"))
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoggingMiddlewareKeepsRequestID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusTeapot, entry.Data["status_code"])
	assert.Equal(t, "abc", entry.Data["request_id"])
}

func TestLogPanicMiddleware(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := LogPanicMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "boom", hook.LastEntry().Data["panic_error"])
}

func TestRunStopsOnContextCancel(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunReturnsListenError(t *testing.T) {
	srv := New(config.HTTPSettings{Addr: "256.0.0.1:bad"}, fakeReports{}, nil, nil)

	err := srv.Run(context.Background())
	assert.Error(t, err)
}
