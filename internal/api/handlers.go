package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/csv-sales-watcher/internal/export"
	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
	"github.com/ginjaninja78/csv-sales-watcher/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AllReports selects every report table where a kind is expected.
const AllReports = "all"

// Reports is the report engine the API serves.
type Reports interface {
	Build(kind report.Kind) (report.Table, error)
	All() []report.Table
}

// APIError is the body of every error response.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIError{Status: status, Message: message})
}

func writeJSON(w http.ResponseWriter, logger logrus.FieldLogger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

// Healthcheck returns the liveness routes.
func Healthcheck() []Route {
	return []Route{
		{
			Path:    "/healthz",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
}

// ReportRoutes returns the read-only report routes.
func ReportRoutes(reports Reports, logger logrus.FieldLogger) []Route {
	return []Route{
		{
			Path:    "/api/reports",
			Method:  http.MethodGet,
			Handler: ListReports(reports, logger),
		},
		{
			Path:    "/api/reports/:kind",
			Method:  http.MethodGet,
			Handler: GetReport(reports, logger),
		},
		{
			Path:    "/api/reports/:kind/export/:format",
			Method:  http.MethodGet,
			Handler: ExportReport(reports, logger),
		},
	}
}

// MetricsRoutes exposes the Prometheus handler.
func MetricsRoutes(handler http.Handler) []Route {
	return []Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: handler,
		},
	}
}

// ListReports responds with every report table.
func ListReports(reports Reports, logger logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, reports.All())
	}
}

// GetReport responds with one report table, or all of them for "all".
func GetReport(reports Reports, logger logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := httprouter.ParamsFromContext(r.Context()).ByName("kind")
		if name == AllReports {
			writeJSON(w, logger, reports.All())
			return
		}

		table, err := buildTable(reports, name)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, logger, table)
	}
}

// ExportReport responds with a report rendered as a downloadable document.
func ExportReport(reports Reports, logger logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())
		name := params.ByName("kind")

		format, err := export.ParseFormat(params.ByName("format"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var tables []report.Table
		if name == AllReports {
			tables = reports.All()
		} else {
			table, err := buildTable(reports, name)
			if err != nil {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			tables = []report.Table{table}
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, format, tables...); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{"kind": name, "format": format}).Error("export failed")
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}

		fileName := utils.GenerateOutputFileName("{report}_{timestamp}", format.Extension(), map[string]string{"report": name})
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		if _, err := w.Write(buf.Bytes()); err != nil {
			logger.WithError(err).Warn("failed to write export response")
		}
	}
}

func buildTable(reports Reports, name string) (report.Table, error) {
	kind, err := report.ParseKind(name)
	if err != nil {
		return report.Table{}, err
	}
	return reports.Build(kind)
}
