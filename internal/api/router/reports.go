package router

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reprolabs/verdict/internal/apperr"
	"github.com/reprolabs/verdict/internal/artifact"
	"github.com/reprolabs/verdict/internal/dto"
	"github.com/reprolabs/verdict/internal/report"
	"github.com/reprolabs/verdict/internal/storage"
)

const defaultReportLimit = 100

type ReportRouter struct {
	e           *echo.Echo
	evaluations storage.EvaluationStore
	submissions storage.SubmissionStore
	artifacts   *artifact.Store
}

type ReportRouterOption func(*ReportRouter)

// WithArtifacts enables persisting generated reports to object storage.
func WithArtifacts(store *artifact.Store) ReportRouterOption {
	return func(r *ReportRouter) { r.artifacts = store }
}

func NewReportRouter(
	e *echo.Echo,
	evaluations storage.EvaluationStore,
	submissions storage.SubmissionStore,
	opts ...ReportRouterOption,
) *ReportRouter {
	r := &ReportRouter{
		e:           e,
		evaluations: evaluations,
		submissions: submissions,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ReportRouter) Bind() {
	r.e.POST("/reports", r.createHandler)
	r.e.GET("/reports/*", r.getHandler)
}

// createHandler builds a report over recent evaluations
// @Summary Generate an evaluation report
// @Tags reports
// @Accept json
// @Produce json
// @Param request body dto.CreateReportRequest true "Report settings"
// @Success 201 {object} dto.CreateReportResponse
// @Router /reports [post]
func (r *ReportRouter) createHandler(c echo.Context) error {
	var req dto.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid report payload", err)
	}
	if req.Title == "" {
		return apperr.NewValidation("title is required")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultReportLimit
	}

	ctx := c.Request().Context()

	evals, err := r.evaluations.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}
	if len(evals) == 0 {
		return apperr.NewValidation("no evaluations available to report on")
	}

	titles := make(map[string]string, len(evals))
	for _, ev := range evals {
		key := ev.SubmissionID.String()
		if _, ok := titles[key]; ok {
			continue
		}
		if sub, err := r.submissions.Get(ctx, ev.SubmissionID); err == nil {
			titles[key] = sub.Title
		}
	}

	rep := report.New(req.Title, evals, titles)

	format := req.Format
	if format == "" {
		format = "json"
	}

	var buf bytes.Buffer
	var contentType string
	switch format {
	case "json":
		contentType = echo.MIMEApplicationJSON
		err = report.EncodeJSON(&buf, rep)
	case "csv":
		contentType = "text/csv"
		err = report.WriteCSV(rep, &buf)
	case "table":
		contentType = echo.MIMETextPlain
		report.WriteTable(rep, &buf)
	case "html":
		contentType = echo.MIMETextHTML
		err = report.WriteHTML(rep, &buf)
	default:
		return apperr.NewValidation(fmt.Sprintf("unknown report format %q", format))
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if r.artifacts != nil {
		key := fmt.Sprintf("reports/%s.%s", time.Now().UTC().Format("20060102T150405"), reportExt(format))
		ref, err := r.artifacts.Put(ctx, key, contentType, buf.Bytes())
		if err != nil {
			return fmt.Errorf("failed to store report: %w", err)
		}
		return c.JSON(http.StatusCreated, dto.CreateReportResponse{
			Title:   rep.Title,
			Summary: rep.Summary,
			Ref:     ref,
		})
	}

	if format == "json" {
		return c.JSON(http.StatusCreated, dto.CreateReportResponse{
			Title:   rep.Title,
			Summary: rep.Summary,
			Report:  rep,
		})
	}
	return c.Blob(http.StatusCreated, contentType, buf.Bytes())
}

func reportExt(format string) string {
	if format == "table" {
		return "txt"
	}
	return format
}

// getHandler streams a stored report artifact by key
// @Summary Fetch a stored report
// @Tags reports
// @Produce json
// @Param key path string true "Artifact key"
// @Success 200 {object} report.Report
// @Router /reports/{key} [get]
func (r *ReportRouter) getHandler(c echo.Context) error {
	if r.artifacts == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "report storage is not configured")
	}

	key := c.Param("*")
	if key == "" {
		return apperr.NewValidation("report key is required")
	}

	data, contentType, err := r.artifacts.Get(c.Request().Context(), "reports/"+key)
	if err != nil {
		slog.Warn("report artifact fetch failed", "key", key, "error", err)
		return apperr.NewNotFound(fmt.Sprintf("report %s not found", key))
	}
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}

	return c.Blob(http.StatusOK, contentType, data)
}
