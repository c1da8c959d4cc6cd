package dto

import "github.com/reprolabs/verdict/internal/report"

type CreateReportRequest struct {
	Title string `json:"title"`
	Limit int    `json:"limit,omitempty"`
	// Format selects the rendering: json (default), csv, table or html.
	Format string `json:"format,omitempty"`
}

// CreateReportResponse carries either an object-storage ref or the
// inline report, depending on whether artifact storage is configured.
type CreateReportResponse struct {
	Title   string         `json:"title"`
	Summary report.Summary `json:"summary"`
	Ref     string         `json:"ref,omitempty"`
	Report  *report.Report `json:"report,omitempty"`
}
