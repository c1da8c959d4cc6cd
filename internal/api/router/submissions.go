package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/reprolabs/verdict/internal/apperr"
	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/dto"
	"github.com/reprolabs/verdict/internal/storage"
	"github.com/reprolabs/verdict/pkg/pagination"
)

const defaultSearchSize = 10

type SubmissionRouter struct {
	e           *echo.Echo
	submissions storage.SubmissionStore
	rubrics     storage.RubricStore
	searcher    storage.SubmissionSearcher
	indexer     storage.SubmissionIndexer
}

type SubmissionRouterOption func(*SubmissionRouter)

// WithSearcher enables GET /submissions/search.
func WithSearcher(s storage.SubmissionSearcher) SubmissionRouterOption {
	return func(r *SubmissionRouter) { r.searcher = s }
}

// WithIndexer mirrors saved submissions into the search index.
func WithIndexer(i storage.SubmissionIndexer) SubmissionRouterOption {
	return func(r *SubmissionRouter) { r.indexer = i }
}

func NewSubmissionRouter(e *echo.Echo, submissions storage.SubmissionStore, rubrics storage.RubricStore, opts ...SubmissionRouterOption) *SubmissionRouter {
	r := &SubmissionRouter{
		e:           e,
		submissions: submissions,
		rubrics:     rubrics,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SubmissionRouter) Bind() {
	r.e.POST("/submissions", r.createHandler)
	r.e.GET("/submissions", r.listHandler)
	r.e.GET("/submissions/search", r.searchHandler)
	r.e.GET("/submissions/:id", r.getHandler)
}

// createHandler stores a submission
// @Summary Create a submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param submission body dto.CreateSubmissionRequest true "Submission"
// @Success 201 {object} dto.Submission
// @Router /submissions [post]
func (r *SubmissionRouter) createHandler(c echo.Context) error {
	var req dto.CreateSubmissionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid submission payload", err)
	}
	if err := r.validate(c, req); err != nil {
		return err
	}

	sub := req.ToDomain()
	id, err := r.submissions.Save(c.Request().Context(), sub)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	sub.ID = id

	saved, err := r.submissions.Get(c.Request().Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load saved submission: %w", err)
	}

	if r.indexer != nil {
		if err := r.indexer.Index(c.Request().Context(), *saved); err != nil {
			slog.Error("failed to index submission", "submission_id", id, "error", err)
		}
	}

	return c.JSON(http.StatusCreated, dto.FromSubmission(saved))
}

func (r *SubmissionRouter) validate(c echo.Context, req dto.CreateSubmissionRequest) error {
	if req.Title == "" {
		return apperr.NewValidation("submission title is required")
	}
	if len(req.Items) == 0 {
		return apperr.NewValidation("submission must contain at least one item")
	}
	for i, item := range req.Items {
		if !domain.MediaKind(item.Kind).Valid() {
			return apperr.NewValidation(fmt.Sprintf("item %d has invalid kind %q", i, item.Kind))
		}
	}
	for _, rid := range req.RubricIDs {
		if _, err := r.rubrics.Get(c.Request().Context(), rid); err != nil {
			return apperr.NewValidation(fmt.Sprintf("unknown rubric %s", rid))
		}
	}
	return nil
}

func (r *SubmissionRouter) getHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	sub, err := r.submissions.Get(c.Request().Context(), id)
	if err != nil {
		return mapNotFound(err, fmt.Sprintf("submission %s not found", id))
	}

	return c.JSON(http.StatusOK, dto.FromSubmission(sub))
}

// listHandler lists submissions with offset paging
// @Summary List submissions
// @Tags submissions
// @Produce json
// @Success 200 {object} pagination.OffsetResult[dto.Submission]
// @Router /submissions [get]
func (r *SubmissionRouter) listHandler(c echo.Context) error {
	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid paging parameters", err)
	}
	if err := page.Validate(); err != nil {
		return apperr.NewValidationWrap("invalid paging parameters", err)
	}

	subs, total, err := r.submissions.List(c.Request().Context(), page.Page, page.Size)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	return c.JSON(http.StatusOK, pagination.NewOffsetResult(dto.FromSubmissions(subs), total, page.Page, page.Size))
}

// searchHandler runs a full-text search over submissions
// @Summary Search submissions
// @Tags submissions
// @Produce json
// @Param query query string true "Search query"
// @Param size query int false "Max hits"
// @Success 200 {object} dto.SubmissionSearchResponse
// @Router /submissions/search [get]
func (r *SubmissionRouter) searchHandler(c echo.Context) error {
	if r.searcher == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "search index is not configured")
	}

	query := c.QueryParam("query")
	if query == "" {
		return apperr.NewValidation("query parameter is required")
	}

	size := defaultSearchSize
	if raw := c.QueryParam("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apperr.NewValidation("size must be a positive number")
		}
		size = parsed
	}

	res, err := r.searcher.Search(c.Request().Context(), query, size)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return c.JSON(http.StatusOK, dto.FromSearchResult(res))
}
