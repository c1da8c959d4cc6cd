package router

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/reprolabs/verdict/internal/apperr"
	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/dto"
	"github.com/reprolabs/verdict/internal/eval"
	"github.com/reprolabs/verdict/internal/storage"
	"github.com/reprolabs/verdict/internal/worker"
	"github.com/reprolabs/verdict/pkg/pagination"
)

type EvaluationRouter struct {
	e           *echo.Echo
	submissions storage.SubmissionStore
	rubrics     storage.RubricStore
	evaluations storage.EvaluationStore
	batches     storage.BatchStore
	enqueuer    *worker.Enqueuer
}

type EvaluationRouterOption func(*EvaluationRouter)

// WithEnqueuer enables POST /evaluate/batch.
func WithEnqueuer(enq *worker.Enqueuer) EvaluationRouterOption {
	return func(r *EvaluationRouter) { r.enqueuer = enq }
}

func NewEvaluationRouter(
	e *echo.Echo,
	submissions storage.SubmissionStore,
	rubrics storage.RubricStore,
	evaluations storage.EvaluationStore,
	batches storage.BatchStore,
	opts ...EvaluationRouterOption,
) *EvaluationRouter {
	r := &EvaluationRouter{
		e:           e,
		submissions: submissions,
		rubrics:     rubrics,
		evaluations: evaluations,
		batches:     batches,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *EvaluationRouter) Bind() {
	r.e.POST("/derive", r.deriveHandler)
	r.e.POST("/evaluate", r.evaluateHandler)
	r.e.POST("/evaluate/batch", r.evaluateBatchHandler)
	r.e.GET("/evaluations/:id", r.getEvaluationHandler)
	r.e.GET("/submissions/:id/evaluations", r.listBySubmissionHandler)
	r.e.GET("/batches/:id", r.getBatchHandler)
}

// deriveHandler runs the deterministic metric derivation on raw text
// @Summary Derive reproducibility metrics
// @Tags evaluations
// @Accept json
// @Produce json
// @Param request body dto.DeriveRequest true "Input text and settings"
// @Success 200 {object} eval.Result
// @Router /derive [post]
func (r *EvaluationRouter) deriveHandler(c echo.Context) error {
	var req dto.DeriveRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid derive payload", err)
	}
	if req.Text == "" {
		return apperr.NewValidation("text is required")
	}

	result, err := eval.Derive(req.Text, req.ToConfig())
	if err != nil {
		return apperr.NewValidationWrap("invalid derivation config", err)
	}

	return c.JSON(http.StatusOK, result)
}

// evaluateHandler scores a stored submission synchronously
// @Summary Evaluate a submission
// @Tags evaluations
// @Accept json
// @Produce json
// @Param request body dto.EvaluateRequest true "Submission to evaluate"
// @Success 200 {object} dto.EvaluateResponse
// @Router /evaluate [post]
func (r *EvaluationRouter) evaluateHandler(c echo.Context) error {
	var req dto.EvaluateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid evaluate payload", err)
	}
	if req.SubmissionID == uuid.Nil {
		return apperr.NewValidation("submissionId is required")
	}

	ctx := c.Request().Context()

	sub, err := r.submissions.Get(ctx, req.SubmissionID)
	if err != nil {
		return mapNotFound(err, fmt.Sprintf("submission %s not found", req.SubmissionID))
	}

	rubricIDs := req.RubricIDs
	if len(rubricIDs) == 0 {
		rubricIDs = sub.RubricIDs
	}
	if len(rubricIDs) == 0 {
		return apperr.NewValidation("submission has no rubrics to evaluate against")
	}

	rubrics := make([]*domain.Rubric, 0, len(rubricIDs))
	for _, rid := range rubricIDs {
		rb, err := r.rubrics.Get(ctx, rid)
		if err != nil {
			return mapNotFound(err, fmt.Sprintf("rubric %s not found", rid))
		}
		rubrics = append(rubrics, rb)
	}

	result := eval.ScoreAgainstRubrics(rubrics, sub)
	for _, ev := range result.Results {
		if _, err := r.evaluations.Save(ctx, *ev); err != nil {
			return fmt.Errorf("failed to save evaluation: %w", err)
		}
	}

	return c.JSON(http.StatusOK, dto.FromMultiRubricResult(result))
}

// evaluateBatchHandler enqueues an asynchronous batch evaluation
// @Summary Enqueue a batch evaluation
// @Tags evaluations
// @Accept json
// @Produce json
// @Param request body dto.EvaluateBatchRequest true "Submissions to evaluate"
// @Success 202 {object} dto.EvaluateBatchResponse
// @Router /evaluate/batch [post]
func (r *EvaluationRouter) evaluateBatchHandler(c echo.Context) error {
	if r.enqueuer == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "batch evaluation queue is not configured")
	}

	var req dto.EvaluateBatchRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid batch payload", err)
	}
	if len(req.SubmissionIDs) == 0 {
		return apperr.NewValidation("submissionIds is required")
	}

	ctx := c.Request().Context()

	for _, id := range req.SubmissionIDs {
		if _, err := r.submissions.Get(ctx, id); err != nil {
			return mapNotFound(err, fmt.Sprintf("submission %s not found", id))
		}
	}

	batch := domain.Batch{
		ID:     uuid.NewString(),
		Status: domain.BatchPending,
		Total:  len(req.SubmissionIDs),
	}
	if err := r.batches.Save(ctx, batch); err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}

	payload := worker.BatchPayload{
		BatchID:       batch.ID,
		SubmissionIDs: req.SubmissionIDs,
	}
	if err := r.enqueuer.EnqueueBatch(ctx, payload); err != nil {
		return fmt.Errorf("failed to enqueue batch: %w", err)
	}

	return c.JSON(http.StatusAccepted, dto.EvaluateBatchResponse{
		BatchID: batch.ID,
		Total:   batch.Total,
		Status:  string(batch.Status),
	})
}

func (r *EvaluationRouter) getEvaluationHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	ev, err := r.evaluations.Get(c.Request().Context(), id)
	if err != nil {
		return mapNotFound(err, fmt.Sprintf("evaluation %s not found", id))
	}

	return c.JSON(http.StatusOK, dto.FromEvaluation(ev))
}

// listBySubmissionHandler pages a submission's evaluation history
// @Summary List evaluations for a submission
// @Tags evaluations
// @Produce json
// @Param id path string true "Submission ID"
// @Param cursor query string false "Cursor from the previous page"
// @Param size query int false "Page size"
// @Success 200 {object} pagination.CursorResult[dto.Evaluation]
// @Router /submissions/{id}/evaluations [get]
func (r *EvaluationRouter) listBySubmissionHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	var page pagination.CursorRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	if err := page.Validate(); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}

	evals, err := r.evaluations.ListBySubmission(c.Request().Context(), id)
	if err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}

	// The cursor is the last evaluation ID of the previous page.
	if page.Cursor != nil {
		for i := range evals {
			if evals[i].ID.String() == *page.Cursor {
				evals = evals[i+1:]
				break
			}
		}
	}
	if len(evals) > page.Size+1 {
		evals = evals[:page.Size+1]
	}

	items := make([]dto.Evaluation, 0, len(evals))
	for i := range evals {
		items = append(items, dto.FromEvaluation(&evals[i]))
	}

	result, err := pagination.NewCursorResult(items, page.Size, func(e dto.Evaluation) (string, error) {
		return e.ID.String(), nil
	})
	if err != nil {
		return fmt.Errorf("failed to build page: %w", err)
	}

	return c.JSON(http.StatusOK, result)
}

func (r *EvaluationRouter) getBatchHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return apperr.NewValidation("batch id is required")
	}

	batch, err := r.batches.Get(c.Request().Context(), id)
	if err != nil {
		return mapNotFound(err, fmt.Sprintf("batch %s not found", id))
	}

	return c.JSON(http.StatusOK, dto.FromBatch(batch))
}
