package router

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/reprolabs/verdict/internal/apperr"
	"github.com/reprolabs/verdict/internal/dto"
	"github.com/reprolabs/verdict/internal/rubric"
	"github.com/reprolabs/verdict/internal/storage"
	"github.com/reprolabs/verdict/pkg/pagination"
)

type RubricRouter struct {
	e       *echo.Echo
	manager *rubric.Manager
}

func NewRubricRouter(e *echo.Echo, manager *rubric.Manager) *RubricRouter {
	return &RubricRouter{
		e:       e,
		manager: manager,
	}
}

func (r *RubricRouter) Bind() {
	r.e.POST("/rubrics", r.createHandler)
	r.e.GET("/rubrics", r.listHandler)
	r.e.GET("/rubrics/:id", r.getHandler)
	r.e.PUT("/rubrics/:id", r.updateHandler)
	r.e.DELETE("/rubrics/:id", r.deleteHandler)
	r.e.GET("/rubrics/:id/export", r.exportHandler)
}

// createHandler creates a rubric
// @Summary Create a rubric
// @Tags rubrics
// @Accept json
// @Produce json
// @Param rubric body dto.CreateRubricRequest true "Rubric definition"
// @Success 201 {object} dto.Rubric
// @Router /rubrics [post]
func (r *RubricRouter) createHandler(c echo.Context) error {
	var req dto.CreateRubricRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid rubric payload", err)
	}

	created, err := r.manager.Create(c.Request().Context(), req.ToManagerRequest())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.FromRubric(created))
}

// listHandler lists rubrics with offset paging
// @Summary List rubrics
// @Tags rubrics
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} pagination.OffsetResult[dto.Rubric]
// @Router /rubrics [get]
func (r *RubricRouter) listHandler(c echo.Context) error {
	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid paging parameters", err)
	}
	if err := page.Validate(); err != nil {
		return apperr.NewValidationWrap("invalid paging parameters", err)
	}

	rubrics, total, err := r.manager.List(c.Request().Context(), page.Page, page.Size)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pagination.NewOffsetResult(dto.FromRubrics(rubrics), total, page.Page, page.Size))
}

func (r *RubricRouter) getHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	found, err := r.manager.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.FromRubric(found))
}

func (r *RubricRouter) updateHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	var req dto.UpdateRubricRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid rubric payload", err)
	}

	updated, err := r.manager.Update(c.Request().Context(), id, req.ToManagerRequest())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.FromRubric(updated))
}

func (r *RubricRouter) deleteHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	if err := r.manager.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// exportHandler serializes a rubric as json or yaml
// @Summary Export a rubric
// @Tags rubrics
// @Produce json
// @Param id path string true "Rubric ID"
// @Param format query string false "json or yaml" default(json)
// @Router /rubrics/{id}/export [get]
func (r *RubricRouter) exportHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	format := c.QueryParam("format")
	switch format {
	case "", "json":
		data, err := r.manager.ExportJSON(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
	case "yaml":
		data, err := r.manager.ExportYAML(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/yaml", data)
	default:
		return apperr.NewValidation("format must be json or yaml")
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid id", err)
	}
	return id, nil
}

// mapNotFound translates the storage sentinel into a 404; everything else
// stays a 500.
func mapNotFound(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound(msg)
	}
	return err
}
