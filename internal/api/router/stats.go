package router

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reprolabs/verdict/internal/storage"
	"github.com/reprolabs/verdict/pkg/utils"
)

const statsWindow = 500

type StatsRouter struct {
	e           *echo.Echo
	evaluations storage.EvaluationStore
}

func NewStatsRouter(e *echo.Echo, evaluations storage.EvaluationStore) *StatsRouter {
	return &StatsRouter{e: e, evaluations: evaluations}
}

func (r *StatsRouter) Bind() {
	r.e.GET("/stats", r.statsHandler)
}

// StatsResponse summarizes recent evaluation activity.
type StatsResponse struct {
	Evaluations     int     `json:"evaluations"`
	Passed          int     `json:"passed"`
	PassRate        float64 `json:"passRate"`
	AvgScore        float64 `json:"avgScore"`
	AvgProcessingMS float64 `json:"avgProcessingMs"`
}

// statsHandler summarizes the most recent evaluations
// @Summary Evaluation statistics
// @Tags stats
// @Produce json
// @Success 200 {object} router.StatsResponse
// @Router /stats [get]
func (r *StatsRouter) statsHandler(c echo.Context) error {
	evals, err := r.evaluations.ListRecent(c.Request().Context(), statsWindow)
	if err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}

	resp := StatsResponse{Evaluations: len(evals)}
	if len(evals) == 0 {
		return c.JSON(http.StatusOK, resp)
	}

	var scoreSum, procSum float64
	for _, ev := range evals {
		if ev.Passed {
			resp.Passed++
		}
		scoreSum += ev.OverallScore
		procSum += float64(ev.ProcessingTimeMS)
	}

	n := float64(len(evals))
	resp.PassRate = utils.RoundDecimal(float64(resp.Passed)/n, 4)
	resp.AvgScore = utils.RoundDecimal(scoreSum/n, 2)
	resp.AvgProcessingMS = utils.RoundDecimal(procSum/n, 2)

	return c.JSON(http.StatusOK, resp)
}
