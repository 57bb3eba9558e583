package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/exercise-tracker/internal/core/ports"
)

// ExerciseHandler handles HTTP requests for the exercise log.
type ExerciseHandler struct {
	service ports.ExerciseService
}

func NewExerciseHandler(service ports.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

// Add handles POST /api/users/:id/exercises.
//
// @Summary      Log an exercise for a user
// @Tags         exercises
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path      string              true  "User id"
// @Param        body  body      addExerciseRequest  true  "Exercise; date defaults to today"
// @Success      201   {object}  exerciseResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/users/{id}/exercises [post]
func (h *ExerciseHandler) Add(c echo.Context) error {
	var req addExerciseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.AddExercise(c.Request().Context(), ports.AddExerciseInput{
		UserID:      c.Param("id"),
		Description: req.Description,
		Duration:    string(req.Duration),
		Date:        req.Date,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toExerciseResponse(result))
}

// Logs handles GET /api/users/:id/logs.
//
// @Summary      Query a user's exercise log
// @Tags         exercises
// @Produce      json
// @Param        id     path      string  true   "User id"
// @Param        from   query     string  false  "Inclusive lower bound (yyyy-mm-dd)"
// @Param        to     query     string  false  "Inclusive upper bound (yyyy-mm-dd)"
// @Param        limit  query     int     false  "Maximum number of entries"
// @Success      200    {object}  logResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/users/{id}/logs [get]
func (h *ExerciseHandler) Logs(c echo.Context) error {
	// Passed through as text; the service parses them after the user lookup.
	log, err := h.service.QueryLogs(c.Request().Context(), ports.LogQueryInput{
		UserID: c.Param("id"),
		From:   c.QueryParam("from"),
		To:     c.QueryParam("to"),
		Limit:  c.QueryParam("limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLogResponse(log))
}
