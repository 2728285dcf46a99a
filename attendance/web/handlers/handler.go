package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	attendance "worktally.com/worktally/attendance/core"
	"worktally.com/worktally/web/common"
)

// ClockEventObserver receives the outcome of every clock-in/clock-out attempt.
type ClockEventObserver interface {
	ObserveClockEvent(action string, outcome string)
}

type Endpoint struct {
	engine     *attendance.Engine
	aggregator *attendance.Aggregator
	observer   ClockEventObserver
}

// Register mounts the clock and stats routes on an authenticated group.
func Register(r *gin.RouterGroup, engine *attendance.Engine, aggregator *attendance.Aggregator, observer ClockEventObserver) {
	endpoint := &Endpoint{engine: engine, aggregator: aggregator, observer: observer}

	r.POST("/clock/in", endpoint.ClockIn)
	r.POST("/clock/out", endpoint.ClockOut)
	r.GET("/clock/today", endpoint.Today)

	r.GET("/stats/heatmap", endpoint.Heatmap)
	r.GET("/stats/report", endpoint.Report)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, attendance.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrNoClockInRecord):
		return http.StatusConflict
	case errors.Is(err, attendance.ErrInvalidMetricDivision):
		return http.StatusUnprocessableEntity
	case errors.Is(err, attendance.ErrInvalidMetric),
		errors.Is(err, attendance.ErrInvalidDateRange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// outcomeOf is the metrics label of an attempt's result.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, attendance.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		return "already_clocked_in"
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		return "already_clocked_out"
	case errors.Is(err, attendance.ErrNoClockInRecord):
		return "no_clock_in"
	case errors.Is(err, attendance.ErrInvalidMetricDivision):
		return "invalid_duration"
	}
	return "error"
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, common.NewErrorResponse(err.Error()))
}

func (ep *Endpoint) observe(action string, err error) {
	if ep.observer != nil {
		ep.observer.ObserveClockEvent(action, outcomeOf(err))
	}
}
