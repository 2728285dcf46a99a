package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"worktally.com/worktally/web/common"
	"worktally.com/worktally/web/middlewares"
)

func (ep *Endpoint) ClockIn(c *gin.Context) {
	result, err := ep.engine.ClockIn(c.Request.Context(), middlewares.UserID(c))
	ep.observe("in", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(result))
}

func (ep *Endpoint) ClockOut(c *gin.Context) {
	result, err := ep.engine.ClockOut(c.Request.Context(), middlewares.UserID(c))
	ep.observe("out", err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(result))
}

// Today responds with the record of the current day, or null data before clock-in.
func (ep *Endpoint) Today(c *gin.Context) {
	record, err := ep.engine.GetTodayClockRecord(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(record))
}
