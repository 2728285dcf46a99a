package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	attendance "worktally.com/worktally/attendance/core"
	"worktally.com/worktally/utils"
	"worktally.com/worktally/web/common"
	"worktally.com/worktally/web/middlewares"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DateRangeQuery struct {
	StartDate string `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"required,datetime=2006-01-02"`
}

func (q DateRangeQuery) parse(loc *time.Location) (time.Time, time.Time, error) {
	start, err := utils.ParseDate(q.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.ParseDate(q.EndDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

type HeatmapQuery struct {
	DateRangeQuery
	Type string `form:"type" binding:"required,oneof=hourlyRate workHours"`
}

func (ep *Endpoint) Heatmap(c *gin.Context) {
	var query HeatmapQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	start, end, err := query.parse(ep.engine.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	series, err := ep.aggregator.GetHeatmapData(c.Request.Context(), middlewares.UserID(c), start, end, attendance.Metric(query.Type))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(series.Collect()))
}

// Report downloads the records of the range as an xlsx workbook.
func (ep *Endpoint) Report(c *gin.Context) {
	var query DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	start, end, err := query.parse(ep.engine.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	records, err := ep.aggregator.Records(c.Request.Context(), middlewares.UserID(c), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	buf, err := attendance.BuildReport(records, ep.engine.Location())
	if err != nil {
		writeError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", query.StartDate, query.EndDate)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
