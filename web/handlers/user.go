package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	attendance "worktally.com/worktally/attendance/core"
	"worktally.com/worktally/core"
	"worktally.com/worktally/web/common"
	"worktally.com/worktally/web/middlewares"
)

// RatedProfileDTO is the editable part of the user profile.
type RatedProfileDTO struct {
	RatedWorkStartTime *string  `json:"ratedWorkStartTime" binding:"omitempty,datetime=15:04"`
	RatedWorkEndTime   *string  `json:"ratedWorkEndTime" binding:"omitempty,datetime=15:04"`
	RatedHourlyRate    *float64 `json:"ratedHourlyRate" binding:"omitempty,gte=0"`
	RatedWorkHours     *float64 `json:"ratedWorkHours" binding:"omitempty,gte=0,max=24"`
	RatedDailySalary   *float64 `json:"ratedDailySalary" binding:"omitempty,gte=0"`
}

func GetCurrentUserHandler(users *core.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindUserByID(c.Request.Context(), middlewares.UserID(c))
		if err != nil {
			log.Printf("[ERROR] find user: %v", err)
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, common.NewErrorResponse(attendance.ErrUserNotFound.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(user))
	}
}

func UpdateCurrentUserHandler(users *core.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body RatedProfileDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}

		// derive the rated hours from the rated window when only the window is given
		if body.RatedWorkHours == nil && body.RatedWorkStartTime != nil && body.RatedWorkEndTime != nil {
			hours, err := attendance.RatedHoursBetween(*body.RatedWorkStartTime, *body.RatedWorkEndTime)
			if err != nil {
				c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
				return
			}
			body.RatedWorkHours = &hours
		}

		user, err := users.UpdateRatedProfile(c.Request.Context(), middlewares.UserID(c), core.RatedProfile{
			RatedWorkStartTime: body.RatedWorkStartTime,
			RatedWorkEndTime:   body.RatedWorkEndTime,
			RatedHourlyRate:    body.RatedHourlyRate,
			RatedWorkHours:     body.RatedWorkHours,
			RatedDailySalary:   body.RatedDailySalary,
		})
		if err != nil {
			log.Printf("[ERROR] update user: %v", err)
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, common.NewErrorResponse(attendance.ErrUserNotFound.Error()))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(user))
	}
}
