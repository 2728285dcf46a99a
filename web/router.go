package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"worktally.com/worktally/app"
	clock "worktally.com/worktally/attendance/web/handlers"
	"worktally.com/worktally/infrastructure/observability"
	"worktally.com/worktally/web/common"
	"worktally.com/worktally/web/handlers"
	"worktally.com/worktally/web/middlewares"
)

// NewRouter mounts every route of the API on a gin engine.
func NewRouter(a *app.App, metrics *observability.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	handlers.RegisterAuth(api, a.Auth)

	protected := api.Group("")
	protected.Use(middlewares.Authentication(a.Tokens))
	{
		protected.GET("/users/me", handlers.GetCurrentUserHandler(a.Users))
		protected.PUT("/users/me", handlers.UpdateCurrentUserHandler(a.Users))

		clock.Register(protected, a.Engine, a.Aggregator, metrics)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("not found"))
	})

	return r
}
