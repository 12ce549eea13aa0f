package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	r := rg.Group("/route")
	{
		r.POST("", h.Route)
		r.POST("/confirm", h.Confirm)
		r.POST("/choose", h.Choose)
	}

	executions := rg.Group("/executions")
	{
		executions.GET("/:id", h.GetExecution)
		executions.POST("/:id/cancel", h.CancelExecution)
	}
}
