package http

import (
	"github.com/gin-gonic/gin"

	"nl-command-router/internal/route"
	pkgLog "nl-command-router/pkg/log"
)

// Handler is the public interface for the route HTTP delivery layer.
type Handler interface {
	Route(c *gin.Context)
	Confirm(c *gin.Context)
	Choose(c *gin.Context)
	GetExecution(c *gin.Context)
	CancelExecution(c *gin.Context)
}

type handler struct {
	l  pkgLog.Logger
	uc route.UseCase
}

// New creates a new route HTTP handler.
func New(l pkgLog.Logger, uc route.UseCase) Handler {
	return &handler{l: l, uc: uc}
}
