package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nl-command-router/internal/route"
	"nl-command-router/pkg/response"
)

// respondError translates use-case errors into the JSON envelope with the
// right status code. Unknown errors never leak their message.
func (h *handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, route.ErrExecutionNotFound):
		response.NotFound(c, err)
	case errors.Is(err, route.ErrSessionBusy):
		response.Conflict(c, err)
	case errors.Is(err, route.ErrSynthesisRateLimited):
		response.TooManyRequests(c, err)
	case errors.Is(err, route.ErrEmptyUtterance),
		errors.Is(err, route.ErrNoPendingDecision),
		errors.Is(err, route.ErrUnknownAlternative):
		response.Error(c, err, nil)
	default:
		response.InternalError(c, err)
	}
}
