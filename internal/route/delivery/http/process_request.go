package http

import (
	"github.com/gin-gonic/gin"
)

// processRouteReq binds and validates the route request body.
func (h *handler) processRouteReq(c *gin.Context) (routeReq, error) {
	var req routeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

// processConfirmReq binds and validates the confirm request body.
func (h *handler) processConfirmReq(c *gin.Context) (confirmReq, error) {
	var req confirmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

// processChooseReq binds and validates the choose request body.
func (h *handler) processChooseReq(c *gin.Context) (chooseReq, error) {
	var req chooseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}
