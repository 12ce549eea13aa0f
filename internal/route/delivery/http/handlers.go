package http

import (
	"github.com/gin-gonic/gin"

	"nl-command-router/internal/model"
	"nl-command-router/pkg/response"
)

// Route godoc
// @Summary     Route a natural-language command
// @Description Resolves the utterance against the template catalog and either executes it, asks for confirmation, suggests alternatives, or delegates it to the AI path.
// @Tags        Route
// @Accept      json
// @Produce     json
// @Param       body body routeReq true "Utterance and session"
// @Success     200 {object} response.Resp{data=outcomeResp}
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     409 {object} response.Resp "Session already has a running execution"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/route [POST]
func (h *handler) Route(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processRouteReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	outcome, err := h.uc.Route(ctx, req.scope(), req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Route: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newOutcomeResp(outcome))
}

// Confirm godoc
// @Summary     Answer a pending confirmation
// @Description Accepts or rejects the single best interpretation surfaced by a previous route call. A rejection re-routes the turn with demoted confidence.
// @Tags        Route
// @Accept      json
// @Produce     json
// @Param       body body confirmReq true "Confirmation answer"
// @Success     200 {object} response.Resp{data=outcomeResp}
// @Failure     400 {object} response.Resp "Bad Request or no pending confirmation"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/route/confirm [POST]
func (h *handler) Confirm(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processConfirmReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	outcome, err := h.uc.Confirm(ctx, req.scope(), req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Confirm: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newOutcomeResp(outcome))
}

// Choose godoc
// @Summary     Answer a pending alternatives prompt
// @Description Picks one of the suggested templates and executes it, or picks none and upgrades the turn to an AI-synthesized plan.
// @Tags        Route
// @Accept      json
// @Produce     json
// @Param       body body chooseReq true "Chosen template, empty for none"
// @Success     200 {object} response.Resp{data=outcomeResp}
// @Failure     400 {object} response.Resp "Bad Request or unknown choice"
// @Failure     429 {object} response.Resp "AI synthesis budget exhausted"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/route/choose [POST]
func (h *handler) Choose(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processChooseReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	outcome, err := h.uc.Choose(ctx, req.scope(), req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Choose: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newOutcomeResp(outcome))
}

// GetExecution godoc
// @Summary     Get an execution report
// @Description Returns the per-step report of a finished execution, or a running snapshot.
// @Tags        Executions
// @Produce     json
// @Param       id         path  string true  "Execution ID"
// @Param       session_id query string false "Session the caller acts for"
// @Success     200 {object} response.Resp{data=executionResp}
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/executions/{id} [GET]
func (h *handler) GetExecution(c *gin.Context) {
	ctx := c.Request.Context()

	sc := model.Scope{SessionID: c.Query("session_id"), UserID: c.Query("user_id")}
	exec, err := h.uc.GetExecution(ctx, sc, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, newExecutionResp(exec))
}

// CancelExecution godoc
// @Summary     Cancel a running execution
// @Description Requests cooperative cancellation; the execution stops before its next step is dispatched.
// @Tags        Executions
// @Produce     json
// @Param       id         path  string true  "Execution ID"
// @Param       session_id query string false "Session the caller acts for"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found or already finished"
// @Router      /api/v1/executions/{id}/cancel [POST]
func (h *handler) CancelExecution(c *gin.Context) {
	ctx := c.Request.Context()

	sc := model.Scope{SessionID: c.Query("session_id"), UserID: c.Query("user_id")}
	if err := h.uc.CancelExecution(ctx, sc, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, gin.H{"canceled": true})
}
