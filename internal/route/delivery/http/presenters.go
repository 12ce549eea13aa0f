package http

import (
	"nl-command-router/internal/model"
	"nl-command-router/internal/route"
	"nl-command-router/internal/workflow"
	"nl-command-router/pkg/response"
)

// --- Request DTOs ---

type routeReq struct {
	SessionID string `json:"session_id" binding:"required,min=1,max=128"`
	UserID    string `json:"user_id"    binding:"max=128"`
	Text      string `json:"text"       binding:"required,min=1,max=4096"`
	Language  string `json:"language"   binding:"max=16"`
}

func (r routeReq) scope() model.Scope {
	return model.Scope{SessionID: r.SessionID, UserID: r.UserID}
}

func (r routeReq) toInput() route.RouteInput {
	return route.RouteInput{Text: r.Text, Language: r.Language}
}

// ---

type confirmReq struct {
	SessionID      string `json:"session_id"      binding:"required,min=1,max=128"`
	UserID         string `json:"user_id"         binding:"max=128"`
	ConfirmationID string `json:"confirmation_id" binding:"required,uuid"`
	Accept         bool   `json:"accept"`
}

func (r confirmReq) scope() model.Scope {
	return model.Scope{SessionID: r.SessionID, UserID: r.UserID}
}

func (r confirmReq) toInput() route.ConfirmInput {
	return route.ConfirmInput{ConfirmationID: r.ConfirmationID, Accept: r.Accept}
}

// ---

type chooseReq struct {
	SessionID      string `json:"session_id"      binding:"required,min=1,max=128"`
	UserID         string `json:"user_id"         binding:"max=128"`
	ConfirmationID string `json:"confirmation_id" binding:"required,uuid"`
	TemplateID     string `json:"template_id"` // Empty means none of the suggestions
}

func (r chooseReq) scope() model.Scope {
	return model.Scope{SessionID: r.SessionID, UserID: r.UserID}
}

func (r chooseReq) toInput() route.ChooseInput {
	return route.ChooseInput{ConfirmationID: r.ConfirmationID, TemplateID: r.TemplateID}
}

// --- Response DTOs ---

type outcomeResp struct {
	Kind           string         `json:"kind"`
	Execution      *executionResp `json:"execution,omitempty"`
	Intent         *intentResp    `json:"intent,omitempty"`
	ConfirmationID string         `json:"confirmation_id,omitempty"`
	Choices        []choiceResp   `json:"choices,omitempty"`
	Utterance      string         `json:"utterance,omitempty"`
	Reason         string         `json:"reason,omitempty"`
}

type intentResp struct {
	Intent     string            `json:"intent"`
	Operation  string            `json:"operation"`
	TemplateID string            `json:"template_id,omitempty"`
	Confidence float64           `json:"confidence"`
	Level      string            `json:"level"`
	Params     map[string]string `json:"params,omitempty"`
}

type choiceResp struct {
	TemplateID string            `json:"template_id"`
	Score      float64           `json:"score"`
	Source     string            `json:"source"`
	Params     map[string]string `json:"params,omitempty"`
}

type stepResp struct {
	StepID     string `json:"step_id"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	Output     string `json:"output,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type executionResp struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	PlanSource string             `json:"plan_source"`
	Steps      []stepResp         `json:"steps"`
	StartedAt  response.DateTime  `json:"started_at"`
	FinishedAt *response.DateTime `json:"finished_at,omitempty"`
}

func (h *handler) newOutcomeResp(o route.Outcome) outcomeResp {
	resp := outcomeResp{
		Kind:           string(o.Kind),
		ConfirmationID: o.ConfirmationID,
		Utterance:      o.Utterance,
		Reason:         o.Reason,
	}
	if o.Execution != nil {
		exec := newExecutionResp(o.Execution)
		resp.Execution = &exec
	}
	if o.Intent != nil {
		resp.Intent = &intentResp{
			Intent:     string(o.Intent.Intent),
			Operation:  o.Intent.Operation,
			TemplateID: o.Intent.TemplateID,
			Confidence: o.Intent.Confidence,
			Level:      string(o.Intent.Level),
			Params:     o.Intent.Params,
		}
	}
	for _, c := range o.Choices {
		resp.Choices = append(resp.Choices, choiceResp{
			TemplateID: c.TemplateID,
			Score:      c.Score,
			Source:     string(c.Source),
			Params:     c.Params,
		})
	}
	return resp
}

func newExecutionResp(exec *workflow.Execution) executionResp {
	resp := executionResp{
		ID:         exec.ID,
		Status:     string(exec.Status),
		PlanSource: string(exec.PlanSource),
		Steps:      make([]stepResp, 0, len(exec.Steps)),
		StartedAt:  response.DateTime(exec.StartedAt),
	}
	if !exec.FinishedAt.IsZero() {
		finished := response.DateTime(exec.FinishedAt)
		resp.FinishedAt = &finished
	}
	for _, s := range exec.Steps {
		resp.Steps = append(resp.Steps, stepResp{
			StepID:     s.StepID,
			Status:     string(s.Status),
			Attempts:   s.Attempts,
			Output:     s.Output,
			Error:      s.Error,
			DurationMs: s.Duration.Milliseconds(),
		})
	}
	return resp
}
