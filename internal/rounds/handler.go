package rounds

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hirehelp-backend/internal/shared/server/middleware"
	"hirehelp-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches round routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rounds", h.create)
	rg.GET("/rounds/:id", h.get)
	rg.GET("/rounds/job/:jobId", h.listByJob)
	rg.PUT("/rounds/:id", h.update)
	rg.POST("/rounds/:id/archive", h.archive)
	rg.POST("/rounds/:id/activate", h.activate)
	rg.POST("/rounds/:id/mcq-submissions", h.submitMCQ)
	rg.GET("/rounds/:id/mcq-submissions/:applicationId", h.getMCQResponse)
}

type interviewerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type questionPayload struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type createRoundRequest struct {
	JobID         string               `json:"jobId"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Order         *int                 `json:"order"`
	Type          string               `json:"type"`
	FormLink      string               `json:"formLink"`
	Platform      string               `json:"platform"`
	Duration      string               `json:"duration"`
	Instructions  string               `json:"instructions"`
	Questions     []questionPayload    `json:"questions"`
	InterviewMode string               `json:"interviewMode"`
	Interviewers  []interviewerPayload `json:"interviewers"`
	MeetingLink   string               `json:"meetingLink"`
	ScheduledAt   *time.Time           `json:"scheduledAt"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	round, err := h.Svc.Create(c.Request.Context(), CreateInput{
		JobID:         req.JobID,
		Name:          req.Name,
		Description:   req.Description,
		Order:         req.Order,
		Type:          Type(req.Type),
		FormLink:      req.FormLink,
		Platform:      req.Platform,
		Duration:      req.Duration,
		Instructions:  req.Instructions,
		Questions:     toQuestions(req.Questions),
		InterviewMode: req.InterviewMode,
		Interviewers:  toInterviewers(req.Interviewers),
		MeetingLink:   req.MeetingLink,
		ScheduledAt:   req.ScheduledAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid round definition", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create round", nil)
		}
		return
	}
	respond.Created(c, toResponse(round))
}

func (h *Handler) get(c *gin.Context) {
	round, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "round not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch round", nil)
		}
		return
	}
	respond.OK(c, toResponse(round))
}

func (h *Handler) listByJob(c *gin.Context) {
	list, err := h.Svc.ListByJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list rounds", nil)
		return
	}
	resp := make([]gin.H, 0, len(list))
	for _, round := range list {
		resp = append(resp, toResponse(round))
	}
	respond.OK(c, resp)
}

type updateRoundRequest struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Order         int                  `json:"order"`
	Type          string               `json:"type"`
	IsActive      bool                 `json:"isActive"`
	FormLink      string               `json:"formLink"`
	Platform      string               `json:"platform"`
	Duration      string               `json:"duration"`
	Instructions  string               `json:"instructions"`
	Questions     []questionPayload    `json:"questions"`
	InterviewMode string               `json:"interviewMode"`
	Interviewers  []interviewerPayload `json:"interviewers"`
	MeetingLink   string               `json:"meetingLink"`
	ScheduledAt   *time.Time           `json:"scheduledAt"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if !ValidType(Type(req.Type)) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown round type", nil)
		return
	}

	round, err := h.Svc.Update(c.Request.Context(), Round{
		ID:            c.Param("id"),
		Name:          req.Name,
		Description:   req.Description,
		Order:         req.Order,
		Type:          Type(req.Type),
		IsActive:      req.IsActive,
		FormLink:      req.FormLink,
		Platform:      req.Platform,
		Duration:      req.Duration,
		Instructions:  req.Instructions,
		Questions:     toQuestions(req.Questions),
		InterviewMode: req.InterviewMode,
		Interviewers:  toInterviewers(req.Interviewers),
		MeetingLink:   req.MeetingLink,
		ScheduledAt:   req.ScheduledAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "round order already in use", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "round not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update round", nil)
		}
		return
	}
	respond.OK(c, toResponse(round))
}

func (h *Handler) archive(c *gin.Context) {
	round, err := h.Svc.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "round not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to archive round", nil)
		}
		return
	}
	respond.OK(c, toResponse(round))
}

func (h *Handler) activate(c *gin.Context) {
	round, err := h.Svc.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "round not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to activate round", nil)
		}
		return
	}
	respond.OK(c, toResponse(round))
}

type submitMCQRequest struct {
	ApplicationID string `json:"applicationId"`
	Answers       []int  `json:"answers"`
}

func (h *Handler) submitMCQ(c *gin.Context) {
	var req submitMCQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	candidateID := middleware.UserIDFromContext(c)
	resp, err := h.Svc.SubmitMCQ(c.Request.Context(), c.Param("id"), req.ApplicationID, candidateID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "answer count must match question count", nil)
		case errors.Is(err, ErrConflict):
			respond.Error(c, http.StatusConflict, "conflict", "a submission already exists for this round", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "mcq round not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record submission", nil)
		}
		return
	}
	respond.Created(c, toMCQResponse(resp))
}

func (h *Handler) getMCQResponse(c *gin.Context) {
	resp, err := h.Svc.GetMCQResponse(c.Request.Context(), c.Param("id"), c.Param("applicationId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch submission", nil)
		}
		return
	}
	respond.OK(c, toMCQResponse(resp))
}

func toQuestions(in []questionPayload) []MCQQuestion {
	if len(in) == 0 {
		return nil
	}
	out := make([]MCQQuestion, len(in))
	for i, q := range in {
		out[i] = MCQQuestion{Question: q.Question, Options: q.Options, CorrectAnswer: q.CorrectAnswer}
	}
	return out
}

func toInterviewers(in []interviewerPayload) []Interviewer {
	if len(in) == 0 {
		return nil
	}
	out := make([]Interviewer, len(in))
	for i, p := range in {
		out[i] = Interviewer{Name: p.Name, Email: p.Email}
	}
	return out
}

func toResponse(round Round) gin.H {
	out := gin.H{
		"roundId":    round.ID,
		"jobId":      round.JobID,
		"name":       round.Name,
		"order":      round.Order,
		"type":       string(round.Type),
		"isArchived": round.IsArchived,
		"isActive":   round.IsActive,
		"createdAt":  round.CreatedAt.Format(time.RFC3339),
	}
	if round.Description != "" {
		out["description"] = round.Description
	}
	if round.FormLink != "" {
		out["formLink"] = round.FormLink
	}
	if len(round.Interviewers) > 0 {
		out["interviewers"] = round.Interviewers
	}
	if round.ScheduledAt != nil {
		out["scheduledAt"] = round.ScheduledAt.Format(time.RFC3339)
	}
	if round.Type == TypeMCQ {
		out["questionCount"] = len(round.Questions)
	}
	return out
}

func toMCQResponse(resp MCQResponse) gin.H {
	return gin.H{
		"responseId":    resp.ID,
		"roundId":       resp.RoundID,
		"applicationId": resp.ApplicationID,
		"candidateId":   resp.CandidateID,
		"answers":       resp.Answers,
		"isCorrect":     resp.IsCorrect,
		"score":         resp.Score,
		"submittedAt":   resp.SubmittedAt.Format(time.RFC3339),
	}
}
