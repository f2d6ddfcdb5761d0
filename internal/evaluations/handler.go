package evaluations

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hirehelp-backend/internal/rounds"
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

// RegisterRoutes attaches evaluation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/evaluations", h.assign)
	rg.GET("/evaluations/:id", h.get)
	rg.PATCH("/evaluations/:id/status", h.updateStatus)
	rg.POST("/evaluations/:id/schedule", h.schedule)
	rg.POST("/evaluations/:id/reschedule", h.reschedule)
	rg.POST("/evaluations/board", h.board)
}

type assignRequest struct {
	RoundID       string `json:"roundId"`
	ApplicationID string `json:"applicationId"`
	EvaluatorID   string `json:"evaluatorId"`
}

func (h *Handler) assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	eval, err := h.Svc.Assign(c.Request.Context(), req.RoundID, req.ApplicationID, req.EvaluatorID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "round id and application id are required", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "round or application not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to assign evaluation", nil)
		}
		return
	}
	respond.Created(c, toResponse(eval))
}

func (h *Handler) get(c *gin.Context) {
	eval, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "evaluation not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch evaluation", nil)
		}
		return
	}
	respond.OK(c, toResponse(eval))
}

type updateStatusRequest struct {
	Status   string   `json:"status"`
	Notes    string   `json:"notes"`
	Feedback string   `json:"feedback"`
	Score    *float64 `json:"score"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	eval, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), Status(req.Status), req.Notes, req.Feedback, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown evaluation status", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "evaluation not found", nil)
		case errors.Is(err, ErrConflict):
			respond.Error(c, http.StatusConflict, "conflict", "evaluation was modified concurrently", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update evaluation", nil)
		}
		return
	}
	respond.OK(c, toResponse(eval))
}

type locationPayload struct {
	Venue    string `json:"venue"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Landmark string `json:"landmark"`
}

type scheduleRequest struct {
	EvaluatorID      string           `json:"evaluatorId"`
	InterviewerName  string           `json:"interviewerName"`
	InterviewerEmail string           `json:"interviewerEmail"`
	ScheduledAt      time.Time        `json:"scheduledAt"`
	ReportingAt      *time.Time       `json:"reportingAt"`
	Mode             string           `json:"mode"`
	Platform         string           `json:"platform"`
	MeetingLink      string           `json:"meetingLink"`
	Location         *locationPayload `json:"location"`
}

func (h *Handler) schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	details := ScheduleDetails{Mode: Mode(req.Mode)}
	switch details.Mode {
	case ModeOnline:
		details.Online = &OnlineDetails{Platform: req.Platform, MeetingLink: req.MeetingLink}
	case ModeOffline:
		if req.Location != nil {
			details.Offline = &OfflineDetails{
				Venue:    req.Location.Venue,
				Address:  req.Location.Address,
				City:     req.Location.City,
				Landmark: req.Location.Landmark,
			}
		}
	}

	eval, err := h.Svc.AssignInterviewer(c.Request.Context(), c.Param("id"), ScheduleInput{
		EvaluatorID: req.EvaluatorID,
		Interviewer: rounds.Interviewer{Name: req.InterviewerName, Email: req.InterviewerEmail},
		ScheduledAt: req.ScheduledAt,
		ReportingAt: req.ReportingAt,
		Details:     details,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid scheduling payload", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "evaluation not found", nil)
		case errors.Is(err, ErrConflict):
			respond.Error(c, http.StatusConflict, "conflict", "evaluation already has a final outcome", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to schedule evaluation", nil)
		}
		return
	}
	respond.OK(c, toResponse(eval))
}

func (h *Handler) reschedule(c *gin.Context) {
	eval, err := h.Svc.Reschedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "evaluation not found", nil)
		case errors.Is(err, ErrConflict):
			respond.Error(c, http.StatusConflict, "conflict", "evaluation was modified concurrently", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reschedule evaluation", nil)
		}
		return
	}
	respond.OK(c, toResponse(eval))
}

type boardRequest struct {
	ApplicationIDs []string `json:"applicationIds"`
}

// board returns the reconciled evaluation set for a list of applications,
// the bulk read behind pipeline views.
func (h *Handler) board(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	evals, err := h.Svc.Reconcile(c.Request.Context(), req.ApplicationIDs)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load evaluations", nil)
		return
	}
	resp := make([]gin.H, 0, len(evals))
	for _, eval := range evals {
		resp = append(resp, toResponse(eval))
	}
	respond.OK(c, resp)
}

func toResponse(eval Evaluation) gin.H {
	out := gin.H{
		"evaluationId":  eval.ID,
		"roundId":       eval.RoundID,
		"applicationId": eval.ApplicationID,
		"evaluatorId":   eval.EvaluatorID,
		"status":        string(eval.Status),
		"version":       eval.Version,
		"createdAt":     eval.CreatedAt.Format(time.RFC3339),
		"updatedAt":     eval.UpdatedAt.Format(time.RFC3339),
	}
	if eval.Score != nil {
		out["score"] = *eval.Score
	}
	if eval.Notes != "" {
		out["notes"] = eval.Notes
	}
	if eval.Feedback != "" {
		out["feedback"] = eval.Feedback
	}
	if eval.ScheduledAt != nil {
		out["scheduledAt"] = eval.ScheduledAt.Format(time.RFC3339)
	}
	if eval.ReportingAt != nil {
		out["reportingAt"] = eval.ReportingAt.Format(time.RFC3339)
	}
	if eval.CompletedAt != nil {
		out["completedAt"] = eval.CompletedAt.Format(time.RFC3339)
	}
	if eval.Mode != "" {
		out["mode"] = string(eval.Mode)
	}
	if eval.Platform != "" {
		out["platform"] = eval.Platform
	}
	if eval.MeetingLink != "" {
		out["meetingLink"] = eval.MeetingLink
	}
	if eval.Location != nil {
		out["location"] = eval.Location
	}
	if len(eval.Interviewers) > 0 {
		out["interviewers"] = eval.Interviewers
	}
	return out
}
