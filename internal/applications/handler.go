package applications

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.create)
	rg.GET("/applications/:id", h.get)
	rg.GET("/applications/company/:companyId", h.listByCompany)
	rg.GET("/applications/candidate/:candidateId", h.listByCandidate)
	rg.PATCH("/applications/:id/status", h.updateStatus)
}

type createApplicationRequest struct {
	CandidateID string `json:"candidateId"`
	JobID       string `json:"jobId"`
	Notes       string `json:"notes"`
}

func (h *Handler) create(c *gin.Context) {
	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	app, err := h.Svc.Create(c.Request.Context(), req.CandidateID, req.JobID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "candidate id and job id are required", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create application", nil)
		}
		return
	}

	respond.Created(c, toResponse(app))
}

func (h *Handler) get(c *gin.Context) {
	app, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch application", nil)
		}
		return
	}
	respond.OK(c, toResponse(app))
}

func (h *Handler) listByCompany(c *gin.Context) {
	list, err := h.Svc.ListByCompany(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, toResponseList(list))
}

func (h *Handler) listByCandidate(c *gin.Context) {
	list, err := h.Svc.ListByCandidate(c.Request.Context(), c.Param("candidateId"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, toResponseList(list))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	app, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown application status", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update status", nil)
		}
		return
	}
	respond.OK(c, toResponse(app))
}

func toResponseList(list []Application) []gin.H {
	resp := make([]gin.H, 0, len(list))
	for _, app := range list {
		resp = append(resp, toResponse(app))
	}
	return resp
}

func toResponse(app Application) gin.H {
	out := gin.H{
		"applicationId": app.ID,
		"candidateId":   app.CandidateID,
		"jobId":         app.JobID,
		"companyId":     app.CompanyID,
		"status":        string(app.Status),
		"createdAt":     app.CreatedAt.Format(time.RFC3339),
		"updatedAt":     app.UpdatedAt.Format(time.RFC3339),
	}
	if app.CurrentRoundID != "" {
		out["currentRoundId"] = app.CurrentRoundID
	}
	if app.Notes != "" {
		out["notes"] = app.Notes
	}
	return out
}
