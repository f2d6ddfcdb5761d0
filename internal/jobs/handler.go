package jobs

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

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.GET("/jobs/:id", h.get)
	rg.GET("/jobs/company/:companyId", h.listByCompany)
}

type createJobRequest struct {
	CompanyID   string `json:"companyId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	job, err := h.Svc.Create(c.Request.Context(), req.CompanyID, req.Title, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "company not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create job", nil)
		}
		return
	}

	respond.Created(c, toResponse(job))
}

func (h *Handler) get(c *gin.Context) {
	job, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch job", nil)
		}
		return
	}
	respond.OK(c, toResponse(job))
}

func (h *Handler) listByCompany(c *gin.Context) {
	list, err := h.Svc.ListByCompany(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list jobs", nil)
		return
	}
	resp := make([]gin.H, 0, len(list))
	for _, job := range list {
		resp = append(resp, toResponse(job))
	}
	respond.OK(c, resp)
}

func toResponse(job Job) gin.H {
	return gin.H{
		"jobId":       job.ID,
		"companyId":   job.CompanyID,
		"title":       job.Title,
		"description": job.Description,
		"isActive":    job.IsActive,
		"createdAt":   job.CreatedAt.Format(time.RFC3339),
	}
}
