package lead

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gharinto/internal/domain"
	"gharinto/internal/middleware"
	"gharinto/internal/pkg/response"
	"gharinto/internal/pkg/validator"
	"gharinto/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the unauthenticated intake endpoint; the
// website lead form posts here without a session.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/leads", h.Create)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/leads", middleware.RequirePermission(domain.PermLeadsView), h.List)
	protected.GET("/leads/:id", middleware.RequirePermission(domain.PermLeadsView), h.Get)
	protected.PUT("/leads/:id", middleware.RequirePermission(domain.PermLeadsEdit), h.Update)
	protected.POST("/leads/:id/assign", middleware.RequirePermission(domain.PermLeadsAssign), h.Assign)
	protected.POST("/leads/:id/convert", middleware.RequirePermission(domain.PermLeadsConvert), h.Convert)
	protected.GET("/analytics/leads", middleware.RequirePermission(domain.PermAnalyticsView), h.Analytics)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := validator.Fields(err); fields != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", fields)
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	l, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, l)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

func (h *Handler) List(c *gin.Context) {
	f := repository.LeadFilter{}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PageSize, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if v := c.Query("status"); v != "" {
		status := domain.LeadStatus(v)
		f.Status = &status
	}
	if v := c.Query("city"); v != "" {
		f.City = &v
	}
	if v := c.Query("minScore"); v != "" {
		minScore, err := strconv.Atoi(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "minScore must be an integer")
			return
		}
		f.MinScore = &minScore
	}

	leads, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ListLeadsResponse{Leads: leads, Total: total})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	l, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Assign(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "assignedTo is required")
		return
	}

	l, err := h.service.Assign(c.Request.Context(), id, req.AssignedTo)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Convert(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req ConvertLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "projectTitle and a positive budget are required")
		return
	}

	l, project, warning, err := h.service.Convert(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ConvertLeadResponse{
		Message: "Lead converted successfully",
		Lead:    ConvertedLead{ID: l.ID, Status: l.Status},
		Project: CreatedProject{
			ID:        project.ID,
			Title:     project.Title,
			CreatedAt: project.CreatedAt.Format(time.RFC3339),
		},
		BudgetWarning: warning,
	})
}

func (h *Handler) Analytics(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrStaffNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Staff member not found")
	case errors.Is(err, ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Assignee must be a designer or project manager")
	case errors.Is(err, ErrTerminalState):
		response.Error(c, http.StatusConflict, "TERMINAL_STATE", "Lead is already converted or lost")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Lead state does not allow this operation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error")
	}
}

func leadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return 0, false
	}
	return id, true
}
