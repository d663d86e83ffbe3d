package admin

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/semzi/sledge/internal/models"
	"github.com/semzi/sledge/pkg/paginate"
	"github.com/semzi/sledge/pkg/response"
)

// Store is the query surface the handler needs.
type Store interface {
	ListRegistrations(ctx context.Context, p paginate.Params) ([]models.Registration, int, error)
	Dashboard(ctx context.Context) (*Summary, error)
	LookupReceipt(ctx context.Context, email string) (int64, error)
}

// Handler handles admin dashboard endpoints.
type Handler struct {
	repo   Store
	logger *zap.Logger
}

// NewHandler creates an admin handler.
func NewHandler(repo Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListRegistrations handles GET /api/admin/registrations?page&limit&q.
func (h *Handler) ListRegistrations(c *gin.Context) {
	p := paginate.ParseParams(c.Query("page"), c.Query("limit"), c.Query("q"))
	items, total, err := h.repo.ListRegistrations(c.Request.Context(), p)
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "failed to load registrations")
		return
	}
	response.OK(c, paginate.Envelope{Items: items, Page: p.Page, Limit: p.Limit, Total: total})
}

// Dashboard handles GET /api/admin/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	summary, err := h.repo.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("dashboard aggregates failed", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	response.OK(c, summary)
}

// lookupRequest is the body for POST /api/admin/receipts/lookup.
type lookupRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LookupReceipt handles POST /api/admin/receipts/lookup.
func (h *Handler) LookupReceipt(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "a valid email is required")
		return
	}
	id, err := h.repo.LookupReceipt(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "no verified registration for that email")
			return
		}
		h.logger.Error("receipt lookup failed", zap.Error(err))
		response.Internal(c, "receipt lookup failed")
		return
	}
	response.OK(c, gin.H{"success": true, "registration_id": id})
}
