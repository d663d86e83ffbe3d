package schedule

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/semzi/sledge/internal/models"
	"github.com/semzi/sledge/pkg/response"
)

// Store is the persistence the handler needs.
type Store interface {
	List(ctx context.Context) ([]models.ScheduleItem, error)
	Create(ctx context.Context, it *models.ScheduleItem) error
	Update(ctx context.Context, it *models.ScheduleItem) error
	Delete(ctx context.Context, id int64) error
}

// ItemRequest is the body for schedule create/update.
type ItemRequest struct {
	Week             int    `json:"week"`
	Theme            string `json:"theme"`
	KeyLearningFocus string `json:"key_learning_focus"`
	Facilitator      string `json:"facilitator"`
	TentativeDate    string `json:"tentative_date"`
}

// Handler handles schedule endpoints.
type Handler struct {
	repo   Store
	logger *zap.Logger
}

// NewHandler creates a schedule handler.
func NewHandler(repo Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/schedule.
func (h *Handler) List(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list schedule failed", zap.Error(err))
		response.Internal(c, "failed to load schedule")
		return
	}
	response.OK(c, gin.H{"items": items})
}

// Create handles POST /api/schedule.
func (h *Handler) Create(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.Week < 1 || strings.TrimSpace(req.Theme) == "" {
		response.BadRequest(c, "week and theme are required")
		return
	}
	item := &models.ScheduleItem{
		Week:             req.Week,
		Theme:            req.Theme,
		KeyLearningFocus: req.KeyLearningFocus,
		Facilitator:      req.Facilitator,
		TentativeDate:    req.TentativeDate,
	}
	if err := h.repo.Create(c.Request.Context(), item); err != nil {
		h.logger.Error("create schedule item failed", zap.Error(err))
		response.Internal(c, "failed to save schedule item")
		return
	}
	response.Created(c, gin.H{"success": true, "id": item.ID})
}

// Update handles PUT /api/schedule/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid schedule id")
		return
	}
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.Week < 1 || strings.TrimSpace(req.Theme) == "" {
		response.BadRequest(c, "week and theme are required")
		return
	}
	item := &models.ScheduleItem{
		ID:               id,
		Week:             req.Week,
		Theme:            req.Theme,
		KeyLearningFocus: req.KeyLearningFocus,
		Facilitator:      req.Facilitator,
		TentativeDate:    req.TentativeDate,
	}
	if err := h.repo.Update(c.Request.Context(), item); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "schedule item not found")
			return
		}
		h.logger.Error("update schedule item failed", zap.Error(err), zap.Int64("id", id))
		response.Internal(c, "failed to save schedule item")
		return
	}
	response.OK(c, gin.H{"success": true})
}

// Delete handles DELETE /api/schedule/:id. Non-numeric and non-positive
// ids are rejected before any query runs.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		response.BadRequest(c, "invalid schedule id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "schedule item not found")
			return
		}
		h.logger.Error("delete schedule item failed", zap.Error(err), zap.Int64("id", id))
		response.Internal(c, "failed to delete schedule item")
		return
	}
	response.OK(c, gin.H{"success": true})
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
