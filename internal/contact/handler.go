package contact

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/semzi/sledge/internal/models"
	"github.com/semzi/sledge/pkg/queue"
	"github.com/semzi/sledge/pkg/response"
)

// Store persists contact messages.
type Store interface {
	Create(ctx context.Context, m *models.ContactMessage) error
}

// EmailQueue enqueues the admin notification.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

// Request is the body for POST /api/contact.
type Request struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// Handler handles the contact endpoint.
type Handler struct {
	repo       Store
	emails     EmailQueue
	adminInbox string
	logger     *zap.Logger
}

// NewHandler creates a contact handler.
func NewHandler(repo Store, emails EmailQueue, adminInbox string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, emails: emails, adminInbox: adminInbox, logger: logger}
}

// Submit handles POST /api/contact.
func (h *Handler) Submit(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		response.BadRequest(c, "full_name, email and message are required")
		return
	}

	msg := &models.ContactMessage{FullName: req.FullName, Email: req.Email, Message: req.Message}
	if err := h.repo.Create(c.Request.Context(), msg); err != nil {
		h.logger.Error("store contact message failed", zap.Error(err))
		response.Internal(c, "We couldn't send your message. Please try again.")
		return
	}

	if h.adminInbox != "" {
		payload := queue.EmailPayload{
			EmailType:      queue.EmailTypeContactNotification,
			RecipientEmail: h.adminInbox,
			Subject:        "New contact message from " + req.FullName,
			Body:           "From: " + req.FullName + " <" + req.Email + ">\n\n" + req.Message,
		}
		if err := h.emails.EnqueueEmail(c.Request.Context(), payload); err != nil {
			h.logger.Warn("contact notification enqueue failed", zap.Error(err))
		}
	}

	response.OK(c, gin.H{"success": true})
}
