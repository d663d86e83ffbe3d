package payments

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/semzi/sledge/internal/checkout"
	"github.com/semzi/sledge/internal/models"
	"github.com/semzi/sledge/pkg/metrics"
	"github.com/semzi/sledge/pkg/queue"
	"github.com/semzi/sledge/pkg/response"
)

// Store is the payment persistence the handler needs.
type Store interface {
	GetBySession(ctx context.Context, registrationID int64, sessionID string) (*models.Payment, error)
	Complete(ctx context.Context, paymentID, registrationID int64) error
}

// RegistrationStore looks up the registration being verified.
type RegistrationStore interface {
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
}

// SessionChecker reads session state from the payment processor.
type SessionChecker interface {
	GetSession(ctx context.Context, sessionID string) (*checkout.Session, error)
}

// EmailQueue enqueues the confirmation email after a verified payment.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

// Handler handles payment verification.
type Handler struct {
	store    Store
	regs     RegistrationStore
	checkout SessionChecker
	emails   EmailQueue
	logger   *zap.Logger
}

// NewHandler creates a payments handler.
func NewHandler(store Store, regs RegistrationStore, co SessionChecker, emails EmailQueue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, regs: regs, checkout: co, emails: emails, logger: logger}
}

// Verify handles GET /api/verify-payment?rid&session_id. Read-only from
// the caller's perspective: re-invoking after success returns success
// again without touching the processor.
func (h *Handler) Verify(c *gin.Context) {
	ridStr := c.Query("rid")
	sessionID := c.Query("session_id")
	if ridStr == "" || sessionID == "" {
		// Fail fast; the processor is never contacted without both ids.
		response.BadRequest(c, "rid and session_id are required")
		return
	}
	rid, err := strconv.ParseInt(ridStr, 10, 64)
	if err != nil || rid <= 0 {
		response.BadRequest(c, "invalid registration id")
		return
	}

	ctx := c.Request.Context()
	payment, err := h.store.GetBySession(ctx, rid, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "payment session not found")
			return
		}
		h.logger.Error("payment lookup failed", zap.Error(err), zap.Int64("rid", rid))
		response.Internal(c, "payment verification failed")
		return
	}

	if payment.Status == models.PaymentCompleted {
		response.OK(c, gin.H{"success": true, "registration_status": models.RegistrationVerified})
		return
	}

	sess, err := h.checkout.GetSession(ctx, sessionID)
	if err != nil {
		h.logger.Error("checkout session lookup failed", zap.Error(err), zap.String("session_id", sessionID))
		response.BadGateway(c, "payment verification failed")
		return
	}
	if !sess.Paid() {
		response.PaymentRequired(c, "payment has not been completed")
		return
	}

	if err := h.store.Complete(ctx, payment.ID, rid); err != nil {
		h.logger.Error("payment completion failed", zap.Error(err), zap.Int64("payment_id", payment.ID))
		response.Internal(c, "payment verification failed")
		return
	}
	metrics.PaymentsVerifiedTotal.Inc()

	reg, err := h.regs.GetByID(ctx, rid)
	if err == nil {
		payload := queue.EmailPayload{
			EmailType:      queue.EmailTypePaymentConfirmation,
			RegistrationID: rid,
			RecipientEmail: reg.Email,
			Subject:        "Your Sledge Mentorship payment is confirmed",
			Body: "Hi " + reg.FullName + ",\n\nYour payment has been confirmed and your spot is secured. " +
				"You can download your receipt from the payment receipt page.\n\nSledge Mentorship",
		}
		if err := h.emails.EnqueueEmail(ctx, payload); err != nil {
			h.logger.Warn("confirmation email enqueue failed", zap.Error(err), zap.Int64("rid", rid))
		}
	}

	h.logger.Info("payment verified", zap.Int64("rid", rid), zap.String("session_id", sessionID))
	response.OK(c, gin.H{"success": true, "registration_status": models.RegistrationVerified})
}
