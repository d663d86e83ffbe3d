package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/semzi/sledge/config"
	"github.com/semzi/sledge/internal/checkout"
	"github.com/semzi/sledge/internal/models"
	"github.com/semzi/sledge/pkg/metrics"
	"github.com/semzi/sledge/pkg/response"
)

// SessionIDPlaceholder is substituted by the processor when redirecting
// back to the success URL.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// Store persists registrations.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
}

// PaymentStore persists the payment row created alongside a session.
type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
}

// CheckoutService opens hosted checkout sessions.
type CheckoutService interface {
	CreateSession(ctx context.Context, req checkout.SessionRequest) (*checkout.Session, error)
}

// SummaryCache stores the receipt snapshot shown while payment is pending.
type SummaryCache interface {
	Put(ctx context.Context, registrationID int64, s models.ReceiptSummary) error
}

// Handler handles the registration submission endpoint.
type Handler struct {
	repo     Store
	payments PaymentStore
	checkout CheckoutService
	cache    SummaryCache
	program  config.ProgramConfig
	redirect config.CheckoutConfig
	logger   *zap.Logger
}

// NewHandler creates a registration handler.
func NewHandler(repo Store, payments PaymentStore, co CheckoutService, cache SummaryCache,
	program config.ProgramConfig, redirect config.CheckoutConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo:     repo,
		payments: payments,
		checkout: co,
		cache:    cache,
		program:  program,
		redirect: redirect,
		logger:   logger,
	}
}

// Register handles POST /api/register. A valid draft produces exactly one
// registration row and one checkout session; there is no retry, so a
// failed handoff needs a fresh user-initiated submit.
func (h *Handler) Register(c *gin.Context) {
	var draft Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if v := Validate(draft); !v.OK() {
		response.ValidationFailed(c, v.Missing, v.Invalid, "Please review the form and try again.")
		return
	}

	reg := &models.Registration{
		FullName:                  draft.FullName,
		Email:                     draft.Email,
		Phone:                     draft.Phone,
		Country:                   draft.Country,
		LinkedInURL:               draft.LinkedInURL,
		CurrentStatus:             draft.CurrentStatus,
		InstitutionOrOrganization: draft.InstitutionOrOrganization,
		FieldOrRole:               draft.FieldOrRole,
		HighestEducation:          draft.HighestEducation,
		Motivation:                draft.Motivation,
		EnergyInterest:            draft.EnergyInterest,
		PreviousExperience:        draft.PreviousExperience,
		ClarityToolsExpectation:   draft.ClarityToolsExpectation,
		Status:                    models.RegistrationPending,
	}
	if err := h.repo.Create(c.Request.Context(), reg); err != nil {
		h.logger.Error("create registration failed", zap.Error(err))
		response.Internal(c, "We couldn't submit your application. Please try again.")
		return
	}

	// Redirect targets come from config, never from the request body.
	successURL := fmt.Sprintf("%s?rid=%d&session_id=%s", h.redirect.SuccessURL, reg.ID, SessionIDPlaceholder)
	sess, err := h.checkout.CreateSession(c.Request.Context(), checkout.SessionRequest{
		Amount:      h.program.Fee,
		Currency:    h.program.Currency,
		Reference:   fmt.Sprintf("%d", reg.ID),
		Description: "Sledge Mentorship Program - Cohort " + h.program.Cohort,
		SuccessURL:  successURL,
		CancelURL:   h.redirect.CancelURL,
	})
	if err != nil {
		h.logger.Error("checkout session failed", zap.Error(err), zap.Int64("registration_id", reg.ID))
		response.BadGateway(c, "We couldn't start the payment checkout. Please try again.")
		return
	}

	payment := &models.Payment{
		RegistrationID:    reg.ID,
		CheckoutSessionID: sess.ID,
		Subtotal:          h.program.Fee,
		Total:             h.program.Fee,
		Currency:          h.program.Currency,
		Status:            models.PaymentCreated,
	}
	if err := h.payments.Create(c.Request.Context(), payment); err != nil {
		h.logger.Error("create payment failed", zap.Error(err), zap.Int64("registration_id", reg.ID))
		response.Internal(c, "We couldn't submit your application. Please try again.")
		return
	}

	summary := models.ReceiptSummary{
		Name:      reg.FullName,
		Email:     reg.Email,
		Cohort:    h.program.Cohort,
		Subtotal:  h.program.Fee,
		Total:     h.program.Fee,
		Currency:  h.program.Currency,
		CreatedAt: time.Now(),
	}
	if err := h.cache.Put(c.Request.Context(), reg.ID, summary); err != nil {
		// The receipt can still be built from the database later.
		h.logger.Warn("receipt summary cache failed", zap.Error(err), zap.Int64("registration_id", reg.ID))
	}

	metrics.RegistrationsTotal.Inc()
	h.logger.Info("registration handed off to checkout",
		zap.Int64("registration_id", reg.ID),
		zap.String("checkout_session_id", sess.ID))

	response.OK(c, gin.H{
		"checkout_url":        sess.URL,
		"registration_id":     reg.ID,
		"checkout_session_id": sess.ID,
	})
}
