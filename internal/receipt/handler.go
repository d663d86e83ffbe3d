package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/semzi/sledge/config"
	"github.com/semzi/sledge/internal/models"
	"github.com/semzi/sledge/internal/payments"
	"github.com/semzi/sledge/internal/registration"
	"github.com/semzi/sledge/pkg/metrics"
	"github.com/semzi/sledge/pkg/response"
)

// RegistrationStore looks up the registration behind a receipt.
type RegistrationStore interface {
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
}

// PaymentStore looks up the payment behind a receipt.
type PaymentStore interface {
	GetLatestByRegistration(ctx context.Context, registrationID int64) (*models.Payment, error)
}

// Summaries reads the submit-time snapshot for still-pending payments.
type Summaries interface {
	Get(ctx context.Context, registrationID int64) (*models.ReceiptSummary, error)
}

// Handler serves receipt retrieval and PDF export.
type Handler struct {
	regs     RegistrationStore
	payments PaymentStore
	cache    Summaries
	program  config.ProgramConfig
	logger   *zap.Logger
}

// NewHandler creates a receipt handler.
func NewHandler(regs RegistrationStore, pay PaymentStore, cache Summaries,
	program config.ProgramConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{regs: regs, payments: pay, cache: cache, program: program, logger: logger}
}

// receiptRequest accepts rid as either a JSON number or a numeric string,
// since the page lifts it straight from the query string.
type receiptRequest struct {
	RID flexibleID `json:"rid"`
}

type flexibleID int64

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", s)
		}
		*f = flexibleID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n)
	return nil
}

// Fetch handles POST /api/receipt with body {rid}.
func (h *Handler) Fetch(c *gin.Context) {
	var req receiptRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RID <= 0 {
		response.BadRequest(c, "a valid rid is required")
		return
	}

	record, err := h.buildRecord(c.Request.Context(), int64(req.RID))
	if err != nil {
		if errors.Is(err, registration.ErrNotFound) || errors.Is(err, payments.ErrNotFound) {
			response.NotFound(c, "receipt not found")
			return
		}
		h.logger.Error("build receipt failed", zap.Error(err), zap.Int64("rid", int64(req.RID)))
		response.Internal(c, "failed to load receipt")
		return
	}
	response.OK(c, record)
}

// ExportPDF handles GET /api/receipt/pdf?rid. The PDF is only composed
// after the record loads successfully; there is no partial document.
func (h *Handler) ExportPDF(c *gin.Context) {
	rid, err := strconv.ParseInt(c.Query("rid"), 10, 64)
	if err != nil || rid <= 0 {
		response.BadRequest(c, "a valid rid is required")
		return
	}

	record, err := h.buildRecord(c.Request.Context(), rid)
	if err != nil {
		if errors.Is(err, registration.ErrNotFound) || errors.Is(err, payments.ErrNotFound) {
			response.NotFound(c, "receipt not found")
			return
		}
		h.logger.Error("build receipt failed", zap.Error(err), zap.Int64("rid", rid))
		response.Internal(c, "failed to load receipt")
		return
	}

	pdf, err := Render(*record)
	if err != nil {
		h.logger.Error("render receipt pdf failed", zap.Error(err), zap.Int64("rid", rid))
		response.Internal(c, "failed to export receipt")
		return
	}
	metrics.ReceiptsExportedTotal.Inc()

	c.Header("Content-Disposition", `attachment; filename="`+Filename(time.Now())+`"`)
	c.Data(200, "application/pdf", pdf)
}

// buildRecord assembles the receipt from the database, falling back to
// the submit-time cache while the payment row is still settling.
func (h *Handler) buildRecord(ctx context.Context, rid int64) (*models.ReceiptRecord, error) {
	reg, err := h.regs.GetByID(ctx, rid)
	if err != nil {
		return nil, err
	}

	payment, err := h.payments.GetLatestByRegistration(ctx, rid)
	if err != nil && !errors.Is(err, payments.ErrNotFound) {
		return nil, err
	}
	if err == nil {
		when := payment.CreatedAt
		if payment.CompletedAt != nil {
			when = *payment.CompletedAt
		}
		return h.record(reg.FullName, reg.Email, when, payment.Subtotal.StringFixed(2),
			payment.Total.StringFixed(2), payment.Currency, string(reg.Status)), nil
	}

	summary, err := h.cache.Get(ctx, rid)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, payments.ErrNotFound
	}
	return h.record(summary.Name, summary.Email, summary.CreatedAt,
		summary.Subtotal.StringFixed(2), summary.Total.StringFixed(2),
		summary.Currency, string(reg.Status)), nil
}

func (h *Handler) record(name, email string, when time.Time, subtotal, total, currency, status string) *models.ReceiptRecord {
	cohort := h.program.Cohort
	return &models.ReceiptRecord{
		Name:               &name,
		Email:              &email,
		DateTime:           when.Format(time.RFC3339),
		Cohort:             &cohort,
		Subtotal:           subtotal,
		Total:              total,
		Currency:           currency,
		RegistrationStatus: &status,
	}
}
