package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/semzi/sledge/internal/models"
	"github.com/semzi/sledge/pkg/response"
)

// AdminStore is the account lookup the handler needs.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// Sessions is the server-side session lifecycle the handler needs.
type Sessions interface {
	Put(ctx context.Context, jti string, sess Session, ttl time.Duration) error
	Delete(ctx context.Context, jti string) error
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handler handles admin auth endpoints.
type Handler struct {
	repo     AdminStore
	jwt      *JWTService
	sessions Sessions
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo AdminStore, jwt *JWTService, sessions Sessions, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, sessions: sessions, logger: logger}
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	admin, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("admin lookup failed", zap.Error(err))
		}
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if !CheckPassword(req.Password, admin.PasswordHash) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, jti, err := h.jwt.Generate(admin.ID, admin.Email)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		response.Internal(c, "failed to create session")
		return
	}
	sess := Session{AdminID: admin.ID, Email: admin.Email, IssuedAt: time.Now()}
	if err := h.sessions.Put(c.Request.Context(), jti, sess, h.jwt.TTL()); err != nil {
		h.logger.Error("session store failed", zap.Error(err))
		response.Internal(c, "failed to create session")
		return
	}

	response.OK(c, gin.H{
		"success": true,
		"token":   token,
		"admin": gin.H{
			"id":        admin.ID,
			"email":     admin.Email,
			"full_name": admin.FullName,
		},
	})
}

// Logout handles POST /api/auth/logout. Deletes the session so the token
// stops working immediately.
func (h *Handler) Logout(c *gin.Context) {
	jti := c.GetString("session_id")
	if jti == "" {
		response.Unauthorized(c, "missing session")
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), jti); err != nil {
		h.logger.Error("session delete failed", zap.Error(err))
		response.Internal(c, "failed to end session")
		return
	}
	response.OK(c, gin.H{"success": true})
}
