package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldErrors is the validation failure body: labels of empty required
// fields and labels of fields that failed a format check.
type FieldErrors struct {
	Missing []string `json:"missing"`
	Invalid []string `json:"invalid"`
	Message string   `json:"message"`
}

// OK sends a 200 JSON response with the given body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 JSON response with the given body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// ValidationFailed sends 400 with per-field missing/invalid labels.
func ValidationFailed(c *gin.Context, missing, invalid []string, msg string) {
	if missing == nil {
		missing = []string{}
	}
	if invalid == nil {
		invalid = []string{}
	}
	c.JSON(http.StatusBadRequest, FieldErrors{Missing: missing, Invalid: invalid, Message: msg})
}

// BadRequest sends 400 with a message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"message": msg})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"message": msg})
}

// NotFound sends 404.
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"message": msg})
}

// PaymentRequired sends 402 (payment session not completed).
func PaymentRequired(c *gin.Context, msg string) {
	c.JSON(http.StatusPaymentRequired, gin.H{"message": msg})
}

// TooManyRequests sends 429.
func TooManyRequests(c *gin.Context, msg string) {
	c.JSON(http.StatusTooManyRequests, gin.H{"message": msg})
}

// Internal sends 500.
func Internal(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": msg})
}

// BadGateway sends 502 (upstream payment processor failure).
func BadGateway(c *gin.Context, msg string) {
	c.JSON(http.StatusBadGateway, gin.H{"message": msg})
}
