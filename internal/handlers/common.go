package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farconic/custody-api/internal/auth"
	"github.com/farconic/custody-api/internal/domain"
	"github.com/farconic/custody-api/internal/executor"
	"github.com/farconic/custody-api/internal/logger"
	"github.com/farconic/custody-api/internal/signatures"
	"github.com/farconic/custody-api/internal/vault"
)

// HandlerClient holds the services the HTTP handlers delegate to.
type HandlerClient struct {
	executor  *executor.Service
	vault     *vault.Service
	authority *auth.AccessControl
	// signer is nil when the process runs without a signing key; the signing
	// endpoints return 503 in that case.
	signer *signatures.Signer
}

// NewHandlerClient creates a new instance of HandlerClient.
func NewHandlerClient(exec *executor.Service, vaultSvc *vault.Service, authority *auth.AccessControl, signer *signatures.Signer) *HandlerClient {
	return &HandlerClient{
		executor:  exec,
		vault:     vaultSvc,
		authority: authority,
		signer:    signer,
	}
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// sendError is a helper function that combines logging and error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleCoreError maps the core error taxonomy onto HTTP status codes.
func handleCoreError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrNotAuthorised):
		sendError(c, http.StatusForbidden, message, err)
	case errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrInvalidStakeIndex):
		sendError(c, http.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrInsufficientBalance):
		sendError(c, http.StatusConflict, message, err)
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrRequestExpired),
		errors.Is(err, domain.ErrArrayLengthMismatch),
		errors.Is(err, domain.ErrZeroQuantity),
		errors.Is(err, domain.ErrNoTokensToStake),
		errors.Is(err, domain.ErrMinimumStakePeriod),
		errors.Is(err, domain.ErrTokenNotAllowed),
		errors.Is(err, domain.ErrETHNotAccepted):
		sendError(c, http.StatusBadRequest, message, err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// sendSuccessMessage is a helper function that sends a success message
func sendSuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, SuccessResponse{Message: message})
}

// sendList is a helper function that sends a list response
func sendList(c *gin.Context, items interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   items,
	})
}
