package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/common"

	"github.com/farconic/custody-api/internal/logger"
)

const (
	// HeaderCallerAddress carries the account the gateway authenticated; the
	// core treats it as the caller identity on every mutating operation.
	HeaderCallerAddress = "X-Caller-Address"

	// HeaderRequestID is echoed back (or generated) for log correlation.
	HeaderRequestID = "X-Request-ID"

	callerContextKey = "callerAddress"
)

// shouldSkipLogging determines if request logging should be skipped for a given path
func shouldSkipLogging(path string) bool {
	return path == "/health"
}

// RequestLoggerMiddleware tags every request with an id and logs it after
// completion with latency and status.
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(HeaderRequestID, requestID)

		start := time.Now()
		c.Next()

		if shouldSkipLogging(c.Request.URL.Path) {
			return
		}
		logger.Log.Info("request completed",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// CallerMiddleware parses the caller address header when present and stashes
// it on the context. Endpoints that require a caller use requireCaller.
func CallerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderCallerAddress)
		if raw != "" {
			if !common.IsHexAddress(raw) {
				sendError(c, http.StatusBadRequest, "Invalid caller address header", nil)
				c.Abort()
				return
			}
			c.Set(callerContextKey, common.HexToAddress(raw))
		}
		c.Next()
	}
}

// requireCaller returns the authenticated caller or writes a 401 and reports
// false.
func requireCaller(c *gin.Context) (common.Address, bool) {
	v, ok := c.Get(callerContextKey)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Caller address header is required", nil)
		return common.Address{}, false
	}
	return v.(common.Address), true
}
