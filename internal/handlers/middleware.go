package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suyash01/expensehub/internal/auth"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// requestID tags every request with an id, reusing the client's when sent.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic",
			zap.Any("recovered", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_SERVER_ERROR", "message": "internal server error"},
		})
	})
}

// resolveCaller looks the session up once and stores the caller, if any,
// on the request context for the guards.
func (h *Handler) resolveCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok, err := h.resolver.Resolve(c.Request.Context(), c.Request.Header)
		if err != nil {
			h.fail(c, err)
			return
		}
		if ok {
			c.Request = c.Request.WithContext(auth.WithCaller(c.Request.Context(), caller))
		}
		c.Next()
	}
}

func (h *Handler) requireGuard(g auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := g(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}
