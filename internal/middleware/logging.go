package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mathexp-api/internal/logging"
)

// RequestIDKey is the key used to store request ID in context
const RequestIDKey = "request_id"

// CorrelationIDKey is the key used to store correlation ID in context
const CorrelationIDKey = "correlation_id"

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return idMiddleware("X-Request-ID", RequestIDKey)
}

// CorrelationID middleware adds correlation ID for distributed tracing
func CorrelationID() gin.HandlerFunc {
	return idMiddleware("X-Correlation-ID", CorrelationIDKey)
}

// idMiddleware copies or generates an ID, echoes it as a header and makes it
// available to both gin handlers and context-based loggers
func idMiddleware(header, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(key, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(logging.WithFields(c.Request.Context(), logrus.Fields{key: id}))
		c.Next()
	}
}

// StructuredLogger provides structured logging with request context
func StructuredLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Capture small request bodies for debug logging
		var requestBody []byte
		if gin.Mode() == gin.DebugMode && c.Request.Body != nil && c.Request.ContentLength > 0 && c.Request.ContentLength < 1024*10 {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"request_id":     c.GetString(RequestIDKey),
			"correlation_id": c.GetString(CorrelationIDKey),
			"method":         c.Request.Method,
			"path":           path,
			"status_code":    c.Writer.Status(),
			"latency_ms":     float64(latency.Nanoseconds()) / 1000000,
			"client_ip":      c.ClientIP(),
			"user_agent":     c.Request.UserAgent(),
			"response_size":  c.Writer.Size(),
		}

		if raw != "" {
			fields["query"] = raw
		}

		if len(requestBody) > 0 {
			fields["request_body"] = string(requestBody)
		}

		switch {
		case c.Writer.Status() >= 500:
			logrus.WithFields(fields).Error("Server error")
		case c.Writer.Status() >= 400:
			logrus.WithFields(fields).Warn("Client error")
		default:
			logrus.WithFields(fields).Info("Request completed")
		}
	}
}

// PerformanceMonitor logs slow requests
func PerformanceMonitor(slowThreshold time.Duration) gin.HandlerFunc {
	if slowThreshold == 0 {
		slowThreshold = 1 * time.Second
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		if latency > slowThreshold {
			logrus.WithFields(logrus.Fields{
				"performance_alert": true,
				"request_id":        c.GetString(RequestIDKey),
				"method":            c.Request.Method,
				"path":              c.Request.URL.Path,
				"latency_ms":        float64(latency.Nanoseconds()) / 1000000,
				"threshold_ms":      float64(slowThreshold.Nanoseconds()) / 1000000,
				"status_code":       c.Writer.Status(),
			}).Warn("Slow request detected")
		}
	}
}

// ErrorTracker logs errors attached to the gin context
func ErrorTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			logrus.WithFields(logrus.Fields{
				"error_tracking": true,
				"request_id":     c.GetString(RequestIDKey),
				"correlation_id": c.GetString(CorrelationIDKey),
				"method":         c.Request.Method,
				"path":           c.Request.URL.Path,
				"error_message":  err.Error(),
				"status_code":    c.Writer.Status(),
			}).Error("Error tracked")
		}
	}
}
