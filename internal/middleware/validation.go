package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

func abortWithError(c *gin.Context, status int, title, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     title,
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// RateLimiter implements rate limiting middleware
func RateLimiter(requestsPerSecond float64, burstSize int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			logrus.WithFields(logrus.Fields{
				"request_id": c.GetString(RequestIDKey),
				"client_ip":  c.ClientIP(),
				"path":       c.Request.URL.Path,
				"user_agent": c.Request.UserAgent(),
			}).Warn("Rate limit exceeded")

			abortWithError(c, http.StatusTooManyRequests, "Rate limit exceeded",
				fmt.Sprintf("Too many requests. Limit: %.1f requests per second", requestsPerSecond))
			return
		}
		c.Next()
	}
}

// ContentTypeValidation validates the content type of requests that carry a body
func ContentTypeValidation(allowedTypes ...string) gin.HandlerFunc {
	if len(allowedTypes) == 0 {
		allowedTypes = []string{"application/json"}
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		contentType := c.GetHeader("Content-Type")
		if contentType == "" {
			abortWithError(c, http.StatusBadRequest, "Missing Content-Type header", "Content-Type header is required")
			return
		}

		// Extract main content type (ignore charset, boundary, etc.)
		mainType := strings.TrimSpace(strings.Split(contentType, ";")[0])

		for _, allowedType := range allowedTypes {
			if mainType == allowedType {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusUnsupportedMediaType, "Unsupported Content-Type",
			fmt.Sprintf("Content-Type '%s' is not supported. Allowed types: %v", mainType, allowedTypes))
	}
}

// RequestSizeLimit limits the size of request bodies
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			abortWithError(c, http.StatusRequestEntityTooLarge, "Request too large",
				fmt.Sprintf("Request body size (%d bytes) exceeds maximum allowed size (%d bytes)", c.Request.ContentLength, maxSize))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
