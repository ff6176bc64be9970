// Package logging configures logrus and carries per-request log fields through a context.
package logging

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"mathexp-api/internal/config"
)

type contextKey struct{}

// Configure applies the level and format from cfg to the standard logrus logger
func Configure(cfg config.LogConfig, out io.Writer) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logrus.SetLevel(level)

	switch cfg.Format {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if out != nil {
		logrus.SetOutput(out)
	}
	return nil
}

// WithFields returns a copy of ctx carrying fields for FromContext
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	merged := logrus.Fields{}
	if existing, ok := ctx.Value(contextKey{}).(logrus.Fields); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, contextKey{}, merged)
}

// FromContext returns a log entry with the fields stored in ctx.
// Inside Lambda the AWS request ID is added automatically.
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if ctx == nil {
		return entry
	}

	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		entry = entry.WithField("aws_request_id", lc.AwsRequestID)
	}
	if fields, ok := ctx.Value(contextKey{}).(logrus.Fields); ok {
		entry = entry.WithFields(fields)
	}
	return entry
}
