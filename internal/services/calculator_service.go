package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"mathexp-api/internal/config"
	"mathexp-api/internal/evaluator"
	"mathexp-api/internal/logging"
	"mathexp-api/internal/metrics"
	"mathexp-api/internal/models"
)

// CalculatorOptions configures a calculator service
type CalculatorOptions struct {
	// ErrorPolicy is config.ErrorPolicyRespond or config.ErrorPolicyFail
	ErrorPolicy string
	Recorder    metrics.Recorder
}

type calculatorService struct {
	evaluator   evaluator.Evaluator
	errorPolicy string
	recorder    metrics.Recorder
}

// NewCalculatorService creates a calculator service backed by eval
func NewCalculatorService(eval evaluator.Evaluator, opts CalculatorOptions) (CalculatorService, error) {
	if eval == nil {
		return nil, fmt.Errorf("evaluator cannot be nil")
	}

	switch opts.ErrorPolicy {
	case "":
		opts.ErrorPolicy = config.ErrorPolicyRespond
	case config.ErrorPolicyRespond, config.ErrorPolicyFail:
	default:
		return nil, fmt.Errorf("unknown error policy %q", opts.ErrorPolicy)
	}

	if opts.Recorder == nil {
		opts.Recorder = metrics.NopRecorder{}
	}

	return &calculatorService{
		evaluator:   eval,
		errorPolicy: opts.ErrorPolicy,
		recorder:    opts.Recorder,
	}, nil
}

func (s *calculatorService) Calculate(ctx context.Context, event *models.Event) (*models.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)

	if event != nil {
		logger.WithFields(logrus.Fields{
			"httpMethod": event.HTTPMethod,
			"mathExp":    event.MathExp,
		}).Debug("Received event")

		if err := event.Validate(); err != nil {
			logger.WithFields(logrus.Fields{
				"httpMethod":        event.HTTPMethod,
				"validation_errors": models.FormatValidationErrors(err),
			}).Warn("Invalid event, returning fallback")
		}
	}

	if !event.IsEvaluable() {
		s.recorder.ObserveEvaluation(metrics.OutcomeFallback, 0)
		return models.FallbackResponse(), nil
	}

	logger.WithField("mathExp", event.MathExp).Info("Evaluating expression")

	start := time.Now()
	result, err := s.evaluator.Evaluate(event.MathExp)
	elapsed := time.Since(start)

	if err != nil {
		s.recorder.ObserveEvaluation(metrics.OutcomeError, elapsed)
		logger.WithFields(logrus.Fields{
			"mathExp":      event.MathExp,
			"error":        err.Error(),
			"error_policy": s.errorPolicy,
		}).Warn("Expression evaluation failed")

		if s.errorPolicy == config.ErrorPolicyFail {
			return nil, err
		}
		return &models.Response{Result: 0, Error: err.Error()}, nil
	}

	s.recorder.ObserveEvaluation(metrics.OutcomeSuccess, elapsed)
	logger.WithFields(logrus.Fields{
		"result":     result,
		"latency_ms": float64(elapsed.Nanoseconds()) / 1000000,
	}).Debug("Expression evaluated")

	return &models.Response{Result: result}, nil
}
