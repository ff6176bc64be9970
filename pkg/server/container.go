package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mathexp-api/internal/config"
	"mathexp-api/internal/evaluator"
	"mathexp-api/internal/metrics"
	"mathexp-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Evaluator         *evaluator.ExprEvaluator
	CalculatorService services.CalculatorService

	// MetricsHandler serves the registry passed to NewContainer; nil without one
	MetricsHandler http.Handler
}

// NewContainer creates a new dependency injection container.
// When registry is nil, evaluation metrics are discarded.
func NewContainer(cfg *config.Config, registry *prometheus.Registry) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	eval := evaluator.New(evaluator.Options{
		MaxLength: cfg.Evaluator.MaxExpressionLength,
		CacheSize: cfg.Evaluator.CacheSize,
	})

	var recorder metrics.Recorder = metrics.NopRecorder{}
	var metricsHandler http.Handler
	if registry != nil {
		promRecorder, err := metrics.NewPrometheusRecorder(registry)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		recorder = promRecorder
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	calculatorService, err := services.NewCalculatorService(eval, services.CalculatorOptions{
		ErrorPolicy: cfg.Evaluator.ErrorPolicy,
		Recorder:    recorder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator service: %w", err)
	}

	return &Container{
		Config:            cfg,
		Evaluator:         eval,
		CalculatorService: calculatorService,
		MetricsHandler:    metricsHandler,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Evaluator != nil {
		c.Evaluator.ClearCache()
	}
	return nil
}
