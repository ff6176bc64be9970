package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"mathexp-api/internal/config"
	"mathexp-api/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Port:        "8081",
		Log:         config.LogConfig{Level: "info", Format: "json"},
		Evaluator: config.EvaluatorConfig{
			MaxExpressionLength: 128,
			CacheSize:           16,
			ErrorPolicy:         config.ErrorPolicyRespond,
		},
	}
}

func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	defer container.Close()

	if container.CalculatorService == nil {
		t.Fatal("CalculatorService is nil")
	}
	if container.MetricsHandler != nil {
		t.Error("MetricsHandler should be nil without a registry")
	}

	resp, err := container.CalculatorService.Calculate(context.Background(), &models.Event{HTTPMethod: "POST", MathExp: "2 + 3"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Result != 5 {
		t.Errorf("Result = %v, want 5", resp.Result)
	}
}

func TestNewContainer_NilConfig(t *testing.T) {
	if _, err := NewContainer(nil, nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestNewContainer_BadErrorPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Evaluator.ErrorPolicy = "ignore"
	if _, err := NewContainer(cfg, nil); err == nil {
		t.Error("expected error for unknown error policy")
	}
}

func TestNewContainer_Metrics(t *testing.T) {
	container, err := NewContainer(testConfig(), prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if container.MetricsHandler == nil {
		t.Fatal("MetricsHandler is nil")
	}

	if _, err := container.CalculatorService.Calculate(context.Background(), &models.Event{HTTPMethod: "POST", MathExp: "1 + 1"}); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	container.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `mathexp_evaluations_total{outcome="success"} 1`) {
		t.Errorf("metrics output missing success counter:\n%s", rec.Body.String())
	}
}

func TestContainer_Close(t *testing.T) {
	container, err := NewContainer(testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := container.Evaluator.Evaluate("1 + 1"); err != nil {
		t.Fatal(err)
	}
	if err := container.Close(); err != nil {
		t.Fatal(err)
	}
	if container.Evaluator.CacheSize() != 0 {
		t.Error("expected evaluator cache to be cleared")
	}
}
