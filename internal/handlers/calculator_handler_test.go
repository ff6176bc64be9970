package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"mathexp-api/internal/config"
	"mathexp-api/internal/models"
	"mathexp-api/internal/services"
	"mathexp-api/pkg/lambda"
	"mathexp-api/pkg/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(policy string) *config.Config {
	return &config.Config{
		Environment: "test",
		Port:        "8081",
		Log:         config.LogConfig{Level: "info", Format: "json"},
		Evaluator: config.EvaluatorConfig{
			MaxExpressionLength: 256,
			CacheSize:           32,
			ErrorPolicy:         policy,
		},
		HTTP: config.HTTPConfig{
			RateLimitRPS:    1000,
			RateLimitBurst:  1000,
			MaxRequestBytes: 4096,
		},
	}
}

func newTestRouter(t *testing.T, policy string) *gin.Engine {
	t.Helper()

	cfg := testConfig(policy)
	container, err := server.NewContainer(cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}

	router := gin.New()
	SetupMiddleware(router, cfg.HTTP)
	SetupRoutes(router, &RouterConfig{
		CalculatorService: container.CalculatorService,
		MetricsHandler:    container.MetricsHandler,
	})
	return router
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCalculatorHandler_Calculate(t *testing.T) {
	router := newTestRouter(t, config.ErrorPolicyRespond)

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantResult float64
		wantError  bool
	}{
		{name: "post addition", method: http.MethodPost, body: `{"mathExp":"2 + 3"}`, wantStatus: http.StatusOK, wantResult: 5},
		{name: "post sqrt", method: http.MethodPost, body: `{"mathExp":"sqrt(16)"}`, wantStatus: http.StatusOK, wantResult: 4},
		{name: "get returns fallback", method: http.MethodGet, wantStatus: http.StatusOK, wantResult: 0},
		{name: "options returns fallback", method: http.MethodOptions, wantStatus: http.StatusOK, wantResult: 0},
		{name: "put returns fallback", method: http.MethodPut, body: `{"mathExp":"2 + 3"}`, wantStatus: http.StatusOK, wantResult: 0},
		{name: "empty expression", method: http.MethodPost, body: `{"mathExp":""}`, wantStatus: http.StatusOK, wantResult: 0},
		{name: "empty body", method: http.MethodPost, wantStatus: http.StatusOK, wantResult: 0},
		{name: "division by zero", method: http.MethodPost, body: `{"mathExp":"1 / 0"}`, wantStatus: http.StatusUnprocessableEntity, wantError: true},
		{name: "malformed expression", method: http.MethodPost, body: `{"mathExp":"2 +"}`, wantStatus: http.StatusUnprocessableEntity, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, tt.method, "/api/v1/calculate", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var resp models.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if resp.Result != tt.wantResult {
				t.Errorf("result = %v, want %v", resp.Result, tt.wantResult)
			}
			if (resp.Error != "") != tt.wantError {
				t.Errorf("error = %q, wantError %v", resp.Error, tt.wantError)
			}
		})
	}
}

func TestCalculatorHandler_Calculate_InvalidBody(t *testing.T) {
	router := newTestRouter(t, config.ErrorPolicyRespond)

	rec := doRequest(router, http.MethodPost, "/api/v1/calculate", `{"mathExp":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCalculatorHandler_Calculate_FailPolicy(t *testing.T) {
	router := newTestRouter(t, config.ErrorPolicyFail)

	rec := doRequest(router, http.MethodPost, "/api/v1/calculate", `{"mathExp":"2 +"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" || resp.Message == "" {
		t.Errorf("unexpected error response: %+v", resp)
	}
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, config.ErrorPolicyRespond)

	if rec := doRequest(router, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}

	doRequest(router, http.MethodPost, "/api/v1/calculate", `{"mathExp":"1 + 1"}`)

	rec := doRequest(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mathexp_evaluations_total") {
		t.Error("metrics output missing mathexp_evaluations_total")
	}
}

func TestRoutes_RequestIDHeader(t *testing.T) {
	router := newTestRouter(t, config.ErrorPolicyRespond)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calculate", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("X-Request-ID = %q, want fixed-id", got)
	}
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected a generated X-Correlation-ID")
	}
}

// failingService always returns err
type failingService struct {
	err error
}

func (s *failingService) Calculate(ctx context.Context, event *models.Event) (*models.Response, error) {
	return nil, s.err
}

func newLambdaHandler(t *testing.T, policy string) *CalculatorHandler {
	t.Helper()
	container, err := server.NewContainer(testConfig(policy), nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewCalculatorHandler(container.CalculatorService)
}

func TestCalculatorHandler_HandleEvent(t *testing.T) {
	handler := newLambdaHandler(t, config.ErrorPolicyRespond)

	tests := []struct {
		name  string
		event models.Event
		want  float64
	}{
		{name: "scenario 1", event: models.Event{HTTPMethod: "POST", MathExp: "2 + 3"}, want: 5},
		{name: "scenario 2", event: models.Event{HTTPMethod: "GET", MathExp: "2 + 3"}, want: 0},
		{name: "scenario 3", event: models.Event{HTTPMethod: "POST", MathExp: ""}, want: 0},
		{name: "scenario 4", event: models.Event{HTTPMethod: "POST", MathExp: "sqrt(16)"}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := handler.HandleEvent(context.Background(), tt.event)
			if err != nil {
				t.Fatalf("HandleEvent() error = %v", err)
			}
			if resp.Result != tt.want {
				t.Errorf("result = %v, want %v", resp.Result, tt.want)
			}
		})
	}
}

func TestCalculatorHandler_HandleEvent_Errors(t *testing.T) {
	t.Run("respond policy answers with error message", func(t *testing.T) {
		handler := newLambdaHandler(t, config.ErrorPolicyRespond)
		resp, err := handler.HandleEvent(context.Background(), models.Event{HTTPMethod: "POST", MathExp: "1 / 0"})
		if err != nil {
			t.Fatalf("HandleEvent() error = %v", err)
		}
		if resp.Result != 0 || resp.Error == "" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("service error fails the invocation", func(t *testing.T) {
		wantErr := errors.New("evaluator exploded")
		handler := NewCalculatorHandler(&failingService{err: wantErr})
		if _, err := handler.HandleEvent(context.Background(), models.Event{HTTPMethod: "POST", MathExp: "1"}); !errors.Is(err, wantErr) {
			t.Errorf("error = %v, want %v", err, wantErr)
		}
	})
}

func TestCalculatorHandler_HandleCalculate(t *testing.T) {
	handler := newLambdaHandler(t, config.ErrorPolicyRespond)

	tests := []struct {
		name       string
		req        *lambda.Request
		wantStatus int
		wantResult float64
	}{
		{name: "post", req: &lambda.Request{Method: "POST", Body: []byte(`{"mathExp":"2 + 3"}`)}, wantStatus: 200, wantResult: 5},
		{name: "get", req: &lambda.Request{Method: "GET"}, wantStatus: 200, wantResult: 0},
		{name: "post without body", req: &lambda.Request{Method: "POST"}, wantStatus: 200, wantResult: 0},
		{name: "evaluation error", req: &lambda.Request{Method: "POST", Body: []byte(`{"mathExp":"x"}`)}, wantStatus: 422, wantResult: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := handler.HandleCalculate(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("HandleCalculate() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if resp.Headers["Content-Type"] != "application/json" {
				t.Errorf("Content-Type = %q", resp.Headers["Content-Type"])
			}

			var body models.Response
			if err := json.Unmarshal(resp.Body, &body); err != nil {
				t.Fatal(err)
			}
			if body.Result != tt.wantResult {
				t.Errorf("result = %v, want %v", body.Result, tt.wantResult)
			}
		})
	}
}

func TestCalculatorHandler_HandleCalculate_InvalidBody(t *testing.T) {
	handler := newLambdaHandler(t, config.ErrorPolicyRespond)

	resp, err := handler.HandleCalculate(context.Background(), &lambda.Request{Method: "POST", Body: []byte("not json")})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestCalculatorHandler_HandleCalculate_ServiceError(t *testing.T) {
	handler := NewCalculatorHandler(&failingService{err: errors.New("boom")})

	if _, err := handler.HandleCalculate(context.Background(), &lambda.Request{Method: "POST", Body: []byte(`{"mathExp":"1"}`)}); err == nil {
		t.Error("expected error")
	}
}

var _ services.CalculatorService = (*failingService)(nil)
