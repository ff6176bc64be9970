package lambda

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"mathexp-api/internal/config"
)

func TestFromAPIGateway(t *testing.T) {
	req := FromAPIGateway(events.APIGatewayProxyRequest{
		HTTPMethod:            "POST",
		Path:                  "/calculate",
		Headers:               map[string]string{"Content-Type": "application/json"},
		QueryStringParameters: map[string]string{"debug": "1"},
		Body:                  `{"mathExp":"1"}`,
	})

	if req.Method != "POST" || req.Path != "/calculate" {
		t.Errorf("unexpected request: %+v", req)
	}
	if string(req.Body) != `{"mathExp":"1"}` {
		t.Errorf("Body = %s", req.Body)
	}
	if req.QueryParams["debug"] != "1" {
		t.Errorf("QueryParams = %v", req.QueryParams)
	}
}

func TestResponse_ToAPIGateway(t *testing.T) {
	resp := &Response{StatusCode: 200, Headers: JSONHeaders(), Body: []byte(`{"result":5}`)}
	got := resp.ToAPIGateway()
	if got.StatusCode != 200 || got.Body != `{"result":5}` || got.Headers["Content-Type"] != "application/json" {
		t.Errorf("unexpected proxy response: %+v", got)
	}
}

func testConfig() (*config.Config, error) {
	return &config.Config{
		Environment: "test",
		Port:        "8081",
		Evaluator: config.EvaluatorConfig{
			MaxExpressionLength: 64,
			CacheSize:           4,
			ErrorPolicy:         config.ErrorPolicyRespond,
		},
	}, nil
}

func TestContainerManager(t *testing.T) {
	loads := 0
	cm := NewContainerManager(func() (*config.Config, error) {
		loads++
		return testConfig()
	})

	first, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer() error = %v", err)
	}
	second, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the same container on warm invocations")
	}
	if loads != 1 {
		t.Errorf("config loaded %d times, want 1", loads)
	}
	if err := cm.Cleanup(); err != nil {
		t.Fatal(err)
	}
	third, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("expected a new container after Cleanup")
	}
	if loads != 2 {
		t.Errorf("config loaded %d times, want 2", loads)
	}
}

func TestContainerManager_ConfigError(t *testing.T) {
	cm := NewContainerManager(func() (*config.Config, error) {
		return nil, errors.New("boom")
	})
	if _, err := cm.GetContainer(context.Background()); err == nil {
		t.Error("expected config error")
	}
}

func TestContainerManager_Shutdown(t *testing.T) {
	loads := 0
	cm := NewContainerManager(func() (*config.Config, error) {
		loads++
		return testConfig()
	})

	if got := len(StartOptions(cm)); got != 1 {
		t.Fatalf("StartOptions() returned %d options, want 1", got)
	}

	first, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	cm.shutdown()

	second, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second == first {
		t.Error("expected a new container after shutdown")
	}
	if loads != 2 {
		t.Errorf("config loaded %d times, want 2", loads)
	}
}
