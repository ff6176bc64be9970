package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"mathexp-api/internal/handlers"
	"mathexp-api/internal/logging"
	"mathexp-api/pkg/lambda"
)

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req := lambda.FromAPIGateway(event)
	ctx = logging.WithFields(ctx, logrus.Fields{
		"method": req.Method,
		"path":   req.Path,
	})

	container, err := lambda.GetContainerManager().GetContainer(ctx)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Failed to initialize container")
		return internalError(), nil
	}

	resp, err := handlers.NewCalculatorHandler(container.CalculatorService).HandleCalculate(ctx, req)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Request failed")
		return internalError(), nil
	}

	return resp.ToAPIGateway(), nil
}

func internalError() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: 500,
		Headers:    lambda.JSONHeaders(),
		Body:       `{"error": "Internal server error"}`,
	}
}

func main() {
	manager := lambda.GetContainerManager()
	container, err := manager.GetContainer(context.Background())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := logging.Configure(container.Config.Log, os.Stdout); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	awslambda.StartWithOptions(handler, lambda.StartOptions(manager)...)
}
