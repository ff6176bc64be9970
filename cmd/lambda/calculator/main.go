package main

import (
	"context"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"mathexp-api/internal/handlers"
	"mathexp-api/internal/logging"
	"mathexp-api/internal/models"
	"mathexp-api/pkg/lambda"
)

func handler(ctx context.Context, event models.Event) (models.Response, error) {
	container, err := lambda.GetContainerManager().GetContainer(ctx)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Failed to initialize container")
		return models.Response{}, err
	}

	return handlers.NewCalculatorHandler(container.CalculatorService).HandleEvent(ctx, event)
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
