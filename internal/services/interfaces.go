package services

import (
	"context"

	"mathexp-api/internal/models"
)

// CalculatorService defines the interface for expression evaluation requests
type CalculatorService interface {
	// Calculate evaluates the event's expression when the event is a POST with a
	// non-empty expression, and returns the zero fallback otherwise.
	Calculate(ctx context.Context, event *models.Event) (*models.Response, error)
}
