package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"mathexp-api/internal/models"
	"mathexp-api/internal/services"
	"mathexp-api/pkg/lambda"
)

// CalculateRequest is the HTTP request body for expression evaluation
type CalculateRequest struct {
	MathExp string `json:"mathExp" example:"2 + 3"`
}

// CalculatorHandler handles expression evaluation requests
type CalculatorHandler struct {
	calculatorService services.CalculatorService
}

// NewCalculatorHandler creates a new calculator handler
func NewCalculatorHandler(calculatorService services.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{
		calculatorService: calculatorService,
	}
}

// @Summary Evaluate an expression
// @Description Evaluates mathExp for POST requests. Any other method, or an empty expression, returns a zero result.
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body CalculateRequest false "Expression to evaluate"
// @Success 200 {object} models.Response
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} models.Response
// @Failure 500 {object} ErrorResponse
// @Router /calculate [post]
func (h *CalculatorHandler) Calculate(c *gin.Context) {
	event := &models.Event{HTTPMethod: c.Request.Method}

	if c.Request.Method == http.MethodPost {
		var req CalculateRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request body",
				Message: err.Error(),
			})
			return
		}
		event.MathExp = req.MathExp
	}

	resp, err := h.calculatorService.Calculate(c.Request.Context(), event)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Expression evaluation failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(statusFor(resp), resp)
}

// HandleEvent handles a raw Lambda invocation carrying httpMethod and mathExp
func (h *CalculatorHandler) HandleEvent(ctx context.Context, event models.Event) (models.Response, error) {
	resp, err := h.calculatorService.Calculate(ctx, &event)
	if err != nil {
		return models.Response{}, err
	}
	return *resp, nil
}

// HandleCalculate handles an API Gateway proxy request whose body carries mathExp
func (h *CalculatorHandler) HandleCalculate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	event := &models.Event{HTTPMethod: req.Method}

	if req.Method == http.MethodPost && len(req.Body) > 0 {
		var body CalculateRequest
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return jsonResponse(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request body",
				Message: err.Error(),
			})
		}
		event.MathExp = body.MathExp
	}

	resp, err := h.calculatorService.Calculate(ctx, event)
	if err != nil {
		return nil, err
	}

	return jsonResponse(statusFor(resp), resp)
}

func statusFor(resp *models.Response) int {
	if resp.Error != "" {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func jsonResponse(status int, v interface{}) (*lambda.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &lambda.Response{
		StatusCode: status,
		Headers:    lambda.JSONHeaders(),
		Body:       body,
	}, nil
}
