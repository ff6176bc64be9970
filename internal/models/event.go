package models

import (
	"net/http"
)

// Event is the payload delivered to one expression invocation
type Event struct {
	HTTPMethod string `json:"httpMethod" validate:"omitempty,oneof=GET HEAD POST PUT PATCH DELETE OPTIONS CONNECT TRACE"`
	MathExp    string `json:"mathExp"`
}

// IsEvaluable reports whether the event should be evaluated rather than answered with the fallback
func (e *Event) IsEvaluable() bool {
	return e != nil && e.HTTPMethod == http.MethodPost && len(e.MathExp) > 0
}

// Validate validates the event shape
func (e *Event) Validate() error {
	return validate.Struct(e)
}

// Response is the result of one expression invocation.
// Result is always set; zero is the fallback value.
type Response struct {
	Result float64 `json:"result"`
	Error  string  `json:"error,omitempty"`
}

// FallbackResponse returns the response for events that are not evaluated
func FallbackResponse() *Response {
	return &Response{Result: 0}
}
