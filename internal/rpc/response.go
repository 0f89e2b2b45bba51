// Package rpc exposes the record managers over a single message-pattern
// endpoint. Callers POST an envelope {"pattern": ..., "data": ...} and get
// back a uniform success or error response.
package rpc

import "time"

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Status    string `json:"status"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the uniform error envelope. Code is a stable,
// machine-readable string; Message is for humans.
type ErrorResponse struct {
	Status    string `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func newSuccess(data any, now time.Time) SuccessResponse {
	return SuccessResponse{
		Status:    "success",
		Data:      data,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

func newError(code, message string, now time.Time) ErrorResponse {
	return ErrorResponse{
		Status:    "error",
		Code:      code,
		Message:   message,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
