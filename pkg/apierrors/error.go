// Package apierrors defines the JSON error envelope every API failure uses.
package apierrors

import (
	"fmt"
	"net/http"
	"time"
)

// Envelope is the wire representation of an API error.
type Envelope struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Error implements the error interface for Envelope.
func (e Envelope) Error() string {
	return fmt.Sprintf("Code: %s, Message: %s", e.Code, e.Message)
}

func New(status int, code, message string) Envelope {
	return Envelope{
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewField builds an envelope pointing at the request field that failed.
func NewField(status int, code, message, field string) Envelope {
	e := New(status, code, message)
	e.Field = field
	return e
}

func Validation(message string) Envelope {
	return New(http.StatusBadRequest, CodeValidation, message)
}

func ValidationField(message, field string) Envelope {
	return NewField(http.StatusBadRequest, CodeValidation, message, field)
}

func Unauthorized(message string) Envelope {
	return New(http.StatusUnauthorized, CodeAuthentication, message)
}

func Forbidden(message string) Envelope {
	return New(http.StatusForbidden, CodeAuthorization, message)
}

func NotFound(message string) Envelope {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func Conflict(message, field string) Envelope {
	return NewField(http.StatusConflict, CodeConflict, message, field)
}

func Internal(message string) Envelope {
	return New(http.StatusInternalServerError, CodeInternal, message)
}
