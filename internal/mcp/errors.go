package mcp

import (
	"errors"
	"fmt"

	"github.com/subhstories/clientmanager/internal/domain/client"
)

var (
	// ErrMethodNotFound indicates an unknown method name.
	ErrMethodNotFound = errors.New("method not found")
	// ErrInvalidParams indicates params that don't decode into the method's arguments.
	ErrInvalidParams = errors.New("invalid params")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`

	err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the domain error so callers can still use errors.Is.
func (e *APIError) Unwrap() error {
	return e.err
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, client.ErrValidation):
		return &APIError{Code: "VALIDATION_FAILED", Message: err.Error(), RecoveryHint: "Fill in the required fields", err: err}
	case errors.Is(err, client.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Call list_clients for current ids", err: err}
	case errors.Is(err, client.ErrCorruptData):
		return &APIError{Code: "CORRUPT_DATA", Message: err.Error(), RecoveryHint: "Repair or move the data file", err: err}
	case errors.Is(err, client.ErrWrite):
		return &APIError{Code: "WRITE_FAILED", Message: err.Error(), Details: map[string]bool{"dirty": true}, RecoveryHint: "Changes are kept in memory; call save to retry", err: err}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
