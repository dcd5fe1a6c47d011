package provider

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey = errors.New("API key not configured")
	ErrNoChoices     = errors.New("no response from AI")
)

const unknownErrorMessage = "Unknown error"

// APIError is a non-success answer from the completion endpoint.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Message)
}

func newAPIError(provider string, status int, message string) *APIError {
	if message == "" {
		message = unknownErrorMessage
	}
	return &APIError{Provider: provider, StatusCode: status, Message: message}
}
