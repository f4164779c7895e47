package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// GenericMessage is shown when the backend gave no usable explanation.
const GenericMessage = "Something went wrong. Please try again."

// APIError is every failure the client returns for a request that was
// attempted. Status is 0 when no response arrived.
type APIError struct {
	Status int
	// Code is the backend error code, e.g. BUDGET_NOT_FOUND.
	Code string
	// Detail is the backend-provided message, if any.
	Detail string
	// Message is what to show a user: Detail, or GenericMessage.
	Message string

	cause error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("ledgerdesk: %s", e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("ledgerdesk: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("ledgerdesk: %d: %s", e.Status, e.Message)
}

// Unwrap returns the transport error behind a Status 0 failure.
func (e *APIError) Unwrap() error { return e.cause }

// NotFound reports whether the backend answered 404.
func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

// Unauthorized reports whether the token was missing, expired or rejected.
func (e *APIError) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

func transportError(err error) *APIError {
	return &APIError{Message: GenericMessage, cause: err}
}

// decodeError builds an APIError from an error response body. It understands
// the API's {"error":{"code","message"}} envelope and a bare {"detail": "..."}.
func decodeError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var envelope struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		if envelope.Error != nil {
			e.Code = envelope.Error.Code
			e.Detail = strings.TrimSpace(envelope.Error.Message)
		}
		if e.Detail == "" && len(envelope.Detail) > 0 {
			var detail string
			if json.Unmarshal(envelope.Detail, &detail) == nil {
				e.Detail = strings.TrimSpace(detail)
			}
		}
	}

	e.Message = e.Detail
	if e.Message == "" {
		e.Message = GenericMessage
	}
	return e
}
