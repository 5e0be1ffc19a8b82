package notion

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds returned by the client. An *APIError unwraps to one of
// these so callers can classify failures with errors.Is. Other API errors,
// 400 validation errors included, carry no kind.
var (
	ErrNotFound     = errors.New("object not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
)

// APIError is the error object the Notion API returns on non-2xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api error %d (%s): %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Code == "object_not_found" || e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Code == "unauthorized" || e.Code == "restricted_resource" ||
		e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Code == "rate_limited" || e.Status == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}

// Message returns the upstream message of err when it carries one.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
