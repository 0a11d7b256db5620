package ocm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches API errors with a 404 status.
	ErrNotFound = errors.New("not found")

	// ErrEmptyResponse is returned when a call that must return a body returned none.
	ErrEmptyResponse = errors.New("empty response body")
)

// APIError is the error body returned by the API.
type APIError struct {
	StatusCode  int    `json:"-"`
	Kind        string `json:"kind"`
	ID          string `json:"id"`
	Href        string `json:"href"`
	Code        string `json:"code"`
	Reason      string `json:"reason"`
	OperationID string `json:"operation_id"`
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("ocm: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("ocm: HTTP %d %s: %s", e.StatusCode, e.Code, e.Reason)
}

// Is makes errors.Is(err, ErrNotFound) work for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && (e.StatusCode == http.StatusNotFound || e.ID == "404")
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
