package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal server error")
)

// APIError carries the platform's error envelope. Unwrap maps the status
// code onto the sentinel errors above so callers can use errors.Is.
type APIError struct {
	Status int
	Type   string
	Fields map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Type)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == 401 || e.Status == 403:
		return ErrUnauthorized
	case e.Status == 404:
		return ErrNotFound
	case e.Status >= 400 && e.Status < 500:
		return ErrBadRequest
	default:
		return ErrInternal
	}
}
