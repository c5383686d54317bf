package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/docsynth/internal/schemas"
	"github.com/jonathan/docsynth/internal/types"
)

// ErrNotFound indicates a stored resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnavailable indicates a collaborator the request needs is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// ErrBadBody indicates the request body could not be decoded
type ErrBadBody struct {
	Cause error
}

func (e *ErrBadBody) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Cause)
}

func (e *ErrBadBody) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalid    *types.InvalidRequestError
		badBody    *ErrBadBody
		notFound   *ErrNotFound
		unavail    *ErrUnavailable
		validation *schemas.ValidationError
	)
	switch {
	case errors.As(err, &invalid), errors.As(err, &badBody):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
