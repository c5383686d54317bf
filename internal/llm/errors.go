package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

// FailureKind classifies why a provider call failed
type FailureKind string

// Failure kinds
const (
	FailureTimeout   FailureKind = "timeout"
	FailureAuth      FailureKind = "auth"
	FailureRateLimit FailureKind = "rate_limit"
	FailureMalformed FailureKind = "malformed"
	FailureTransport FailureKind = "transport"
	FailureUnknown   FailureKind = "unknown"
)

// APIError represents a non-success HTTP status from a provider
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
}

// Kind maps the status code to a FailureKind
func (e *APIError) Kind() FailureKind {
	return statusKind(e.StatusCode)
}

func statusKind(code int) FailureKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return FailureAuth
	case code == http.StatusTooManyRequests:
		return FailureRateLimit
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return FailureTimeout
	case code >= 500:
		return FailureTransport
	default:
		return FailureUnknown
	}
}

func grpcKind(code codes.Code) FailureKind {
	switch code {
	case codes.Unauthenticated, codes.PermissionDenied:
		return FailureAuth
	case codes.ResourceExhausted:
		return FailureRateLimit
	case codes.DeadlineExceeded:
		return FailureTimeout
	case codes.Unavailable, codes.Internal:
		return FailureTransport
	default:
		return FailureUnknown
	}
}

// MalformedResponseError represents a response that could not be decoded or held no text
type MalformedResponseError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s returned a malformed response: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s returned a malformed response: %s", e.Provider, e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// ClassifyError determines the FailureKind of an error returned by a Provider
func ClassifyError(err error) FailureKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	// Gemini SDK errors: REST transports surface *googleapi.Error, gRPC ones an apierror
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return statusKind(gErr.Code)
	}
	var gaxErr *apierror.APIError
	if errors.As(err, &gaxErr) {
		if code := gaxErr.HTTPCode(); code > 0 {
			return statusKind(code)
		}
		if st := gaxErr.GRPCStatus(); st != nil {
			return grpcKind(st.Code())
		}
	}
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return FailureMalformed
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureTransport
	}
	if errors.Is(err, context.Canceled) {
		return FailureTransport
	}
	return FailureUnknown
}
