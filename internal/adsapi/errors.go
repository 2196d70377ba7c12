package adsapi

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidInput is returned before any request is made when a call is
// missing its token or id.
var ErrInvalidInput = errors.New("invalid input")

// ErrMalformedResponse is returned when a 2xx answer cannot be decoded. The
// backend accepted the call, so for mutations the change has been applied.
var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-2xx answer from the backend. Authorization failures are
// reported the same way as any other status.
type APIError struct {
	Endpoint   string
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s %s failed: status=%d body=%s", e.Endpoint, e.Method, e.Path, e.StatusCode, strings.TrimSpace(e.Body))
}

// StatusCode extracts the backend status from err, or 0 when err is not an
// APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
