package api

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when an operation requires a bearer token
// and the session holds none (or an expired one). The request never reaches
// the network; the view layer is expected to redirect to login.
var ErrUnauthenticated = errors.New("not authenticated")

// Error is a non-2xx HTTP response, carrying the server-provided message
// where one was decodable.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// IsStatus reports whether err is an API error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
