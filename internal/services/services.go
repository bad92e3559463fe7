// Package services is the operation half of the gateway: one service per
// resource kind, each wrapping its network calls in the uniform
// loading/succeeded/failed lifecycle against the store. Operations never
// retry on their own; a failure is recorded and retry is a re-dispatch by
// the caller.
package services

import "errors"

// ErrNotPermitted is returned when a mutation is gated off for the current
// role. The gate only controls client affordances; the server enforces
// authorization independently.
var ErrNotPermitted = errors.New("operation not permitted for current role")

// ErrValidation is returned when required input is missing before dispatch.
var ErrValidation = errors.New("validation error")
