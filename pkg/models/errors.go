package models

import "errors"

// Failure taxonomy for the resolution pipeline. Handlers map these to HTTP
// statuses; everything unrecognized becomes a 500.
var (
	// ErrNotFound means no primary record could be resolved for the query.
	ErrNotFound = errors.New("not found")

	// ErrAuthentication means an upstream handshake was rejected.
	ErrAuthentication = errors.New("authentication failed")

	// ErrUpstream means a required upstream call returned a non-success
	// status.
	ErrUpstream = errors.New("upstream error")

	// ErrValidation means the query string was empty after sanitization.
	ErrValidation = errors.New("invalid query")
)
