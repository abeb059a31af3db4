// Package service provides application-level services for managing tasks and users.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps each to an
// HTTP status code.
var (
	// ErrForbidden indicates the authenticated caller is not permitted to
	// perform the requested operation on the task: not the creator or
	// assignee for an update, not the creator for a delete.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("not authorized to perform this operation")

	// ErrEmptyPatch indicates an update request that touches no fields.
	// API layer should map this to HTTP 400 Bad Request.
	ErrEmptyPatch = errors.New("update patch contains no fields")
)
