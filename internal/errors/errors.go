package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Services wrap these with fmt.Errorf("%w: ...") and the API layer uses errors.Is()
// to map them to HTTP responses without knowing anything about storage or upstream details.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation could not be completed because
	// it conflicts with the current state of a resource, e.g. a second stream
	// started for a conversation that is already streaming.
	// This is typically mapped to a 409 Conflict HTTP status.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission signifies that the caller is not authorized to perform the
	// requested action.
	// This is typically mapped to a 403 Forbidden HTTP status.
	ErrPermission = errors.New("permission denied")

	// ErrUpstream signifies that the language model API failed or rejected a request.
	// This is typically mapped to a 502 Bad Gateway HTTP status.
	ErrUpstream = errors.New("upstream model provider error")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking sensitive implementation details to the client.
	// This is typically mapped to a 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")
)
