package apperrors

import "errors"

// ValidationError reports a missing or invalid field on a request.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports an operation rejected by the current state of
// the target row (already validated, already gone).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func Validation(msg string) error { return &ValidationError{Msg: msg} }
func Conflict(msg string) error   { return &ConflictError{Msg: msg} }
func NotFound(msg string) error   { return &NotFoundError{Msg: msg} }

// IsClientError reports whether err carries one of the tagged types
// that map to a 400 response at the dispatch boundary. Anything else
// is treated as a storage error.
func IsClientError(err error) bool {
	var ve *ValidationError
	var ce *ConflictError
	var ne *NotFoundError
	return errors.As(err, &ve) || errors.As(err, &ce) || errors.As(err, &ne)
}
