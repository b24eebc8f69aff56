package domain

import "errors"

// Sentinel errors for the business layer.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrMisconfigured = errors.New("server misconfigured")
	ErrInternalError = errors.New("internal error")
)

// AppError carries an HTTP status code and a client-safe message alongside
// the original error. The message is what crosses the wire; Err stays in
// the logs.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(msg string) *AppError {
	return &AppError{Code: 400, Message: msg, Err: ErrInvalidInput}
}

// NewConflictError reports a duplicate. The original service answered
// duplicates with 400, not 409, and clients depend on that.
func NewConflictError(msg string) *AppError {
	return &AppError{Code: 400, Message: msg, Err: ErrAlreadyExists}
}

func NewAuthError(msg string) *AppError {
	return &AppError{Code: 401, Message: msg, Err: ErrUnauthorized}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Code: 404, Message: msg, Err: ErrNotFound}
}

func NewConfigError(msg string) *AppError {
	return &AppError{Code: 500, Message: msg, Err: ErrMisconfigured}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Code: 500, Message: msg, Err: err}
}
