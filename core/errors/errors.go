package errors

import "fmt"

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrValidation     ErrorCode = "VALIDATION_ERROR"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "SCHEDULE_CONFLICT"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrStorage        ErrorCode = "STORAGE_ERROR"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

// AppError is the error type returned by all services. It carries an
// application code, a human-readable message and the underlying cause.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether the error is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	ae, ok := err.(*AppError)
	return ok && ae != nil && ae.Code == code
}
