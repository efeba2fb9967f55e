package apperrors

import "fmt"

// Kind classifies an error for the HTTP layer. Handlers and services never
// pick status codes themselves; they return an *AppError and the fiber
// error handler does the mapping.
type Kind string

const (
	KindInvalidInput  Kind = "invalid_input"
	KindUnauthorized  Kind = "unauthorized"
	KindAlreadyExists Kind = "already_exists"
	KindNotFound      Kind = "not_found"
	KindGateway       Kind = "gateway"
	KindStorage       Kind = "storage"
)

type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

func InvalidInput(msg string) *AppError { return New(KindInvalidInput, msg) }

func Unauthorized(msg string) *AppError { return New(KindUnauthorized, msg) }

func AlreadyExists(msg string) *AppError { return New(KindAlreadyExists, msg) }

func NotFound(msg string) *AppError { return New(KindNotFound, msg) }

func Gateway(msg string, cause error) *AppError {
	return Wrap(KindGateway, msg, cause)
}

// Storage wraps an unexpected database error. Unique violations should be
// detected before reaching here and reported as AlreadyExists.
func Storage(cause error) *AppError {
	return Wrap(KindStorage, "storage error", cause)
}
