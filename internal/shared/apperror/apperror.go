package apperror

import "net/http"

// AppError is an application failure with a user-displayable message.
// The message is what UI layers show directly, so it is written in
// Portuguese like every other user-facing string in the system.
type AppError struct {
	Message string
	Status  int
}

func (e *AppError) Error() string {
	return e.Message
}

// New creates an AppError with the default 400 status.
func New(message string) *AppError {
	return &AppError{Message: message, Status: http.StatusBadRequest}
}

// NewWithStatus creates an AppError with an explicit HTTP status.
func NewWithStatus(message string, status int) *AppError {
	return &AppError{Message: message, Status: status}
}
