package services

// Typed business errors mapped to HTTP status codes by the controllers.

type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

func ErrValidation(message string) error {
	return ValidationError{Message: message}
}

type NotFoundError struct {
	Message string
}

func (e NotFoundError) Error() string { return e.Message }

func ErrNotFound(message string) error {
	return NotFoundError{Message: message}
}

type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string { return e.Message }

func ErrConflict(message string) error {
	return ConflictError{Message: message}
}
