package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeMissingEvaluation  = "MISSING_EVALUATION"
	ErrCodeInsufficientSample = "INSUFFICIENT_SAMPLE"
	ErrCodeInvalidPosition    = "INVALID_POSITION"
	ErrCodeMalformedInput     = "MALFORMED_INPUT"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "MISSING_EVALUATION")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewMissingEvaluationError marks a move that has no engine evaluation yet.
// Callers skip the move; this never aborts a report.
func NewMissingEvaluationError(gameID int64, ply int) *AppError {
	return &AppError{
		Code:    ErrCodeMissingEvaluation,
		Message: fmt.Sprintf("move %d of game %d has no evaluation", ply, gameID),
		Status:  409,
	}
}

// NewInsufficientSampleError reports that an aggregate was requested below
// its minimum sample size.
func NewInsufficientSampleError(what string, have, want int) *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientSample,
		Message: fmt.Sprintf("%s requires at least %d samples, have %d", what, want, have),
		Status:  422,
	}
}

// NewInvalidPositionError reports a board position string that failed
// validation. The offending move is excluded; processing continues.
func NewInvalidPositionError(fen string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidPosition,
		Message: fmt.Sprintf("invalid position: %q", fen),
		Status:  422,
		Err:     err,
	}
}

// NewMalformedInputError is the only fatal condition in the derivation
// pipeline, raised when a game's move records are structurally broken
// (e.g. non-contiguous ply indices).
func NewMalformedInputError(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedInput,
		Message: reason,
		Status:  422,
	}
}
