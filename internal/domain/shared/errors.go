package shared

// DomainError represents a domain-level error.
// Message is safe to show to the user as-is.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	// ErrUnknown carries the generic message shown for unexpected failures
	ErrUnknown = NewDomainError("INTERNAL_ERROR", "An error occurred")
)
