package shared

// DomainError is a business rule failure identified by a stable code.
// The HTTP layer maps codes to status codes; Message is safe to show clients.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError returns a DomainError with the given code and message
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Repository-level sentinels
var (
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
	ErrConflict = NewDomainError("CONFLICT", "Record was modified concurrently")
)
