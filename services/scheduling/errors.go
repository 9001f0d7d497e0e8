package scheduling

import "fmt"

// ValidationError rejects a booking confirmation before any write occurs.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(code, msg string) *ValidationError {
	return &ValidationError{Code: code, Message: msg}
}

// Validation error codes.
const (
	CodeIdentityRequired = "identityRequired"
	CodeMissingSelection = "missingSelection"
	CodeMissingGuestInfo = "missingGuestInfo"
	CodeMissingAddress   = "missingAddress"
	CodeInvalidGroupSize = "invalidGroupSize"
	CodeInvalidDuration  = "invalidDuration"
	CodeInvalidState     = "invalidState"
)
