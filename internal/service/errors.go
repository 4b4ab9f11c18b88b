package service

import "errors"

var (
	ErrNotFound = errors.New("link not found")
	// ErrExpired means the link existed but is past its expiry.
	ErrExpired             = errors.New("link has expired")
	ErrGenerationExhausted = errors.New("could not generate a unique short id")
	ErrStoreFailure        = errors.New("link store failure")
)

// Validation error codes
const (
	CodeInvalidURL    = "invalid_url"
	CodeInvalidExpiry = "invalid_expiry"
)

// ValidationError is returned when a create request is rejected before
// anything is written.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a *ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
