package support

import "errors"

var (
	ErrMissingName    = errors.New("sender name is required")
	ErrMissingEmail   = errors.New("sender email is required")
	ErrMissingSubject = errors.New("subject is required")
	ErrMissingMessage = errors.New("message is required")

	// ErrQuotaExceeded is returned when the sender has used up the support
	// message quota for the current period. It is raised before the email
	// provider is invoked.
	ErrQuotaExceeded = errors.New("support message quota exceeded")
)
