package support

import "strings"

// Ticket is a support message submitted through the contact form.
type Ticket struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// Validate checks the ticket has the required fields.
func (t *Ticket) Validate() error {
	if strings.TrimSpace(t.FromName) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(t.FromEmail) == "" {
		return ErrMissingEmail
	}
	if strings.TrimSpace(t.Subject) == "" {
		return ErrMissingSubject
	}
	if strings.TrimSpace(t.Message) == "" {
		return ErrMissingMessage
	}
	return nil
}
