package port

import "context"

// Email is an outbound transactional message.
type Email struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers transactional email. Delivery failures must not fail
// the request whose state change triggered them.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
