package mailer

import "context"

// Service sends transactional mail. Implementations must be safe for
// concurrent use; the notification pool calls Send from several workers.
type Service interface {
	Send(ctx context.Context, e Email) error
}

// Email is a fully rendered outbound message.
type Email struct {
	FromName string
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}
