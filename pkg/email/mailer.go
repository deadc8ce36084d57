package email

import (
	"context"
	"fmt"
	"regexp"
)

// Sender sends transactional emails.
type Sender interface {
	Send(ctx context.Context, params SendParams) error
}

// SendParams carries a single outbound email.
type SendParams struct {
	To       string // recipient address
	Subject  string
	BodyHTML string
	Tag      string // optional, for provider-side analytics
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks the parameters before handing them to a provider.
func (p SendParams) Validate() error {
	if p.To == "" || !emailRegex.MatchString(p.To) {
		return fmt.Errorf("%w: recipient %q is not a valid email address", ErrInvalidParams, p.To)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}
