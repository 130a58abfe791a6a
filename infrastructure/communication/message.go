package communication

import (
	"context"
	"errors"
)

// Message is a plain-text notification about one person. Email senders
// address To and greet Name; channel-based senders ignore To and only
// mention Name.
type Message struct {
	To      []string
	Name    string
	Subject string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Fanout delivers to every sender and joins their errors.
type Fanout []Sender

func (f Fanout) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
