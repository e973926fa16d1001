// Package notify delivers best-effort click notifications to an external
// messaging endpoint.
package notify

import "context"

// Sink is an external notification destination. Delivery is best-effort:
// callers log a returned error and move on, they never let it affect the
// visitor-facing response.
type Sink interface {
	Send(ctx context.Context, text string) error
}

// Disabled is the sink used when no credentials are configured.
type Disabled struct{}

func (Disabled) Send(context.Context, string) error { return nil }
