// Package clicks decides whether a visit counts as a new unique click and
// records it.
package clicks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shortenv/shortenv/internal/messaging"
	"github.com/shortenv/shortenv/internal/metrics"
	"github.com/shortenv/shortenv/internal/shortlink"
	"go.uber.org/zap"
)

// Visit is the request metadata relevant to attribution. Only the IP is part
// of the dedup identity; user agent and referer are recorded but a revisit
// with a different browser from the same IP is still a repeat.
type Visit struct {
	IP        string
	UserAgent string
	Referer   string
}

// Attributor counts each (code, ip) pair at most once and publishes an event
// for every newly attributed click.
type Attributor struct {
	store   shortlink.ClickStore
	publish messaging.Publish[AttributedEvent]
	logger  *zap.Logger
}

// NewAttributor creates a new click attributor.
func NewAttributor(
	store shortlink.ClickStore,
	publish messaging.Publish[AttributedEvent],
	logger *zap.Logger,
) *Attributor {
	return &Attributor{
		store:   store,
		publish: publish,
		logger:  logger,
	}
}

// Record attributes the visit. It returns true when this visit created the
// click, false when the pair was already counted (including losing a
// concurrent insert race). The target is the already-resolved destination,
// snapshotted onto the click row.
func (a *Attributor) Record(ctx context.Context, code, target string, visit Visit) (bool, error) {
	click := &shortlink.Click{
		Code:      code,
		Target:    target,
		IP:        visit.IP,
		UserAgent: visit.UserAgent,
		Referer:   visit.Referer,
	}

	newly, err := a.store.Attribute(ctx, click)
	if err != nil {
		return false, err
	}

	if !newly {
		metrics.ClicksRepeated.Inc()

		return false, nil
	}

	metrics.ClicksAttributed.Inc()

	event := &AttributedEvent{
		EventID:   uuid.NewString(),
		Code:      code,
		Target:    target,
		IP:        visit.IP,
		UserAgent: visit.UserAgent,
		Referer:   visit.Referer,
		ClickedAt: click.CreatedAt,
	}

	// Notification is best-effort; a publish failure never unwinds the
	// attribution or the redirect.
	if err := a.publish(event); err != nil {
		a.logger.Error("failed to publish click event",
			zap.String("code", code),
			zap.Error(err),
		)
	}

	return true, nil
}
