package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/coursehub/internal/feed"
	"github.com/dukerupert/coursehub/internal/model"
)

const notifyTimeout = 10 * time.Second

// Notifier emails the admin about new submissions.
type Notifier interface {
	Configured() bool
	NotifyEnrollment(ctx context.Context, e model.Enrollment) error
	NotifyDemoBooking(ctx context.Context, b model.DemoBooking) error
}

// announcer fans a new submission out to the admin feed and, when
// configured, to the admin's inbox. Both are best effort.
type announcer struct {
	notifier  Notifier
	publisher feed.Publisher
	logger    *slog.Logger
}

func (a announcer) publish(ev feed.Event) {
	if a.publisher != nil {
		a.publisher.Publish(ev)
	}
}

// mail runs send in the background, detached from the request so the
// response is not held up by the mail provider.
func (a announcer) mail(ctx context.Context, what string, send func(ctx context.Context, n Notifier) error) {
	if a.notifier == nil || !a.notifier.Configured() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		if err := send(ctx, a.notifier); err != nil {
			a.logger.Error("send notification", "error", err, "kind", what)
		}
	}()
}
