package notify

import (
	"context"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is one toast-style message. FixtureID is zero for league-wide notices.
type Notification struct {
	FixtureID int       `json:"fixture_id,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Severity  Severity  `json:"severity"`
	At        time.Time `json:"at"`
}

// Notifier is fire-and-forget: delivery failures are logged by the implementation, never returned.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}

type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
