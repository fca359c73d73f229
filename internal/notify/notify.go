// Package notify delivers reminders. The core scheduling logic only ever
// sees the Notifier interface; delivery is fire-and-forget and failures are
// logged, never propagated back into the tick loop.
package notify

import (
	"github.com/rs/zerolog"
)

// Notifier displays a reminder to the user.
type Notifier interface {
	Show(title, body string)
}

// LogNotifier writes reminders to the structured log. It is the default
// sink for terminal sessions and the fallback when no push gateway is
// configured.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Show logs the reminder at info level.
func (n LogNotifier) Show(title, body string) {
	n.Logger.Info().Str("title", title).Str("body", body).Msg("reminder")
}

// Multi fans a reminder out to several notifiers.
type Multi []Notifier

// Show delivers to every notifier in order.
func (m Multi) Show(title, body string) {
	for _, n := range m {
		n.Show(title, body)
	}
}

// Func adapts a plain function to the Notifier interface.
type Func func(title, body string)

// Show calls the wrapped function.
func (f Func) Show(title, body string) {
	f(title, body)
}
