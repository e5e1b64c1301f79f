package tickets

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
)

// LogNotifier delivers user notifications to the structured log. Notification
// transport is deployment specific (SSE, websocket, email), so the default
// implementation records the event where an operator can see it.
type LogNotifier struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger arbor.ILogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify records a user-facing notification for the given ticket.
func (n *LogNotifier) Notify(_ context.Context, ticketID, message string) error {
	n.logger.Info().
		Str("ticket_id", ticketID).
		Str("message", message).
		Msg("Notifying user")
	return nil
}
