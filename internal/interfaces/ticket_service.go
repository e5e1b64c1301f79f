package interfaces

import (
	"context"

	"github.com/ternarybob/respondo/internal/models"
)

// TicketClient mutates tickets through the external ticket service API.
type TicketClient interface {
	// UpdateStatus issues PUT /api/tickets/{id} with the given update.
	UpdateStatus(ctx context.Context, ticketID string, update models.TicketUpdate) error
}

// Notifier delivers a message to the user who owns a ticket. Delivery is
// best-effort; failures are logged, not propagated.
type Notifier interface {
	Notify(ctx context.Context, ticketID, message string) error
}
