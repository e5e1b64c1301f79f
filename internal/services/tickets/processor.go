package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// Processor decides the fate of each inbound ticket event. It asks the query
// service for an answer and resolves the ticket when confidence clears the
// resolve threshold, escalating for manual review otherwise.
type Processor struct {
	queryService     interfaces.QueryService
	ticketClient     interfaces.TicketClient
	notifier         interfaces.Notifier
	resolveThreshold float64
	logger           arbor.ILogger
}

// NewProcessor creates a ticket processor. resolveThreshold is a fraction in
// [0, 1] compared against the answer's overall confidence.
func NewProcessor(queryService interfaces.QueryService, ticketClient interfaces.TicketClient, notifier interfaces.Notifier, resolveThreshold float64, logger arbor.ILogger) *Processor {
	return &Processor{
		queryService:     queryService,
		ticketClient:     ticketClient,
		notifier:         notifier,
		resolveThreshold: resolveThreshold,
		logger:           logger,
	}
}

// ProcessMessage handles one raw ticket event. Errors are returned for
// logging only; the caller commits the message regardless so one bad event
// never stalls the stream.
func (p *Processor) ProcessMessage(ctx context.Context, value []byte) error {
	var ticket models.Ticket
	if err := json.Unmarshal(value, &ticket); err != nil {
		return fmt.Errorf("%w: invalid ticket event: %v", models.ErrParse, err)
	}
	if ticket.ID == "" {
		return fmt.Errorf("%w: ticket event missing id", models.ErrParse)
	}

	question := ticket.Title
	if strings.TrimSpace(ticket.Description) != "" {
		question = ticket.Title + ". " + ticket.Description
	}

	p.logger.Info().
		Str("ticket_id", ticket.ID).
		Str("ticket_number", ticket.TicketNumber).
		Msg("Processing ticket event")

	result, err := p.queryService.Answer(ctx, interfaces.QueryRequest{Question: question})
	if err != nil {
		return fmt.Errorf("query failed for ticket %s: %w", ticket.ID, err)
	}

	// Overall confidence is on the 0-100 scale; the resolve threshold is a
	// fraction, so normalize before comparing.
	confidence := result.OverallConfidence / 100
	if confidence > p.resolveThreshold {
		return p.resolve(ctx, ticket, result.Answer, confidence)
	}
	return p.escalate(ctx, ticket, confidence)
}

// resolve marks the ticket resolved with the synthesized answer, then
// notifies the user. The notification only runs after a successful status
// update and is best effort.
func (p *Processor) resolve(ctx context.Context, ticket models.Ticket, answer string, confidence float64) error {
	update := models.TicketUpdate{
		Status:     models.TicketStatusResolved,
		Answer:     answer,
		ResolvedBy: models.ResolvedByRAG,
	}
	if err := p.ticketClient.UpdateStatus(ctx, ticket.ID, update); err != nil {
		return fmt.Errorf("failed to resolve ticket %s: %w", ticket.ID, err)
	}

	if err := p.notifier.Notify(ctx, ticket.ID, answer); err != nil {
		p.logger.Warn().Err(err).Str("ticket_id", ticket.ID).Msg("Notification failed")
	}

	p.logger.Info().
		Str("ticket_id", ticket.ID).
		Float64("confidence", confidence).
		Msg("Ticket auto-resolved")

	return nil
}

// escalate flags the ticket for manual review, then notifies the user.
func (p *Processor) escalate(ctx context.Context, ticket models.Ticket, confidence float64) error {
	update := models.TicketUpdate{
		Status:               models.TicketStatusInProgress,
		RequiresManualReview: true,
	}
	if err := p.ticketClient.UpdateStatus(ctx, ticket.ID, update); err != nil {
		return fmt.Errorf("failed to escalate ticket %s: %w", ticket.ID, err)
	}

	if err := p.notifier.Notify(ctx, ticket.ID, "Ticket sent for manual review"); err != nil {
		p.logger.Warn().Err(err).Str("ticket_id", ticket.ID).Msg("Notification failed")
	}

	p.logger.Info().
		Str("ticket_id", ticket.ID).
		Float64("confidence", confidence).
		Msg("Ticket escalated for manual review")

	return nil
}
