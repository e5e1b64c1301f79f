// Package tickets handles inbound ticket events: it queries the knowledge
// base for an answer and either resolves the ticket or escalates it for
// manual review, updating the ticket service over HTTP either way.
package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// Client updates tickets on the ticket service, resolving its base URL
// through the service registry on every call so instance churn is picked up.
type Client struct {
	resolver    interfaces.ServiceResolver
	serviceName string
	client      *http.Client
	logger      arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.TicketClient = (*Client)(nil)

// NewClient creates a ticket service client.
func NewClient(resolver interfaces.ServiceResolver, cfg *common.TicketsConfig, logger arbor.ILogger) *Client {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		timeout = 30 * time.Second
	}

	return &Client{
		resolver:    resolver,
		serviceName: cfg.ServiceName,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// UpdateStatus sends a PUT to the ticket service for the given ticket.
func (c *Client) UpdateStatus(ctx context.Context, ticketID string, update models.TicketUpdate) error {
	base, err := c.resolver.ServiceURL(c.serviceName)
	if err != nil {
		return fmt.Errorf("failed to resolve ticket service: %w", err)
	}

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket update: %w", err)
	}

	url := fmt.Sprintf("%s/api/tickets/%s", base, ticketID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create ticket update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ticket update failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ticket update returned status %d", resp.StatusCode)
	}

	c.logger.Info().
		Str("ticket_id", ticketID).
		Str("status", update.Status).
		Msg("Updated ticket status")

	return nil
}
