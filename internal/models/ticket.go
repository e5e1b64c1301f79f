package models

// Ticket statuses as understood by the external ticket service.
const (
	TicketStatusResolved   = "RESOLVED"
	TicketStatusInProgress = "IN_PROGRESS"
)

// ResolvedByRAG tags tickets whose answer was produced automatically.
const ResolvedByRAG = "RAG_SYSTEM"

// Ticket is the externally owned support ticket arriving on the event stream.
// This service only reads it; mutations happen through the ticket service API.
type Ticket struct {
	ID           string `json:"id"`
	TicketNumber string `json:"ticketNumber"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

// TicketUpdate is the PUT payload for the ticket service status endpoint.
type TicketUpdate struct {
	Status               string `json:"status"`
	Answer               string `json:"answer,omitempty"`
	ResolvedBy           string `json:"resolvedBy,omitempty"`
	RequiresManualReview bool   `json:"requiresManualReview,omitempty"`
}
