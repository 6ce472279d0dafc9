package events

import (
	"time"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketsLoaded    EventType = "tickets_loaded"
	EventTicketProcessed  EventType = "ticket_processed"
	EventAttentionChanged EventType = "attention_changed"
	EventTicketCreated    EventType = "ticket_created"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Identity string `json:"identity"`
	Role     string `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TicketCode string      `json:"ticket_code,omitempty"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TicketsLoadedPayload payload.
type TicketsLoadedPayload struct {
	Fetched    int            `json:"fetched"`
	Deduped    int            `json:"deduped"`
	Discarded  int            `json:"discarded"`
	Leg        domain.LegType `json:"leg,omitempty"`
	FetchLimit int            `json:"fetch_limit"`
}

// TicketProcessedPayload payload.
type TicketProcessedPayload struct {
	Advisor         string `json:"advisor"`
	ProcessedAtTime string `json:"processed_at_time"`
}

// AttentionChangedPayload payload.
type AttentionChangedPayload struct {
	Mode domain.AttentionMode `json:"mode"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	RecordLocator string         `json:"record_locator"`
	Leg           domain.LegType `json:"leg,omitempty"`
}
