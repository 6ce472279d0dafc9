package dto

import (
	"time"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
)

// TicketResponse is the wire shape of a reconciled ticket.
type TicketResponse struct {
	Code            string               `json:"code"`
	FirstName       string               `json:"first_name,omitempty"`
	LastName        string               `json:"last_name,omitempty"`
	Itinerary       string               `json:"itinerary,omitempty"`
	DepartureAt     *time.Time           `json:"departure_at,omitempty"`
	ArrivalAt       *time.Time           `json:"arrival_at,omitempty"`
	RecordLocator   string               `json:"record_locator"`
	Airline         string               `json:"airline,omitempty"`
	Phone           string               `json:"phone,omitempty"`
	IssuerName      string               `json:"issuer_name,omitempty"`
	SourceSystem    int                  `json:"source_system"`
	SourceLabel     string               `json:"source_label"`
	Remarks         string               `json:"remarks,omitempty"`
	Status          domain.TicketStatus  `json:"status"`
	Advisor         string               `json:"advisor,omitempty"`
	Note            string               `json:"note,omitempty"`
	Seat            string               `json:"seat,omitempty"`
	Account         string               `json:"account,omitempty"`
	ProcessedAtTime string               `json:"processed_at_time,omitempty"`
	Attention       domain.AttentionMode `json:"attention"`
}

// TicketListResponse wraps a filtered listing.
type TicketListResponse struct {
	Total   int              `json:"total"`
	Tickets []TicketResponse `json:"tickets"`
}

// ProcessRequest carries the Pending → Processed payload.
type ProcessRequest struct {
	Advisor string `json:"advisor"`
	Note    string `json:"note,omitempty"`
	Seat    string `json:"seat,omitempty"`
	Account string `json:"account,omitempty"`
}

// DraftPatchRequest patches editable fields on a pending ticket; absent
// fields are untouched.
type DraftPatchRequest struct {
	Advisor *string `json:"advisor"`
	Note    *string `json:"note"`
	Seat    *string `json:"seat"`
	Account *string `json:"account"`
}

// CreateTicketRequest payload for a locally created draft ticket.
type CreateTicketRequest struct {
	Code          string         `json:"code"`
	RecordLocator string         `json:"record_locator"`
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name"`
	IssuerName    string         `json:"issuer_name"`
	Itinerary     string         `json:"itinerary"`
	DepartureAt   *time.Time     `json:"departure_at"`
	Leg           domain.LegType `json:"leg"`
	Advisor       string         `json:"advisor"`
	Note          string         `json:"note"`
	Seat          string         `json:"seat"`
	Account       string         `json:"account"`
}

// FromTicket maps the domain aggregate to its wire shape.
func FromTicket(t domain.Ticket) TicketResponse {
	return TicketResponse{
		Code:            t.Code,
		FirstName:       t.FirstName,
		LastName:        t.LastName,
		Itinerary:       t.Itinerary,
		DepartureAt:     t.DepartureAt,
		ArrivalAt:       t.ArrivalAt,
		RecordLocator:   t.RecordLocator,
		Airline:         t.Airline,
		Phone:           t.Phone,
		IssuerName:      t.IssuerName,
		SourceSystem:    t.SourceSystem,
		SourceLabel:     domain.SourceLabel(t.SourceSystem),
		Remarks:         t.Remarks,
		Status:          t.Status,
		Advisor:         t.Advisor,
		Note:            t.Note,
		Seat:            t.Seat,
		Account:         t.Account,
		ProcessedAtTime: t.ProcessedAtTime,
		Attention:       t.Attention,
	}
}

// FromTickets maps a slice preserving order.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, FromTicket(t))
	}
	return out
}
