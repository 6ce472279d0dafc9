package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "PENDING"
	TicketStatusProcessed TicketStatus = "PROCESSED"
)

// AttentionMode indicates how the advisory interaction happens.
type AttentionMode string

const (
	AttentionInPerson AttentionMode = "IN_PERSON"
	AttentionVirtual  AttentionMode = "VIRTUAL"
)

// LegType classifies a flight segment. It is resolved by the upstream
// source at fetch time, never filtered client-side.
type LegType string

const (
	LegOutbound LegType = "OUTBOUND"
	LegReturn   LegType = "RETURN"
)

// Ticket is the aggregate for travel documents awaiting advisor processing.
// Code is the dedup key: the session workspace holds at most one ticket
// per code.
type Ticket struct {
	Code          string
	FirstName     string
	LastName      string
	NamePrefix    string
	Itinerary     string
	DepartureAt   *time.Time
	ArrivalAt     *time.Time
	RecordLocator string
	Airline       string
	Phone         string
	IssuerCode    string
	IssuerName    string
	SourceSystem  int
	Remarks       string

	// Mutable by the lifecycle engine only.
	Status          TicketStatus
	Advisor         string
	Note            string
	Seat            string
	Account         string
	ProcessedAtTime string
	Attention       AttentionMode
}

// TicketDraft carries the minimal field set for a locally created ticket.
type TicketDraft struct {
	RecordLocator string
	Code          string
	FirstName     string
	LastName      string
	IssuerName    string
	Itinerary     string
	DepartureAt   *time.Time
	Leg           LegType
	Advisor       string
	Note          string
	Seat          string
	Account       string
}

// DraftPatch updates editable fields on a pending ticket. Nil leaves the
// field untouched.
type DraftPatch struct {
	Advisor *string
	Note    *string
	Seat    *string
	Account *string
}

// TicketStats is the derived aggregate over the session workspace.
type TicketStats struct {
	Total            int       `json:"total"`
	UniquePassengers int       `json:"unique_passengers"`
	Pending          int       `json:"pending"`
	Processed        int       `json:"processed"`
	RefreshedAt      time.Time `json:"refreshed_at"`
}

var sourceLabels = map[int]string{
	1: "SABRE",
	2: "AMADEUS",
	7: "KIU",
	8: "KONTROL",
}

// SourceLabel maps the originating reservation system id to a display name.
func SourceLabel(sourceSystem int) string {
	if label, ok := sourceLabels[sourceSystem]; ok {
		return label
	}
	return fmt.Sprintf("GDS %d", sourceSystem)
}

// FilterDate returns the date a ticket is compared against when a date
// bound is active: departure, falling back to arrival.
func (t Ticket) FilterDate() *time.Time {
	if t.DepartureAt != nil {
		return t.DepartureAt
	}
	return t.ArrivalAt
}
