package workspace

import (
	"strings"
	"time"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
)

// Criteria captures the user-chosen filters. Zero-valued fields impose no
// constraint; all present fields are ANDed. Leg type is deliberately
// absent: it is a fetch-time parameter and changing it triggers a reload
// rather than a client-side pass.
type Criteria struct {
	Query    string
	DateFrom *time.Time
	DateTo   *time.Time
	Status   domain.TicketStatus
}

// Empty reports whether no criterion is active.
func (c Criteria) Empty() bool {
	return c.Query == "" && c.DateFrom == nil && c.DateTo == nil && c.Status == ""
}

// Apply filters tickets against the criteria, preserving relative order.
// Purely client-side over the already-loaded set, no I/O.
func Apply(tickets []domain.Ticket, c Criteria) []domain.Ticket {
	if c.Empty() {
		return tickets
	}
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if matches(t, c) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t domain.Ticket, c Criteria) bool {
	if c.Query != "" && !matchesQuery(t, c.Query) {
		return false
	}
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	if c.DateFrom != nil || c.DateTo != nil {
		date := t.FilterDate()
		if date == nil {
			return false
		}
		if c.DateFrom != nil && date.Before(*c.DateFrom) {
			return false
		}
		if c.DateTo != nil && date.After(*c.DateTo) {
			return false
		}
	}
	return true
}

// matchesQuery does a case-insensitive substring search; a ticket matches
// when any of its searchable fields contains the query.
func matchesQuery(t domain.Ticket, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{t.Code, t.FirstName, t.LastName, t.RecordLocator, t.Itinerary} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
