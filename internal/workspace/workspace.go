// Package workspace holds the authoritative in-memory ticket set for the
// current session. The set is replaced wholesale on every reload; a reload
// that lands while a draft edit is unsaved discards the edit. That race is
// accepted as last-write-wins, callers re-apply if they need stricter
// consistency.
package workspace

import (
	"sync"
	"time"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
)

// Workspace is a pure data holder keyed by ticket code, insertion ordered.
type Workspace struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
	byCode  map[string]int
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{byCode: make(map[string]int)}
}

// Load replaces the working set with raw upstream tickets, deduplicating
// by code. The first occurrence wins and later duplicates are discarded;
// upstream responses are known to repeat codes across joined pages.
func (w *Workspace) Load(raw []domain.Ticket) {
	deduped := make([]domain.Ticket, 0, len(raw))
	index := make(map[string]int, len(raw))
	for _, t := range raw {
		if _, seen := index[t.Code]; seen {
			continue
		}
		index[t.Code] = len(deduped)
		deduped = append(deduped, t)
	}

	w.mu.Lock()
	w.tickets = deduped
	w.byCode = index
	w.mu.Unlock()
}

// Upsert replaces the entry with a matching code, or appends when absent.
// Called after a successful lifecycle mutation, and for locally created
// tickets awaiting the next reload.
func (w *Workspace) Upsert(t domain.Ticket) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i, ok := w.byCode[t.Code]; ok {
		w.tickets[i] = t
		return
	}
	w.byCode[t.Code] = len(w.tickets)
	w.tickets = append(w.tickets, t)
}

// All returns the working set in insertion order.
func (w *Workspace) All() []domain.Ticket {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]domain.Ticket, len(w.tickets))
	copy(out, w.tickets)
	return out
}

// Get returns the ticket with the given code.
func (w *Workspace) Get(code string) (domain.Ticket, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if i, ok := w.byCode[code]; ok {
		return w.tickets[i], true
	}
	return domain.Ticket{}, false
}

// Len reports the number of tickets currently held.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.tickets)
}

// Stats recomputes the derived aggregate from the current working set.
// Recomputation is pull-based: callers invoke it after every mutation
// instead of trusting a cached value.
func (w *Workspace) Stats() domain.TicketStats {
	w.mu.RLock()
	defer w.mu.RUnlock()

	stats := domain.TicketStats{
		Total:       len(w.tickets),
		RefreshedAt: time.Now(),
	}
	passengers := make(map[[2]string]struct{})
	for _, t := range w.tickets {
		switch t.Status {
		case domain.TicketStatusProcessed:
			stats.Processed++
		default:
			stats.Pending++
		}
		if t.FirstName != "" && t.LastName != "" {
			passengers[[2]string{t.FirstName, t.LastName}] = struct{}{}
		}
	}
	stats.UniquePassengers = len(passengers)
	return stats
}
