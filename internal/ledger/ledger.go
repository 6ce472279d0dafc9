// Package ledger keeps the session's advisory notifications: an ordered,
// in-memory list with read/unread state. Entries are not authoritative
// data and are safe to lose on restart.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
)

// Ledger is a newest-first notification list.
type Ledger struct {
	mu         sync.RWMutex
	entries    []domain.Notification
	maxEntries int
}

// New builds a ledger capped at maxEntries; zero or negative means
// unbounded.
func New(maxEntries int) *Ledger {
	return &Ledger{maxEntries: maxEntries}
}

// Append prepends a new unread entry.
func (l *Ledger) Append(category domain.NotificationCategory, title, message string) domain.Notification {
	entry := domain.Notification{
		ID:        uuid.NewString(),
		Category:  category,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	l.mu.Lock()
	l.entries = append([]domain.Notification{entry}, l.entries...)
	if l.maxEntries > 0 && len(l.entries) > l.maxEntries {
		l.entries = l.entries[:l.maxEntries]
	}
	l.mu.Unlock()
	return entry
}

// List returns entries newest first.
func (l *Ledger) List() []domain.Notification {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Notification, len(l.entries))
	copy(out, l.entries)
	return out
}

// Unread counts entries not yet read.
func (l *Ledger) Unread() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	count := 0
	for _, e := range l.entries {
		if !e.Read {
			count++
		}
	}
	return count
}

// MarkRead sets the read flag. Idempotent: already-read or absent ids are
// a no-op, not an error.
func (l *Ledger) MarkRead(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Read = true
			return
		}
	}
}

// Dismiss removes the entry. Idempotent on absent ids.
func (l *Ledger) Dismiss(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

var cannedMessages = map[domain.NotificationCategory]struct {
	title   string
	message string
}{
	domain.NotificationInfo:    {"Upstream sync", "New ticket data is available from the reservation feed."},
	domain.NotificationSuccess: {"Processing complete", "A ticket batch finished processing without errors."},
	domain.NotificationWarning: {"Pending backlog", "Pending tickets are accumulating beyond the usual volume."},
}

// Generate appends a canned entry for the category. Used by the demo
// generator to simulate asynchronous advisory events; the production path
// appends through domain events instead.
func (l *Ledger) Generate(category domain.NotificationCategory) domain.Notification {
	canned, ok := cannedMessages[category]
	if !ok {
		canned = cannedMessages[domain.NotificationInfo]
		category = domain.NotificationInfo
	}
	return l.Append(category, canned.title, canned.message)
}
