package ledger

import (
	"testing"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
)

func TestAppendKeepsNewestFirst(t *testing.T) {
	l := New(0)
	l.Append(domain.NotificationInfo, "first", "a")
	l.Append(domain.NotificationSuccess, "second", "b")
	l.Append(domain.NotificationWarning, "third", "c")

	entries := l.List()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Title != "third" || entries[2].Title != "first" {
		t.Fatalf("expected newest first, got [%s %s %s]",
			entries[0].Title, entries[1].Title, entries[2].Title)
	}
}

func TestAppendDropsOldestBeyondCap(t *testing.T) {
	l := New(2)
	l.Append(domain.NotificationInfo, "first", "a")
	l.Append(domain.NotificationInfo, "second", "b")
	l.Append(domain.NotificationInfo, "third", "c")

	entries := l.List()
	if len(entries) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(entries))
	}
	if entries[0].Title != "third" || entries[1].Title != "second" {
		t.Fatalf("expected oldest dropped, got [%s %s]", entries[0].Title, entries[1].Title)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	l := New(0)
	entry := l.Append(domain.NotificationInfo, "first", "a")
	l.Append(domain.NotificationInfo, "second", "b")

	if l.Unread() != 2 {
		t.Fatalf("expected 2 unread, got %d", l.Unread())
	}

	l.MarkRead(entry.ID)
	l.MarkRead(entry.ID)
	l.MarkRead("no-such-id")

	if l.Unread() != 1 {
		t.Fatalf("expected 1 unread after repeated marks, got %d", l.Unread())
	}
}

func TestDismissRemovesEntryOnce(t *testing.T) {
	l := New(0)
	entry := l.Append(domain.NotificationInfo, "first", "a")
	l.Append(domain.NotificationInfo, "second", "b")

	l.Dismiss(entry.ID)
	l.Dismiss(entry.ID)
	l.Dismiss("no-such-id")

	entries := l.List()
	if len(entries) != 1 || entries[0].Title != "second" {
		t.Fatalf("expected only second entry left, got %v", entries)
	}
}

func TestGenerateFallsBackToInfo(t *testing.T) {
	l := New(0)
	entry := l.Generate(domain.NotificationCategory("bogus"))
	if entry.Category != domain.NotificationInfo {
		t.Fatalf("unknown category must fall back to info, got %s", entry.Category)
	}
	if entry.Title == "" || entry.Message == "" {
		t.Fatalf("expected canned title and message, got %+v", entry)
	}

	warning := l.Generate(domain.NotificationWarning)
	if warning.Category != domain.NotificationWarning {
		t.Fatalf("expected warning category preserved, got %s", warning.Category)
	}
}
