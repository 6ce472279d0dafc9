package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
	"github.com/zeus-agencias/kontrol-tiquetes/pkg/util"
)

func pendingTicket() domain.Ticket {
	departure := time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)
	return domain.Ticket{
		Code:          "T-100",
		FirstName:     "Ana",
		LastName:      "Torres",
		RecordLocator: "ABC123",
		DepartureAt:   &departure,
		Status:        domain.TicketStatusPending,
		Attention:     domain.AttentionInPerson,
	}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return domainErr.Code
}

func TestMarkProcessedRequiresAdvisor(t *testing.T) {
	engine := NewEngine("supervisor")

	for _, advisor := range []string{"", "   "} {
		got, err := engine.MarkProcessed(pendingTicket(), ProcessInput{Advisor: advisor})
		if err == nil {
			t.Fatalf("advisor %q: expected error", advisor)
		}
		if code := errorCode(t, err); code != "VALIDATION_FAILED" {
			t.Fatalf("advisor %q: expected VALIDATION_FAILED, got %s", advisor, code)
		}
		if got.Status != domain.TicketStatusPending {
			t.Fatalf("advisor %q: ticket must stay pending, got %s", advisor, got.Status)
		}
	}
}

func TestMarkProcessedIsOneWay(t *testing.T) {
	engine := NewEngine("supervisor")

	processed, err := engine.MarkProcessed(pendingTicket(), ProcessInput{Advisor: "maria"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = engine.MarkProcessed(processed, ProcessInput{Advisor: "pedro"})
	if err == nil {
		t.Fatalf("expected second transition to fail")
	}
	if code := errorCode(t, err); code != "INVALID_STATE" {
		t.Fatalf("expected INVALID_STATE, got %s", code)
	}
}

func TestMarkProcessedStampsWallClockTime(t *testing.T) {
	engine := NewEngine("supervisor")
	restore := now
	now = func() time.Time {
		return time.Date(2026, 5, 2, 16, 45, 9, 0, time.UTC)
	}
	defer func() { now = restore }()

	got, err := engine.MarkProcessed(pendingTicket(), ProcessInput{
		Advisor: "  maria  ",
		Note:    " urgent ",
		Seat:    "12A",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProcessedAtTime != "16:45:09" {
		t.Fatalf("expected 24h stamp 16:45:09, got %q", got.ProcessedAtTime)
	}
	if got.Advisor != "maria" {
		t.Fatalf("expected advisor trimmed, got %q", got.Advisor)
	}
	if got.Note != "urgent" || got.Seat != "12A" {
		t.Fatalf("expected optional fields trimmed and applied, got note=%q seat=%q", got.Note, got.Seat)
	}
}

func TestMarkProcessedKeepsExistingOptionalFields(t *testing.T) {
	engine := NewEngine("supervisor")
	ticket := pendingTicket()
	ticket.Note = "keep me"

	got, err := engine.MarkProcessed(ticket, ProcessInput{Advisor: "maria", Note: "   "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Note != "keep me" {
		t.Fatalf("blank input must not clear an existing note, got %q", got.Note)
	}
}

func TestToggleAttentionRequiresElevatedRole(t *testing.T) {
	engine := NewEngine("supervisor")
	ticket := pendingTicket()

	got, err := engine.ToggleAttention(ticket, Actor{Identity: "ana", Role: "agent"})
	if err == nil {
		t.Fatalf("expected permission error")
	}
	if code := errorCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN, got %s", code)
	}
	if got.Attention != ticket.Attention {
		t.Fatalf("attention mode must stay unchanged on refusal")
	}
}

func TestToggleAttentionFlipsForElevatedRole(t *testing.T) {
	engine := NewEngine("supervisor")
	actor := Actor{Identity: "eva", Role: "SUPERVISOR"}

	got, err := engine.ToggleAttention(pendingTicket(), actor)
	if err != nil {
		t.Fatalf("role comparison should be case-insensitive: %v", err)
	}
	if got.Attention != domain.AttentionVirtual {
		t.Fatalf("expected VIRTUAL after first toggle, got %s", got.Attention)
	}

	back, err := engine.ToggleAttention(got, actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Attention != domain.AttentionInPerson {
		t.Fatalf("expected IN_PERSON after second toggle, got %s", back.Attention)
	}
}

func TestEditDraftRefusesProcessedTickets(t *testing.T) {
	engine := NewEngine("supervisor")
	ticket := pendingTicket()
	ticket.Status = domain.TicketStatusProcessed
	ticket.Note = "original"

	note := "patched"
	got, err := engine.EditDraft(ticket, domain.DraftPatch{Note: &note})
	if err == nil {
		t.Fatalf("expected invalid state error")
	}
	if code := errorCode(t, err); code != "INVALID_STATE" {
		t.Fatalf("expected INVALID_STATE, got %s", code)
	}
	if got.Note != "original" {
		t.Fatalf("processed ticket must stay untouched, got note %q", got.Note)
	}
}

func TestEditDraftPatchesOnlyProvidedFields(t *testing.T) {
	engine := NewEngine("supervisor")
	ticket := pendingTicket()
	ticket.Advisor = "maria"
	ticket.Seat = "10C"

	note := "  window please  "
	got, err := engine.EditDraft(ticket, domain.DraftPatch{Note: &note})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Note != "window please" {
		t.Fatalf("expected note trimmed, got %q", got.Note)
	}
	if got.Advisor != "maria" || got.Seat != "10C" {
		t.Fatalf("absent patch fields must stay, got advisor=%q seat=%q", got.Advisor, got.Seat)
	}
}

func TestNewDraftValidatesRequiredFields(t *testing.T) {
	engine := NewEngine("supervisor")
	departure := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input domain.TicketDraft
	}{
		{"missing code", domain.TicketDraft{RecordLocator: "ABC123", DepartureAt: &departure}},
		{"missing record locator", domain.TicketDraft{Code: "T-9", DepartureAt: &departure}},
		{"missing departure", domain.TicketDraft{Code: "T-9", RecordLocator: "ABC123"}},
	}
	for _, tc := range cases {
		_, err := engine.NewDraft(tc.input)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if code := errorCode(t, err); code != "VALIDATION_FAILED" {
			t.Fatalf("%s: expected VALIDATION_FAILED, got %s", tc.name, code)
		}
	}
}

func TestNewDraftStartsPendingInPerson(t *testing.T) {
	engine := NewEngine("supervisor")
	departure := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	got, err := engine.NewDraft(domain.TicketDraft{
		Code:          " T-9 ",
		RecordLocator: " ZXC987 ",
		DepartureAt:   &departure,
		Advisor:       "maria",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != "T-9" || got.RecordLocator != "ZXC987" {
		t.Fatalf("expected trimmed identifiers, got code=%q locator=%q", got.Code, got.RecordLocator)
	}
	if got.Status != domain.TicketStatusPending {
		t.Fatalf("a draft is always created pending, got %s", got.Status)
	}
	if got.Attention != domain.AttentionInPerson {
		t.Fatalf("expected IN_PERSON default, got %s", got.Attention)
	}
}
