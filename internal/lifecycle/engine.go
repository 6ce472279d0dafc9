// Package lifecycle validates and applies state transitions on single
// tickets. It is the single source of truth for whether a mutation is
// legal: every entry point re-validates role and state even when the
// presentation layer already disabled the corresponding control.
package lifecycle

import (
	"strings"
	"time"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
	"github.com/zeus-agencias/kontrol-tiquetes/pkg/util"
)

// timeStampLayout is the processed-at format: 24-hour wall clock, as the
// upstream stores it.
const timeStampLayout = "15:04:05"

var now = time.Now

// Actor identifies the caller attempting a mutation. Role is opaque and
// compared case-insensitively against the engine's elevated marker.
type Actor struct {
	Identity string
	Role     string
}

// ProcessInput carries the fields supplied with a Pending → Processed
// transition.
type ProcessInput struct {
	Advisor string
	Note    string
	Seat    string
	Account string
}

// Engine applies lifecycle rules to tickets.
type Engine struct {
	elevatedRole string
}

// NewEngine builds an engine with the configured elevated role marker.
func NewEngine(elevatedRole string) *Engine {
	return &Engine{elevatedRole: elevatedRole}
}

// Elevated reports whether the actor holds the elevated role.
func (e *Engine) Elevated(actor Actor) bool {
	return strings.EqualFold(strings.TrimSpace(actor.Role), e.elevatedRole)
}

// MarkProcessed moves a ticket to Processed. The transition is one-way:
// there is no reverse operation. Fails with VALIDATION_FAILED when the
// advisor is empty or whitespace-only, leaving the ticket untouched.
func (e *Engine) MarkProcessed(t domain.Ticket, input ProcessInput) (domain.Ticket, error) {
	advisor := strings.TrimSpace(input.Advisor)
	if advisor == "" {
		return t, util.NewValidationError("advisor is required to process a ticket", map[string]any{
			"code": t.Code,
		})
	}
	if t.Status == domain.TicketStatusProcessed {
		return t, util.NewInvalidState("ticket already processed", map[string]any{
			"code": t.Code,
		})
	}

	t.Status = domain.TicketStatusProcessed
	t.Advisor = advisor
	t.ProcessedAtTime = now().Format(timeStampLayout)
	if note := strings.TrimSpace(input.Note); note != "" {
		t.Note = note
	}
	if seat := strings.TrimSpace(input.Seat); seat != "" {
		t.Seat = seat
	}
	if account := strings.TrimSpace(input.Account); account != "" {
		t.Account = account
	}
	return t, nil
}

// ToggleAttention flips the attention mode between in-person and virtual.
// Restricted to the elevated role; without it the ticket is returned
// unchanged alongside FORBIDDEN so the caller can surface feedback.
func (e *Engine) ToggleAttention(t domain.Ticket, actor Actor) (domain.Ticket, error) {
	if !e.Elevated(actor) {
		return t, util.NewPermissionError("attention mode changes require the elevated role")
	}
	if t.Attention == domain.AttentionVirtual {
		t.Attention = domain.AttentionInPerson
	} else {
		t.Attention = domain.AttentionVirtual
	}
	return t, nil
}

// EditDraft applies a patch to the editable fields of a Pending ticket.
// Processed tickets are immutable: the patch is refused with INVALID_STATE
// and no field changes.
func (e *Engine) EditDraft(t domain.Ticket, patch domain.DraftPatch) (domain.Ticket, error) {
	if t.Status != domain.TicketStatusPending {
		return t, util.NewInvalidState("only pending tickets can be edited", map[string]any{
			"code":   t.Code,
			"status": t.Status,
		})
	}
	if patch.Advisor != nil {
		t.Advisor = strings.TrimSpace(*patch.Advisor)
	}
	if patch.Note != nil {
		t.Note = strings.TrimSpace(*patch.Note)
	}
	if patch.Seat != nil {
		t.Seat = strings.TrimSpace(*patch.Seat)
	}
	if patch.Account != nil {
		t.Account = strings.TrimSpace(*patch.Account)
	}
	return t, nil
}

// NewDraft constructs a Pending ticket from a minimal field set. The draft
// never requires an advisor; it is always created Pending and the upstream
// create call confirms it on the next reload.
func (e *Engine) NewDraft(input domain.TicketDraft) (domain.Ticket, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return domain.Ticket{}, util.NewValidationError("ticket code is required", nil)
	}
	if strings.TrimSpace(input.RecordLocator) == "" {
		return domain.Ticket{}, util.NewValidationError("record locator is required", map[string]any{
			"code": code,
		})
	}
	if input.DepartureAt == nil {
		return domain.Ticket{}, util.NewValidationError("departure time is required", map[string]any{
			"code": code,
		})
	}

	return domain.Ticket{
		Code:          code,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Itinerary:     strings.TrimSpace(input.Itinerary),
		DepartureAt:   input.DepartureAt,
		RecordLocator: strings.TrimSpace(input.RecordLocator),
		IssuerName:    strings.TrimSpace(input.IssuerName),
		Status:        domain.TicketStatusPending,
		Advisor:       strings.TrimSpace(input.Advisor),
		Note:          strings.TrimSpace(input.Note),
		Seat:          strings.TrimSpace(input.Seat),
		Account:       strings.TrimSpace(input.Account),
		Attention:     domain.AttentionInPerson,
	}, nil
}
