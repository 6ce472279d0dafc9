package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/config"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/lifecycle"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/repository"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/workspace"
	"github.com/zeus-agencias/kontrol-tiquetes/pkg/util"
)

// fakeTicketRepo is an in-memory stand-in for the upstream source.
type fakeTicketRepo struct {
	rows       []domain.Ticket
	fetchErr   error
	commitErr  error
	committed  []string
	attentions []string
	created    []string
}

func (f *fakeTicketRepo) FetchTickets(ctx context.Context, limit int, leg domain.LegType) (repository.FetchResult, error) {
	if f.fetchErr != nil {
		return repository.FetchResult{}, f.fetchErr
	}
	rows := f.rows
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return repository.FetchResult{Total: len(rows), Tickets: rows}, nil
}

func (f *fakeTicketRepo) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	for _, t := range f.rows {
		if t.Code == code {
			ticket := t
			return &ticket, nil
		}
	}
	return nil, errors.New("not in feed")
}

func (f *fakeTicketRepo) CommitProcessed(ctx context.Context, code string, commit repository.ProcessedCommit) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = append(f.committed, code)
	return nil
}

func (f *fakeTicketRepo) CommitAttention(ctx context.Context, code string, mode domain.AttentionMode) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.attentions = append(f.attentions, code)
	return nil
}

func (f *fakeTicketRepo) CommitCreate(ctx context.Context, draft domain.TicketDraft) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.created = append(f.created, draft.Code)
	return nil
}

func newTestService(repo repository.TicketRepository) (*TicketService, *workspace.Workspace) {
	ws := workspace.New()
	cfg := config.TicketsConfig{DefaultFetchLimit: 100, MaxFetchLimit: 100}
	svc := NewTicketService(cfg, TicketDependencies{
		TicketRepo: repo,
		Workspace:  ws,
		Engine:     lifecycle.NewEngine("supervisor"),
		Logger:     zap.NewNop(),
	})
	return svc, ws
}

func feedTicket(code string) domain.Ticket {
	departure := time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)
	return domain.Ticket{
		Code:          code,
		FirstName:     "Ana",
		LastName:      "Torres",
		RecordLocator: "ABC123",
		DepartureAt:   &departure,
		Status:        domain.TicketStatusPending,
		Attention:     domain.AttentionInPerson,
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return domainErr.Code
}

func TestReloadDeduplicatesFeedRows(t *testing.T) {
	repo := &fakeTicketRepo{rows: []domain.Ticket{
		feedTicket("T-1"), feedTicket("T-1"), feedTicket("T-2"),
	}}
	svc, ws := newTestService(repo)

	deduped, err := svc.Reload(context.Background(), 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deduped != 2 || ws.Len() != 2 {
		t.Fatalf("expected 2 after dedup, got %d (workspace %d)", deduped, ws.Len())
	}
}

func TestReloadUpstreamFailureLeavesWorkspaceUntouched(t *testing.T) {
	repo := &fakeTicketRepo{rows: []domain.Ticket{feedTicket("T-1")}}
	svc, ws := newTestService(repo)

	if _, err := svc.Reload(context.Background(), 0, ""); err != nil {
		t.Fatalf("seed reload failed: %v", err)
	}

	repo.fetchErr = errors.New("connection reset")
	_, err := svc.Reload(context.Background(), 0, "")
	if err == nil {
		t.Fatalf("expected upstream failure")
	}
	if code := domainCode(t, err); code != "UPSTREAM_FAILURE" {
		t.Fatalf("expected UPSTREAM_FAILURE, got %s", code)
	}
	if ws.Len() != 1 {
		t.Fatalf("failed reload must keep previous set, got %d tickets", ws.Len())
	}
}

func TestProcessCommitsUpstreamBeforeMerging(t *testing.T) {
	repo := &fakeTicketRepo{rows: []domain.Ticket{feedTicket("T-1")}}
	svc, ws := newTestService(repo)
	if _, err := svc.Reload(context.Background(), 0, ""); err != nil {
		t.Fatalf("seed reload failed: %v", err)
	}

	actor := lifecycle.Actor{Identity: "ana", Role: "agent"}
	updated, err := svc.Process(context.Background(), actor, "T-1", lifecycle.ProcessInput{Advisor: "maria"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.TicketStatusProcessed {
		t.Fatalf("expected processed, got %s", updated.Status)
	}
	if len(repo.committed) != 1 || repo.committed[0] != "T-1" {
		t.Fatalf("expected upstream commit for T-1, got %v", repo.committed)
	}
	merged, _ := ws.Get("T-1")
	if merged.Status != domain.TicketStatusProcessed || merged.Advisor != "maria" {
		t.Fatalf("expected workspace merged after commit, got %+v", merged)
	}
}

func TestProcessCommitFailureLeavesWorkspaceUnchanged(t *testing.T) {
	repo := &fakeTicketRepo{rows: []domain.Ticket{feedTicket("T-1")}}
	svc, ws := newTestService(repo)
	if _, err := svc.Reload(context.Background(), 0, ""); err != nil {
		t.Fatalf("seed reload failed: %v", err)
	}

	repo.commitErr = errors.New("write timeout")
	actor := lifecycle.Actor{Identity: "ana", Role: "agent"}
	_, err := svc.Process(context.Background(), actor, "T-1", lifecycle.ProcessInput{Advisor: "maria"})
	if err == nil {
		t.Fatalf("expected commit failure to surface")
	}
	if code := domainCode(t, err); code != "UPSTREAM_FAILURE" {
		t.Fatalf("expected UPSTREAM_FAILURE, got %s", code)
	}
	local, _ := ws.Get("T-1")
	if local.Status != domain.TicketStatusPending {
		t.Fatalf("failed commit must not merge locally, got %s", local.Status)
	}
}

func TestProcessValidationFailsBeforeCommit(t *testing.T) {
	repo := &fakeTicketRepo{rows: []domain.Ticket{feedTicket("T-1")}}
	svc, _ := newTestService(repo)
	if _, err := svc.Reload(context.Background(), 0, ""); err != nil {
		t.Fatalf("seed reload failed: %v", err)
	}

	actor := lifecycle.Actor{Identity: "ana", Role: "agent"}
	_, err := svc.Process(context.Background(), actor, "T-1", lifecycle.ProcessInput{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if code := domainCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %s", code)
	}
	if len(repo.committed) != 0 {
		t.Fatalf("rejected input must never reach upstream, got commits %v", repo.committed)
	}
}

func TestToggleAttentionRejectedRoleDoesNotCommit(t *testing.T) {
	repo := &fakeTicketRepo{rows: []domain.Ticket{feedTicket("T-1")}}
	svc, ws := newTestService(repo)
	if _, err := svc.Reload(context.Background(), 0, ""); err != nil {
		t.Fatalf("seed reload failed: %v", err)
	}

	_, err := svc.ToggleAttention(context.Background(), lifecycle.Actor{Identity: "ana", Role: "agent"}, "T-1")
	if err == nil {
		t.Fatalf("expected permission error")
	}
	if code := domainCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN, got %s", code)
	}
	if len(repo.attentions) != 0 {
		t.Fatalf("refused toggle must not hit upstream, got %v", repo.attentions)
	}
	local, _ := ws.Get("T-1")
	if local.Attention != domain.AttentionInPerson {
		t.Fatalf("attention must stay IN_PERSON, got %s", local.Attention)
	}
}

func TestStatsReflectsWorkspace(t *testing.T) {
	repo := &fakeTicketRepo{rows: []domain.Ticket{
		feedTicket("T-1"), feedTicket("T-2"),
	}}
	svc, _ := newTestService(repo)
	if _, err := svc.Reload(context.Background(), 0, ""); err != nil {
		t.Fatalf("seed reload failed: %v", err)
	}

	actor := lifecycle.Actor{Identity: "ana", Role: "agent"}
	if _, err := svc.Process(context.Background(), actor, "T-1", lifecycle.ProcessInput{Advisor: "maria"}); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	stats := svc.Stats(context.Background())
	if stats.Total != 2 || stats.Processed != 1 || stats.Pending != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Pending+stats.Processed != stats.Total {
		t.Fatalf("stats partition broken: %+v", stats)
	}
}

func TestCreateDraftCommitFailureStaysLocalOnly(t *testing.T) {
	repo := &fakeTicketRepo{commitErr: errors.New("insert refused")}
	svc, ws := newTestService(repo)

	departure := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.CreateDraft(context.Background(), lifecycle.Actor{Identity: "ana"}, domain.TicketDraft{
		Code:          "T-9",
		RecordLocator: "ZXC987",
		DepartureAt:   &departure,
	})
	if err == nil {
		t.Fatalf("expected upstream failure")
	}
	if _, ok := ws.Get("T-9"); ok {
		t.Fatalf("failed create must not appear in workspace")
	}
}

func TestEditDraftKeepsChangeLocal(t *testing.T) {
	repo := &fakeTicketRepo{rows: []domain.Ticket{feedTicket("T-1")}}
	svc, ws := newTestService(repo)
	if _, err := svc.Reload(context.Background(), 0, ""); err != nil {
		t.Fatalf("seed reload failed: %v", err)
	}

	seat := "14F"
	updated, err := svc.EditDraft(context.Background(), lifecycle.Actor{Identity: "ana"}, "T-1", domain.DraftPatch{Seat: &seat})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Seat != "14F" {
		t.Fatalf("expected seat patched, got %q", updated.Seat)
	}
	local, _ := ws.Get("T-1")
	if local.Seat != "14F" {
		t.Fatalf("expected workspace to hold the draft edit, got %q", local.Seat)
	}
	if len(repo.committed) != 0 || len(repo.created) != 0 {
		t.Fatalf("draft edits are session-local, upstream saw %v %v", repo.committed, repo.created)
	}
}
