package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/config"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/events"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/lifecycle"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/persistence"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/repository"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/workspace"
	"github.com/zeus-agencias/kontrol-tiquetes/pkg/util"
)

const statsCacheKey = "kontrol:tiquetes:stats"

// TicketService coordinates the reload/filter/lifecycle workflows over the
// session workspace. Mutations commit upstream first and merge locally
// only on success, so an upstream failure leaves both sides unchanged.
type TicketService struct {
	tickets    repository.TicketRepository
	ws         *workspace.Workspace
	engine     *lifecycle.Engine
	dispatcher events.Dispatcher
	cache      *persistence.Redis
	cacheTTL   time.Duration
	logger     *zap.Logger
	cfg        config.TicketsConfig
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Workspace  *workspace.Workspace
	Engine     *lifecycle.Engine
	Dispatcher events.Dispatcher
	Cache      *persistence.Redis
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(cfg config.TicketsConfig, deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		ws:         deps.Workspace,
		engine:     deps.Engine,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		cacheTTL:   cfg.StatsCacheTTL(),
		logger:     deps.Logger,
		cfg:        cfg,
	}
}

// Reload replaces the session workspace with a fresh upstream fetch,
// deduplicating by code. A newer reload's result supersedes an older one;
// there is no cancellation primitive.
func (s *TicketService) Reload(ctx context.Context, limit int, leg domain.LegType) (int, error) {
	if limit <= 0 || limit > s.cfg.MaxFetchLimit {
		limit = s.cfg.DefaultFetchLimit
	}

	result, err := s.tickets.FetchTickets(ctx, limit, leg)
	if err != nil {
		return 0, util.NewUpstreamFailure(err)
	}

	s.ws.Load(result.Tickets)
	deduped := s.ws.Len()
	s.invalidateStats(ctx)

	s.logger.Info("workspace reloaded",
		zap.Int("fetched", result.Total),
		zap.Int("deduped", deduped),
		zap.String("leg", string(leg)))

	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketsLoaded,
		Payload: events.TicketsLoadedPayload{
			Fetched:    result.Total,
			Deduped:    deduped,
			Discarded:  result.Total - deduped,
			Leg:        leg,
			FetchLimit: limit,
		},
	})
	return deduped, nil
}

// List applies the client-side criteria over the loaded set, preserving
// order. No I/O happens here.
func (s *TicketService) List(criteria workspace.Criteria) []domain.Ticket {
	return workspace.Apply(s.ws.All(), criteria)
}

// Get returns a single ticket, preferring the session workspace and
// falling back to the upstream source.
func (s *TicketService) Get(ctx context.Context, code string) (*domain.Ticket, error) {
	if ticket, ok := s.ws.Get(code); ok {
		return &ticket, nil
	}
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"code": code})
		}
		return nil, util.NewUpstreamFailure(err)
	}
	return ticket, nil
}

// Stats returns the aggregate snapshot, served from the redis cache when
// fresh. The workspace recomputes on every miss; mutations invalidate.
func (s *TicketService) Stats(ctx context.Context) domain.TicketStats {
	if cached, ok := s.cachedStats(ctx); ok {
		return cached
	}
	stats := s.ws.Stats()
	s.storeStats(ctx, stats)
	return stats
}

// Process drives the one-way Pending → Processed transition. The engine
// validates, the upstream commit persists, and only then does the local
// workspace merge.
func (s *TicketService) Process(ctx context.Context, actor lifecycle.Actor, code string, input lifecycle.ProcessInput) (*domain.Ticket, error) {
	current, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	updated, err := s.engine.MarkProcessed(*current, input)
	if err != nil {
		return nil, err
	}

	commit := repository.ProcessedCommit{
		Advisor:         updated.Advisor,
		Note:            updated.Note,
		Seat:            updated.Seat,
		Account:         updated.Account,
		ProcessedAtTime: updated.ProcessedAtTime,
	}
	if err := s.tickets.CommitProcessed(ctx, code, commit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"code": code})
		}
		return nil, util.NewUpstreamFailure(err)
	}

	s.ws.Upsert(updated)
	s.invalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketProcessed,
		TicketCode: updated.Code,
		Actor:      eventActor(actor),
		Payload: events.TicketProcessedPayload{
			Advisor:         updated.Advisor,
			ProcessedAtTime: updated.ProcessedAtTime,
		},
	})
	return &updated, nil
}

// ToggleAttention flips the attention mode for an elevated actor.
func (s *TicketService) ToggleAttention(ctx context.Context, actor lifecycle.Actor, code string) (*domain.Ticket, error) {
	current, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	updated, err := s.engine.ToggleAttention(*current, actor)
	if err != nil {
		return nil, err
	}

	if err := s.tickets.CommitAttention(ctx, code, updated.Attention); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"code": code})
		}
		return nil, util.NewUpstreamFailure(err)
	}

	s.ws.Upsert(updated)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventAttentionChanged,
		TicketCode: updated.Code,
		Actor:      eventActor(actor),
		Payload:    events.AttentionChangedPayload{Mode: updated.Attention},
	})
	return &updated, nil
}

// EditDraft patches the editable fields of a Pending ticket. Drafts are a
// session-local concern: the values ride along with the process call, so
// nothing is committed upstream here.
func (s *TicketService) EditDraft(ctx context.Context, actor lifecycle.Actor, code string, patch domain.DraftPatch) (*domain.Ticket, error) {
	current, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	updated, err := s.engine.EditDraft(*current, patch)
	if err != nil {
		return nil, err
	}

	s.ws.Upsert(updated)
	return &updated, nil
}

// CreateDraft validates and commits a new Pending ticket upstream, then
// merges it into the workspace so it is visible before the next reload.
func (s *TicketService) CreateDraft(ctx context.Context, actor lifecycle.Actor, input domain.TicketDraft) (*domain.Ticket, error) {
	draft, err := s.engine.NewDraft(input)
	if err != nil {
		return nil, err
	}

	if err := s.tickets.CommitCreate(ctx, input); err != nil {
		return nil, util.NewUpstreamFailure(err)
	}

	s.ws.Upsert(draft)
	s.invalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCreated,
		TicketCode: draft.Code,
		Actor:      eventActor(actor),
		Payload: events.TicketCreatedPayload{
			RecordLocator: draft.RecordLocator,
			Leg:           input.Leg,
		},
	})
	return &draft, nil
}

func (s *TicketService) cachedStats(ctx context.Context) (domain.TicketStats, bool) {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return domain.TicketStats{}, false
	}
	raw, err := s.cache.Client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return domain.TicketStats{}, false
	}
	var stats domain.TicketStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return domain.TicketStats{}, false
	}
	return stats, true
}

func (s *TicketService) storeStats(ctx context.Context, stats domain.TicketStats) {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
}

func (s *TicketService) invalidateStats(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Debug("stats cache invalidation failed", zap.Error(err))
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor lifecycle.Actor) events.Actor {
	return events.Actor{Identity: actor.Identity, Role: actor.Role}
}
