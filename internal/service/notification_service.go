package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zeus-agencias/kontrol-tiquetes/internal/config"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/domain"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/events"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/ledger"
	"github.com/zeus-agencias/kontrol-tiquetes/pkg/util"
)

// NotificationService feeds the advisory ledger from domain events. The
// demo generator is a separate, config-gated path; the production ledger
// is driven only by real events.
type NotificationService struct {
	ledger *ledger.Ledger
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(l *ledger.Ledger, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{ledger: l, logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes the ledger to domain events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketsLoaded, n.handleTicketsLoaded)
	dispatcher.Subscribe(events.EventTicketProcessed, n.handleTicketProcessed)
	dispatcher.Subscribe(events.EventAttentionChanged, n.handleAttentionChanged)
	dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
}

// List returns ledger entries newest first.
func (n *NotificationService) List() []domain.Notification {
	return n.ledger.List()
}

// MarkRead flags an entry as read; idempotent.
func (n *NotificationService) MarkRead(id string) {
	n.ledger.MarkRead(id)
}

// Dismiss removes an entry; idempotent.
func (n *NotificationService) Dismiss(id string) {
	n.ledger.Dismiss(id)
}

// GenerateDemo appends a canned entry. Only available when the demo
// generator is enabled; it exists to exercise the advisory pipeline
// without waiting for real events.
func (n *NotificationService) GenerateDemo(category domain.NotificationCategory) (domain.Notification, error) {
	if !n.cfg.DemoGenerator {
		return domain.Notification{}, util.NewPermissionError("demo notification generator disabled")
	}
	return n.ledger.Generate(category), nil
}

func (n *NotificationService) handleTicketsLoaded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketsLoadedPayload)
	if !ok {
		return nil
	}
	if payload.Discarded > 0 {
		n.ledger.Append(domain.NotificationWarning, "Duplicates discarded",
			fmt.Sprintf("%d duplicate ticket rows were discarded during reload.", payload.Discarded))
	}
	n.logger.Info("TicketsLoaded", zap.Int("deduped", payload.Deduped), zap.Int("discarded", payload.Discarded))
	return nil
}

func (n *NotificationService) handleTicketProcessed(ctx context.Context, event events.Event) error {
	n.ledger.Append(domain.NotificationSuccess, "Ticket processed",
		fmt.Sprintf("Ticket %s was marked processed.", event.TicketCode))
	n.logger.Info("TicketProcessed", zap.String("ticket_code", event.TicketCode))
	return nil
}

func (n *NotificationService) handleAttentionChanged(ctx context.Context, event events.Event) error {
	n.ledger.Append(domain.NotificationInfo, "Attention mode changed",
		fmt.Sprintf("Attention mode for ticket %s was updated.", event.TicketCode))
	n.logger.Info("AttentionChanged", zap.String("ticket_code", event.TicketCode))
	return nil
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.ledger.Append(domain.NotificationInfo, "Ticket created",
		fmt.Sprintf("Ticket %s was created and is pending processing.", event.TicketCode))
	n.logger.Info("TicketCreated", zap.String("ticket_code", event.TicketCode))
	return nil
}
