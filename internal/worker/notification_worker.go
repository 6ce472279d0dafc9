package worker

import (
	"github.com/zeus-agencias/kontrol-tiquetes/internal/events"
	"github.com/zeus-agencias/kontrol-tiquetes/internal/service"
)

// StartNotificationWorker subscribes the ledger to domain events.
func StartNotificationWorker(notificationService *service.NotificationService, dispatcher events.Dispatcher) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers(dispatcher)
}
