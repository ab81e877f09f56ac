package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/service"
)

// EventSubscriber is any service that reacts to ticket events.
type EventSubscriber interface {
	RegisterHandlers()
}

// StartNotificationWorker registers notification handlers so display and
// client alerts follow ticket events.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	start("notification", notificationService, logger)
}

// StartHistoryWorker records the audit trail of every ticket event.
func StartHistoryWorker(historyService *service.HistoryService, logger *zap.Logger) {
	if historyService == nil {
		return
	}
	start("history", historyService, logger)
}

func start(name string, subscriber EventSubscriber, logger *zap.Logger) {
	subscriber.RegisterHandlers()
	if logger != nil {
		logger.Info("worker started", zap.String("worker", name))
	}
}
