package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/config"
	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/events"
)

// DisplayPublisher pushes display board updates to remote screens.
type DisplayPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService reacts to ticket events: it drives the display
// board and notifies clients.
type NotificationService struct {
	dispatcher events.Dispatcher
	board      *domain.DisplayBoard
	publisher  DisplayPublisher
	channel    string
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NotificationDependencies bundles what the notification service needs.
// Publisher may be nil.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Board      *domain.DisplayBoard
	Publisher  DisplayPublisher
	Channel    string
	Logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies, cfg config.NotificationConfig) *NotificationService {
	if deps.Board == nil {
		deps.Board = domain.NewDisplayBoard()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		board:      deps.Board,
		publisher:  deps.Publisher,
		channel:    deps.Channel,
		logger:     deps.Logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketInProgress, n.handleTicketInProgress)
	n.dispatcher.Subscribe(events.EventTicketCompleted, n.handleTicketCompleted)
	n.dispatcher.Subscribe(events.EventTicketCancelled, n.handleTicketCancelled)
}

// Board returns the display board.
func (n *NotificationService) Board() *domain.DisplayBoard {
	return n.board
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	category := payload.CategoryName
	if category == "" {
		category = "general service"
	}
	n.alertClient(payload.ClientID, fmt.Sprintf("Your ticket %s has been created for %s", event.TicketCode, category))
	if payload.Position > 0 {
		n.alertClient(payload.ClientID, fmt.Sprintf("Your ticket %s is currently at position %d in the queue.", event.TicketCode, payload.Position))
	}
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketInProgress(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketInProgressPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.board.Show(payload.Code, payload.StationNumber)
	n.board.Alert(payload.Code)
	n.publishBoard(ctx)
	n.logger.Info("client alert",
		zap.String("code", payload.Code),
		zap.String("message", fmt.Sprintf("Your ticket %s is being attended at station %d", payload.Code, payload.StationNumber)))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCompleted", zap.String("code", event.TicketCode), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketCancelled(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCancelled", zap.String("code", event.TicketCode), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

// Recall flashes the alert for a ticket again.
func (n *NotificationService) Recall(ctx context.Context, code string) bool {
	if !n.board.Alert(code) {
		return false
	}
	n.publishBoard(ctx)
	return true
}

// UpdateDisplay replaces the board message.
func (n *NotificationService) UpdateDisplay(ctx context.Context, message string) bool {
	if !n.board.Update(strings.TrimSpace(message)) {
		return false
	}
	n.publishBoard(ctx)
	return true
}

// ClearDisplay blanks the board.
func (n *NotificationService) ClearDisplay(ctx context.Context) {
	n.board.Clear()
	n.publishBoard(ctx)
}

func (n *NotificationService) alertClient(clientID, message string) {
	n.logger.Info("client alert", zap.String("client_id", clientID), zap.String("message", message))
}

// publishBoard mirrors the board to remote screens. Failures only log; the
// local board stays authoritative.
func (n *NotificationService) publishBoard(ctx context.Context) {
	if n.publisher == nil || n.channel == "" {
		return
	}
	body, err := json.Marshal(n.board.State())
	if err != nil {
		n.logger.Warn("encode display state", zap.Error(err))
		return
	}
	if err := n.publisher.Publish(ctx, n.channel, body); err != nil {
		n.logger.Warn("publish display state", zap.String("channel", n.channel), zap.Error(err))
	}
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("code", event.TicketCode),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("code", event.TicketCode),
		zap.String("event_type", string(event.Type)))
}
