package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/config"
	"github.com/spec-kit/it-inventory/internal/events"
)

const webhookTimeout = 5 * time.Second

// NotificationService forwards status derivations and cascade deletes to the
// configured webhook and records an email notice for staff.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIncidentStatusDerived, n.onIncidentStatusDerived)
	n.dispatcher.Subscribe(events.EventRecordsCascadeDeleted, n.onRecordsCascadeDeleted)
}

func (n *NotificationService) onIncidentStatusDerived(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IncidentStatusDerivedPayload)
	if ok {
		n.logEmailNotice(event, fmt.Sprintf("%d incidencias de %s #%d pasan a %q",
			payload.IncidentsUpdated, payload.AssetKind, payload.AssetID, payload.IncidentStatus))
	}
	return n.postWebhook(ctx, event)
}

func (n *NotificationService) onRecordsCascadeDeleted(ctx context.Context, event events.Event) error {
	return n.postWebhook(ctx, event)
}

// logEmailNotice records the message staff would receive. There is no mail
// transport; the notice goes to the application log.
func (n *NotificationService) logEmailNotice(event events.Event, subject string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Info("email notice",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_id", event.ID),
		zap.String("subject", subject))
}

// postWebhook sends the event as JSON to the webhook URL. A non-2xx answer is an error.
func (n *NotificationService) postWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	timeout := webhookTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.Post(url).Timeout(timeout).JSON(event)
	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("webhook %s: %w", event.Type, errs[0])
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("webhook %s: unexpected status %d", event.Type, code)
	}
	n.logger.Debug("webhook delivered",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int("status", code))
	return nil
}
