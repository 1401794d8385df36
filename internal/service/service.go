package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/events"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

type actorKey struct{}

// WithActor attaches the signed-in user to ctx for event attribution.
func WithActor(ctx context.Context, actor events.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) events.Actor {
	actor, _ := ctx.Value(actorKey{}).(events.Actor)
	return actor
}

// publisher stamps and publishes domain events. A nil dispatcher drops them.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p publisher) publish(ctx context.Context, eventType events.EventType, payload any) {
	if p.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actorFrom(ctx),
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// found converts a missing row into a named not-found error.
func found[T any](v *T, err error, resource string) (*T, error) {
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound(resource)
		}
		return nil, err
	}
	return v, nil
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
