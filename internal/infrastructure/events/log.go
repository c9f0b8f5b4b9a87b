package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// LogPublisher writes events to the structured log. It is the default
// when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

var _ outbound.EventPublisher = (*LogPublisher)(nil)

// NewLogPublisher creates a log-backed publisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("events")}
}

// Publish logs the event envelope
func (p *LogPublisher) Publish(_ context.Context, event shared.DomainEvent) error {
	envelope, err := NewEnvelope(event)
	if err != nil {
		return err
	}

	p.logger.Info("Domain event",
		zap.String("event", envelope.Name),
		zap.String("key", envelope.Key),
		zap.Time("occurred_at", envelope.OccurredAt),
		zap.ByteString("payload", envelope.Payload),
	)
	return nil
}
