package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PulseFit-Gym-Platform/service-pricing/internal/domain/pricing"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/kafka"
)

const eventSource = "service-pricing"

// Publisher emits pricing change events to the pricing.events topic.
// Publishing is best-effort: it happens after the storage transaction has
// committed, and a failed publish is logged without affecting the write.
type Publisher struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewPublisher creates a pricing event publisher.
func NewPublisher(producer *kafka.Producer, logger *zap.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

// PriceCreated publishes a PriceCreatedEvent for the new version.
func (p *Publisher) PriceCreated(ctx context.Context, record *pricing.PricingRecord) {
	event := PriceCreatedEvent{
		VersionID:   record.ID(),
		PricingCode: record.PricingCode(),
		Category:    string(record.Category()),
		Amount:      record.Amount(),
		ValidFrom:   record.ValidFrom(),
		OccurredAt:  time.Now().UTC(),
	}
	p.publish(ctx, PriceCreated, event)
}

// PriceUpdated publishes a PriceUpdatedEvent for a retire-and-replace pair.
func (p *Publisher) PriceUpdated(ctx context.Context, retired, replacement *pricing.PricingRecord) {
	event := PriceUpdatedEvent{
		PricingCode:      replacement.PricingCode(),
		RetiredVersionID: retired.ID(),
		NewVersionID:     replacement.ID(),
		OldAmount:        retired.Amount(),
		NewAmount:        replacement.Amount(),
		ValidFrom:        replacement.ValidFrom(),
		OccurredAt:       time.Now().UTC(),
	}
	p.publish(ctx, PriceUpdated, event)
}

// PriceDeactivated publishes a PriceDeactivatedEvent for the retired version.
func (p *Publisher) PriceDeactivated(ctx context.Context, retired *pricing.PricingRecord) {
	validUntil := time.Now().UTC()
	if retired.ValidUntil() != nil {
		validUntil = *retired.ValidUntil()
	}
	event := PriceDeactivatedEvent{
		VersionID:   retired.ID(),
		PricingCode: retired.PricingCode(),
		ValidUntil:  validUntil,
		OccurredAt:  time.Now().UTC(),
	}
	p.publish(ctx, PriceDeactivated, event)
}

func (p *Publisher) publish(ctx context.Context, eventType string, data interface{}) {
	ce, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.producer.PublishEvent(ctx, TopicPricingEvents, ce); err != nil {
		p.logger.Error("failed to publish pricing event",
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}
