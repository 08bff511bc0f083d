package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicPricingEvents is the Kafka topic carrying pricing change events.
const TopicPricingEvents = "pricing.events"

// Event types published by the pricing service.
const (
	PriceCreated     = "pricing.price.created"
	PriceUpdated     = "pricing.price.updated"
	PriceDeactivated = "pricing.price.deactivated"
)

// PriceCreatedEvent is published when a new active version opens for a code
// that previously had none.
type PriceCreatedEvent struct {
	VersionID   uuid.UUID       `json:"version_id"`
	PricingCode string          `json:"pricing_code"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ValidFrom   time.Time       `json:"valid_from"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// PriceUpdatedEvent is published when a copy-on-write update retires one
// version and opens its replacement.
type PriceUpdatedEvent struct {
	PricingCode      string          `json:"pricing_code"`
	RetiredVersionID uuid.UUID       `json:"retired_version_id"`
	NewVersionID     uuid.UUID       `json:"new_version_id"`
	OldAmount        decimal.Decimal `json:"old_amount"`
	NewAmount        decimal.Decimal `json:"new_amount"`
	ValidFrom        time.Time       `json:"valid_from"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// PriceDeactivatedEvent is published when a code is retired with no
// replacement version.
type PriceDeactivatedEvent struct {
	VersionID   uuid.UUID `json:"version_id"`
	PricingCode string    `json:"pricing_code"`
	ValidUntil  time.Time `json:"valid_until"`
	OccurredAt  time.Time `json:"occurred_at"`
}
