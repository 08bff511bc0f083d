//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PulseFit-Gym-Platform/service-pricing/internal/application"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/domain"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/domain/pricing"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/events"
)

func amount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func intPtr(v int) *int { return &v }

// TestPricingLifecycle walks a pricing code through create, copy-on-write
// update and history, asserting both the persisted chain and the events
// published along the way.
func TestPricingLifecycle(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPricingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()

	created, err := stack.Service.CreatePrice(ctx, application.CreatePriceRequest{
		PricingCode:  "GYM_PASS_MONTHLY",
		Category:     "gym_pass",
		LabelBg:      "Месечна карта фитнес",
		Amount:       amount(t, "29.99"),
		ValidityDays: intPtr(30),
		ValidityType: "days",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Nil(t, created.ValidUntil)

	active, err := stack.Service.GetActiveByCode(ctx, "GYM_PASS_MONTHLY")
	require.NoError(t, err)
	assert.True(t, active.Amount.Equal(amount(t, "29.99")))

	newAmount := amount(t, "34.99")
	updated, err := stack.Service.UpdatePrice(ctx, "GYM_PASS_MONTHLY", application.UpdatePriceRequest{Amount: &newAmount})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(newAmount))

	history, err := stack.Service.GetVersionHistory(ctx, "GYM_PASS_MONTHLY")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsActive)
	assert.True(t, history[0].Amount.Equal(amount(t, "34.99")))
	assert.False(t, history[1].IsActive)
	assert.True(t, history[1].Amount.Equal(amount(t, "29.99")))
	require.NotNil(t, history[1].ValidUntil)
	assert.False(t, history[0].ValidFrom.Before(*history[1].ValidUntil))

	// Both changes reached the pricing.events topic.
	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicPricingEvents, events.PriceCreated, 15*time.Second)
	var createdEvt events.PriceCreatedEvent
	require.NoError(t, ce.ParseData(&createdEvt))
	assert.Equal(t, "GYM_PASS_MONTHLY", createdEvt.PricingCode)

	ce = consumeOneEvent(t, infra.KafkaBrokers, events.TopicPricingEvents, events.PriceUpdated, 15*time.Second)
	var updatedEvt events.PriceUpdatedEvent
	require.NoError(t, ce.ParseData(&updatedEvt))
	assert.Equal(t, "GYM_PASS_MONTHLY", updatedEvt.PricingCode)
	assert.True(t, updatedEvt.OldAmount.Equal(amount(t, "29.99")))
	assert.True(t, updatedEvt.NewAmount.Equal(amount(t, "34.99")))
}

// TestDeactivate_RetiresChain verifies deactivation leaves zero active
// versions, freezes the chain and publishes a deactivation event.
func TestDeactivate_RetiresChain(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPricingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()

	_, err := stack.Service.CreatePrice(ctx, application.CreatePriceRequest{
		PricingCode: "COURSE_YOGA",
		Category:    "course",
		LabelBg:     "Йога курс",
		Amount:      amount(t, "120.00"),
	})
	require.NoError(t, err)

	retired, err := stack.Service.DeactivatePrice(ctx, "COURSE_YOGA")
	require.NoError(t, err)
	assert.False(t, retired.IsActive)
	assert.NotNil(t, retired.ValidUntil)

	total, active := countVersions(t, infra.DB, "COURSE_YOGA")
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(0), active)

	// Repeat and unknown-code deactivations fail with not-found.
	_, err = stack.Service.DeactivatePrice(ctx, "COURSE_YOGA")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	_, err = stack.Service.DeactivatePrice(ctx, "UNKNOWN_CODE")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicPricingEvents, events.PriceDeactivated, 15*time.Second)
	var evt events.PriceDeactivatedEvent
	require.NoError(t, ce.ParseData(&evt))
	assert.Equal(t, "COURSE_YOGA", evt.PricingCode)
}

// TestConcurrentUpdates_NoDoubleActive races concurrent updates against the
// same code over the real database. Every successful update extends the chain
// by exactly one version and at no point do two active versions coexist.
func TestConcurrentUpdates_NoDoubleActive(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPricingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()

	_, err := stack.Service.CreatePrice(ctx, application.CreatePriceRequest{
		PricingCode: "TRAINING_PASS_10",
		Category:    "training_pass",
		LabelBg:     "Карта 10 тренировки",
		Amount:      amount(t, "90.00"),
	})
	require.NoError(t, err)

	const workers = 6
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := amount(t, "99.00")
			_, errs[i] = stack.Service.UpdatePrice(ctx, "TRAINING_PASS_10", application.UpdatePriceRequest{Amount: &next})
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case domain.IsConflict(err):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.GreaterOrEqual(t, wins, 1, "at least one update must win")

	total, active := countVersions(t, infra.DB, "TRAINING_PASS_10")
	assert.Equal(t, int64(1+wins), total, "each winning update adds exactly one version")
	assert.Equal(t, int64(1), active, "exactly one active version survives")
}

// TestCreate_RaceLosesToUniqueIndex verifies the database-level backstop: a
// create that skips the service pre-check still cannot produce a second
// active version for a code.
func TestCreate_RaceLosesToUniqueIndex(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupPricingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()

	first, err := pricing.NewPricingRecord("GYM_SINGLE", "gym_single_visit", "Единично посещение", amount(t, "8.00"), nil, "", nil, "")
	require.NoError(t, err)
	require.NoError(t, stack.Repo.CreateVersion(ctx, first))

	second, err := pricing.NewPricingRecord("GYM_SINGLE", "gym_single_visit", "Единично посещение", amount(t, "9.00"), nil, "", nil, "")
	require.NoError(t, err)

	err = stack.Repo.CreateVersion(ctx, second)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))

	total, active := countVersions(t, infra.DB, "GYM_SINGLE")
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), active)
}
