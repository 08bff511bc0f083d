package pricing

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PulseFit-Gym-Platform/service-pricing/internal/domain"
)

// ValidityType expresses the unit of a price's validity window after purchase.
type ValidityType string

const (
	ValidityDays   ValidityType = "days"
	ValidityMonths ValidityType = "months"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

// PricingRecord is one immutable version of a priced offering. All versions
// sharing a pricing code form the offering's append-only history; at most one
// of them is active at any time.
type PricingRecord struct {
	id           uuid.UUID
	pricingCode  string
	category     Category
	labelBg      string
	amount       decimal.Decimal
	validityDays *int
	validityType ValidityType
	maxEntries   *int
	notes        string
	isActive     bool
	validFrom    time.Time
	validUntil   *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewPricingRecord creates the active version of a priced offering, validating
// every field constraint. validFrom is stamped now; validUntil stays open.
func NewPricingRecord(code string, category Category, labelBg string, amount decimal.Decimal, validityDays *int, validityType ValidityType, maxEntries *int, notes string) (*PricingRecord, error) {
	if err := validateFields(code, category, labelBg, amount, validityDays, validityType, maxEntries); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &PricingRecord{
		id:           uuid.New(),
		pricingCode:  code,
		category:     category,
		labelBg:      labelBg,
		amount:       amount,
		validityDays: validityDays,
		validityType: validityType,
		maxEntries:   maxEntries,
		notes:        notes,
		isActive:     true,
		validFrom:    now,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func validateFields(code string, category Category, labelBg string, amount decimal.Decimal, validityDays *int, validityType ValidityType, maxEntries *int) error {
	if !codePattern.MatchString(code) {
		return domain.NewValidationError("pricing code %q must contain only uppercase letters, digits and underscores", code)
	}
	if !IsValidCategory(category) {
		return domain.NewValidationError("unknown category %q", category)
	}
	if labelBg == "" {
		return domain.NewValidationError("display label is required")
	}
	if !amount.IsPositive() {
		return domain.NewValidationError("amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return domain.NewValidationError("amount must have at most two decimal places")
	}
	if validityDays != nil {
		if *validityDays <= 0 {
			return domain.NewValidationError("validity period must be a positive number")
		}
		if validityType != ValidityDays && validityType != ValidityMonths {
			return domain.NewValidationError("validity type must be %q or %q", ValidityDays, ValidityMonths)
		}
	} else if validityType != "" {
		return domain.NewValidationError("validity type requires a validity period")
	}
	if maxEntries != nil && *maxEntries <= 0 {
		return domain.NewValidationError("max entries must be a positive number")
	}
	return nil
}

// Reconstitute rebuilds a PricingRecord from persisted data.
func Reconstitute(
	id uuid.UUID,
	code string,
	category Category,
	labelBg string,
	amount decimal.Decimal,
	validityDays *int,
	validityType ValidityType,
	maxEntries *int,
	notes string,
	isActive bool,
	validFrom time.Time,
	validUntil *time.Time,
	createdAt, updatedAt time.Time,
) *PricingRecord {
	return &PricingRecord{
		id:           id,
		pricingCode:  code,
		category:     category,
		labelBg:      labelBg,
		amount:       amount,
		validityDays: validityDays,
		validityType: validityType,
		maxEntries:   maxEntries,
		notes:        notes,
		isActive:     isActive,
		validFrom:    validFrom,
		validUntil:   validUntil,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

func (p *PricingRecord) ID() uuid.UUID              { return p.id }
func (p *PricingRecord) PricingCode() string        { return p.pricingCode }
func (p *PricingRecord) Category() Category         { return p.category }
func (p *PricingRecord) LabelBg() string            { return p.labelBg }
func (p *PricingRecord) Amount() decimal.Decimal    { return p.amount }
func (p *PricingRecord) ValidityDays() *int         { return p.validityDays }
func (p *PricingRecord) ValidityType() ValidityType { return p.validityType }
func (p *PricingRecord) MaxEntries() *int           { return p.maxEntries }
func (p *PricingRecord) Notes() string              { return p.notes }
func (p *PricingRecord) IsActive() bool             { return p.isActive }
func (p *PricingRecord) ValidFrom() time.Time       { return p.validFrom }
func (p *PricingRecord) ValidUntil() *time.Time     { return p.validUntil }
func (p *PricingRecord) CreatedAt() time.Time       { return p.createdAt }
func (p *PricingRecord) UpdatedAt() time.Time       { return p.updatedAt }

// --- Behavior ---

// Retire closes this version at the given instant. Business fields stay
// untouched; only the active flag and validity bound change.
func (p *PricingRecord) Retire(at time.Time) error {
	if !p.isActive {
		return domain.NewConflictError("pricing version is already retired")
	}
	p.isActive = false
	p.validUntil = &at
	p.updatedAt = at
	return nil
}

// NewReplacement builds the successor version for a copy-on-write update.
// Nil arguments keep the current version's value; non-nil ones override it.
// The pricing code is carried over unchanged and the replacement opens at
// the instant the current version is retired.
func (p *PricingRecord) NewReplacement(category *Category, labelBg *string, amount *decimal.Decimal, validityDays *int, validityType *ValidityType, maxEntries *int, notes *string, at time.Time) (*PricingRecord, error) {
	next := &PricingRecord{
		id:           uuid.New(),
		pricingCode:  p.pricingCode,
		category:     p.category,
		labelBg:      p.labelBg,
		amount:       p.amount,
		validityDays: p.validityDays,
		validityType: p.validityType,
		maxEntries:   p.maxEntries,
		notes:        p.notes,
		isActive:     true,
		validFrom:    at,
		createdAt:    at,
		updatedAt:    at,
	}
	if category != nil {
		next.category = *category
	}
	if labelBg != nil {
		next.labelBg = *labelBg
	}
	if amount != nil {
		next.amount = *amount
	}
	if validityDays != nil {
		next.validityDays = validityDays
	}
	if validityType != nil {
		next.validityType = *validityType
	}
	if maxEntries != nil {
		next.maxEntries = maxEntries
	}
	if notes != nil {
		next.notes = *notes
	}

	if err := validateFields(next.pricingCode, next.category, next.labelBg, next.amount, next.validityDays, next.validityType, next.maxEntries); err != nil {
		return nil, err
	}
	return next, nil
}
