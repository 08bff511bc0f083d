package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PulseFit-Gym-Platform/service-pricing/internal/domain"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/domain/pricing"
)

// CreatePriceRequest holds data to create the first active version of a code.
type CreatePriceRequest struct {
	PricingCode  string          `json:"pricing_code" binding:"required"`
	Category     string          `json:"category" binding:"required"`
	LabelBg      string          `json:"label_bg" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	ValidityDays *int            `json:"validity_days,omitempty"`
	ValidityType string          `json:"validity_type,omitempty"`
	MaxEntries   *int            `json:"max_entries,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// UpdatePriceRequest holds the partial field set for a copy-on-write update.
// Absent fields keep the current version's values.
type UpdatePriceRequest struct {
	Category     *string          `json:"category,omitempty"`
	LabelBg      *string          `json:"label_bg,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	ValidityDays *int             `json:"validity_days,omitempty"`
	ValidityType *string          `json:"validity_type,omitempty"`
	MaxEntries   *int             `json:"max_entries,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// PriceDTO is the API response representation of one pricing version.
type PriceDTO struct {
	ID            uuid.UUID       `json:"id"`
	PricingCode   string          `json:"pricing_code"`
	Category      string          `json:"category"`
	CategoryLabel string          `json:"category_label"`
	LabelBg       string          `json:"label_bg"`
	Amount        decimal.Decimal `json:"amount"`
	ValidityDays  *int            `json:"validity_days,omitempty"`
	ValidityType  string          `json:"validity_type,omitempty"`
	MaxEntries    *int            `json:"max_entries,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	IsActive      bool            `json:"is_active"`
	ValidFrom     time.Time       `json:"valid_from"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// VersionDTO is one entry of a version history response. Versions are
// numbered descending, newest (highest) first; the active entry is current.
type VersionDTO struct {
	PriceDTO
	Version int `json:"version"`
}

// EventPublisher reports committed pricing changes to interested services.
type EventPublisher interface {
	PriceCreated(ctx context.Context, record *pricing.PricingRecord)
	PriceUpdated(ctx context.Context, retired, replacement *pricing.PricingRecord)
	PriceDeactivated(ctx context.Context, retired *pricing.PricingRecord)
}

// PricingService orchestrates the pricing catalog use cases: create,
// copy-on-write update, deactivate, and the read-side projections.
type PricingService struct {
	repo      pricing.Repository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewPricingService creates a new PricingService.
func NewPricingService(repo pricing.Repository, publisher EventPublisher, logger *zap.Logger) *PricingService {
	return &PricingService{repo: repo, publisher: publisher, logger: logger}
}

// GetCategories returns the fixed category enumeration for the admin form.
func (s *PricingService) GetCategories() []pricing.CategoryInfo {
	return pricing.Categories()
}

// CreatePrice opens the first active version for a pricing code. A code whose
// versions are all retired may be re-created; the new version appends to the
// existing chain. A code with a live active version must be updated instead.
func (s *PricingService) CreatePrice(ctx context.Context, req CreatePriceRequest) (*PriceDTO, error) {
	code := normalizeCode(req.PricingCode)

	if _, err := s.repo.FindActiveByCode(ctx, code); err == nil {
		return nil, domain.NewValidationError("pricing code %q already has an active version; use update instead", code)
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	record, err := pricing.NewPricingRecord(
		code,
		pricing.Category(req.Category),
		req.LabelBg,
		req.Amount,
		req.ValidityDays,
		pricing.ValidityType(req.ValidityType),
		req.MaxEntries,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	reactivated, err := s.repo.HasAnyVersion(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateVersion(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("pricing created",
		zap.String("pricing_code", code),
		zap.String("category", req.Category),
		zap.String("amount", record.Amount().StringFixed(2)),
		zap.Bool("reactivated", reactivated),
	)

	s.publisher.PriceCreated(ctx, record)

	dto := toPriceDTO(record)
	return &dto, nil
}

// UpdatePrice performs a copy-on-write update: the current active version is
// retired and a replacement with the merged field values opens in the same
// storage transaction. History is never rewritten.
func (s *PricingService) UpdatePrice(ctx context.Context, code string, req UpdatePriceRequest) (*PriceDTO, error) {
	code = normalizeCode(code)
	current, err := s.repo.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	var category *pricing.Category
	if req.Category != nil {
		c := pricing.Category(*req.Category)
		category = &c
	}
	var validityType *pricing.ValidityType
	if req.ValidityType != nil {
		v := pricing.ValidityType(*req.ValidityType)
		validityType = &v
	}

	now := time.Now().UTC()
	replacement, err := current.NewReplacement(category, req.LabelBg, req.Amount, req.ValidityDays, validityType, req.MaxEntries, req.Notes, now)
	if err != nil {
		return nil, err
	}
	if err := current.Retire(now); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceActive(ctx, current, replacement); err != nil {
		s.logger.Warn("pricing update not applied",
			zap.String("pricing_code", code),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("pricing updated",
		zap.String("pricing_code", code),
		zap.String("old_amount", current.Amount().StringFixed(2)),
		zap.String("new_amount", replacement.Amount().StringFixed(2)),
	)

	s.publisher.PriceUpdated(ctx, current, replacement)

	dto := toPriceDTO(replacement)
	return &dto, nil
}

// DeactivatePrice retires the active version for a code with no replacement.
// The chain stays queryable through history but accepts no further updates.
func (s *PricingService) DeactivatePrice(ctx context.Context, code string) (*PriceDTO, error) {
	code = normalizeCode(code)
	retired, err := s.repo.Deactivate(ctx, code)
	if err != nil {
		return nil, err
	}

	s.logger.Info("pricing deactivated",
		zap.String("pricing_code", code),
	)

	s.publisher.PriceDeactivated(ctx, retired)

	dto := toPriceDTO(retired)
	return &dto, nil
}

// GetActivePrices returns every currently purchasable offering, optionally
// narrowed to one category.
func (s *PricingService) GetActivePrices(ctx context.Context, category string) ([]PriceDTO, error) {
	filter, err := buildFilter(category, false)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toPriceDTOs(records), nil
}

// GetAdminView returns the admin listing, optionally including retired
// versions. Filters combine with AND semantics.
func (s *PricingService) GetAdminView(ctx context.Context, category string, includeInactive bool) ([]PriceDTO, error) {
	filter, err := buildFilter(category, includeInactive)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toPriceDTOs(records), nil
}

// GetActiveByCode returns the single active version for a code.
func (s *PricingService) GetActiveByCode(ctx context.Context, code string) (*PriceDTO, error) {
	record, err := s.repo.FindActiveByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, err
	}
	dto := toPriceDTO(record)
	return &dto, nil
}

// GetVersionHistory returns the full version chain for a code, newest first,
// with descending version numbers.
func (s *PricingService) GetVersionHistory(ctx context.Context, code string) ([]VersionDTO, error) {
	records, err := s.repo.FindHistoryByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, err
	}

	dtos := make([]VersionDTO, len(records))
	for i, r := range records {
		dtos[i] = VersionDTO{
			PriceDTO: toPriceDTO(r),
			Version:  len(records) - i,
		}
	}
	return dtos, nil
}

// normalizeCode canonicalizes a pricing code to the spelling create stores,
// so lookups, updates and deactivations accept any casing of the same code.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func buildFilter(category string, includeInactive bool) (pricing.ListFilter, error) {
	filter := pricing.ListFilter{IncludeInactive: includeInactive}
	if category != "" {
		c := pricing.Category(category)
		if !pricing.IsValidCategory(c) {
			return pricing.ListFilter{}, domain.NewValidationError("unknown category %q", category)
		}
		filter.Category = c
	}
	return filter, nil
}

// toPriceDTO maps a domain PricingRecord to a PriceDTO.
func toPriceDTO(p *pricing.PricingRecord) PriceDTO {
	return PriceDTO{
		ID:            p.ID(),
		PricingCode:   p.PricingCode(),
		Category:      string(p.Category()),
		CategoryLabel: pricing.CategoryLabel(p.Category()),
		LabelBg:       p.LabelBg(),
		Amount:        p.Amount(),
		ValidityDays:  p.ValidityDays(),
		ValidityType:  string(p.ValidityType()),
		MaxEntries:    p.MaxEntries(),
		Notes:         p.Notes(),
		IsActive:      p.IsActive(),
		ValidFrom:     p.ValidFrom(),
		ValidUntil:    p.ValidUntil(),
		CreatedAt:     p.CreatedAt(),
	}
}

func toPriceDTOs(records []*pricing.PricingRecord) []PriceDTO {
	dtos := make([]PriceDTO, len(records))
	for i, r := range records {
		dtos[i] = toPriceDTO(r)
	}
	return dtos
}
