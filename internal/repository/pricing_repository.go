package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/PulseFit-Gym-Platform/service-pricing/internal/domain"
	"github.com/PulseFit-Gym-Platform/service-pricing/internal/domain/pricing"
)

// PricingModel is the GORM persistence model for the pricing_records table.
// One row per version; the partial unique index on (pricing_code) WHERE
// is_active guarantees at most one active version per code.
type PricingModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PricingCode  string          `gorm:"type:varchar(64);not null;index"`
	Category     string          `gorm:"type:varchar(32);not null;index"`
	LabelBg      string          `gorm:"type:varchar(255);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ValidityDays *int            `gorm:""`
	ValidityType string          `gorm:"type:varchar(10)"`
	MaxEntries   *int            `gorm:""`
	Notes        string          `gorm:"type:text"`
	IsActive     bool            `gorm:"not null;default:true;index"`
	ValidFrom    time.Time       `gorm:"type:timestamptz;not null"`
	ValidUntil   *time.Time      `gorm:"type:timestamptz"`
	CreatedAt    time.Time       `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt    time.Time       `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (PricingModel) TableName() string {
	return "pricing_records"
}

// PricingRepositoryImpl is the GORM-based implementation of pricing.Repository.
type PricingRepositoryImpl struct {
	db *gorm.DB
}

// NewPricingRepository creates a new GORM-based pricing repository.
func NewPricingRepository(db *gorm.DB) *PricingRepositoryImpl {
	return &PricingRepositoryImpl{db: db}
}

// CreateVersion inserts a new active version for a code.
func (r *PricingRepositoryImpl) CreateVersion(ctx context.Context, record *pricing.PricingRecord) error {
	model := toModel(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("an active version for this pricing code already exists")
		}
		return domain.NewStorageError(err)
	}
	return nil
}

// FindActiveByCode retrieves the single active version for a code.
func (r *PricingRepositoryImpl) FindActiveByCode(ctx context.Context, code string) (*pricing.PricingRecord, error) {
	var model PricingModel
	err := r.db.WithContext(ctx).
		Where("pricing_code = ? AND is_active = ?", code, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("pricing", code)
		}
		return nil, domain.NewStorageError(err)
	}
	return toDomain(&model), nil
}

// FindHistoryByCode retrieves every version for a code, newest first.
func (r *PricingRepositoryImpl) FindHistoryByCode(ctx context.Context, code string) ([]*pricing.PricingRecord, error) {
	var models []PricingModel
	err := r.db.WithContext(ctx).
		Where("pricing_code = ?", code).
		Order("valid_from DESC, created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, domain.NewStorageError(err)
	}
	if len(models) == 0 {
		return nil, domain.NewNotFoundError("pricing", code)
	}

	records := make([]*pricing.PricingRecord, len(models))
	for i := range models {
		records[i] = toDomain(&models[i])
	}
	return records, nil
}

// HasAnyVersion reports whether any version exists for the code.
func (r *PricingRepositoryImpl) HasAnyVersion(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PricingModel{}).
		Where("pricing_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, domain.NewStorageError(err)
	}
	return count > 0, nil
}

// List retrieves versions matching the filter, ordered by category then code.
func (r *PricingRepositoryImpl) List(ctx context.Context, filter pricing.ListFilter) ([]*pricing.PricingRecord, error) {
	query := r.db.WithContext(ctx).Model(&PricingModel{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}

	var models []PricingModel
	if err := query.Order("category, pricing_code, valid_from DESC").Find(&models).Error; err != nil {
		return nil, domain.NewStorageError(err)
	}

	records := make([]*pricing.PricingRecord, len(models))
	for i := range models {
		records[i] = toDomain(&models[i])
	}
	return records, nil
}

// ReplaceActive atomically retires a version and inserts its replacement.
// The conditional update doubles as a compare-and-swap: if the retiring row
// stopped being the active version since it was read, zero rows match and the
// whole transaction rolls back with a conflict.
func (r *PricingRepositoryImpl) ReplaceActive(ctx context.Context, retiring, replacement *pricing.PricingRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&PricingModel{}).
			Where("id = ? AND is_active = ?", retiring.ID(), true).
			Updates(map[string]interface{}{
				"is_active":   false,
				"valid_until": retiring.ValidUntil(),
				"updated_at":  retiring.UpdatedAt(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NewConflictError("pricing version was modified by another transaction")
		}

		return tx.Create(toModel(replacement)).Error
	})
	if err != nil {
		var domErr *domain.DomainError
		if errors.As(err, &domErr) {
			return domErr
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("pricing version was modified by another transaction")
		}
		return domain.NewStorageError(err)
	}
	return nil
}

// Deactivate atomically retires the active version for a code.
func (r *PricingRepositoryImpl) Deactivate(ctx context.Context, code string) (*pricing.PricingRecord, error) {
	var retired PricingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pricing_code = ? AND is_active = ?", code, true).First(&retired).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("active pricing", code)
			}
			return err
		}

		now := time.Now().UTC()
		result := tx.Model(&PricingModel{}).
			Where("id = ? AND is_active = ?", retired.ID, true).
			Updates(map[string]interface{}{
				"is_active":   false,
				"valid_until": now,
				"updated_at":  now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NewConflictError("pricing version was modified by another transaction")
		}

		retired.IsActive = false
		retired.ValidUntil = &now
		retired.UpdatedAt = now
		return nil
	})
	if err != nil {
		var domErr *domain.DomainError
		if errors.As(err, &domErr) {
			return nil, domErr
		}
		return nil, domain.NewStorageError(err)
	}
	return toDomain(&retired), nil
}

// toDomain maps a PricingModel to the domain aggregate.
func toDomain(model *PricingModel) *pricing.PricingRecord {
	return pricing.Reconstitute(
		model.ID,
		model.PricingCode,
		pricing.Category(model.Category),
		model.LabelBg,
		model.Amount,
		model.ValidityDays,
		pricing.ValidityType(model.ValidityType),
		model.MaxEntries,
		model.Notes,
		model.IsActive,
		model.ValidFrom,
		model.ValidUntil,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// toModel maps the domain aggregate to a PricingModel for persistence.
func toModel(p *pricing.PricingRecord) *PricingModel {
	return &PricingModel{
		ID:           p.ID(),
		PricingCode:  p.PricingCode(),
		Category:     string(p.Category()),
		LabelBg:      p.LabelBg(),
		Amount:       p.Amount(),
		ValidityDays: p.ValidityDays(),
		ValidityType: string(p.ValidityType()),
		MaxEntries:   p.MaxEntries(),
		Notes:        p.Notes(),
		IsActive:     p.IsActive(),
		ValidFrom:    p.ValidFrom(),
		ValidUntil:   p.ValidUntil(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}
