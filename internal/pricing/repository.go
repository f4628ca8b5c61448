package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wires together tier and date assignment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListTiers returns the full tier registry ordered by display_order.
func (r *Repository) ListTiers(ctx context.Context) ([]models.PriceTier, error) {
	var tiers []models.PriceTier
	if err := r.db.WithContext(ctx).
		Order("display_order ASC, created_at ASC").
		Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

// FindTierByID loads a single tier.
func (r *Repository) FindTierByID(ctx context.Context, id uuid.UUID) (*models.PriceTier, error) {
	var tier models.PriceTier
	if err := r.db.WithContext(ctx).First(&tier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

// CreateTier inserts a new tier row.
func (r *Repository) CreateTier(ctx context.Context, tier *models.PriceTier) (*models.PriceTier, error) {
	if tier.ID == uuid.Nil {
		tier.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(tier).Error; err != nil {
		return nil, err
	}
	return tier, nil
}

// UpdateTier updates an existing tier row.
func (r *Repository) UpdateTier(ctx context.Context, tier *models.PriceTier) (*models.PriceTier, error) {
	if err := r.db.WithContext(ctx).Save(tier).Error; err != nil {
		return nil, err
	}
	return tier, nil
}

// DeleteTier removes a tier by ID.
func (r *Repository) DeleteTier(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PriceTier{}).Error
}

// ClearDefaultExcept unsets is_default on every tier other than the given one.
func (r *Repository) ClearDefaultExcept(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceTier{}).
		Where("id <> ? AND is_default", id).
		Update("is_default", false).Error
}

// TierReferenceCounts reports how many rows still point at the tier.
type TierReferenceCounts struct {
	Assignments int64
	Prices      int64
}

// Total returns the combined reference count.
func (c TierReferenceCounts) Total() int64 {
	return c.Assignments + c.Prices
}

// CountTierReferences counts date assignments and product prices bound to the tier.
func (r *Repository) CountTierReferences(ctx context.Context, tierID uuid.UUID) (TierReferenceCounts, error) {
	var counts TierReferenceCounts
	if err := r.db.WithContext(ctx).
		Model(&models.DateTierAssignment{}).
		Where("tier_id = ?", tierID).
		Count(&counts.Assignments).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ProductTierPrice{}).
		Where("tier_id = ?", tierID).
		Count(&counts.Prices).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// FindAssignmentByDate loads the assignment for the given ISO day, tier preloaded.
func (r *Repository) FindAssignmentByDate(ctx context.Context, date string) (*models.DateTierAssignment, error) {
	var assignment models.DateTierAssignment
	if err := r.db.WithContext(ctx).
		Preload("Tier").
		First(&assignment, "date = ?", date).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignmentsInRange returns assignments with date in [from, to], tier preloaded.
func (r *Repository) ListAssignmentsInRange(ctx context.Context, from, to string) ([]models.DateTierAssignment, error) {
	var assignments []models.DateTierAssignment
	if err := r.db.WithContext(ctx).
		Preload("Tier").
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// UpsertAssignment creates or retargets the assignment for a day.
func (r *Repository) UpsertAssignment(ctx context.Context, date string, tierID uuid.UUID) (*models.DateTierAssignment, error) {
	tx := r.db.WithContext(ctx)

	var assignment models.DateTierAssignment
	err := tx.First(&assignment, "date = ?", date).Error
	switch {
	case err == nil:
		assignment.TierID = tierID
		if err := tx.Save(&assignment).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = models.DateTierAssignment{ID: uuid.New(), Date: date, TierID: tierID}
		if err := tx.Create(&assignment).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return &assignment, nil
}

// DeleteAssignment removes the assignment for a day. No-op when absent.
func (r *Repository) DeleteAssignment(ctx context.Context, date string) error {
	return r.db.WithContext(ctx).Where("date = ?", date).Delete(&models.DateTierAssignment{}).Error
}
