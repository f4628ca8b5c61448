package statuses

import (
	"context"

	"github.com/google/uuid"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes order status registry persistence.
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

// ListStatuses returns the full registry ordered by display_order.
func (r *Repository) ListStatuses(ctx context.Context) ([]models.OrderStatus, error) {
	var statuses []models.OrderStatus
	if err := r.db.WithContext(ctx).
		Order("display_order ASC, created_at ASC").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// FindByID loads a single status.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderStatus, error) {
	var status models.OrderStatus
	if err := r.db.WithContext(ctx).First(&status, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// FindByName loads a status by its exact name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.OrderStatus, error) {
	var status models.OrderStatus
	if err := r.db.WithContext(ctx).First(&status, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// CreateStatus inserts a new status row.
func (r *Repository) CreateStatus(ctx context.Context, status *models.OrderStatus) (*models.OrderStatus, error) {
	if status.ID == uuid.Nil {
		status.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(status).Error; err != nil {
		return nil, err
	}
	return status, nil
}

// UpdateStatus updates an existing status row.
func (r *Repository) UpdateStatus(ctx context.Context, status *models.OrderStatus) (*models.OrderStatus, error) {
	if err := r.db.WithContext(ctx).Save(status).Error; err != nil {
		return nil, err
	}
	return status, nil
}

// DeleteStatus removes a status by ID.
func (r *Repository) DeleteStatus(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OrderStatus{}).Error
}

// CountOrderReferences counts orders still carrying the status.
func (r *Repository) CountOrderReferences(ctx context.Context, statusID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status_id = ?", statusID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
