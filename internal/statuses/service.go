package statuses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tetshop/banhtet-backend/pkg/db"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"gorm.io/gorm"
)

// PendingStatusName is the status name new orders default to when present.
const PendingStatusName = "pending"

// StatusDTO represents an order status returned to clients.
type StatusDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewStatusDTO builds a DTO from the persisted status.
func NewStatusDTO(status *models.OrderStatus) *StatusDTO {
	if status == nil {
		return nil
	}
	return &StatusDTO{
		ID:           status.ID,
		Name:         status.Name,
		Color:        status.Color,
		DisplayOrder: status.DisplayOrder,
		CreatedAt:    status.CreatedAt,
		UpdatedAt:    status.UpdatedAt,
	}
}

// CreateStatusInput holds the validated payload to create a status.
type CreateStatusInput struct {
	Name         string
	Color        string
	DisplayOrder int
}

// UpdateStatusInput holds optional mutation values for a status.
type UpdateStatusInput struct {
	Name         *string
	Color        *string
	DisplayOrder *int
}

// Service exposes order status registry operations.
type Service interface {
	ListStatuses(ctx context.Context) ([]StatusDTO, error)
	CreateStatus(ctx context.Context, input CreateStatusInput) (*StatusDTO, error)
	UpdateStatus(ctx context.Context, statusID uuid.UUID, input UpdateStatusInput) (*StatusDTO, error)
	DeleteStatus(ctx context.Context, statusID uuid.UUID) error

	// DefaultStatus picks the initial status for new orders: the one named
	// "pending", else the lowest display_order. Nil when the registry is
	// empty.
	DefaultStatus(ctx context.Context) (*models.OrderStatus, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a status service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("status repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListStatuses(ctx context.Context) ([]StatusDTO, error) {
	statuses, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing order statuses")
	}
	out := make([]StatusDTO, 0, len(statuses))
	for i := range statuses {
		out = append(out, *NewStatusDTO(&statuses[i]))
	}
	return out, nil
}

func (s *service) CreateStatus(ctx context.Context, input CreateStatusInput) (*StatusDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status name is required")
	}

	status := &models.OrderStatus{
		Name:         name,
		Color:        input.Color,
		DisplayOrder: input.DisplayOrder,
	}
	if _, err := s.repo.CreateStatus(ctx, status); err != nil {
		if db.IsUniqueViolation(err, "order_statuses_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a status with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order status")
	}
	return NewStatusDTO(status), nil
}

func (s *service) UpdateStatus(ctx context.Context, statusID uuid.UUID, input UpdateStatusInput) (*StatusDTO, error) {
	status, err := s.repo.FindByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order status not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order status")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "status name is required")
		}
		status.Name = name
	}
	if input.Color != nil {
		status.Color = *input.Color
	}
	if input.DisplayOrder != nil {
		status.DisplayOrder = *input.DisplayOrder
	}

	if _, err := s.repo.UpdateStatus(ctx, status); err != nil {
		if db.IsUniqueViolation(err, "order_statuses_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a status with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	return NewStatusDTO(status), nil
}

func (s *service) DeleteStatus(ctx context.Context, statusID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, statusID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order status not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order status")
	}

	refs, err := s.repo.CountOrderReferences(ctx, statusID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting status references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeUsageGuard,
			fmt.Sprintf("status is still referenced by %d order(s)", refs)).
			WithDetails(map[string]int64{"orders": refs})
	}

	if err := s.repo.DeleteStatus(ctx, statusID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order status")
	}
	return nil
}

func (s *service) DefaultStatus(ctx context.Context) (*models.OrderStatus, error) {
	status, err := s.repo.FindByName(ctx, PendingStatusName)
	switch {
	case err == nil:
		return status, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to lowest display_order
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up pending status")
	}

	statuses, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing order statuses")
	}
	if len(statuses) == 0 {
		return nil, nil
	}
	return &statuses[0], nil
}
