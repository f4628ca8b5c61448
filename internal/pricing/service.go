package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tetshop/banhtet-backend/pkg/db"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"gorm.io/gorm"
)

// ISODate is the wire format for calendar days.
const ISODate = "2006-01-02"

// Service exposes tier registry and pricing calendar operations.
type Service interface {
	ListTiers(ctx context.Context) ([]TierDTO, error)
	CreateTier(ctx context.Context, input CreateTierInput) (*TierDTO, error)
	UpdateTier(ctx context.Context, tierID uuid.UUID, input UpdateTierInput) (*TierDTO, error)
	DeleteTier(ctx context.Context, tierID uuid.UUID) error

	Calendar(ctx context.Context, from, to string) ([]AssignmentDTO, error)
	AssignDate(ctx context.Context, date string, tierID uuid.UUID) (*AssignmentDTO, error)
	UnassignDate(ctx context.Context, date string) error

	// TierForDate resolves the tier governing a delivery date: the exact
	// assignment when one exists, otherwise the registry default. A nil
	// tier (empty registry) is valid; price resolution then falls back to
	// each product's minimum price.
	TierForDate(ctx context.Context, date string) (*models.PriceTier, error)
}

// CreateTierInput holds the validated payload to create a tier.
type CreateTierInput struct {
	Name         string
	Color        string
	Description  *string
	DisplayOrder int
	IsDefault    bool
}

// UpdateTierInput holds optional mutation values for a tier.
type UpdateTierInput struct {
	Name         *string
	Color        *string
	Description  *string
	DisplayOrder *int
	IsDefault    *bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a pricing service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) ListTiers(ctx context.Context) ([]TierDTO, error) {
	tiers, err := s.repo.ListTiers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing price tiers")
	}
	out := make([]TierDTO, 0, len(tiers))
	for i := range tiers {
		out = append(out, *NewTierDTO(&tiers[i]))
	}
	return out, nil
}

func (s *service) CreateTier(ctx context.Context, input CreateTierInput) (*TierDTO, error) {
	tier := &models.PriceTier{
		Name:         input.Name,
		Color:        input.Color,
		Description:  input.Description,
		DisplayOrder: input.DisplayOrder,
		IsDefault:    input.IsDefault,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateTier(ctx, tier); err != nil {
			return err
		}
		if tier.IsDefault {
			return txRepo.ClearDefaultExcept(ctx, tier.ID)
		}
		return nil
	}); err != nil {
		if db.IsUniqueViolation(err, "price_tiers_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a tier with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating price tier")
	}
	return NewTierDTO(tier), nil
}

func (s *service) UpdateTier(ctx context.Context, tierID uuid.UUID, input UpdateTierInput) (*TierDTO, error) {
	tier, err := s.repo.FindTierByID(ctx, tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price tier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading price tier")
	}

	if input.Name != nil {
		tier.Name = *input.Name
	}
	if input.Color != nil {
		tier.Color = *input.Color
	}
	if input.Description != nil {
		tier.Description = input.Description
	}
	if input.DisplayOrder != nil {
		tier.DisplayOrder = *input.DisplayOrder
	}
	if input.IsDefault != nil {
		tier.IsDefault = *input.IsDefault
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.UpdateTier(ctx, tier); err != nil {
			return err
		}
		if tier.IsDefault {
			return txRepo.ClearDefaultExcept(ctx, tier.ID)
		}
		return nil
	}); err != nil {
		if db.IsUniqueViolation(err, "price_tiers_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a tier with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating price tier")
	}
	return NewTierDTO(tier), nil
}

func (s *service) DeleteTier(ctx context.Context, tierID uuid.UUID) error {
	if _, err := s.repo.FindTierByID(ctx, tierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "price tier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading price tier")
	}

	counts, err := s.repo.CountTierReferences(ctx, tierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting tier references")
	}
	if counts.Total() > 0 {
		return pkgerrors.New(pkgerrors.CodeUsageGuard,
			fmt.Sprintf("tier is still referenced by %d record(s)", counts.Total())).
			WithDetails(map[string]int64{
				"date_assignments": counts.Assignments,
				"product_prices":   counts.Prices,
			})
	}

	if err := s.repo.DeleteTier(ctx, tierID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting price tier")
	}
	return nil
}

func (s *service) Calendar(ctx context.Context, from, to string) ([]AssignmentDTO, error) {
	if err := validateISODate(from); err != nil {
		return nil, err
	}
	if err := validateISODate(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to")
	}

	assignments, err := s.repo.ListAssignmentsInRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing date assignments")
	}
	out := make([]AssignmentDTO, 0, len(assignments))
	for i := range assignments {
		out = append(out, *NewAssignmentDTO(&assignments[i]))
	}
	return out, nil
}

func (s *service) AssignDate(ctx context.Context, date string, tierID uuid.UUID) (*AssignmentDTO, error) {
	if err := validateISODate(date); err != nil {
		return nil, err
	}

	tier, err := s.repo.FindTierByID(ctx, tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price tier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading price tier")
	}

	assignment, err := s.repo.UpsertAssignment(ctx, date, tierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assigning date to tier")
	}
	assignment.Tier = tier
	return NewAssignmentDTO(assignment), nil
}

func (s *service) UnassignDate(ctx context.Context, date string) error {
	if err := validateISODate(date); err != nil {
		return err
	}
	if err := s.repo.DeleteAssignment(ctx, date); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing date assignment")
	}
	return nil
}

func (s *service) TierForDate(ctx context.Context, date string) (*models.PriceTier, error) {
	if err := validateISODate(date); err != nil {
		return nil, err
	}

	assignment, err := s.repo.FindAssignmentByDate(ctx, date)
	switch {
	case err == nil:
		if assignment.Tier != nil {
			return assignment.Tier, nil
		}
		tier, err := s.repo.FindTierByID(ctx, assignment.TierID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading assigned tier")
		}
		return tier, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to default tier
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up date assignment")
	}

	tiers, err := s.repo.ListTiers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing price tiers")
	}
	return DefaultTier(tiers), nil
}

func validateISODate(date string) error {
	if _, err := time.Parse(ISODate, date); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD")
	}
	return nil
}
