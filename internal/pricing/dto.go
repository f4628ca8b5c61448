package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
)

// TierDTO represents a price tier returned to clients.
type TierDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Description  *string   `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AssignmentDTO represents one calendar day pinned to a tier.
type AssignmentDTO struct {
	ID     uuid.UUID `json:"id"`
	Date   string    `json:"date"`
	TierID uuid.UUID `json:"tier_id"`
	Tier   *TierDTO  `json:"tier,omitempty"`
}

// NewTierDTO builds a DTO from the persisted tier.
func NewTierDTO(tier *models.PriceTier) *TierDTO {
	if tier == nil {
		return nil
	}
	return &TierDTO{
		ID:           tier.ID,
		Name:         tier.Name,
		Color:        tier.Color,
		Description:  tier.Description,
		DisplayOrder: tier.DisplayOrder,
		IsDefault:    tier.IsDefault,
		CreatedAt:    tier.CreatedAt,
		UpdatedAt:    tier.UpdatedAt,
	}
}

// NewAssignmentDTO builds a DTO from the persisted assignment.
func NewAssignmentDTO(assignment *models.DateTierAssignment) *AssignmentDTO {
	if assignment == nil {
		return nil
	}
	return &AssignmentDTO{
		ID:     assignment.ID,
		Date:   assignment.Date,
		TierID: assignment.TierID,
		Tier:   NewTierDTO(assignment.Tier),
	}
}
