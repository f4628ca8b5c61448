package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetshop/banhtet-backend/pkg/db"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
)

func newPricingService(t *testing.T) (Service, *Repository) {
	t.Helper()

	conn := setupPricingTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.NewWithConn(conn))
	require.NoError(t, err)
	return svc, repo
}

func TestServiceCreateTier_singleDefault(t *testing.T) {
	svc, _ := newPricingService(t)
	ctx := context.Background()

	first, err := svc.CreateTier(ctx, CreateTierInput{Name: "normal", Color: "#4caf50", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.CreateTier(ctx, CreateTierInput{Name: "peak", Color: "#ff9800", DisplayOrder: 1, IsDefault: true})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	tiers, err := svc.ListTiers(ctx)
	require.NoError(t, err)
	require.Len(t, tiers, 2)

	defaults := 0
	for _, tier := range tiers {
		if tier.IsDefault {
			defaults++
			assert.Equal(t, "peak", tier.Name)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestServiceDeleteTier_usageGuard(t *testing.T) {
	svc, _ := newPricingService(t)
	ctx := context.Background()

	tier, err := svc.CreateTier(ctx, CreateTierInput{Name: "peak", Color: "#ff9800"})
	require.NoError(t, err)

	_, err = svc.AssignDate(ctx, "2026-02-14", tier.ID)
	require.NoError(t, err)

	err = svc.DeleteTier(ctx, tier.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUsageGuard, typed.Code())
	assert.Contains(t, typed.Message(), "1 record(s)")

	// unassigning the date lifts the guard
	require.NoError(t, svc.UnassignDate(ctx, "2026-02-14"))
	require.NoError(t, svc.DeleteTier(ctx, tier.ID))
}

func TestServiceDeleteTier_notFound(t *testing.T) {
	svc, _ := newPricingService(t)

	err := svc.DeleteTier(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceTierForDate_exactAssignment(t *testing.T) {
	svc, _ := newPricingService(t)
	ctx := context.Background()

	normal, err := svc.CreateTier(ctx, CreateTierInput{Name: "normal", Color: "#4caf50", IsDefault: true})
	require.NoError(t, err)
	peak, err := svc.CreateTier(ctx, CreateTierInput{Name: "peak", Color: "#ff9800", DisplayOrder: 1})
	require.NoError(t, err)

	_, err = svc.AssignDate(ctx, "2026-02-14", peak.ID)
	require.NoError(t, err)

	got, err := svc.TierForDate(ctx, "2026-02-14")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, peak.ID, got.ID)

	// unmapped date resolves to the default tier
	got, err = svc.TierForDate(ctx, "2026-02-15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, normal.ID, got.ID)
}

func TestServiceTierForDate_emptyRegistry(t *testing.T) {
	svc, _ := newPricingService(t)

	got, err := svc.TierForDate(context.Background(), "2026-02-14")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestServiceTierForDate_badDate(t *testing.T) {
	svc, _ := newPricingService(t)

	_, err := svc.TierForDate(context.Background(), "14/02/2026")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceCalendar_rangeValidation(t *testing.T) {
	svc, _ := newPricingService(t)

	_, err := svc.Calendar(context.Background(), "2026-02-20", "2026-02-10")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
