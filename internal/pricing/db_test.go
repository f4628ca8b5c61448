package pricing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPricingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// one shared in-memory database per test, visible to every pooled conn
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	priceTiers := `
CREATE TABLE IF NOT EXISTS price_tiers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  color TEXT NOT NULL DEFAULT '#888888',
  description TEXT,
  display_order INTEGER NOT NULL DEFAULT 0,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	assignments := `
CREATE TABLE IF NOT EXISTS date_tier_assignments (
  id TEXT PRIMARY KEY,
  date TEXT NOT NULL UNIQUE,
  tier_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	tierPrices := `
CREATE TABLE IF NOT EXISTS product_tier_prices (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  tier_id TEXT NOT NULL,
  price INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, tier_id)
);`
	require.NoError(t, db.Exec(priceTiers).Error)
	require.NoError(t, db.Exec(assignments).Error)
	require.NoError(t, db.Exec(tierPrices).Error)
	return db
}
