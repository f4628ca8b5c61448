package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgauth "github.com/tetshop/banhtet-backend/pkg/auth"
	"github.com/tetshop/banhtet-backend/pkg/config"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"github.com/tetshop/banhtet-backend/pkg/security"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	adminUsers := `
CREATE TABLE IF NOT EXISTS admin_users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(adminUsers).Error)
	return conn
}

type recordingSessions struct {
	created []string
	revoked []string
}

func (r *recordingSessions) Create(ctx context.Context, accessID string) error {
	r.created = append(r.created, accessID)
	return nil
}

func (r *recordingSessions) Revoke(ctx context.Context, accessID string) error {
	r.revoked = append(r.revoked, accessID)
	return nil
}

// cheap argon parameters to keep hashing fast under test
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "banhtet-test",
		ExpirationMinutes: 30,
		CookieName:        "banhtet_admin_session",
	}
}

type authFixture struct {
	svc      Service
	conn     *gorm.DB
	sessions *recordingSessions
}

func newAuthFixture(t *testing.T, rootCfg config.AdminRootConfig) *authFixture {
	t.Helper()

	conn := setupAuthTestDB(t)
	sessions := &recordingSessions{}
	svc, err := NewService(NewRepository(conn), sessions, testJWTConfig(), testPasswordConfig(), rootCfg)
	require.NoError(t, err)
	return &authFixture{svc: svc, conn: conn, sessions: sessions}
}

func seedAdmin(t *testing.T, conn *gorm.DB, email, password string, active bool) *models.AdminUser {
	t.Helper()

	hash, err := security.HashPassword(password, testPasswordConfig())
	require.NoError(t, err)
	admin := &models.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Chị Hai",
		IsActive:     active,
	}
	require.NoError(t, conn.Create(admin).Error)
	return admin
}

func TestServiceLogin(t *testing.T) {
	f := newAuthFixture(t, config.AdminRootConfig{})
	admin := seedAdmin(t, f.conn, "chihai@banhtet.vn", "banh-tet-ngon-123", true)

	result, err := f.svc.Login(context.Background(), "ChiHai@banhtet.vn", "banh-tet-ngon-123")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, result.Admin.ID)
	assert.Equal(t, "chihai@banhtet.vn", result.Admin.Email)
	require.NotEmpty(t, result.Token)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)

	require.Len(t, f.sessions.created, 1)
	assert.Equal(t, claims.ID, f.sessions.created[0])
}

func TestServiceLogin_rejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t, config.AdminRootConfig{})
	seedAdmin(t, f.conn, "chihai@banhtet.vn", "banh-tet-ngon-123", true)
	seedAdmin(t, f.conn, "nghi@banhtet.vn", "da-nghi-viec-456", false)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "chihai@banhtet.vn", "wrong"},
		{"unknown email", "aikhac@banhtet.vn", "banh-tet-ngon-123"},
		{"inactive admin", "nghi@banhtet.vn", "da-nghi-viec-456"},
		{"empty password", "chihai@banhtet.vn", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tc.email, tc.password)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		})
	}
	assert.Empty(t, f.sessions.created)
}

func TestServiceLogin_rootPairWithEmptyTable(t *testing.T) {
	root := config.AdminRootConfig{Email: "Root@banhtet.vn", Password: "sieu-mat-khau-789"}
	f := newAuthFixture(t, root)

	result, err := f.svc.Login(context.Background(), "root@banhtet.vn", "sieu-mat-khau-789")
	require.NoError(t, err)
	assert.Equal(t, "root@banhtet.vn", result.Admin.Email)
	require.Len(t, f.sessions.created, 1)

	// the break-glass login materialized a real row with a usable hash
	var admin models.AdminUser
	require.NoError(t, f.conn.First(&admin, "email = ?", "root@banhtet.vn").Error)
	ok, err := security.VerifyPassword("sieu-mat-khau-789", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// second login reuses the row instead of inserting again
	_, err = f.svc.Login(context.Background(), "root@banhtet.vn", "sieu-mat-khau-789")
	require.NoError(t, err)
	var count int64
	require.NoError(t, f.conn.Model(&models.AdminUser{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestServiceLogin_rootPairDisabled(t *testing.T) {
	f := newAuthFixture(t, config.AdminRootConfig{})

	_, err := f.svc.Login(context.Background(), "root@banhtet.vn", "sieu-mat-khau-789")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestServiceBootstrap(t *testing.T) {
	root := config.AdminRootConfig{Email: "root@banhtet.vn", Password: "sieu-mat-khau-789"}
	f := newAuthFixture(t, root)

	require.NoError(t, f.svc.Bootstrap(context.Background()))
	require.NoError(t, f.svc.Bootstrap(context.Background()))

	var count int64
	require.NoError(t, f.conn.Model(&models.AdminUser{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestServiceLogout(t *testing.T) {
	f := newAuthFixture(t, config.AdminRootConfig{})

	require.NoError(t, f.svc.Logout(context.Background(), "some-jti"))
	assert.Equal(t, []string{"some-jti"}, f.sessions.revoked)

	// a blank id is a no-op, not an error
	require.NoError(t, f.svc.Logout(context.Background(), ""))
	assert.Len(t, f.sessions.revoked, 1)
}
