package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgauth "github.com/tetshop/banhtet-backend/pkg/auth"
	"github.com/tetshop/banhtet-backend/pkg/config"
	"github.com/tetshop/banhtet-backend/pkg/db/models"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"github.com/tetshop/banhtet-backend/pkg/security"
	"gorm.io/gorm"
)

// AdminDTO is the logged-in admin identity returned to the console.
type AdminDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// LoginResult carries the minted session for the admin cookie.
type LoginResult struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Admin     AdminDTO  `json:"admin"`
}

// Service authenticates back-office admins.
type Service interface {
	// Login verifies credentials against the admin_users table, or against
	// the env-configured root pair when set, and mints a session token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Logout revokes the session behind the given token id.
	Logout(ctx context.Context, accessID string) error
	// Bootstrap ensures the root credential pair has a matching admin row
	// so it shows up in the console like any other admin.
	Bootstrap(ctx context.Context) error
}

type sessionManager interface {
	Create(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo     *Repository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	rootCfg  config.AdminRootConfig
	now      func() time.Time
}

// NewService constructs an admin auth service instance.
func NewService(repo *Repository, sessions sessionManager, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, rootCfg config.AdminRootConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		rootCfg:  rootCfg,
		now:      time.Now,
	}, nil
}

var errInvalidCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errInvalidCredentials
	}

	admin, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	now := s.now()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		JTI:     jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	if err := s.sessions.Create(ctx, jti); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating session")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.AccessTokenTTL()),
		Admin: AdminDTO{
			ID:          admin.ID,
			Email:       admin.Email,
			DisplayName: admin.DisplayName,
		},
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.AdminUser, error) {
	if s.rootMatches(email, password) {
		admin, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			return admin, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			// break-glass login with no row yet: create it on the fly
			return s.createRootAdmin(ctx)
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading admin")
		}
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading admin")
	}
	if !admin.IsActive {
		return nil, errInvalidCredentials
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil || !ok {
		return nil, errInvalidCredentials
	}
	return admin, nil
}

func (s *service) rootMatches(email, password string) bool {
	if !s.rootCfg.Enabled() {
		return false
	}
	emailOK := security.ConstantTimeEquals(email, strings.ToLower(s.rootCfg.Email))
	passOK := security.ConstantTimeEquals(password, s.rootCfg.Password)
	return emailOK && passOK
}

func (s *service) createRootAdmin(ctx context.Context) (*models.AdminUser, error) {
	hash, err := security.HashPassword(s.rootCfg.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing root password")
	}
	admin := &models.AdminUser{
		Email:        strings.ToLower(s.rootCfg.Email),
		PasswordHash: hash,
		DisplayName:  "Root",
		IsActive:     true,
	}
	if _, err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating root admin")
	}
	return admin, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if accessID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *service) Bootstrap(ctx context.Context) error {
	if !s.rootCfg.Enabled() {
		return nil
	}

	_, err := s.repo.FindByEmail(ctx, strings.ToLower(s.rootCfg.Email))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		_, err := s.createRootAdmin(ctx)
		return err
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading root admin")
	}
}
