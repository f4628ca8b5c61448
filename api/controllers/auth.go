package controllers

import (
	"net/http"
	"time"

	"github.com/tetshop/banhtet-backend/api/middleware"
	"github.com/tetshop/banhtet-backend/api/responses"
	"github.com/tetshop/banhtet-backend/api/validators"
	"github.com/tetshop/banhtet-backend/internal/auth"
	"github.com/tetshop/banhtet-backend/pkg/config"
	pkgerrors "github.com/tetshop/banhtet-backend/pkg/errors"
	"github.com/tetshop/banhtet-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin authenticates an admin and sets the session cookie.
func AdminLogin(svc auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, sessionCookie(jwtCfg, result.Token, result.ExpiresAt))
		responses.WriteSuccess(w, map[string]any{
			"admin":      result.Admin,
			"expires_at": result.ExpiresAt,
		})
	}
}

// AdminLogout revokes the current session and clears the cookie.
func AdminLogout(svc auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.AccessIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, expiredSessionCookie(jwtCfg))
		responses.WriteSuccess(w, map[string]string{"status": "logged out"})
	}
}

// AdminMe echoes the authenticated identity from the verified claims.
func AdminMe(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"admin_id": middleware.AdminIDFromContext(r.Context()),
			"email":    middleware.AdminEmailFromContext(r.Context()),
		})
	}
}

func sessionCookie(cfg config.JWTConfig, token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie(cfg config.JWTConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
