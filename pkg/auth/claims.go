package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload carries the values minted into an admin access token.
type AccessTokenPayload struct {
	AdminID uuid.UUID
	Email   string
	// JTI optionally pins the token id; a random UUID is used when empty.
	JTI string
}

// AccessTokenClaims is the JWT claim set for admin sessions.
type AccessTokenClaims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}
