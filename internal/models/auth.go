package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest carries student/admin credentials.
type LoginRequest struct {
	NIM      string `json:"nim" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and profile.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// JWTClaims are the custom claims embedded in access tokens.
type JWTClaims struct {
	UserID int64    `json:"uid"`
	NIM    string   `json:"nim"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
