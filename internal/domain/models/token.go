package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes access from refresh JWTs via the "type" claim.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the JWT payload for both token kinds. Subject holds the user
// ID; for refresh tokens ID (jti) holds the ledger session identifier.
type Claims struct {
	TokenType TokenKind `json:"type"`
	Role      Role      `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful login or refresh returns to the caller.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
