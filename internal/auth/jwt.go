// Package auth implements the identity verifier for connection
// handshakes. Credentials are HS256 JWTs carried in the accessToken
// cookie or an Authorization header.
package auth

import (
	"errors"
	"time"

	"github.com/dkeye/Chatter/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken is returned when the request carries no credential.
	ErrNoToken = errors.New("no token provided")
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// Config holds verifier configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
	Issuer        string
}

// Claims carries the identity fields needed to rebuild a domain.User
// without a directory round trip on every handshake.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

type Verifier struct {
	config Config
}

func NewVerifier(config Config) *Verifier {
	return &Verifier{config: config}
}

// Verify validates the credential and returns the stable identity
// behind it, or rejects.
func (v *Verifier) Verify(tokenString string) (*domain.User, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &domain.User{
		ID:       domain.UserID(claims.UserID),
		Username: claims.Username,
		Name:     claims.Name,
	}, nil
}

// Issue signs a token for a user. Credential issuance proper lives in
// the account service; this is kept for tests and local tooling.
func (v *Verifier) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   string(user.ID),
		Username: user.Username,
		Name:     user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.config.Issuer,
			Subject:   string(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.config.SecretKey))
}
