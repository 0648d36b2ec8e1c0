package service

import (
	"errors"
	"fmt"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// identityClaims are the claims of an identity-provider access token.
type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier validates access tokens signed by the external identity
// provider with a shared HMAC secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given shared secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates a token, returning the identity it carries.
// Expired tokens map to ErrSessionExpired so the caller can discard the
// session instead of retrying.
func (v *JWTVerifier) Verify(tokenString string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// The signature checked out, only the expiry failed. Return the
			// identity so the caller can tear its session down.
			if claims, ok := token.Claims.(*identityClaims); ok && claims.Subject != "" {
				return &domain.Identity{ID: claims.Subject, Email: claims.Email}, &domain.ErrSessionExpired{}
			}
			return nil, &domain.ErrSessionExpired{}
		}
		return nil, &domain.ErrUnauthorized{Message: "Token inválido"}
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido"}
	}

	return &domain.Identity{ID: claims.Subject, Email: claims.Email}, nil
}
