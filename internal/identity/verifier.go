// Package identity resolves bearer credentials to authenticated users.
package identity

import (
	"context"
	"errors"

	"github.com/footysocial/chat-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Identity is the authenticated principal behind a connection or request.
type Identity struct {
	User *domain.User
}

// Verifier turns a bearer credential into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 tokens issued by the auth service and resolves
// the subject against the user store.
type JWTVerifier struct {
	secret []byte
	issuer string
	users  UserStore
}

func NewJWTVerifier(secret, issuer string, users UserStore) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, users: users}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenStr string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}
	if username == "" {
		return nil, ErrInvalidToken
	}

	user, err := v.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &Identity{User: user}, nil
}
