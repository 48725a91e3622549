package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/budget-approval/internal"
	"github.com/frahmantamala/budget-approval/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// SessionUser is the caller identity derived from verified token claims.
// It is the only identity source for protected handlers; the companion
// userId cookie is never consulted server-side.
type SessionUser struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
}

func UserFromContext(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(ContextUserKey).(*SessionUser)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// Claims are the JWT session token claims.
type Claims struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Session is the issued credential handed back to the login handler.
type Session struct {
	UserID    string
	Role      user.Role
	Token     string
	ExpiresAt time.Time
}

// TokenGenerator creates and validates session tokens.
type TokenGenerator interface {
	GenerateSessionToken(u *user.User) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// ServiceAPI is the auth surface consumed by handlers.
type ServiceAPI interface {
	Register(dto RegisterDTO) (*user.User, error)
	Authenticate(dto LoginDTO) (*Session, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// JWTTokenGenerator signs session tokens with a symmetric secret.
type JWTTokenGenerator struct {
	Secret     []byte
	SessionTTL time.Duration
}

// NewJWTTokenGenerator creates a token generator with the given secret and TTL.
func NewJWTTokenGenerator(secret string, sessionTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:     []byte(secret),
		SessionTTL: sessionTTL,
	}
}

// GenerateSessionToken issues an HS256 token carrying email, role and user id.
func (j *JWTTokenGenerator) GenerateSessionToken(u *user.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.SessionTTL)

	claims := &Claims{
		Email:  u.Email,
		Role:   string(u.Role),
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   u.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken verifies signature and expiry and returns the claims.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
