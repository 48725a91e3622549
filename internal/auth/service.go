package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/budget-approval/internal"
	"github.com/frahmantamala/budget-approval/internal/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the credential store consumed by the auth service.
type UserRepository interface {
	Create(u *user.User) error
	GetByEmail(email string) (*user.User, error)
	GetByID(id string) (*user.User, error)
}

// Service performs registration and authentication.
type Service struct {
	users      UserRepository
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

// NewService creates a new auth service.
func NewService(users UserRepository, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a user with a bcrypt-hashed password. Duplicate emails
// are rejected before and after the insert; the role must come from the
// closed set.
func (s *Service) Register(dto RegisterDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := user.ParseRole(dto.Role)
	if err != nil {
		return nil, ValidationError{Msg: "Role must be one of Employee, Manager, Admin."}
	}

	if _, err := s.users.GetByEmail(dto.Email); err == nil {
		return nil, internal.ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		s.logger.Error("email lookup failed during registration", "error", err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Authenticate validates credentials and issues a session token. Unknown
// emails and password mismatches are indistinguishable to the caller.
func (s *Service) Authenticate(dto LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(dto.Email)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateSessionToken(u)
	if err != nil {
		s.logger.Error("failed to sign session token", "error", err, "user_id", u.ID)
		return nil, err
	}

	s.logger.Info("user authenticated", "user_id", u.ID, "role", u.Role)

	return &Session{
		UserID:    u.ID,
		Role:      u.Role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateAccessToken validates a session token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}
