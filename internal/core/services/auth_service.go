package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"imc-punching/internal/adapters/persistence/repositories"
	"imc-punching/internal/config"
	"imc-punching/internal/core/domain"
	"imc-punching/internal/pkg/jwt"
	"imc-punching/internal/pkg/password"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// LoginInput represents login input. ClientID is optional; when present it
// must match the user's tenant.
type LoginInput struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
	ClientID string `json:"client_id"`
}

// LoginResult represents a successful login
type LoginResult struct {
	Token    string `json:"-"`
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
}

// Login verifies credentials and issues a session token. Unknown users,
// wrong passwords and tenant mismatches all fail the same way.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.ClientID = strings.TrimSpace(input.ClientID)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// 1. Find user by id
	user, err := s.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		if repositories.IsNotFound(err) {
			password.VerifyMissing(input.Password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Check tenant when supplied
	if input.ClientID != "" && input.ClientID != user.ClientID {
		return nil, domain.ErrInvalidCredentials
	}

	// 4. Issue token
	token, err := jwt.GenerateAccessToken(
		user.ID,
		user.ClientID,
		user.IsAdmin,
		s.cfg.JWT.Secret,
		s.cfg.JWT.ExpiryHours,
	)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s (client %s)", user.ID, user.ClientID)

	return &LoginResult{
		Token:    token,
		ID:       user.ID,
		ClientID: user.ClientID,
	}, nil
}

// RehashLegacyPasswords replaces every plain-text password with its bcrypt
// hash and returns how many accounts changed. Hashed accounts are skipped,
// so running it twice is harmless.
func (s *AuthService) RehashLegacyPasswords(ctx context.Context) (int, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	rehashed := 0
	for _, user := range users {
		if user.Password == "" || password.IsHash(user.Password) {
			continue
		}
		hash, err := password.Hash(user.Password)
		if err != nil {
			return rehashed, fmt.Errorf("hash password for %s: %w", user.ID, err)
		}
		if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
			return rehashed, fmt.Errorf("update password for %s: %w", user.ID, err)
		}
		rehashed++
		log.Printf("🔐 Rehashed password for %s", user.ID)
	}
	return rehashed, nil
}
