package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/domain/sport"
	"github.com/sportweather/sportweather-api/internal/core/domain/user"
	"github.com/sportweather/sportweather-api/internal/core/ports"
)

var (
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	lowerPattern    = regexp.MustCompile(`[a-z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

// UserService handles account registration and profile management.
type UserService struct {
	userRepo ports.UserRepository
	logger   *logrus.Logger
}

func NewUserService(userRepo ports.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Register validates the signup payload and creates the account.
func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	email := quota.NormalizeEmail(req.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	if len(req.Sports) > 0 && !sport.ValidIDs(req.Sports) {
		return nil, fmt.Errorf("unknown sport in selection")
	}
	tolerance := req.Tolerance
	if tolerance == "" {
		tolerance = sport.ToleranceModerate
	}
	if !tolerance.IsValid() {
		return nil, fmt.Errorf("invalid tolerance level: %s", tolerance)
	}

	if existing, _ := s.userRepo.GetByEmail(ctx, email); existing != nil {
		return nil, fmt.Errorf("email already registered")
	}
	if existing, _ := s.userRepo.GetByUsername(ctx, req.Username); existing != nil {
		return nil, fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     req.Username,
		PasswordHash: string(hash),
		Sports:       req.Sports,
		Tolerance:    tolerance,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	}
	return u, nil
}

// GetUser fetches an account by ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies onboarding selections to the account.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		if err := ValidateUsername(*req.Username); err != nil {
			return nil, err
		}
		if existing, _ := s.userRepo.GetByUsername(ctx, *req.Username); existing != nil && existing.ID != id {
			return nil, fmt.Errorf("username already taken")
		}
		u.Username = *req.Username
	}
	if req.Sports != nil {
		if !sport.ValidIDs(*req.Sports) {
			return nil, fmt.Errorf("unknown sport in selection")
		}
		u.Sports = *req.Sports
	}
	if req.Tolerance != nil {
		if !req.Tolerance.IsValid() {
			return nil, fmt.Errorf("invalid tolerance level: %s", *req.Tolerance)
		}
		u.Tolerance = *req.Tolerance
	}
	u.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// DeleteAccount removes the account and its data.
func (s *UserService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": id}).Info("account deleted")
	}
	return nil
}

// ValidateEmail checks basic address shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword enforces at least 8 characters with an upper-case letter,
// a lower-case letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if !upperPattern.MatchString(password) {
		return fmt.Errorf("password must contain an upper-case letter")
	}
	if !lowerPattern.MatchString(password) {
		return fmt.Errorf("password must contain a lower-case letter")
	}
	if !digitPattern.MatchString(password) {
		return fmt.Errorf("password must contain a digit")
	}
	return nil
}

// ValidateUsername enforces 2-50 characters from [A-Za-z0-9_].
func ValidateUsername(username string) error {
	if len(username) < 2 || len(username) > 50 {
		return fmt.Errorf("username must be between 2 and 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits and underscores")
	}
	return nil
}
