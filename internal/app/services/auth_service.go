package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	"github.com/yigit/mentormatch/internal/app/repositories"
	"github.com/yigit/mentormatch/internal/pkg/apperrors"
	"github.com/yigit/mentormatch/internal/pkg/auth"
	"github.com/yigit/mentormatch/internal/pkg/validation"
)

// TokenIssuer signs access tokens for authenticated accounts
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
}

// AuthService handles registration and login
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	users      repositories.UserDirectory
	tokens     TokenIssuer
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users repositories.UserDirectory,
	tokens TokenIssuer,
	bcryptCost int,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// validateSignup checks the registration payload
func validateSignup(req *dto.SignupRequest) (models.RoleType, error) {
	// Check required fields
	if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		return "", apperrors.NewValidationError("Email, password, name, and role are required")
	}

	// Validate role
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return "", apperrors.NewValidationError(`Role must be either "mentor" or "mentee"`)
	}

	// Validate password and email format
	if !validation.IsValidPassword(req.Password) {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("Password must be at least %d characters long", validation.PasswordMinLength))
	}

	if !validation.IsValidEmail(req.Email) {
		return "", apperrors.NewValidationError("Please provide a valid email address")
	}

	return role, nil
}

// Signup registers a new mentor or mentee account
func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	role, err := validateSignup(req)
	if err != nil {
		return nil, err
	}

	// Hash password
	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	// Create user; the unique email index decides duplicates
	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		Skills:       []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "An account with this email already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")

	return &dto.SignupResponse{
		Message: "User created successfully",
		User:    dto.NewAccountSummary(user),
	}, nil
}

// Login verifies credentials and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Email and password are required")
	}

	invalid := apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Email or password is incorrect")

	// Find user by email
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	// Verify password
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Password mismatch")
		return nil, invalid
	}

	// Generate access token
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewAccountSummary(user),
	}, nil
}
