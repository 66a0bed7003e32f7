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
	"github.com/yigit/mentormatch/internal/pkg/helpers"
	"github.com/yigit/mentormatch/internal/pkg/validation"
)

// ProfileImage is either raw image bytes or a redirect to a placeholder
type ProfileImage struct {
	ContentType string
	Data        []byte
	RedirectURL string
}

// UserService defines the interface for account and profile operations
type UserService interface {
	GetCurrentUser(ctx context.Context, actor models.Actor) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor models.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListMentors(ctx context.Context, actor models.Actor, query *dto.MentorListQuery) ([]dto.UserResponse, error)
	GetProfileImage(ctx context.Context, role string, id int64) (*ProfileImage, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	users  repositories.UserDirectory
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserDirectory, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		users:  users,
		logger: logger,
	}
}

// GetCurrentUser returns the caller's account and profile
func (s *userServiceImpl) GetCurrentUser(ctx context.Context, actor models.Actor) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("User account no longer exists")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateProfile replaces the caller's name, bio, image and skills
func (s *userServiceImpl) UpdateProfile(ctx context.Context, actor models.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	// Check ownership and role
	if req.ID != actor.ID {
		return nil, apperrors.NewForbiddenError("You can only update your own profile")
	}
	if req.Role != string(actor.Role) {
		return nil, apperrors.NewValidationError("Cannot change user role")
	}
	if req.Name == "" || req.Bio == "" {
		return nil, apperrors.NewValidationError("Name and bio are required")
	}

	// Only mentors carry skills
	skills := []string{}
	if actor.Is(models.RoleMentor) {
		if req.Skills == nil {
			return nil, apperrors.NewValidationError("Mentors must provide skills as an array")
		}
		skills = req.Skills
	}

	// Validate image if provided
	var image *string
	if req.Image != nil && *req.Image != "" {
		if _, err := validation.ValidateProfileImage(*req.Image); err != nil {
			return nil, err
		}
		image = req.Image
	}

	// Update profile
	user, err := s.users.UpdateProfile(ctx, actor.ID, repositories.ProfileUpdate{
		Name:      req.Name,
		Bio:       req.Bio,
		ImageData: image,
		Skills:    skills,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("User account no longer exists")
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Bool("hasImage", user.HasImage()).Msg("Profile updated")

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ListMentors lists mentors for a mentee, optionally filtered by skill.
// Unknown orderBy values fall back to the default order.
func (s *userServiceImpl) ListMentors(ctx context.Context, actor models.Actor, query *dto.MentorListQuery) ([]dto.UserResponse, error) {
	if !actor.Is(models.RoleMentee) {
		return nil, apperrors.NewForbiddenError("Only mentees can view mentor list")
	}

	// Build filter from query
	filter := repositories.MentorFilter{}
	if query != nil {
		filter.Skill = query.Skill
		switch repositories.MentorOrder(query.OrderBy) {
		case repositories.MentorOrderName, repositories.MentorOrderSkill:
			filter.OrderBy = repositories.MentorOrder(query.OrderBy)
		}
	}

	mentors, err := s.users.ListMentors(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing mentors: %w", err)
	}
	return dto.NewUserListResponse(mentors), nil
}

// GetProfileImage loads the stored image of the account identified by role and id
func (s *userServiceImpl) GetProfileImage(ctx context.Context, role string, id int64) (*ProfileImage, error) {
	roleType, err := models.ParseRole(role)
	if err != nil {
		return nil, apperrors.NewValidationError("Role must be either mentor or mentee")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("User does not exist")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	// Role in the path must match the account
	if user.Role != roleType {
		return nil, apperrors.NewValidationError("User role does not match requested role")
	}

	// No image stored, redirect to placeholder
	if !user.HasImage() {
		return &ProfileImage{RedirectURL: helpers.PlaceholderImageURL(roleType)}, nil
	}

	// Decode stored data URL
	subtype, data, err := validation.DecodeStoredImage(*user.ImageData)
	if err != nil {
		s.logger.Error().Int64("userID", user.ID).Msg("Stored profile image is corrupted")
		return nil, err
	}

	return &ProfileImage{ContentType: "image/" + subtype, Data: data}, nil
}
