package dto

import (
	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/pkg/helpers"
)

// ProfileResponse is the public profile of an account. Skills is only
// present for mentors.
type ProfileResponse struct {
	Name     string    `json:"name" example:"Jane Mentor"`
	Bio      string    `json:"bio" example:"Backend engineer"`
	ImageURL string    `json:"imageUrl" example:"/images/mentor/1"`
	Skills   *[]string `json:"skills,omitempty"`
}

// UserResponse represents an account with its profile
type UserResponse struct {
	ID      int64           `json:"id" example:"1"`
	Email   string          `json:"email" example:"mentor@example.com"`
	Role    string          `json:"role" example:"mentor"`
	Profile ProfileResponse `json:"profile"`
}

// UpdateProfileRequest represents profile update data. Image is a base64 data
// URL; omitting it clears the stored image.
type UpdateProfileRequest struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name" binding:"required,max=100"`
	Role   string   `json:"role"`
	Bio    string   `json:"bio" binding:"required"`
	Image  *string  `json:"image"`
	Skills []string `json:"skills"`
}

// MentorListQuery represents mentor search parameters
type MentorListQuery struct {
	Skill   string `form:"skill"`
	OrderBy string `form:"orderBy"`
}

// NewUserResponse maps an account onto its API view
func NewUserResponse(user *models.User) UserResponse {
	profile := ProfileResponse{
		Name:     user.Name,
		Bio:      user.Bio,
		ImageURL: helpers.ProfileImageURL(user),
	}
	if user.IsMentor() {
		skills := user.Skills
		if skills == nil {
			skills = []string{}
		}
		profile.Skills = &skills
	}

	return UserResponse{
		ID:      user.ID,
		Email:   user.Email,
		Role:    string(user.Role),
		Profile: profile,
	}
}

// NewUserListResponse maps a list of accounts
func NewUserListResponse(users []*models.User) []UserResponse {
	list := make([]UserResponse, 0, len(users))
	for _, u := range users {
		list = append(list, NewUserResponse(u))
	}
	return list
}
