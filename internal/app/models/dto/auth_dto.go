package dto

import "github.com/yigit/mentormatch/internal/app/models"

// SignupRequest represents account registration data
type SignupRequest struct {
	Email    string `json:"email" binding:"required" example:"mentee@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Name     string `json:"name" binding:"required,max=100" example:"Kim Mentee"`
	Role     string `json:"role" binding:"required" example:"mentee"`
}

// LoginRequest represents login credentials. Missing values are reported as
// invalid credentials, so no binding rules apply here.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountSummary is the short account view returned by signup and login
type AccountSummary struct {
	ID    int64  `json:"id" example:"1"`
	Email string `json:"email" example:"mentee@example.com"`
	Name  string `json:"name" example:"Kim Mentee"`
	Role  string `json:"role" example:"mentee"`
}

// SignupResponse represents a successful registration
type SignupResponse struct {
	Message string         `json:"message" example:"User created successfully"`
	User    AccountSummary `json:"user"`
}

// LoginResponse represents successful authentication response
type LoginResponse struct {
	Token string         `json:"token"`
	User  AccountSummary `json:"user"`
}

// NewAccountSummary maps an account onto its short view
func NewAccountSummary(user *models.User) AccountSummary {
	return AccountSummary{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}
}
