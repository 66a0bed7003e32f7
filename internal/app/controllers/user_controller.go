package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	"github.com/yigit/mentormatch/internal/app/services"
	"github.com/yigit/mentormatch/internal/middleware"
)

// imageCacheControl is sent with stored profile images
const imageCacheControl = "public, max-age=3600"

// UserController handles user-related operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetCurrentUser returns the authenticated account
// @Summary Get current user
// @Description Returns the account and profile of the caller
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "Current account"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me [get]
func (c *UserController) GetCurrentUser(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	resp, err := c.userService.GetCurrentUser(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// UpdateProfile updates the caller's profile
// @Summary Update profile
// @Description Replaces name, bio, image and skills. Omitting image clears it.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} dto.UserResponse "Updated account"
// @Failure 400 {object} dto.ErrorResponse "Invalid profile or image"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not the caller's profile"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.userService.UpdateProfile(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ListMentors lists mentors for a mentee
// @Summary List mentors
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param skill query string false "Only mentors with this skill"
// @Param orderBy query string false "Sort key" Enums(name, skill)
// @Success 200 {array} dto.UserResponse "Mentors"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only mentees can view mentors"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentors [get]
func (c *UserController) ListMentors(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var query dto.MentorListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeInvalidInput, dto.HandleValidationError(err)))
		return
	}

	mentors, err := c.userService.ListMentors(ctx.Request.Context(), actor, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, mentors)
}

// GetProfileImage serves a stored profile image or redirects to a placeholder
// @Summary Get profile image
// @Tags users
// @Produce image/png,image/jpeg
// @Security BearerAuth
// @Param role path string true "Account role" Enums(mentor, mentee)
// @Param id path int true "Account ID"
// @Success 200 {file} binary "Image bytes"
// @Success 302 "Redirect to placeholder image"
// @Failure 400 {object} dto.ErrorResponse "Invalid role"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /images/{role}/{id} [get]
func (c *UserController) GetProfileImage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	img, err := c.userService.GetProfileImage(ctx.Request.Context(), ctx.Param("role"), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if img.RedirectURL != "" {
		ctx.Redirect(http.StatusFound, img.RedirectURL)
		return
	}

	ctx.Header("Cache-Control", imageCacheControl)
	ctx.Data(http.StatusOK, img.ContentType, img.Data)
}
