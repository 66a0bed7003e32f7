package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	"github.com/yigit/mentormatch/internal/pkg/apperrors"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	details string
}

// Checked in order. Match request kinds come before the generic ones so a
// CustomError wrapping a specific sentinel keeps its own kind.
var errorMappings = []errorMapping{
	{apperrors.ErrMessageTooLong, http.StatusBadRequest, dto.ErrorCodeMessageTooLong, "Message is too long"},
	{apperrors.ErrInvalidMentor, http.StatusBadRequest, dto.ErrorCodeInvalidMentor, "Mentor not found or invalid"},
	{apperrors.ErrPendingRequestExists, http.StatusBadRequest, dto.ErrorCodePendingRequestExists, "You already have a pending match request"},
	{apperrors.ErrMentorUnavailable, http.StatusBadRequest, dto.ErrorCodeMentorUnavailable, "Mentor has already accepted another request"},
	{apperrors.ErrAlreadyMatched, http.StatusBadRequest, dto.ErrorCodeAlreadyMatched, "You have already accepted a match request"},
	{apperrors.ErrDuplicateRequest, http.StatusConflict, dto.ErrorCodeDuplicateRequest, "A request to this mentor already exists"},
	{apperrors.ErrNotFoundOrUnauthorized, http.StatusNotFound, dto.ErrorCodeNotFoundOrUnauthorized, "Match request not found or not authorized"},
	{apperrors.ErrMatchRequestNotFound, http.StatusNotFound, dto.ErrorCodeNotFoundOrUnauthorized, "Match request not found or not authorized"},

	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeInvalidInput, "Validation failed"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeTokenExpired, "Token has expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeNotFound, "Resource not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeNotFound, "User not found"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeEmailAlreadyExists, "An account with this email already exists"},
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests, "Too many requests, please try again later"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, dto.NewErrorResponse(m.code, apperrors.Detail(err, m.details)))
			return
		}
	}

	// Internals never reach the client.
	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled API error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternal, "Internal server error"))
}

// AbortWithError writes the mapped error response and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	HandleAPIError(c, err)
	c.Abort()
}
