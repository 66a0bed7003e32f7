package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is the machine-readable error kind returned in the "error" field
type ErrorCode string

// Error kinds
const (
	// 400
	ErrorCodeInvalidInput         ErrorCode = "invalid_input"
	ErrorCodeMessageTooLong       ErrorCode = "message_too_long"
	ErrorCodeInvalidMentor        ErrorCode = "invalid_mentor"
	ErrorCodePendingRequestExists ErrorCode = "pending_request_exists"
	ErrorCodeMentorUnavailable    ErrorCode = "mentor_unavailable"
	ErrorCodeAlreadyMatched       ErrorCode = "already_matched"

	// 401
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeInvalidCredentials ErrorCode = "invalid_credentials"
	ErrorCodeTokenExpired       ErrorCode = "token_expired"
	ErrorCodeInvalidToken       ErrorCode = "invalid_token"

	// 403
	ErrorCodeForbidden ErrorCode = "forbidden"

	// 404
	ErrorCodeNotFoundOrUnauthorized ErrorCode = "not_found_or_unauthorized"
	ErrorCodeNotFound               ErrorCode = "not_found"

	// 409
	ErrorCodeDuplicateRequest   ErrorCode = "duplicate_request"
	ErrorCodeEmailAlreadyExists ErrorCode = "email_already_exists"

	// 429
	ErrorCodeTooManyRequests ErrorCode = "too_many_requests"

	// 500
	ErrorCodeInternal ErrorCode = "internal"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Error   ErrorCode `json:"error" example:"invalid_input"`
	Details string    `json:"details" example:"mentorId is required"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, details string) ErrorResponse {
	return ErrorResponse{
		Error:   code,
		Details: details,
	}
}

// HandleValidationError turns a binding error into a human-readable detail string
func HandleValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			messages = append(messages, formatValidationError(fe))
		}
		return strings.Join(messages, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field + " has an invalid type"
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "Request body is too large"
	}

	return "Request body must be valid JSON"
}

// UseJSONFieldNames makes v report json tag names in field errors
func UseJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonFieldName(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "gt":
		return field + " must be greater than " + e.Param()
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}

// jsonFieldName lower-cases the leading rune of a struct field name (MentorID -> mentorID)
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
