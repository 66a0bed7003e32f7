// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	"github.com/yigit/mentormatch/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter, writing a 400 when it is malformed
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeInvalidInput, name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

// requireActor returns the authenticated caller, writing a 401 when the auth middleware did not run
func requireActor(ctx *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return models.Actor{}, false
	}
	return actor, true
}

// bindJSON binds and validates the request body into req, writing a 400 on failure
func bindJSON(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeInvalidInput, dto.HandleValidationError(err)))
		return false
	}
	return true
}
