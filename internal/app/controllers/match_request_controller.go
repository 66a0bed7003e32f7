package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	"github.com/yigit/mentormatch/internal/app/services"
	"github.com/yigit/mentormatch/internal/middleware"
)

// MatchRequestController handles the match request lifecycle endpoints
type MatchRequestController struct {
	service services.MatchRequestService
	logger  zerolog.Logger
}

// NewMatchRequestController creates a new MatchRequestController
func NewMatchRequestController(service services.MatchRequestService, logger zerolog.Logger) *MatchRequestController {
	return &MatchRequestController{
		service: service,
		logger:  logger,
	}
}

// Create sends a match request to a mentor
// @Summary Send a match request
// @Tags match-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMatchRequestRequest true "Mentor and message"
// @Success 201 {object} dto.MatchRequestResponse "Created request"
// @Failure 400 {object} dto.ErrorResponse "Invalid input, invalid mentor, pending request exists or mentor unavailable"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only mentees can send requests"
// @Failure 409 {object} dto.ErrorResponse "Request to this mentor already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /match-requests [post]
func (c *MatchRequestController) Create(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateMatchRequestRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.service.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// ListIncoming lists requests sent to the calling mentor
// @Summary List incoming match requests
// @Tags match-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.IncomingMatchRequestResponse "Requests, newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only mentors have incoming requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /match-requests/incoming [get]
func (c *MatchRequestController) ListIncoming(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	list, err := c.service.ListIncoming(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, list)
}

// ListOutgoing lists requests sent by the calling mentee
// @Summary List outgoing match requests
// @Tags match-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.OutgoingMatchRequestResponse "Requests, newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only mentees have outgoing requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /match-requests/outgoing [get]
func (c *MatchRequestController) ListOutgoing(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	list, err := c.service.ListOutgoing(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, list)
}

// Accept accepts a pending request
// @Summary Accept a match request
// @Tags match-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Match request ID"
// @Success 200 {object} dto.MatchRequestResponse "Accepted request"
// @Failure 400 {object} dto.ErrorResponse "Mentor already matched"
// @Failure 403 {object} dto.ErrorResponse "Only mentors can accept"
// @Failure 404 {object} dto.ErrorResponse "Request not found or not authorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /match-requests/{id}/accept [put]
func (c *MatchRequestController) Accept(ctx *gin.Context) {
	c.transition(ctx, models.MatchStatusAccepted, c.service.Accept)
}

// Reject rejects a pending request
// @Summary Reject a match request
// @Tags match-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Match request ID"
// @Success 200 {object} dto.MatchRequestResponse "Rejected request"
// @Failure 403 {object} dto.ErrorResponse "Only mentors can reject"
// @Failure 404 {object} dto.ErrorResponse "Request not found or not authorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /match-requests/{id}/reject [put]
func (c *MatchRequestController) Reject(ctx *gin.Context) {
	c.transition(ctx, models.MatchStatusRejected, c.service.Reject)
}

// Cancel withdraws a pending request
// @Summary Cancel a match request
// @Tags match-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Match request ID"
// @Success 200 {object} dto.MatchRequestResponse "Cancelled request"
// @Failure 403 {object} dto.ErrorResponse "Only mentees can cancel"
// @Failure 404 {object} dto.ErrorResponse "Request not found or not authorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /match-requests/{id} [delete]
func (c *MatchRequestController) Cancel(ctx *gin.Context) {
	c.transition(ctx, models.MatchStatusCancelled, c.service.Cancel)
}

type transitionFunc func(ctx context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error)

func (c *MatchRequestController) transition(ctx *gin.Context, target models.MatchStatus, fn transitionFunc) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := fn(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("requestID", id).
		Int64("userID", actor.ID).
		Str("status", string(target)).
		Msg("Match request updated")
	ctx.JSON(http.StatusOK, resp)
}
