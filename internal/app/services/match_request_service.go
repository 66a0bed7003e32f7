package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	"github.com/yigit/mentormatch/internal/app/repositories"
	"github.com/yigit/mentormatch/internal/pkg/apperrors"
	"github.com/yigit/mentormatch/internal/pkg/validation"
)

// DefaultMaxMessageLength bounds a match request message when no limit is configured
const DefaultMaxMessageLength = 1000

// MatchRulesConfig tunes the match request lifecycle
type MatchRulesConfig struct {
	MaxMessageLength int
	// SkipExclusivityChecks disables the pending/accepted pre-checks. The
	// storage indexes still hold.
	SkipExclusivityChecks bool
}

// MatchRequestService defines the match request lifecycle
type MatchRequestService interface {
	Create(ctx context.Context, actor models.Actor, req *dto.CreateMatchRequestRequest) (*dto.MatchRequestResponse, error)
	ListIncoming(ctx context.Context, actor models.Actor) ([]dto.IncomingMatchRequestResponse, error)
	ListOutgoing(ctx context.Context, actor models.Actor) ([]dto.OutgoingMatchRequestResponse, error)
	Accept(ctx context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error)
	Reject(ctx context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error)
	Cancel(ctx context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error)
}

// matchRequestServiceImpl implements MatchRequestService
type matchRequestServiceImpl struct {
	store  repositories.MatchRequestStore
	users  repositories.UserDirectory
	rules  MatchRulesConfig
	logger zerolog.Logger
}

// NewMatchRequestService creates a new MatchRequestService
func NewMatchRequestService(
	store repositories.MatchRequestStore,
	users repositories.UserDirectory,
	rules MatchRulesConfig,
	logger zerolog.Logger,
) MatchRequestService {
	if rules.MaxMessageLength <= 0 {
		rules.MaxMessageLength = DefaultMaxMessageLength
	}
	return &matchRequestServiceImpl{
		store:  store,
		users:  users,
		rules:  rules,
		logger: logger,
	}
}

// Create sends a match request from the calling mentee to a mentor
func (s *matchRequestServiceImpl) Create(ctx context.Context, actor models.Actor, req *dto.CreateMatchRequestRequest) (*dto.MatchRequestResponse, error) {
	if !actor.Is(models.RoleMentee) {
		return nil, apperrors.NewForbiddenError("Only mentees can send match requests")
	}

	// Validate payload
	if req == nil || req.MentorID <= 0 || req.Message == nil {
		return nil, apperrors.NewValidationError("mentorId and message are required")
	}

	message := strings.TrimSpace(*req.Message)
	if message == "" {
		return nil, apperrors.NewValidationError("Message must be a non-empty string")
	}
	if !validation.NewStringValidation(message).WithMaxLength(s.rules.MaxMessageLength).Validate() {
		return nil, apperrors.NewCustomError(apperrors.ErrMessageTooLong,
			fmt.Sprintf("Message must be at most %d characters", s.rules.MaxMessageLength))
	}

	// Target must be an existing mentor
	mentor, err := s.users.GetByID(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidMentor, "Mentor not found or invalid")
		}
		return nil, fmt.Errorf("error loading mentor: %w", err)
	}
	if !mentor.IsMentor() {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidMentor, "Mentor not found or invalid")
	}

	var created *models.MatchRequest
	err = s.store.WithinTx(ctx, func(ctx context.Context, store repositories.MatchRequestStore) error {
		// Check mentee has no pending request and mentor is still free
		if !s.rules.SkipExclusivityChecks {
			pending, err := store.HasPending(ctx, actor.ID)
			if err != nil {
				return err
			}
			if pending {
				return apperrors.ErrPendingRequestExists
			}

			accepted, err := store.HasAccepted(ctx, mentor.ID)
			if err != nil {
				return err
			}
			if accepted {
				return apperrors.ErrMentorUnavailable
			}
		}

		// Insert; unique indexes catch anything the checks raced past
		var err error
		created, err = store.Create(ctx, mentor.ID, actor.ID, message)
		return err
	})
	if err != nil {
		s.logger.Debug().Err(err).Int64("menteeID", actor.ID).Int64("mentorID", mentor.ID).Msg("Match request not created")
		return nil, err
	}

	s.logger.Info().Int64("matchRequestID", created.ID).Int64("menteeID", actor.ID).Int64("mentorID", mentor.ID).Msg("Match request created")
	return dto.NewMatchRequestResponse(created), nil
}

// ListIncoming lists requests addressed to the calling mentor
func (s *matchRequestServiceImpl) ListIncoming(ctx context.Context, actor models.Actor) ([]dto.IncomingMatchRequestResponse, error) {
	if !actor.Is(models.RoleMentor) {
		return nil, apperrors.NewForbiddenError("Only mentors can view incoming requests")
	}

	list, err := s.store.ListIncoming(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewIncomingList(list), nil
}

// ListOutgoing lists requests sent by the calling mentee
func (s *matchRequestServiceImpl) ListOutgoing(ctx context.Context, actor models.Actor) ([]dto.OutgoingMatchRequestResponse, error) {
	if !actor.Is(models.RoleMentee) {
		return nil, apperrors.NewForbiddenError("Only mentees can view outgoing requests")
	}

	list, err := s.store.ListOutgoing(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewOutgoingList(list), nil
}

// Accept accepts a pending request addressed to the calling mentor. The
// mentor must not already hold another accepted request.
func (s *matchRequestServiceImpl) Accept(ctx context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error) {
	if !actor.Is(models.RoleMentor) {
		return nil, apperrors.NewForbiddenError("Only mentors can accept requests")
	}

	var updated *models.MatchRequest
	err := s.store.WithinTx(ctx, func(ctx context.Context, store repositories.MatchRequestStore) error {
		// Check the mentor holds no other accepted request
		if !s.rules.SkipExclusivityChecks {
			accepted, err := store.HasAcceptedOther(ctx, actor.ID, id)
			if err != nil {
				return err
			}
			if accepted {
				return apperrors.ErrAlreadyMatched
			}
		}

		// Only a pending request addressed to this mentor transitions
		var err error
		updated, err = store.SetStatus(ctx, id, models.MatchStatusAccepted, actor.ID, actor.Role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("matchRequestID", id).Int64("mentorID", actor.ID).Msg("Match request accepted")
	return dto.NewMatchRequestResponse(updated), nil
}

// Reject rejects a pending request addressed to the calling mentor
func (s *matchRequestServiceImpl) Reject(ctx context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error) {
	if !actor.Is(models.RoleMentor) {
		return nil, apperrors.NewForbiddenError("Only mentors can reject requests")
	}
	return s.transition(ctx, actor, id, models.MatchStatusRejected)
}

// Cancel withdraws a pending request sent by the calling mentee
func (s *matchRequestServiceImpl) Cancel(ctx context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error) {
	if !actor.Is(models.RoleMentee) {
		return nil, apperrors.NewForbiddenError("Only mentees can cancel requests")
	}
	return s.transition(ctx, actor, id, models.MatchStatusCancelled)
}

func (s *matchRequestServiceImpl) transition(ctx context.Context, actor models.Actor, id int64, status models.MatchStatus) (*dto.MatchRequestResponse, error) {
	updated, err := s.store.SetStatus(ctx, id, status, actor.ID, actor.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("matchRequestID", id).Int64("userID", actor.ID).Str("status", string(status)).Msg("Match request updated")
	return dto.NewMatchRequestResponse(updated), nil
}
