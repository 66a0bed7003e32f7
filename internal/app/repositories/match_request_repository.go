package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/db"
	"github.com/yigit/mentormatch/internal/pkg/apperrors"
	"github.com/yigit/mentormatch/internal/pkg/dberrors"
	"github.com/yigit/mentormatch/internal/pkg/logger"
)

// Constraint and index names from migrations/sql/001_init.sql
const (
	matchPairKey         = "match_requests_mentor_id_mentee_id_key"
	matchPendingIndex    = "uniq_match_requests_mentee_pending"
	matchAcceptedIndex   = "uniq_match_requests_mentor_accepted"
	matchRequestsTable   = "match_requests"
	matchRequestsAliased = "match_requests mr"
)

var matchRequestColumns = []string{
	"id", "mentor_id", "mentee_id", "message", "status", "created_at", "updated_at",
}

// MatchRequestRepository handles match request database operations
type MatchRequestRepository struct {
	db   db.Querier
	pool db.Pool // nil when already bound to a transaction
	sb   squirrel.StatementBuilderType
}

// NewMatchRequestRepository creates a new MatchRequestRepository
func NewMatchRequestRepository(pool db.Pool) *MatchRequestRepository {
	return &MatchRequestRepository{
		db:   pool,
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ MatchRequestStore = (*MatchRequestRepository)(nil)

// withQuerier returns a copy of the repository bound to q
func (r *MatchRequestRepository) withQuerier(q db.Querier) *MatchRequestRepository {
	return &MatchRequestRepository{db: q, sb: r.sb}
}

// WithinTx runs fn against a repository bound to one transaction
func (r *MatchRequestRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, store MatchRequestStore) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, r.withQuerier(tx))
	})
}

// scanMatchRequest reads the match request columns in matchRequestColumns order
// followed by any extra destinations.
func scanMatchRequest(row pgx.Row, extra ...any) (*models.MatchRequest, error) {
	var (
		mr     models.MatchRequest
		status string
	)
	dest := append([]any{&mr.ID, &mr.MentorID, &mr.MenteeID, &mr.Message, &status, &mr.CreatedAt, &mr.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	parsed, err := models.ParseMatchStatus(status)
	if err != nil {
		return nil, fmt.Errorf("match request %d: %w", mr.ID, err)
	}
	mr.Status = parsed
	return &mr, nil
}

// translateWriteError maps constraint violations onto domain errors
func translateWriteError(err error) error {
	switch dberrors.ViolatedConstraint(err) {
	case matchPairKey:
		return apperrors.ErrDuplicateRequest
	case matchPendingIndex:
		return apperrors.ErrPendingRequestExists
	case matchAcceptedIndex:
		return apperrors.ErrAlreadyMatched
	}
	if dberrors.IsForeignKeyViolation(err) {
		return apperrors.ErrInvalidMentor
	}
	return nil
}

// Create inserts a new pending match request
func (r *MatchRequestRepository) Create(ctx context.Context, mentorID, menteeID int64, message string) (*models.MatchRequest, error) {
	// Build insert query
	sql, args, err := r.sb.Insert(matchRequestsTable).
		Columns("mentor_id", "mentee_id", "message", "status").
		Values(mentorID, menteeID, message, string(models.MatchStatusPending)).
		Suffix("RETURNING " + joinColumns(matchRequestColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create match request query: %w", err)
	}

	// Execute query; constraint violations become domain errors
	mr, err := scanMatchRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if domainErr := translateWriteError(err); domainErr != nil {
			return nil, domainErr
		}
		logger.Error().Err(err).Int64("mentorID", mentorID).Int64("menteeID", menteeID).Msg("Error executing create match request query")
		return nil, fmt.Errorf("error creating match request: %w", err)
	}
	return mr, nil
}

// FindByID retrieves a match request by ID without ownership scoping
func (r *MatchRequestRepository) FindByID(ctx context.Context, id int64) (*models.MatchRequest, error) {
	sql, args, err := r.sb.Select(matchRequestColumns...).
		From(matchRequestsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find match request query: %w", err)
	}

	mr, err := scanMatchRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMatchRequestNotFound
		}
		return nil, fmt.Errorf("error retrieving match request: %w", err)
	}
	return mr, nil
}

// listJoined lists requests where ownerColumn = ownerID, joined with the user
// referenced by counterpartColumn, newest first.
func (r *MatchRequestRepository) listJoined(ctx context.Context, ownerColumn, counterpartColumn string, ownerID int64) ([]*models.MatchRequestDetails, error) {
	// Select request columns plus counterpart name and email
	cols := make([]string, 0, len(matchRequestColumns)+2)
	for _, c := range matchRequestColumns {
		cols = append(cols, "mr."+c)
	}
	cols = append(cols, "u.name", "u.email")

	sql, args, err := r.sb.Select(cols...).
		From(matchRequestsAliased).
		Join("users u ON u.id = mr." + counterpartColumn).
		Where(squirrel.Eq{"mr." + ownerColumn: ownerID}).
		OrderBy("mr.created_at DESC", "mr.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list match requests query: %w", err)
	}

	// Execute query
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing match requests: %w", err)
	}
	defer rows.Close()

	// Scan rows
	list := make([]*models.MatchRequestDetails, 0)
	for rows.Next() {
		var name, email string
		mr, err := scanMatchRequest(rows, &name, &email)
		if err != nil {
			return nil, fmt.Errorf("error scanning match request row: %w", err)
		}
		list = append(list, &models.MatchRequestDetails{
			MatchRequest:     *mr,
			CounterpartName:  name,
			CounterpartEmail: email,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match request rows: %w", err)
	}
	return list, nil
}

// ListIncoming lists requests addressed to a mentor, with mentee name and email
func (r *MatchRequestRepository) ListIncoming(ctx context.Context, mentorID int64) ([]*models.MatchRequestDetails, error) {
	return r.listJoined(ctx, "mentor_id", "mentee_id", mentorID)
}

// ListOutgoing lists requests sent by a mentee, with mentor name and email
func (r *MatchRequestRepository) ListOutgoing(ctx context.Context, menteeID int64) ([]*models.MatchRequestDetails, error) {
	return r.listJoined(ctx, "mentee_id", "mentor_id", menteeID)
}

func (r *MatchRequestRepository) exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS(").
		From(matchRequestsTable).
		Where(where).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var found bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("error checking match requests: %w", err)
	}
	return found, nil
}

// HasPending reports whether the mentee has a pending request
func (r *MatchRequestRepository) HasPending(ctx context.Context, menteeID int64) (bool, error) {
	return r.exists(ctx, squirrel.And{
		squirrel.Eq{"mentee_id": menteeID},
		squirrel.Eq{"status": string(models.MatchStatusPending)},
	})
}

// HasAccepted reports whether the mentor holds an accepted request
func (r *MatchRequestRepository) HasAccepted(ctx context.Context, mentorID int64) (bool, error) {
	return r.exists(ctx, squirrel.And{
		squirrel.Eq{"mentor_id": mentorID},
		squirrel.Eq{"status": string(models.MatchStatusAccepted)},
	})
}

// HasAcceptedOther reports whether the mentor holds an accepted request other than excludeID
func (r *MatchRequestRepository) HasAcceptedOther(ctx context.Context, mentorID, excludeID int64) (bool, error) {
	return r.exists(ctx, squirrel.And{
		squirrel.Eq{"mentor_id": mentorID},
		squirrel.Eq{"status": string(models.MatchStatusAccepted)},
		squirrel.NotEq{"id": excludeID},
	})
}

// SetStatus transitions a pending request owned by the acting user in one statement
func (r *MatchRequestRepository) SetStatus(ctx context.Context, id int64, status models.MatchStatus, actingUserID int64, actingRole models.RoleType) (*models.MatchRequest, error) {
	if !status.IsTerminal() {
		return nil, fmt.Errorf("cannot transition match request to %q", status)
	}

	// Resolve the ownership column for the acting role
	var ownerColumn string
	switch actingRole {
	case models.RoleMentor:
		ownerColumn = "mentor_id"
	case models.RoleMentee:
		ownerColumn = "mentee_id"
	default:
		return nil, apperrors.ErrNotFoundOrUnauthorized
	}

	// Update only a pending row owned by the acting user
	sql, args, err := r.sb.Update(matchRequestsTable).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.And{
			squirrel.Eq{"id": id},
			squirrel.Eq{ownerColumn: actingUserID},
			squirrel.Eq{"status": string(models.MatchStatusPending)},
		}).
		Suffix("RETURNING " + joinColumns(matchRequestColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build set status query: %w", err)
	}

	// No row means missing, not owned, or no longer pending
	mr, err := scanMatchRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFoundOrUnauthorized
		}
		if domainErr := translateWriteError(err); domainErr != nil {
			return nil, domainErr
		}
		logger.Error().Err(err).Int64("matchRequestID", id).Str("status", string(status)).Msg("Error executing set status query")
		return nil, fmt.Errorf("error updating match request: %w", err)
	}
	return mr, nil
}
