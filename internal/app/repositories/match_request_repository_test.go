package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/pkg/apperrors"
)

func matchRow(now time.Time, id, mentorID, menteeID int64, status string) *pgxmock.Rows {
	return pgxmock.NewRows(matchRequestColumns).
		AddRow(id, mentorID, menteeID, "hello", status, now, now)
}

func TestMatchRequestRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO match_requests (mentor_id,mentee_id,message,status) VALUES ($1,$2,$3,$4) RETURNING id, mentor_id")).
		WithArgs(int64(1), int64(2), "hello", "pending").
		WillReturnRows(matchRow(time.Now(), 10, 1, 2, "pending"))

	mr, err := repo.Create(context.Background(), 1, 2, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(10), mr.ID)
	assert.Equal(t, models.MatchStatusPending, mr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_CreateConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate pair", &pgconn.PgError{Code: "23505", ConstraintName: "match_requests_mentor_id_mentee_id_key"}, apperrors.ErrDuplicateRequest},
		{"second pending for mentee", &pgconn.PgError{Code: "23505", ConstraintName: "uniq_match_requests_mentee_pending"}, apperrors.ErrPendingRequestExists},
		{"unknown mentor", &pgconn.PgError{Code: "23503", ConstraintName: "match_requests_mentor_id_fkey"}, apperrors.ErrInvalidMentor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewMatchRequestRepository(mock)

			mock.ExpectQuery("INSERT INTO match_requests").WillReturnError(tt.err)

			_, err := repo.Create(context.Background(), 1, 2, "hello")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMatchRequestRepository_CreateUnexpectedError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectQuery("INSERT INTO match_requests").WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), 1, 2, "hello")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicateRequest)
}

func TestMatchRequestRepository_FindByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM match_requests WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(matchRow(time.Now(), 5, 1, 2, "rejected"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM match_requests WHERE id = $1")).
		WithArgs(int64(6)).
		WillReturnRows(pgxmock.NewRows(matchRequestColumns))

	mr, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusRejected, mr.Status)

	_, err = repo.FindByID(context.Background(), 6)
	assert.ErrorIs(t, err, apperrors.ErrMatchRequestNotFound)
}

func TestMatchRequestRepository_FindByIDRejectsUnknownStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectQuery("FROM match_requests").WillReturnRows(matchRow(time.Now(), 5, 1, 2, "archived"))

	_, err := repo.FindByID(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archived")
}

func TestMatchRequestRepository_ListIncoming(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)
	now := time.Now()

	cols := append(append([]string{}, matchRequestColumns...), "name", "email")
	mock.ExpectQuery(regexp.QuoteMeta("FROM match_requests mr JOIN users u ON u.id = mr.mentee_id WHERE mr.mentor_id = $1 ORDER BY mr.created_at DESC, mr.id DESC")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(8), int64(1), int64(3), "second", "pending", now, now, "Mia", "mia@example.com").
			AddRow(int64(7), int64(1), int64(2), "first", "rejected", now.Add(-time.Hour), now, "Max", "max@example.com"))

	list, err := repo.ListIncoming(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(8), list[0].ID)
	assert.Equal(t, "Mia", list[0].CounterpartName)
	assert.Equal(t, "max@example.com", list[1].CounterpartEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_ListOutgoingEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	cols := append(append([]string{}, matchRequestColumns...), "name", "email")
	mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = mr.mentor_id WHERE mr.mentee_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(cols))

	list, err := repo.ListOutgoing(context.Background(), 2)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestMatchRequestRepository_HasPendingAndAccepted(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM match_requests WHERE (mentee_id = $1 AND status = $2)")).
		WithArgs(int64(2), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("FROM match_requests WHERE (mentor_id = $1 AND status = $2)")).
		WithArgs(int64(1), "accepted").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	pending, err := repo.HasPending(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, pending)

	accepted, err := repo.HasAccepted(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_HasAcceptedOtherExcludesTarget(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM match_requests WHERE (mentor_id = $1 AND status = $2 AND id <> $3)")).
		WithArgs(int64(1), "accepted", int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	accepted, err := repo.HasAcceptedOther(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_SetStatusScopedUpdate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE match_requests SET status = $1, updated_at = NOW() WHERE (id = $2 AND mentor_id = $3 AND status = $4) RETURNING")).
		WithArgs("accepted", int64(5), int64(1), "pending").
		WillReturnRows(matchRow(time.Now(), 5, 1, 2, "accepted"))

	mr, err := repo.SetStatus(context.Background(), 5, models.MatchStatusAccepted, 1, models.RoleMentor)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusAccepted, mr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_SetStatusMenteeScope(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (id = $2 AND mentee_id = $3 AND status = $4)")).
		WithArgs("cancelled", int64(5), int64(9), "pending").
		WillReturnRows(pgxmock.NewRows(matchRequestColumns))

	_, err := repo.SetStatus(context.Background(), 5, models.MatchStatusCancelled, 9, models.RoleMentee)
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_SetStatusAcceptedIndexViolation(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectQuery("UPDATE match_requests").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uniq_match_requests_mentor_accepted"})

	_, err := repo.SetStatus(context.Background(), 5, models.MatchStatusAccepted, 1, models.RoleMentor)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMatched)
}

func TestMatchRequestRepository_SetStatusRejectsNonTerminalTarget(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	_, err := repo.SetStatus(context.Background(), 5, models.MatchStatusPending, 1, models.RoleMentor)
	require.Error(t, err)

	_, err = repo.SetStatus(context.Background(), 5, models.MatchStatusRejected, 1, models.RoleType("admin"))
	assert.ErrorIs(t, err, apperrors.ErrNotFoundOrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_WithinTx(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO match_requests").WillReturnRows(matchRow(time.Now(), 11, 1, 2, "pending"))
	mock.ExpectCommit()

	var created *models.MatchRequest
	err := repo.WithinTx(context.Background(), func(ctx context.Context, store MatchRequestStore) error {
		pending, err := store.HasPending(ctx, 2)
		if err != nil || pending {
			return err
		}
		created, err = store.Create(ctx, 1, 2, "hello")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_WithinTxRollsBack(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMatchRequestRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO match_requests").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "match_requests_mentor_id_mentee_id_key"})
	mock.ExpectRollback()

	err := repo.WithinTx(context.Background(), func(ctx context.Context, store MatchRequestStore) error {
		_, err := store.Create(ctx, 1, 2, "again")
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}
