package repositories

import (
	"context"
	"strings"

	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/db"
)

// MentorOrder selects the sort key of a mentor listing.
type MentorOrder string

const (
	MentorOrderDefault MentorOrder = ""
	MentorOrderName    MentorOrder = "name"
	MentorOrderSkill   MentorOrder = "skill"
)

// MentorFilter narrows a mentor listing
type MentorFilter struct {
	Skill   string
	OrderBy MentorOrder
}

// ProfileUpdate holds the mutable profile fields of an account
type ProfileUpdate struct {
	Name      string
	Bio       string
	ImageData *string
	Skills    []string
}

// UserDirectory defines the account operations used by services and middleware
type UserDirectory interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListMentors(ctx context.Context, filter MentorFilter) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*models.User, error)
}

// MatchRequestStore defines durable access to match requests
type MatchRequestStore interface {
	Create(ctx context.Context, mentorID, menteeID int64, message string) (*models.MatchRequest, error)
	FindByID(ctx context.Context, id int64) (*models.MatchRequest, error)
	ListIncoming(ctx context.Context, mentorID int64) ([]*models.MatchRequestDetails, error)
	ListOutgoing(ctx context.Context, menteeID int64) ([]*models.MatchRequestDetails, error)
	HasPending(ctx context.Context, menteeID int64) (bool, error)
	HasAccepted(ctx context.Context, mentorID int64) (bool, error)
	HasAcceptedOther(ctx context.Context, mentorID, excludeID int64) (bool, error)
	// SetStatus moves a pending request owned by the acting user to status.
	// Missing, foreign and already-terminal rows all yield ErrNotFoundOrUnauthorized.
	SetStatus(ctx context.Context, id int64, status models.MatchStatus, actingUserID int64, actingRole models.RoleType) (*models.MatchRequest, error)
	// WithinTx runs fn against a store bound to a single transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, store MatchRequestStore) error) error
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	MatchRequestRepository *MatchRequestRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool db.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(pool),
		MatchRequestRepository: NewMatchRequestRepository(pool),
	}
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
