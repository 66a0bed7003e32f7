package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/app/repositories"
	"github.com/yigit/mentormatch/internal/pkg/apperrors"
)

// fakeUsers is an in-memory UserDirectory
type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[int64]*models.User)}
}

func (f *fakeUsers) add(role models.RoleType, name string, skills ...string) *models.User {
	u := &models.User{
		Email:  name + "@example.com",
		Name:   name,
		Role:   role,
		Skills: skills,
	}
	if err := f.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Skills == nil {
		user.Skills = []string{}
	}
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) ListMentors(_ context.Context, filter repositories.MentorFilter) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]*models.User, 0)
	for _, u := range f.byID {
		if u.Role != models.RoleMentor {
			continue
		}
		if filter.Skill != "" && !containsString(u.Skills, filter.Skill) {
			continue
		}
		cp := *u
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if filter.OrderBy == repositories.MentorOrderName && list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id int64, update repositories.ProfileUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u.Name = update.Name
	u.Bio = update.Bio
	u.ImageData = update.ImageData
	u.Skills = update.Skills
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// fakeStore is an in-memory MatchRequestStore that enforces the same
// uniqueness rules as the database schema.
type fakeStore struct {
	mu      sync.Mutex
	users   *fakeUsers
	nextID  int64
	rows    map[int64]*models.MatchRequest
	txCalls int
	// hideFromChecks makes HasPending/HasAccepted report false, simulating a
	// concurrent writer that commits between check and write.
	hideFromChecks bool
}

func newFakeStore(users *fakeUsers) *fakeStore {
	return &fakeStore{users: users, rows: make(map[int64]*models.MatchRequest)}
}

var _ repositories.MatchRequestStore = (*fakeStore)(nil)

func (f *fakeStore) Create(_ context.Context, mentorID, menteeID int64, message string) (*models.MatchRequest, error) {
	if _, err := f.users.GetByID(context.Background(), mentorID); err != nil {
		return nil, apperrors.ErrInvalidMentor
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.MentorID == mentorID && r.MenteeID == menteeID {
			return nil, apperrors.ErrDuplicateRequest
		}
		if r.MenteeID == menteeID && r.Status == models.MatchStatusPending {
			return nil, apperrors.ErrPendingRequestExists
		}
	}

	f.nextID++
	now := time.Now()
	r := &models.MatchRequest{
		ID: f.nextID, MentorID: mentorID, MenteeID: menteeID,
		Message: message, Status: models.MatchStatusPending,
		CreatedAt: now, UpdatedAt: now,
	}
	f.rows[r.ID] = r
	cp := *r
	return &cp, nil
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (*models.MatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrMatchRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) list(owner func(*models.MatchRequest) int64, counterpart func(*models.MatchRequest) int64, ownerID int64) []*models.MatchRequestDetails {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.MatchRequestDetails, 0)
	for _, r := range f.rows {
		if owner(r) != ownerID {
			continue
		}
		u, _ := f.users.GetByID(context.Background(), counterpart(r))
		out = append(out, &models.MatchRequestDetails{MatchRequest: *r, CounterpartName: u.Name, CounterpartEmail: u.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeStore) ListIncoming(_ context.Context, mentorID int64) ([]*models.MatchRequestDetails, error) {
	return f.list(
		func(r *models.MatchRequest) int64 { return r.MentorID },
		func(r *models.MatchRequest) int64 { return r.MenteeID },
		mentorID,
	), nil
}

func (f *fakeStore) ListOutgoing(_ context.Context, menteeID int64) ([]*models.MatchRequestDetails, error) {
	return f.list(
		func(r *models.MatchRequest) int64 { return r.MenteeID },
		func(r *models.MatchRequest) int64 { return r.MentorID },
		menteeID,
	), nil
}

func (f *fakeStore) HasPending(_ context.Context, menteeID int64) (bool, error) {
	return f.any(func(r *models.MatchRequest) bool {
		return r.MenteeID == menteeID && r.Status == models.MatchStatusPending
	}), nil
}

func (f *fakeStore) HasAccepted(_ context.Context, mentorID int64) (bool, error) {
	return f.any(func(r *models.MatchRequest) bool {
		return r.MentorID == mentorID && r.Status == models.MatchStatusAccepted
	}), nil
}

func (f *fakeStore) HasAcceptedOther(_ context.Context, mentorID, excludeID int64) (bool, error) {
	return f.any(func(r *models.MatchRequest) bool {
		return r.ID != excludeID && r.MentorID == mentorID && r.Status == models.MatchStatusAccepted
	}), nil
}

func (f *fakeStore) any(match func(*models.MatchRequest) bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideFromChecks {
		return false
	}
	for _, r := range f.rows {
		if match(r) {
			return true
		}
	}
	return false
}

func (f *fakeStore) SetStatus(_ context.Context, id int64, status models.MatchStatus, actingUserID int64, actingRole models.RoleType) (*models.MatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rows[id]
	if !ok || r.Status != models.MatchStatusPending {
		return nil, apperrors.ErrNotFoundOrUnauthorized
	}
	switch actingRole {
	case models.RoleMentor:
		if r.MentorID != actingUserID {
			return nil, apperrors.ErrNotFoundOrUnauthorized
		}
	case models.RoleMentee:
		if r.MenteeID != actingUserID {
			return nil, apperrors.ErrNotFoundOrUnauthorized
		}
	default:
		return nil, apperrors.ErrNotFoundOrUnauthorized
	}

	if status == models.MatchStatusAccepted {
		for _, other := range f.rows {
			if other.MentorID == r.MentorID && other.Status == models.MatchStatusAccepted {
				return nil, apperrors.ErrAlreadyMatched
			}
		}
	}

	r.Status = status
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context, store repositories.MatchRequestStore) error) error {
	f.mu.Lock()
	f.txCalls++
	f.mu.Unlock()
	return fn(ctx, f)
}

func (f *fakeStore) status(id int64) models.MatchStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id].Status
}
