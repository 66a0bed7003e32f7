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

const usersEmailKey = "users_email_key"

var userColumns = []string{
	"id", "email", "password_hash", "name", "role", "bio", "image_data", "skills", "created_at", "updated_at",
}

// UserRepository handles account database operations
type UserRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(q db.Querier) *UserRepository {
	return &UserRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ UserDirectory = (*UserRepository)(nil)

// scanUser reads one users row and validates its role
func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user models.User
		role string
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &role,
		&user.Bio, &user.ImageData, &user.Skills, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role, err = models.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", user.ID, err)
	}
	if user.Skills == nil {
		user.Skills = []string{}
	}
	return &user, nil
}

// Create inserts a new account and fills in its generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}

	// Build insert query
	sql, args, err := r.sb.Insert("users").
		Columns("email", "password_hash", "name", "role", "bio", "skills").
		Values(user.Email, user.PasswordHash, user.Name, string(user.Role), user.Bio, skills).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	// Execute query and read generated fields
	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, usersEmailKey) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	user.Skills = skills
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves an account by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves an account by its exact email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// ListMentors returns mentor accounts, optionally filtered by one skill
func (r *UserRepository) ListMentors(ctx context.Context, filter MentorFilter) ([]*models.User, error) {
	// Base query for mentors
	query := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"role": string(models.RoleMentor)})

	// Apply skill filter
	if filter.Skill != "" {
		query = query.Where("? = ANY(skills)", filter.Skill)
	}

	// Apply ordering, id breaks ties
	switch filter.OrderBy {
	case MentorOrderName:
		query = query.OrderBy("name ASC", "id ASC")
	case MentorOrderSkill:
		query = query.OrderBy("skills ASC", "id ASC")
	default:
		query = query.OrderBy("id ASC")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list mentors query: %w", err)
	}

	// Execute query
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing mentors: %w", err)
	}
	defer rows.Close()

	// Scan rows
	mentors := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning mentor row: %w", err)
		}
		mentors = append(mentors, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mentor rows: %w", err)
	}

	return mentors, nil
}

// UpdateProfile replaces the profile fields of an account and returns the stored row
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*models.User, error) {
	skills := update.Skills
	if skills == nil {
		skills = []string{}
	}

	// Build update query returning the stored row
	sql, args, err := r.sb.Update("users").
		Set("name", update.Name).
		Set("bio", update.Bio).
		Set("image_data", update.ImageData).
		Set("skills", skills).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update profile query: %w", err)
	}

	// Execute query
	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error executing update profile query")
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return user, nil
}
