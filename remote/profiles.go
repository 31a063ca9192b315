package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/masterconnect/bandstore/localstore"
	"github.com/masterconnect/bandstore/models"
)

// profileColumns is the select list shared by the profile queries. The role
// lives in the separate user_roles table and defaults to "user" when absent.
const profileColumns = `
	p.user_id, COALESCE(p.email, ''), p.username, p.full_name,
	COALESCE(r.role, 'user'), p.avatar_url, p.bio, p.location,
	p.experience_years, p.instruments, p.created_at
`

// ListProfiles returns every cloud profile, newest first.
func (s *Source) ListProfiles(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		LEFT JOIN user_roles r ON r.user_id = p.user_id
		ORDER BY p.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return users, nil
}

// GetProfile retrieves a single cloud profile by user id.
func (s *Source) GetProfile(ctx context.Context, userID string) (models.User, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		LEFT JOIN user_roles r ON r.user_id = p.user_id
		WHERE p.user_id = $1
	`

	u, err := scanProfile(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, localstore.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return u, nil
}

// ProfileSummaries fetches the display summaries for a set of author ids in
// one round trip, keyed by user id. Unknown ids are simply missing from the map.
func (s *Source) ProfileSummaries(ctx context.Context, userIDs []string) (map[string]models.AuthorProfile, error) {
	summaries := make(map[string]models.AuthorProfile)
	if len(userIDs) == 0 {
		return summaries, nil
	}

	query := `
		SELECT user_id, username, full_name, avatar_url
		FROM profiles
		WHERE user_id = ANY($1::text[])
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var p models.AuthorProfile
		if err := rows.Scan(&id, &p.Username, &p.FullName, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan profile summary: %w", err)
		}
		summaries[id] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile summaries: %w", err)
	}
	return summaries, nil
}

// CountProfiles returns the number of cloud profiles.
func (s *Source) CountProfiles(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// DeleteProfile removes a cloud profile. Deleting an unknown id is not an
// error, matching the local store's delete semantics.
func (s *Source) DeleteProfile(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	s.log.Info("deleted cloud profile", zap.String("user_id", userID))
	return nil
}

// UpsertUserRole sets a user's role, inserting or replacing the role row.
func (s *Source) UpsertUserRole(ctx context.Context, userID string, role models.Role) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role
	`

	if _, err := s.db.ExecContext(ctx, query, userID, string(role)); err != nil {
		return fmt.Errorf("failed to upsert user role: %w", err)
	}
	s.log.Info("updated cloud role",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
	)
	return nil
}

// HasAdminRole reports whether the user has an admin row in user_roles.
func (s *Source) HasAdminRole(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = 'admin')`

	var isAdmin bool
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&isAdmin); err != nil {
		return false, fmt.Errorf("failed to check admin role: %w", err)
	}
	return isAdmin, nil
}

// scanProfile reads one profile row into a User. The instruments column is a
// Postgres text[]; nullable columns scan through sql.Null wrappers.
func scanProfile(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u           models.User
		avatarURL   sql.NullString
		bio         sql.NullString
		location    sql.NullString
		expYears    sql.NullInt64
		instruments []string
	)

	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FullName, &u.Role,
		&avatarURL, &bio, &location, &expYears,
		pq.Array(&instruments), &u.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	if bio.Valid {
		u.Bio = &bio.String
	}
	if location.Valid {
		u.Location = &location.String
	}
	if expYears.Valid {
		n := int(expYears.Int64)
		u.ExperienceYears = &n
	}
	u.Instruments = instruments
	return u, nil
}
