package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/masterconnect/bandstore/models"
)

// Filter narrows announcement queries. Zero values mean "no constraint".
// The predicate set is equality on status and instrument plus a created-at
// lower bound; that is all the dashboards and listings need.
type Filter struct {
	Status       models.Status
	Instrument   string
	UserID       string
	CreatedSince time.Time
}

// whereClause renders the filter as a WHERE fragment with positional
// arguments. Returns an empty string when nothing is constrained.
func (f Filter) whereClause() (string, []any) {
	var conds []string
	var args []any

	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Instrument != "" {
		args = append(args, f.Instrument)
		conds = append(conds, fmt.Sprintf("instrument_needed = $%d", len(args)))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if !f.CreatedSince.IsZero() {
		args = append(args, f.CreatedSince)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ListAnnouncements returns the cloud announcements matching the filter,
// newest first.
func (s *Source) ListAnnouncements(ctx context.Context, f Filter) ([]models.Announcement, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf(`
		SELECT id, user_id, title, description, instrument_needed,
		       location, genre, experience_required, contact_email,
		       contact_phone, status, created_at
		FROM announcements
		%s
		ORDER BY created_at DESC
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var ads []models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		ads = append(ads, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcements: %w", err)
	}

	s.log.Debug("listed cloud announcements", zap.Int("count", len(ads)))
	return ads, nil
}

// CountAnnouncements returns the number of cloud announcements matching the filter.
func (s *Source) CountAnnouncements(ctx context.Context, f Filter) (int, error) {
	where, args := f.whereClause()
	query := fmt.Sprintf(`SELECT COUNT(*) FROM announcements %s`, where)

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count announcements: %w", err)
	}
	return count, nil
}

// SetAnnouncementStatus updates the status of a cloud announcement.
func (s *Source) SetAnnouncementStatus(ctx context.Context, id string, status models.Status) error {
	query := `UPDATE announcements SET status = $1 WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, string(status), id); err != nil {
		return fmt.Errorf("failed to update announcement status: %w", err)
	}
	s.log.Info("updated cloud announcement status",
		zap.String("id", id),
		zap.String("status", string(status)),
	)
	return nil
}

// DeleteAnnouncement removes a cloud announcement; unknown ids are a no-op.
func (s *Source) DeleteAnnouncement(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	s.log.Info("deleted cloud announcement", zap.String("id", id))
	return nil
}

func scanAnnouncement(row interface{ Scan(...any) error }) (models.Announcement, error) {
	var (
		a                                       models.Announcement
		location, genre, expReq, cEmail, cPhone sql.NullString
	)

	err := row.Scan(
		&a.ID, &a.UserID, &a.Title, &a.Description, &a.InstrumentNeeded,
		&location, &genre, &expReq, &cEmail, &cPhone,
		&a.Status, &a.CreatedAt,
	)
	if err != nil {
		return models.Announcement{}, err
	}

	if location.Valid {
		a.Location = &location.String
	}
	if genre.Valid {
		a.Genre = &genre.String
	}
	if expReq.Valid {
		a.ExperienceRequired = &expReq.String
	}
	if cEmail.Valid {
		a.ContactEmail = &cEmail.String
	}
	if cPhone.Valid {
		a.ContactPhone = &cPhone.String
	}
	return a, nil
}
