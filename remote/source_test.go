package remote

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterconnect/bandstore/models"
)

// setupTestSource connects to the database named by BANDSTORE_TEST_DSN.
// These tests exercise the real SQL against a live Postgres and are skipped
// when no test database is provided.
func setupTestSource(t *testing.T) *Source {
	t.Helper()
	dsn := os.Getenv("BANDSTORE_TEST_DSN")
	if dsn == "" {
		t.Skip("BANDSTORE_TEST_DSN not set; skipping remote integration tests")
	}

	src, err := openDSN(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		cleanupTestData(t, src)
		src.Close()
	})
	cleanupTestData(t, src)
	return src
}

func cleanupTestData(t *testing.T, src *Source) {
	t.Helper()
	ctx := context.Background()
	_, _ = src.db.ExecContext(ctx, `DELETE FROM announcements WHERE user_id LIKE 'it_%'`)
	_, _ = src.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id LIKE 'it_%'`)
	_, _ = src.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id LIKE 'it_%'`)
}

func seedAnnouncement(t *testing.T, src *Source, id, userID string, status models.Status, created time.Time) {
	t.Helper()
	_, err := src.db.ExecContext(context.Background(), `
		INSERT INTO announcements (id, user_id, title, description, instrument_needed, status, created_at)
		VALUES ($1, $2, 'Integration title', 'Integration description', 'drums', $3, $4)
	`, id, userID, string(status), created)
	require.NoError(t, err)
}

func TestSource_ListAndCountAnnouncements(t *testing.T) {
	src := setupTestSource(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	seedAnnouncement(t, src, "it_a1", "it_u1", models.StatusActive, now.Add(-time.Hour))
	seedAnnouncement(t, src, "it_a2", "it_u1", models.StatusClosed, now.Add(-2*time.Hour))

	ads, err := src.ListAnnouncements(ctx, Filter{UserID: "it_u1"})
	require.NoError(t, err)
	assert.Len(t, ads, 2)

	active, err := src.ListAnnouncements(ctx, Filter{UserID: "it_u1", Status: models.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "it_a1", active[0].ID)

	count, err := src.CountAnnouncements(ctx, Filter{UserID: "it_u1", CreatedSince: now.Add(-90 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSource_RoleRoundTrip(t *testing.T) {
	src := setupTestSource(t)
	ctx := context.Background()

	require.NoError(t, src.UpsertUserRole(ctx, "it_u2", models.RoleAdmin))
	isAdmin, err := src.HasAdminRole(ctx, "it_u2")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	require.NoError(t, src.UpsertUserRole(ctx, "it_u2", models.RoleUser))
	isAdmin, err = src.HasAdminRole(ctx, "it_u2")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}
