package events

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteerhub_backend/internals/databases/dbtest"
	"volunteerhub_backend/internals/features/events/events/repository"
)

func TestSeedEventsFromJSON(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	repo := repository.NewEventRepository(db, time.UTC).WithClock(func() time.Time { return now })
	ctx := context.Background()

	n, err := SeedEventsFromJSON(ctx, db, repo, "data_events.json")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, total, err := repo.List(ctx, repository.ListFilter{Window: repository.WindowUpcoming})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "Beach Cleanup", rows[0].EventTitle)
	assert.Equal(t, "2026-10-23", rows[0].Day().Format("2006-01-02"))
	require.NotNil(t, rows[0].EventStartTime)
	assert.Equal(t, "09:00", rows[0].EventStartTime.String())
	assert.Nil(t, rows[2].EventStartTime)

	n, err = SeedEventsFromJSON(ctx, db, repo, "data_events.json")
	require.NoError(t, err)
	assert.Zero(t, n, "second run skips existing events")
}

func TestSeedEventsRejectsBadInput(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewEventRepository(db, time.UTC)
	dir := t.TempDir()

	_, err := SeedEventsFromJSON(context.Background(), db, repo, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"title":"No capacity","location":"x","days_from_today":1,"max_participants":0}]`), 0o600))
	_, err = SeedEventsFromJSON(context.Background(), db, repo, bad)
	assert.Error(t, err)
}
