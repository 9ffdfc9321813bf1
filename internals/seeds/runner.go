package seeds

import (
	"context"
	"path/filepath"

	"gorm.io/gorm"

	"volunteerhub_backend/internals/features/events/events/repository"
	events "volunteerhub_backend/internals/seeds/events"
)

// RunAllSeeds loads the demo data found under dir.
func RunAllSeeds(ctx context.Context, db *gorm.DB, repo *repository.EventRepository, dir string) error {
	//* Events
	if _, err := events.SeedEventsFromJSON(ctx, db, repo, filepath.Join(dir, "events", "data_events.json")); err != nil {
		return err
	}
	return nil
}
