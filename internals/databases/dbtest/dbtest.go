// Package dbtest opens an isolated in-memory SQLite database with the
// application schema for package tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	eventModel "volunteerhub_backend/internals/features/events/events/model"
	regModel "volunteerhub_backend/internals/features/events/registrations/model"
	authModel "volunteerhub_backend/internals/features/users/auth/model"
)

// Models lists every table, in creation order.
var Models = []any{
	&authModel.OrganizerModel{},
	&eventModel.EventModel{},
	&regModel.RegistrationModel{},
	&regModel.RegistrationCommentModel{},
}

// Open returns a fresh database per test. A single connection serializes
// writers the way row locks do on Postgres.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_busy_timeout=5000", name, uuid.NewString()[:8])

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models...))
	return db
}
