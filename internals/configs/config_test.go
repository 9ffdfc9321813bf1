package configs

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	gormLogger "gorm.io/gorm/logger"
)

func TestBuildDSNEscapesCredentials(t *testing.T) {
	dsn := BuildDSN("app", "p@ss:w/rd?#1", "db.internal", "5432", "volunteers", "disable")

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "app", u.User.Username())
	pw, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss:w/rd?#1", pw)
	assert.Equal(t, "db.internal:5432", u.Host)
	assert.Equal(t, "/volunteers", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "volunteerhub", u.Query().Get("application_name"))
}

func TestGormLoggerHidesBindValues(t *testing.T) {
	const query = "SELECT * FROM registrations WHERE registration_token = $1"
	const tok = "0123456789abcdef"

	l, ok := NewGormLogger().(*GormLogger)
	require.True(t, ok)
	sql, params := l.ParamsFilter(context.Background(), query, tok)
	assert.Equal(t, query, sql)
	assert.Empty(t, params)

	rendered := postgres.New(postgres.Config{}).Explain(sql, params...)
	assert.NotContains(t, rendered, tok)

	// LogMode keeps the setting
	lm, ok := l.LogMode(gormLogger.Info).(*GormLogger)
	require.True(t, ok)
	assert.True(t, lm.ParameterizedQueries)

	verbose := &GormLogger{}
	_, params = verbose.ParamsFilter(context.Background(), query, tok)
	assert.Equal(t, []interface{}{tok}, params)
}
