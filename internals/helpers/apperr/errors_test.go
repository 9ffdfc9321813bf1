package apperr

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesKind(t *testing.T) {
	err := errors.Wrap(NotFound("event not found"), "load")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "load: event not found", err.Error())

	assert.ErrorIs(t, Validation("bad"), ErrValidation)
	assert.ErrorIs(t, ValidationFields(map[string][]string{"title": {"required"}}), ErrValidation)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, KindCapacity, KindOf(ErrCapacity))
	assert.Equal(t, KindTransient, KindOf(driver.ErrBadConn))
	assert.Equal(t, KindTransient, KindOf(errors.Wrap(context.DeadlineExceeded, "query")))
}

func TestStorage(t *testing.T) {
	assert.NoError(t, Storage(nil, "noop"))

	plain := Storage(errors.New("syntax error"), "list events")
	assert.Equal(t, "list events: syntax error", plain.Error())
	assert.Equal(t, Kind(""), KindOf(plain))

	tr := Storage(driver.ErrBadConn, "list events")
	require.ErrorIs(t, tr, ErrTransient)
	assert.ErrorIs(t, tr, driver.ErrBadConn)
	assert.Equal(t, ErrTransient.Message, tr.Error())
}
