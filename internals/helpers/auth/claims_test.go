package helper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteerhub_backend/internals/constants"
	"volunteerhub_backend/internals/helpers/apperr"
)

func TestIssueAndParseToken(t *testing.T) {
	a := Actor{ID: uuid.New(), Email: "org@example.org", Role: constants.RoleOrganizer}
	raw, exp, err := IssueToken("s3cret", a, time.Hour, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := ParseToken("s3cret", raw)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	assert.True(t, got.IsOrganizer())
	assert.NoError(t, RequireOrganizer(got))

	_, err = ParseToken("other", raw)
	assert.Error(t, err)

	_, _, err = IssueToken("", a, time.Hour, time.Now())
	assert.Error(t, err)
}

func TestParseTokenRejectsExpiredAndNone(t *testing.T) {
	a := Actor{ID: uuid.New(), Role: constants.RoleOrganizer}
	raw, _, err := IssueToken("s3cret", a, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseToken("s3cret", raw)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             constants.RoleOrganizer,
		RegisteredClaims: jwt.RegisteredClaims{Subject: a.ID.String()},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken("s3cret", unsigned)
	assert.Error(t, err)
}

func TestRequireOrganizer(t *testing.T) {
	assert.ErrorIs(t, RequireOrganizer(Actor{}), apperr.ErrForbidden)
	assert.ErrorIs(t, RequireOrganizer(Actor{ID: uuid.New(), Role: constants.RoleVolunteer}), apperr.ErrForbidden)
	assert.ErrorIs(t, RequireOrganizer(Actor{Role: constants.RoleOrganizer}), apperr.ErrForbidden)
}
