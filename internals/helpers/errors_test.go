package helper

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/helpers/apperr"
)

func render(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return WriteError(c, err) })

	resp, rerr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, rerr)
	defer resp.Body.Close()
	body, rerr := io.ReadAll(resp.Body)
	require.NoError(t, rerr)

	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func TestWriteErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"capacity", errors.Wrap(apperr.ErrCapacity, "register"), 409, "EVENT_FULL", "the event is full"},
		{"not found", apperr.NotFound("registration not found"), 404, "NOT_FOUND", "registration not found"},
		{"conflict", apperr.Conflict("already registered"), 409, "CONFLICT", "already registered"},
		{"forbidden", apperr.ErrForbidden, 403, "FORBIDDEN", "organizer role required"},
		{"validation", apperr.Validation("event is closed for registration"), 422, "VALIDATION_ERROR", "event is closed for registration"},
		{"transient", apperr.ErrTransient, 503, "UNAVAILABLE", apperr.ErrTransient.Message},
		{"fiber", fiber.NewError(400, "invalid id"), 400, "BAD_REQUEST", "invalid id"},
		{"pg unique", &pgconn.PgError{Code: "23505"}, 409, "CONFLICT", "duplicate data (unique violation)"},
		{"pq check", &pq.Error{Code: "23514"}, 422, "VALIDATION_ERROR", "value violates a constraint"},
		{"pg deadlock", errors.Wrap(&pgconn.PgError{Code: "40P01"}, "tx"), 503, "UNAVAILABLE", apperr.ErrTransient.Message},
		{"gorm duplicate", gorm.ErrDuplicatedKey, 409, "CONFLICT", "duplicate data (unique violation)"},
		{"unknown", errors.New("secret internals"), 500, "INTERNAL_ERROR", "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, out := render(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.False(t, out.Success)
			assert.Equal(t, tc.code, out.ErrorCode)
			assert.Equal(t, tc.msg, out.Message)
			assert.Equal(t, tc.status == 503, out.Retryable)
		})
	}
}

func TestWriteErrorFields(t *testing.T) {
	status, out := render(t, apperr.ValidationFields(map[string][]string{"max_participants": {"min=1"}}))
	assert.Equal(t, 422, status)
	assert.Equal(t, []string{"min=1"}, out.Errors["max_participants"])

	type form struct {
		Email string `json:"email" validate:"required,email"`
	}
	verr := NewValidator().Struct(form{Email: "nope"})
	require.Error(t, verr)
	status, out = render(t, verr)
	assert.Equal(t, 422, status)
	assert.Equal(t, []string{"email"}, out.Errors["email"])
}

func TestParseFiberPagination(t *testing.T) {
	var got Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseFiber(c, DefaultOpts)
		return c.SendStatus(204)
	})

	for q, want := range map[string]Params{
		"":                   {Page: 1, PerPage: 20},
		"?page=3&per_page=5": {Page: 3, PerPage: 5},
		"?page=-1&limit=999": {Page: 1, PerPage: 100},
		"?page=x&per_page=0": {Page: 1, PerPage: 20},
	} {
		_, err := app.Test(httptest.NewRequest("GET", "/"+q, nil))
		require.NoError(t, err)
		assert.Equal(t, want, got, q)
	}

	m := BuildMeta(41, Params{Page: 2, PerPage: 20})
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)
	require.NotNil(t, m.NextPage)
	assert.Equal(t, 3, *m.NextPage)
	assert.Nil(t, BuildMeta(0, Params{Page: 1, PerPage: 20}).NextPage)
}
