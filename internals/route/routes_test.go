package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteerhub_backend/internals/configs"
	"volunteerhub_backend/internals/constants"
	"volunteerhub_backend/internals/databases/dbtest"
	helper "volunteerhub_backend/internals/helpers"
	helperAuth "volunteerhub_backend/internals/helpers/auth"
	routes "volunteerhub_backend/internals/route"
)

const (
	secret   = "test-secret"
	orgEmail = "organizer@example.org"
	orgPass  = "correct horse battery"
)

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      json.RawMessage     `json:"data"`
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newApp(t *testing.T) *client {
	cfg := &configs.Config{
		JWTSecret:      secret,
		JWTTTL:         time.Hour,
		Timezone:       time.UTC,
		RequestTimeout: 5 * time.Second,
	}
	s := routes.NewServices(dbtest.Open(t), cfg)
	require.NoError(t, s.Auth.SeedOrganizer(context.Background(), orgEmail, orgPass, "Org"))

	app := fiber.New(fiber.Config{ErrorHandler: helper.FiberErrorHandler})
	routes.SetupRoutes(app, s, cfg)
	return &client{t: t, app: app}
}

func (c *client) do(method, path string, body any) (int, envelope) {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, 10_000)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	var env envelope
	require.NoError(c.t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func (c *client) login() {
	status, env := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": orgEmail, "password": orgPass})
	require.Equal(c.t, http.StatusOK, status, env.Message)
	var res struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(c.t, res.AccessToken)
	c.token = res.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type eventOut struct {
	ID                  uuid.UUID `json:"id"`
	CurrentParticipants int       `json:"current_participants"`
	SpotsLeft           int       `json:"spots_left"`
	IsFull              bool      `json:"is_full"`
}

func (c *client) createEvent(max int) eventOut {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/a/events", map[string]any{
		"title":            "Beach Cleanup",
		"location":         "Plage du Prado",
		"date":             time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02"),
		"start_time":       "09:00",
		"end_time":         "12:00",
		"max_participants": max,
	})
	require.Equal(c.t, http.StatusCreated, status, env.Message)
	return decode[eventOut](c.t, env.Data)
}

func register(email, status string) map[string]any {
	return map[string]any{"first_name": "Vol", "last_name": "Unteer", "email": email, "status": status}
}

func TestOrganizerRoutesRequireAuth(t *testing.T) {
	c := newApp(t)

	status, env := c.do(http.MethodGet, "/api/a/events", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	c.token = "not-a-jwt"
	status, _ = c.do(http.MethodGet, "/api/a/events", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	vol, _, err := helperAuth.IssueToken(secret, helperAuth.Actor{ID: uuid.New(), Role: constants.RoleVolunteer}, time.Hour, time.Now())
	require.NoError(t, err)
	c.token = vol
	status, _ = c.do(http.MethodGet, "/api/a/dashboard/overview", nil)
	assert.Equal(t, http.StatusForbidden, status)

	c.token = ""
	status, env = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": orgEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", env.Message)

	c.login()
	status, _ = c.do(http.MethodGet, "/api/a/events", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestUnknownAuthPathIsNotFound(t *testing.T) {
	c := newApp(t)

	for _, path := range []string{"/api/auth/refresh", "/api/auth/login/extra"} {
		status, env := c.do(http.MethodPost, path, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.False(t, env.Success)
	}

	// the organizer group still guards its own paths, and login still works
	status, _ := c.do(http.MethodGet, "/api/a/events", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	c.login()
	status, _ = c.do(http.MethodGet, "/api/a/events", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRegistrationFlow(t *testing.T) {
	c := newApp(t)
	c.login()
	ev := c.createEvent(1)
	admin := c.token
	c.token = ""

	regPath := "/api/public/events/" + ev.ID.String() + "/registrations"

	status, env := c.do(http.MethodPost, regPath, register("first@example.org", "present"))
	require.Equal(t, http.StatusCreated, status, env.Message)
	first := decode[struct {
		Token        string `json:"token"`
		Registration struct {
			Status string `json:"status"`
		} `json:"registration"`
	}](t, env.Data)
	assert.Len(t, first.Token, 16)
	assert.Equal(t, "present", first.Registration.Status)

	status, env = c.do(http.MethodPost, regPath, register("second@example.org", "present"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EVENT_FULL", env.ErrorCode)

	status, env = c.do(http.MethodPost, regPath, register("second@example.org", "absent"))
	require.Equal(t, http.StatusCreated, status, env.Message)
	second := decode[struct {
		Token string `json:"token"`
	}](t, env.Data)

	status, env = c.do(http.MethodPost, regPath, register("FIRST@example.org", "undecided"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.ErrorCode)

	status, env = c.do(http.MethodPost, regPath, map[string]any{"first_name": "No", "last_name": "Contact", "status": "present"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Errors, "email")

	// self-service: free the seat, then take it with the other token
	status, _ = c.do(http.MethodPost, "/api/public/registrations/status", map[string]string{"token": second.Token, "status": "present"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = c.do(http.MethodPost, "/api/public/registrations/status", map[string]string{"token": first.Token, "status": "absent"})
	require.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodPost, "/api/public/registrations/status", map[string]string{"token": second.Token, "status": "present"})
	require.Equal(t, http.StatusOK, status)

	status, env = c.do(http.MethodPost, "/api/public/registrations/lookup", map[string]string{"token": "ffffffffffffffff"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "registration not found", env.Message)

	status, env = c.do(http.MethodGet, "/api/public/events/"+ev.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	pub := decode[eventOut](t, env.Data)
	assert.Equal(t, 1, pub.CurrentParticipants)
	assert.True(t, pub.IsFull)
	assert.Equal(t, 0, pub.SpotsLeft)

	// organizer side
	c.token = admin
	status, env = c.do(http.MethodPost, "/api/a/registrations/"+second.Token+"/comments", map[string]string{"content": "great volunteer"})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = c.do(http.MethodGet, "/api/a/events/"+ev.ID.String()+"/registrations", nil)
	require.Equal(t, http.StatusOK, status)
	roster := decode[[]struct {
		Token    string `json:"token"`
		Status   string `json:"status"`
		Comments []struct {
			Content string `json:"content"`
		} `json:"comments"`
	}](t, env.Data)
	require.Len(t, roster, 2)
	assert.Equal(t, first.Token, roster[0].Token)
	assert.Equal(t, "absent", roster[0].Status)
	require.Len(t, roster[1].Comments, 1)
	assert.Equal(t, "great volunteer", roster[1].Comments[0].Content)

	// token holders see their registration but never organizer notes
	c.token = ""
	status, env = c.do(http.MethodPost, "/api/public/registrations/lookup", map[string]string{"token": second.Token})
	require.Equal(t, http.StatusOK, status)
	own := decode[map[string]json.RawMessage](t, env.Data)
	assert.Contains(t, own, "status")
	assert.NotContains(t, own, "comments")
	assert.NotContains(t, string(env.Data), "great volunteer")

	status, env = c.do(http.MethodPost, "/api/public/registrations/status", map[string]string{"token": second.Token, "status": "present"})
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, decode[map[string]json.RawMessage](t, env.Data), "comments")
	assert.NotContains(t, string(env.Data), "great volunteer")
	c.token = admin

	status, env = c.do(http.MethodPatch, "/api/a/events/"+ev.ID.String(), map[string]any{"max_participants": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, status, env.Message)

	status, env = c.do(http.MethodGet, "/api/a/dashboard/overview", nil)
	require.Equal(t, http.StatusOK, status)
	overview := decode[map[string]any](t, env.Data)
	assert.EqualValues(t, 1, overview["total_present"])
	assert.EqualValues(t, 2, overview["total_registrations"])

	status, _ = c.do(http.MethodDelete, "/api/a/events/"+ev.ID.String()+"/registrations/"+second.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = c.do(http.MethodGet, "/api/a/events/"+ev.ID.String()+"/stats", nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[map[string]any](t, env.Data)
	assert.EqualValues(t, 1, stats["total"])
	assert.EqualValues(t, 0, stats["present"])
	assert.EqualValues(t, 0, stats["stored_present"])

	status, _ = c.do(http.MethodPatch, "/api/a/events/"+ev.ID.String()+"/archive", map[string]bool{"archived": true})
	require.Equal(t, http.StatusOK, status)

	c.token = ""
	status, _ = c.do(http.MethodGet, "/api/public/events/"+ev.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, env = c.do(http.MethodPost, regPath, register("late@example.org", "present"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "event is closed for registration", env.Message)
}

func TestHealthAndDashboardParams(t *testing.T) {
	c := newApp(t)

	resp, err := c.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "connected", health["database"])

	c.login()
	status, env := c.do(http.MethodGet, "/api/a/dashboard/participation?months=30", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Errors, "months")

	status, env = c.do(http.MethodGet, "/api/a/dashboard/participation?months=3", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 3)

	status, _ = c.do(http.MethodGet, "/api/a/dashboard/volunteers?sort=height", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env = c.do(http.MethodGet, "/api/a/dashboard/volunteers?sort=events&order=desc", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]map[string]any](t, env.Data))
}
