package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/exercise-tracker/internal/api/handler"
	"github.com/99minutos/exercise-tracker/internal/core/domain"
	"github.com/99minutos/exercise-tracker/internal/core/ports"
	"github.com/99minutos/exercise-tracker/internal/core/service"
)

// ---------------------------------------------------------------------------
// In-memory store backing the real services
// ---------------------------------------------------------------------------

type memStore struct {
	mu        sync.Mutex
	users     []*domain.User
	exercises []*domain.Exercise
}

type memUsers struct{ *memStore }
type memExercises struct{ *memStore }

func (m memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = fmt.Sprintf("%024x", len(m.users)+1)
	clone := *u
	m.users = append(m.users, &clone)
	return nil
}

func (m memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m memUsers) List(_ context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (m memExercises) Create(_ context.Context, e *domain.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = fmt.Sprintf("e%d", len(m.exercises)+1)
	clone := *e
	m.exercises = append(m.exercises, &clone)
	return nil
}

func (m memExercises) Find(_ context.Context, f ports.ExerciseFilter) ([]*domain.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Exercise
	for _, e := range m.exercises {
		if e.UserID != f.UserID ||
			(!f.From.IsZero() && e.Date.Before(f.From)) ||
			(!f.To.IsZero() && e.Date.After(f.To)) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func testDeps(jwtSecret string) Dependencies {
	store := &memStore{}
	log := zerolog.Nop()
	return Dependencies{
		Users:     service.NewUserService(memUsers{store}, nil, log),
		Exercises: service.NewExerciseService(memUsers{store}, memExercises{store}, nil, log),
		Checks: map[string]handler.CheckFunc{
			"mongodb": func(context.Context) error { return nil },
		},
		JWTSecret: jwtSecret,
		Logger:    log,
		Registry:  prometheus.NewRegistry(),
	}
}

func newTestRouter(t *testing.T, jwtSecret string) *echo.Echo {
	t.Helper()
	return NewRouter(testDeps(jwtSecret))
}

func do(e *echo.Echo, method, target, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createUser(t *testing.T, e *echo.Echo, name string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/users", `{"username":"`+name+`"}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var u map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	require.NotEmpty(t, u["_id"])
	return u["_id"]
}

func addExercise(t *testing.T, e *echo.Echo, id string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return do(e, http.MethodPost, "/api/users/"+id+"/exercises", form.Encode(), echo.MIMEApplicationForm)
}

type logBody struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Count    int    `json:"count"`
	Log      []struct {
		Description string `json:"description"`
		Duration    int    `json:"duration"`
		Date        string `json:"date"`
	} `json:"log"`
}

func getLogs(t *testing.T, e *echo.Echo, id, query string) logBody {
	t.Helper()
	rec := do(e, http.MethodGet, "/api/users/"+id+"/logs?"+query, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body logBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_Index(t *testing.T) {
	e := newTestRouter(t, "")

	rec := do(e, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Exercise Tracker API is working!", rec.Body.String())
}

func TestRouter_CreateThenListUsers(t *testing.T) {
	e := newTestRouter(t, "")
	id := createUser(t, e, "fcc_test")

	rec := do(e, http.MethodGet, "/api/users", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, id, users[0]["_id"])
	assert.Equal(t, "fcc_test", users[0]["username"])
}

func TestRouter_AddExercise_UnknownUserIs404(t *testing.T) {
	e := newTestRouter(t, "")

	rec := addExercise(t, e, "000000000000000000000000", url.Values{
		"description": {"run"}, "duration": {"30"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, rec.Body.String())
}

func TestRouter_AddExercise_BadDateIs400(t *testing.T) {
	e := newTestRouter(t, "")
	id := createUser(t, e, "fcc_test")

	rec := addExercise(t, e, id, url.Values{
		"description": {"run"}, "duration": {"30"}, "date": {"someday"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestRouter_AddExercise_ValidationUsesErrorEnvelope(t *testing.T) {
	e := newTestRouter(t, "")
	id := createUser(t, e, "fcc_test")

	rec := addExercise(t, e, id, url.Values{"duration": {"30"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"description is required"}`, rec.Body.String())
}

func TestRouter_ExerciseLogFlow(t *testing.T) {
	e := newTestRouter(t, "")
	id := createUser(t, e, "fcc_test")

	for _, d := range []string{"2024-01-01", "2024-01-15", "2024-02-01"} {
		rec := addExercise(t, e, id, url.Values{"description": {"run " + d}, "duration": {"20"}, "date": {d}})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := addExercise(t, e, id, url.Values{"description": {"today"}, "duration": {"5"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	var added map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, domain.FormatDate(domain.CalendarDay(time.Now().UTC())), added["date"])
	assert.Equal(t, id, added["_id"])
	assert.Equal(t, "fcc_test", added["username"])

	all := getLogs(t, e, id, "")
	assert.Equal(t, 4, all.Count)
	assert.Len(t, all.Log, all.Count)

	ranged := getLogs(t, e, id, "from=2024-01-01&to=2024-01-15")
	require.Equal(t, 2, ranged.Count)
	assert.Equal(t, "Mon Jan 01 2024", ranged.Log[0].Date)
	assert.Equal(t, "Mon Jan 15 2024", ranged.Log[1].Date)

	limited := getLogs(t, e, id, "limit=1")
	assert.Equal(t, 1, limited.Count)
	assert.Len(t, limited.Log, 1)
}

func TestRouter_AddExercise_UnknownUserIs404WhateverTheBody(t *testing.T) {
	e := newTestRouter(t, "")

	for name, form := range map[string]url.Values{
		"empty":          {},
		"no description": {"duration": {"30"}},
		"no duration":    {"description": {"run"}},
		"bad duration":   {"description": {"run"}, "duration": {"lots"}},
		"bad date":       {"description": {"run"}, "duration": {"30"}, "date": {"someday"}},
	} {
		t.Run(name, func(t *testing.T) {
			rec := addExercise(t, e, "000000000000000000000000", form)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, `{"error":"user not found"}`, rec.Body.String())
		})
	}

	rec := do(e, http.MethodPost, "/api/users/000000000000000000000000/exercises", `{}`, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AddExercise_DurationOutOfRangeIs400(t *testing.T) {
	e := newTestRouter(t, "")
	id := createUser(t, e, "fcc_test")

	rec := do(e, http.MethodPost, "/api/users/"+id+"/exercises",
		`{"description":"run","duration":1e300}`, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"duration out of range"}`, rec.Body.String())
}

func TestRouter_Logs_UnknownUserIs404WhateverTheQuery(t *testing.T) {
	e := newTestRouter(t, "")

	for _, q := range []string{"limit=ten", "from=soon", "to=later", "from=2024-05-01&to=2024-01-01"} {
		rec := do(e, http.MethodGet, "/api/users/000000000000000000000000/logs?"+q, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, q)
	}
}

func TestRouter_Logs_BadLimitIs400(t *testing.T) {
	e := newTestRouter(t, "")
	id := createUser(t, e, "fcc_test")

	rec := do(e, http.MethodGet, "/api/users/"+id+"/logs?limit=ten", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"limit must be an integer"}`, rec.Body.String())
}

func TestRouter_StaticFilesFromSiteRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body { margin: 0; }"), 0o644))

	deps := testDeps("")
	deps.StaticDir = dir
	e := NewRouter(deps)

	rec := do(e, http.MethodGet, "/style.css", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body { margin: 0; }", rec.Body.String())

	// Named routes still win over the wildcard.
	rec = do(e, http.MethodGet, "/", "", "")
	assert.Equal(t, "Exercise Tracker API is working!", rec.Body.String())
	rec = do(e, http.MethodGet, "/api/users", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/missing.css", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestRouter_Logs_UnknownUserIs404(t *testing.T) {
	e := newTestRouter(t, "")

	rec := do(e, http.MethodGet, "/api/users/nope/logs", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_UnknownRouteUsesErrorEnvelope(t *testing.T) {
	e := newTestRouter(t, "")

	rec := do(e, http.MethodGet, "/api/nothing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestRouter_WriteGuard(t *testing.T) {
	e := newTestRouter(t, "secret")

	rec := do(e, http.MethodPost, "/api/users", `{"username":"x"}`, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Reads stay open.
	rec = do(e, http.MethodGet, "/api/users", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "importer"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	e := newTestRouter(t, "")

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health/ready", "", "").Code)

	// Generate at least one request sample before scraping.
	do(e, http.MethodGet, "/api/users", "", "")
	rec := do(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exercise_tracker_requests_total")

	rec = do(e, http.MethodGet, "/swagger/doc.json", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/users/{id}/logs")
}

func TestRouter_CORS(t *testing.T) {
	e := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set(echo.HeaderOrigin, "https://www.freecodecamp.org")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
