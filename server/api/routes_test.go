package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mani-shailesh/focus/internal/xtime"
	"github.com/mani-shailesh/focus/server"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

func newTestServer(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mockDB.Close()
	})

	cfg := server.Config{
		Server: server.ServerConfig{
			Addr:      ":8085",
			PublicURL: "http://localhost:8085",
		},
		Auth: auth.Config{
			SessionMaxAge: xtime.Duration(time.Hour),
		},
	}

	srv := &server.Server{
		Cfg:        cfg,
		DB:         database.Open(sqlx.NewDb(mockDB, "pgx")),
		Auth:       auth.New(cfg.Auth, cfg.Server.PublicURL),
		HttpClient: http.DefaultClient,
	}
	return Routes(srv), mock
}

var sessionColumns = []string{
	"id", "user_id", "created_at", "expires_at",
	"user.id", "user.username", "user.email", "user.password_hash",
	"user.first_name", "user.last_name", "user.is_secretary", "user.date_joined",
}

func sessionRow(sessionID string, userID int, username string, isSecretary bool, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(sessionColumns).
		AddRow(sessionID, userID, time.Now(), expiresAt,
			userID, username, username+"@example.com", "",
			"", "", isSecretary, time.Now())
}

func TestAuthenticatedMissingCookie(t *testing.T) {
	routes, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail": "Authentication credentials were not provided."}`, rec.Body.String())
}

func TestAuthenticatedExpiredSession(t *testing.T) {
	routes, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT sessions\.id`).
		WithArgs("stale").
		WillReturnRows(sessionRow("stale", 1, "alice", false, time.Now().Add(-time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail": "Invalid or expired session."}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestCurrentUser(t *testing.T) {
	routes, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT sessions\.id`).
		WithArgs("token").
		WillReturnRows(sessionRow("token", 1, "alice", false, time.Now().Add(time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSecretaryOnly(t *testing.T) {
	t.Run("forbidden for regular users", func(t *testing.T) {
		routes, mock := newTestServer(t)

		mock.ExpectQuery(`SELECT sessions\.id`).
			WithArgs("token").
			WillReturnRows(sessionRow("token", 1, "alice", false, time.Now().Add(time.Hour)))

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("allowed for secretaries", func(t *testing.T) {
		routes, mock := newTestServer(t)
		mock.MatchExpectationsInOrder(false)

		mock.ExpectQuery(`SELECT sessions\.id`).
			WithArgs("token").
			WillReturnRows(sessionRow("token", 1, "alice", true, time.Now().Add(time.Hour)))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM clubs`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM feedbacks`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM membership_requests`).
			WithArgs(database.RequestStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"users":5`)
		assert.Contains(t, rec.Body.String(), `"pending_requests":4`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	userColumns := []string{"id", "username", "email", "password_hash", "first_name", "last_name", "is_secretary", "date_joined"}

	t.Run("success", func(t *testing.T) {
		routes, mock := newTestServer(t)

		mock.ExpectQuery(`SELECT id, username`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(1, "alice", "alice@example.com", hash, "Alice", "A", false, time.Now()))
		mock.ExpectExec(`INSERT INTO sessions`).
			WithArgs(sqlmock.AnyArg(), 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username": "alice", "password": "correct horse"}`))
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password", func(t *testing.T) {
		routes, mock := newTestServer(t)

		mock.ExpectQuery(`SELECT id, username`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(1, "alice", "alice@example.com", hash, "Alice", "A", false, time.Now()))

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username": "alice", "password": "wrong"}`))
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"detail": "Invalid username or password."}`, rec.Body.String())
	})

	t.Run("social only account", func(t *testing.T) {
		routes, mock := newTestServer(t)

		mock.ExpectQuery(`SELECT id, username`).
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(2, "bob", "", "", "Bob", "B", false, time.Now()))

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username": "bob", "password": ""}`))
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRegister(t *testing.T) {
	routes, mock := newTestServer(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), "Alice", "A", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "first_name", "last_name", "is_secretary", "date_joined"}).
			AddRow(1, "alice", "alice@example.com", "hash", "Alice", "A", false, time.Now()))
	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(sqlmock.AnyArg(), 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"username": "alice", "email": "alice@example.com", "password": "pw", "first_name": "Alice", "last_name": "A"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimited(t *testing.T) {
	routes, _ := newTestServer(t)

	var last int
	for range 11 {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestNotFound(t *testing.T) {
	routes, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail": "Not found."}`, rec.Body.String())
}
