package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dstreet/taskhub/internal/api"
	"github.com/dstreet/taskhub/internal/config"
	"github.com/dstreet/taskhub/internal/mocks"
	"github.com/dstreet/taskhub/internal/service"
	"github.com/dstreet/taskhub/internal/service/auth"
)

// newTestApplication wires an application over mock stores with a real JWT
// service, so requests flow through the full router and middleware chain.
func newTestApplication(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()

	jwtService, err := auth.NewJWTService(auth.DefaultTestAuthConfig())
	require.NoError(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	taskStore := mocks.NewMockTaskStore()
	userStore := mocks.NewMockUserStore()
	userStore.TaskStore = taskStore

	logger := slog.Default()

	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
			Auth:   auth.DefaultTestAuthConfig(),
		},
		logger:           logger,
		userStore:        userStore,
		taskStore:        taskStore,
		userService:      service.NewUserService(userStore, db, logger),
		jwtService:       jwtService,
		passwordHasher:   &mocks.MockPasswordHasher{},
		passwordVerifier: &mocks.MockPasswordVerifier{ShouldSucceed: true},
	}, mock
}

func doRequest(
	t *testing.T,
	router http.Handler,
	method, target, token string,
	body io.Reader,
) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func signup(
	t *testing.T,
	router http.Handler,
	email, password string,
) api.AuthResponse {
	t.Helper()

	resp := doRequest(t, router, "POST", "/api/auth/signup", "",
		bytes.NewBufferString(`{"email":"`+email+`","password":"`+password+`"}`))
	require.Equal(t, http.StatusCreated, resp.Code)

	var authResp api.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&authResp))
	return authResp
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	app, _ := newTestApplication(t)
	router := app.setupRouter()

	resp := doRequest(t, router, "GET", "/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestSignupSigninFlow(t *testing.T) {
	t.Parallel()

	app, _ := newTestApplication(t)
	router := app.setupRouter()

	created := signup(t, router, "flow@example.com", "password123")
	assert.NotEmpty(t, created.Token)
	assert.NotEqual(t, uuid.Nil, created.UserID)

	// The signup token is immediately usable.
	resp := doRequest(t, router, "GET",
		"/api/users/"+created.UserID.String()+"/tasks", created.Token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Signing in issues a fresh token for the same identity.
	signin := doRequest(t, router, "POST", "/api/auth/signin", "",
		bytes.NewBufferString(`{"email":"flow@example.com","password":"password123"}`))
	require.Equal(t, http.StatusOK, signin.Code)

	var signinResp api.AuthResponse
	require.NoError(t, json.NewDecoder(signin.Body).Decode(&signinResp))
	assert.Equal(t, created.UserID, signinResp.UserID)
	assert.NotEmpty(t, signinResp.Token)
}

func TestTaskLifecycle(t *testing.T) {
	t.Parallel()

	app, _ := newTestApplication(t)
	router := app.setupRouter()

	account := signup(t, router, "lifecycle@example.com", "password123")
	base := "/api/users/" + account.UserID.String() + "/tasks"

	// Create
	created := doRequest(t, router, "POST", base, account.Token,
		bytes.NewBufferString(`{"title":"Write report","description":"Q3 numbers"}`))
	require.Equal(t, http.StatusCreated, created.Code)

	var task api.TaskResponse
	require.NoError(t, json.NewDecoder(created.Body).Decode(&task))
	assert.Equal(t, account.UserID, task.UserID)
	assert.False(t, task.Completed)

	// List
	list := doRequest(t, router, "GET", base, account.Token, nil)
	require.Equal(t, http.StatusOK, list.Code)

	var listResp api.TaskListResponse
	require.NoError(t, json.NewDecoder(list.Body).Decode(&listResp))
	assert.Equal(t, 1, listResp.Count)

	// Update
	updated := doRequest(t, router, "PUT", base+"/"+task.ID.String(), account.Token,
		bytes.NewBufferString(`{"completed":true}`))
	require.Equal(t, http.StatusOK, updated.Code)

	var updatedTask api.TaskResponse
	require.NoError(t, json.NewDecoder(updated.Body).Decode(&updatedTask))
	assert.True(t, updatedTask.Completed)
	assert.Equal(t, "Write report", updatedTask.Title)

	// Delete, then confirm it is gone
	deleted := doRequest(t, router, "DELETE", base+"/"+task.ID.String(), account.Token, nil)
	assert.Equal(t, http.StatusNoContent, deleted.Code)

	gone := doRequest(t, router, "GET", base+"/"+task.ID.String(), account.Token, nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestTaskRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	app, _ := newTestApplication(t)
	router := app.setupRouter()

	userID := uuid.NewString()

	for _, tc := range []struct {
		method, target string
	}{
		{"POST", "/api/users/" + userID + "/tasks"},
		{"GET", "/api/users/" + userID + "/tasks"},
		{"GET", "/api/users/" + userID + "/tasks/" + uuid.NewString()},
		{"PUT", "/api/users/" + userID + "/tasks/" + uuid.NewString()},
		{"DELETE", "/api/users/" + userID + "/tasks/" + uuid.NewString()},
		{"GET", "/api/users/" + userID},
		{"DELETE", "/api/users/" + userID},
	} {
		resp := doRequest(t, router, tc.method, tc.target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code,
			"%s %s without a token", tc.method, tc.target)
	}
}

func TestCrossUserAccessForbidden(t *testing.T) {
	t.Parallel()

	app, _ := newTestApplication(t)
	router := app.setupRouter()

	alice := signup(t, router, "alice@example.com", "password123")
	bob := signup(t, router, "bob@example.com", "password123")

	// Bob cannot address Alice's task collection at all.
	resp := doRequest(t, router, "GET",
		"/api/users/"+alice.UserID.String()+"/tasks", bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// Nor Alice's account.
	resp = doRequest(t, router, "DELETE",
		"/api/users/"+alice.UserID.String(), bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestAccountDeletionCascades(t *testing.T) {
	t.Parallel()

	app, mock := newTestApplication(t)
	router := app.setupRouter()

	// Account deletion runs in a transaction.
	mock.ExpectBegin()
	mock.ExpectCommit()

	account := signup(t, router, "leaving@example.com", "password123")
	base := "/api/users/" + account.UserID.String()

	created := doRequest(t, router, "POST", base+"/tasks", account.Token,
		bytes.NewBufferString(`{"title":"soon gone"}`))
	require.Equal(t, http.StatusCreated, created.Code)

	deleted := doRequest(t, router, "DELETE", base, account.Token, nil)
	require.Equal(t, http.StatusNoContent, deleted.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	// The user's tasks went with the account.
	taskStore, ok := app.taskStore.(*mocks.MockTaskStore)
	require.True(t, ok)
	assert.Empty(t, taskStore.Tasks)

	// Their credentials no longer work for new tokens.
	signin := doRequest(t, router, "POST", "/api/auth/signin", "",
		bytes.NewBufferString(`{"email":"leaving@example.com","password":"password123"}`))
	assert.Equal(t, http.StatusUnauthorized, signin.Code)
}
