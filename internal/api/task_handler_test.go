package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dstreet/taskhub/internal/api/shared"
	"github.com/dstreet/taskhub/internal/domain"
	"github.com/dstreet/taskhub/internal/mocks"
	"github.com/dstreet/taskhub/internal/service/auth"
)

// newTaskRequest builds a request carrying verified claims for the given
// user and, when taskID is non-empty, a chi route context resolving the
// {taskID} path parameter.
func newTaskRequest(
	method, target string,
	body io.Reader,
	userID uuid.UUID,
	taskID string,
) *http.Request {
	req := httptest.NewRequest(method, target, body)

	ctx := context.WithValue(req.Context(), shared.UserClaimsContextKey, &auth.Claims{
		UserID: userID,
		Email:  "test@example.com",
	})

	if taskID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("taskID", taskID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

func newTestTaskHandler() (*TaskHandler, *mocks.MockTaskStore) {
	taskStore := mocks.NewMockTaskStore()
	return NewTaskHandler(taskStore, slog.Default()), taskStore
}

func mustNewTask(t *testing.T, userID uuid.UUID, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, title, "")
	require.NoError(t, err)
	return task
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid task",
			body:       `{"title":"Buy groceries","description":"milk and eggs"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "title only",
			body:       `{"title":"Buy groceries"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			body:       `{"description":"no title"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "blank title",
			body:       `{"title":"   "}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "title too long",
			body:       `{"title":"` + string(bytes.Repeat([]byte("a"), 501)) + `"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "description too long",
			body: `{"title":"ok","description":"` +
				string(bytes.Repeat([]byte("d"), 5001)) + `"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed JSON",
			body:       `{"title"`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler, _ := newTestTaskHandler()

			req := newTaskRequest(
				"POST",
				"/api/users/"+userID.String()+"/tasks",
				bytes.NewBufferString(tt.body),
				userID,
				"",
			)
			recorder := httptest.NewRecorder()

			handler.CreateTask(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp TaskResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.NotEqual(t, uuid.Nil, resp.ID)
				assert.Equal(t, userID, resp.UserID)
				assert.False(t, resp.Completed, "new tasks start incomplete")
				assert.False(t, resp.CreatedAt.IsZero())
			}
		})
	}
}

func TestCreateTaskOwnerComesFromToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler, taskStore := newTestTaskHandler()

	// A user_id in the body is ignored; ownership is the token's identity.
	body := `{"title":"mine","user_id":"` + uuid.NewString() + `"}`
	req := newTaskRequest("POST", "/api/users/"+userID.String()+"/tasks",
		bytes.NewBufferString(body), userID, "")
	recorder := httptest.NewRecorder()

	handler.CreateTask(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)
	require.Len(t, taskStore.Tasks, 1)
	for _, task := range taskStore.Tasks {
		assert.Equal(t, userID, task.UserID)
	}
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()
	handler, taskStore := newTestTaskHandler()

	older := mustNewTask(t, userID, "older")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := mustNewTask(t, userID, "newer")
	foreign := mustNewTask(t, otherID, "not mine")

	ctx := context.Background()
	require.NoError(t, taskStore.Create(ctx, older))
	require.NoError(t, taskStore.Create(ctx, newer))
	require.NoError(t, taskStore.Create(ctx, foreign))

	req := newTaskRequest("GET", "/api/users/"+userID.String()+"/tasks", nil, userID, "")
	recorder := httptest.NewRecorder()

	handler.ListTasks(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp TaskListResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Tasks, 2)

	// Newest first, and only the caller's own tasks.
	assert.Equal(t, "newer", resp.Tasks[0].Title)
	assert.Equal(t, "older", resp.Tasks[1].Title)
	for _, task := range resp.Tasks {
		assert.Equal(t, userID, task.UserID)
	}
}

func TestListTasksEmpty(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler, _ := newTestTaskHandler()

	req := newTaskRequest("GET", "/api/users/"+userID.String()+"/tasks", nil, userID, "")
	recorder := httptest.NewRecorder()

	handler.ListTasks(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	// The empty list serializes as [], not null.
	assert.JSONEq(t, `{"tasks":[],"count":0}`, recorder.Body.String())
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()

	ownTask := mustNewTask(t, userID, "mine")
	foreignTask := mustNewTask(t, otherID, "not mine")

	tests := []struct {
		name       string
		taskID     string
		wantStatus int
	}{
		{
			name:       "own task",
			taskID:     ownTask.ID.String(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing task",
			taskID:     uuid.NewString(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "another user's task",
			taskID:     foreignTask.ID.String(),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "invalid task ID",
			taskID:     "not-a-uuid",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler, taskStore := newTestTaskHandler()
			ctx := context.Background()
			require.NoError(t, taskStore.Create(ctx, ownTask))
			require.NoError(t, taskStore.Create(ctx, foreignTask))

			req := newTaskRequest(
				"GET",
				"/api/users/"+userID.String()+"/tasks/"+tt.taskID,
				nil,
				userID,
				tt.taskID,
			)
			recorder := httptest.NewRecorder()

			handler.GetTask(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusOK {
				var resp TaskResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, ownTask.ID, resp.ID)
				assert.Equal(t, "mine", resp.Title)
			}
		})
	}
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantTitle     string
		wantDesc      string
		wantCompleted bool
	}{
		{
			name:          "update title only",
			body:          `{"title":"renamed"}`,
			wantStatus:    http.StatusOK,
			wantTitle:     "renamed",
			wantDesc:      "original description",
			wantCompleted: false,
		},
		{
			name:          "update completed only",
			body:          `{"completed":true}`,
			wantStatus:    http.StatusOK,
			wantTitle:     "original title",
			wantDesc:      "original description",
			wantCompleted: true,
		},
		{
			name:          "clear description",
			body:          `{"description":""}`,
			wantStatus:    http.StatusOK,
			wantTitle:     "original title",
			wantDesc:      "",
			wantCompleted: false,
		},
		{
			name: "update all fields",
			body: `{"title":"renamed","description":"new description",` +
				`"completed":true}`,
			wantStatus:    http.StatusOK,
			wantTitle:     "renamed",
			wantDesc:      "new description",
			wantCompleted: true,
		},
		{
			name:       "empty body changes nothing",
			body:       `{}`,
			wantStatus: http.StatusOK,
			wantTitle:  "original title",
			wantDesc:   "original description",
		},
		{
			name:       "blank title rejected",
			body:       `{"title":"  "}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "title too long rejected",
			body:       `{"title":"` + string(bytes.Repeat([]byte("a"), 501)) + `"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed JSON",
			body:       `{"title"`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler, taskStore := newTestTaskHandler()

			task, err := domain.NewTask(userID, "original title", "original description")
			require.NoError(t, err)
			require.NoError(t, taskStore.Create(context.Background(), task))

			req := newTaskRequest(
				"PUT",
				"/api/users/"+userID.String()+"/tasks/"+task.ID.String(),
				bytes.NewBufferString(tt.body),
				userID,
				task.ID.String(),
			)
			recorder := httptest.NewRecorder()

			handler.UpdateTask(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusOK {
				var resp TaskResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, tt.wantTitle, resp.Title)
				assert.Equal(t, tt.wantDesc, resp.Description)
				assert.Equal(t, tt.wantCompleted, resp.Completed)

				// The store saw the same state the client was shown.
				stored, err := taskStore.GetByID(context.Background(), task.ID)
				require.NoError(t, err)
				assert.Equal(t, tt.wantTitle, stored.Title)
				assert.Equal(t, tt.wantCompleted, stored.Completed)
			}
		})
	}
}

func TestUpdateTaskRejectedBeforePersisting(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler, taskStore := newTestTaskHandler()

	task, err := domain.NewTask(userID, "original title", "")
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(context.Background(), task))

	// A valid title alongside an oversized description: the request fails as
	// a whole and the stored task keeps its original title.
	body := `{"title":"renamed","description":"` +
		string(bytes.Repeat([]byte("d"), 5001)) + `"}`
	req := newTaskRequest("PUT",
		"/api/users/"+userID.String()+"/tasks/"+task.ID.String(),
		bytes.NewBufferString(body), userID, task.ID.String())
	recorder := httptest.NewRecorder()

	handler.UpdateTask(recorder, req)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	stored, err := taskStore.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original title", stored.Title)
}

func TestUpdateTaskOwnership(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()
	handler, taskStore := newTestTaskHandler()

	foreign := mustNewTask(t, otherID, "not mine")
	require.NoError(t, taskStore.Create(context.Background(), foreign))

	req := newTaskRequest("PUT",
		"/api/users/"+userID.String()+"/tasks/"+foreign.ID.String(),
		bytes.NewBufferString(`{"completed":true}`), userID, foreign.ID.String())
	recorder := httptest.NewRecorder()

	handler.UpdateTask(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)

	stored, err := taskStore.GetByID(context.Background(), foreign.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed, "foreign task must be untouched")
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherID := uuid.New()
	handler, taskStore := newTestTaskHandler()

	ownTask := mustNewTask(t, userID, "mine")
	foreignTask := mustNewTask(t, otherID, "not mine")
	ctx := context.Background()
	require.NoError(t, taskStore.Create(ctx, ownTask))
	require.NoError(t, taskStore.Create(ctx, foreignTask))

	deleteReq := func(taskID string) *httptest.ResponseRecorder {
		req := newTaskRequest("DELETE",
			"/api/users/"+userID.String()+"/tasks/"+taskID, nil, userID, taskID)
		recorder := httptest.NewRecorder()
		handler.DeleteTask(recorder, req)
		return recorder
	}

	// Successful delete has no body.
	first := deleteReq(ownTask.ID.String())
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Empty(t, first.Body.String())

	// Deleting the same task again is a 404.
	second := deleteReq(ownTask.ID.String())
	assert.Equal(t, http.StatusNotFound, second.Code)

	// Another user's task cannot be deleted.
	third := deleteReq(foreignTask.ID.String())
	assert.Equal(t, http.StatusForbidden, third.Code)
	_, err := taskStore.GetByID(ctx, foreignTask.ID)
	assert.NoError(t, err, "foreign task must still exist")
}
