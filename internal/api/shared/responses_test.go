package shared_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dstreet/taskhub/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	shared.RespondWithJSON(recorder, req, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	t.Run("includes trace id from context", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req = req.WithContext(shared.SetTraceID(req.Context()))

		shared.RespondWithError(recorder, req, http.StatusNotFound, "Task not found")

		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var body shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, "Task not found", body.Error)
		assert.Len(t, body.TraceID, 2*shared.TraceIDLength)
	})

	t.Run("omits trace id when absent", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		shared.RespondWithError(recorder, req, http.StatusUnauthorized, "nope")

		var body shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Empty(t, body.TraceID)
	})
}

func TestRespondWithErrorAndLogNeverLeaksError(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	internalErr := errors.New("pq: connection to postgres://u:secretpw@db failed")
	shared.RespondWithErrorAndLog(recorder, req, http.StatusInternalServerError,
		"An unexpected error occurred", internalErr)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "secretpw")
	assert.NotContains(t, recorder.Body.String(), "postgres://")

	var body shared.ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "An unexpected error occurred", body.Error)
}

func TestTraceIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := shared.SetTraceID(context.Background())
	traceID := shared.GetTraceID(ctx)

	assert.Len(t, traceID, 2*shared.TraceIDLength)
	assert.NotEqual(t, traceID, shared.GetTraceID(shared.SetTraceID(context.Background())))
}
