package postapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"composer2/application/ports"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
	pkgerrors "composer2/pkg/errors"
)

func testDraft(userID string) entities.Draft {
	draft := entities.NewDraft(userID)
	draft.Title = "Launch"
	draft.Platforms = []valueobjects.Platform{valueobjects.PlatformInstagram}
	return draft
}

func TestSaveCreatesWithPost(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"success": true, "data": {"_id": "abc123", "userId": "user-1", "title": "Launch", "status": "draft"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	saved, err := client.Save(context.Background(), testDraft("user-1"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/posts", gotPath)
	assert.Equal(t, "abc123", saved.ID)
	assert.Equal(t, "Launch", saved.Title)
}

func TestSaveUpdatesWithPut(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"success": true, "data": {"_id": "abc123"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	draft := testDraft("user-1")
	id, err := valueobjects.NewPostIDFromString("abc123")
	require.NoError(t, err)
	draft.ID = id

	_, err = client.Save(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/posts/abc123", gotPath)
}

func TestSaveValidationRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "message": "schedule date is in the past"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	_, err := client.Save(context.Background(), testDraft("user-1"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, pkgerrors.GetAppError(err).Message, "schedule date")
}

func TestDeleteByID(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	id, err := valueobjects.NewPostIDFromString("abc123")
	require.NoError(t, err)
	require.NoError(t, client.Delete(context.Background(), id))

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/posts/abc123", gotPath)
}

func TestDeleteMissingPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	id, err := valueobjects.NewPostIDFromString("missing")
	require.NoError(t, err)

	err = client.Delete(context.Background(), id)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestListSendsWindowParameters(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"userId":    r.URL.Query().Get("userId"),
			"status":    r.URL.Query().Get("status"),
			"startDate": r.URL.Query().Get("startDate"),
			"endDate":   r.URL.Query().Get("endDate"),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    []ports.PersistedPost{{ID: "a"}, {ID: "b"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	posts, err := client.List(context.Background(), ports.PostFilter{
		UserID: "user-1",
		Status: entities.StatusScheduled,
		Window: valueobjects.MonthWindow(2025, time.March),
	})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	assert.Equal(t, "user-1", gotQuery["userId"])
	assert.Equal(t, "schedule", gotQuery["status"])
	assert.Equal(t, "2025-03-01", gotQuery["startDate"])
	assert.Equal(t, "2025-03-31", gotQuery["endDate"])
}

func TestListRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"success": true, "data": [{"_id": "a"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	posts, err := client.List(context.Background(), ports.PostFilter{
		UserID: "user-1",
		Status: entities.StatusDraft,
		Window: valueobjects.MonthWindow(2025, time.March),
	})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestListDoesNotRetryUnauthorized(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	_, err := client.List(context.Background(), ports.PostFilter{
		UserID: "user-1",
		Status: entities.StatusDraft,
		Window: valueobjects.MonthWindow(2025, time.March),
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
