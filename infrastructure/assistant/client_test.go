package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"composer2/domain/core/entities"
	pkgerrors "composer2/pkg/errors"
)

func TestChatDecodesPostReply(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bot": {"text": "Here you go."},
			"hasPost": true,
			"post": {"title": "Sale", "content": "Half off.", "hashtag": "#sale #today"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())
	draft := entities.NewDraft("user-1")

	reply, err := client.Chat(context.Background(), "user-1", "write a sale post", draft)
	require.NoError(t, err)

	assert.Equal(t, "Here you go.", reply.Text)
	assert.True(t, reply.HasPost)
	require.NotNil(t, reply.Post)
	assert.Equal(t, "Sale", reply.Post.Title)
	assert.Equal(t, "#sale #today", reply.Post.Hashtag)

	// The current draft travels with every exchange.
	assert.Equal(t, "user-1", captured["userId"])
	assert.Equal(t, "write a sale post", captured["message"])
	assert.Contains(t, captured, "post")
}

func TestChatFlattensArrayHashtags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"bot": {"text": "done"},
			"hasPost": true,
			"post": {"title": "T", "content": "C", "hashtag": ["sale", "today"]}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	reply, err := client.Chat(context.Background(), "user-1", "msg", entities.NewDraft("user-1"))
	require.NoError(t, err)
	require.NotNil(t, reply.Post)
	assert.Equal(t, "sale today", reply.Post.Hashtag)
}

func TestChatTextOnlyReplyHasNoPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bot": {"text": "Tell me more."}, "hasPost": false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	reply, err := client.Chat(context.Background(), "user-1", "hi", entities.NewDraft("user-1"))
	require.NoError(t, err)
	assert.Equal(t, "Tell me more.", reply.Text)
	assert.False(t, reply.HasPost)
	assert.Nil(t, reply.Post)
}

func TestChatServerErrorIsExternal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())

	_, err := client.Chat(context.Background(), "user-1", "hi", entities.NewDraft("user-1"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsExternal(err))
}

func TestChatConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second, zap.NewNop())

	_, err := client.Chat(context.Background(), "user-1", "hi", entities.NewDraft("user-1"))
	require.Error(t, err)

	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Error: Could not connect to the AI service.", appErr.Message)
}
