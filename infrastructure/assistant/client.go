package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"composer2/application/ports"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
	pkgerrors "composer2/pkg/errors"
)

// Client talks to the conversational assistant service over HTTP.
// Each exchange is a single request; there are no retries, because a
// duplicate exchange would double-append to the transcript on the
// assistant side.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an assistant client
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// chatRequest is the wire form of one exchange
type chatRequest struct {
	UserID  string         `json:"userId"`
	Message string         `json:"message"`
	Post    entities.Draft `json:"post"`
}

// chatResponse is the wire form of the assistant's reply
type chatResponse struct {
	Bot struct {
		Text string `json:"text"`
	} `json:"bot"`
	HasPost bool `json:"hasPost"`
	Post    struct {
		Title   string          `json:"title"`
		Content string          `json:"content"`
		Hashtag json.RawMessage `json:"hashtag"`
	} `json:"post"`
}

// Chat implements the AssistantService port
func (c *Client) Chat(ctx context.Context, userID, message string, draft entities.Draft) (ports.AssistantReply, error) {
	body, err := json.Marshal(chatRequest{
		UserID:  userID,
		Message: message,
		Post:    draft,
	})
	if err != nil {
		return ports.AssistantReply{}, pkgerrors.NewInternalError("chat request encoding failed").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.AssistantReply{}, pkgerrors.NewInternalError("chat request build failed").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.AssistantReply{}, pkgerrors.NewNetworkError("Error: Could not connect to the AI service.", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("assistant exchange completed",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(started)),
	)

	if resp.StatusCode != http.StatusOK {
		return ports.AssistantReply{}, pkgerrors.NewExternalError("assistant",
			fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.AssistantReply{}, pkgerrors.NewExternalError("assistant", err)
	}

	reply := ports.AssistantReply{
		Text:    decoded.Bot.Text,
		HasPost: decoded.HasPost,
	}
	if decoded.HasPost {
		reply.Post = &ports.AssistantPost{
			Title:   decoded.Post.Title,
			Content: decoded.Post.Content,
			Hashtag: flattenHashtag(decoded.Post.Hashtag),
		}
	}
	return reply, nil
}

// flattenHashtag accepts the two wire shapes the assistant produces
// for hashtags, a plain string or an array of tags, and returns one
// raw string
func flattenHashtag(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		return valueobjects.JoinHashtags(asList)
	}

	return ""
}
