package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"go.uber.org/zap"

	"composer2/domain/core/entities"
	dynamostore "composer2/infrastructure/persistence/dynamodb"
)

// WebSocketNotifier pushes transcript messages to a user's open
// browser connections through the API Gateway management API
type WebSocketNotifier struct {
	client      *apigatewaymanagementapi.Client
	connections *dynamostore.ConnectionStore
	logger      *zap.Logger
}

// NewWebSocketNotifier creates a notifier. A nil client disables
// pushing, which is the local development mode.
func NewWebSocketNotifier(client *apigatewaymanagementapi.Client, connections *dynamostore.ConnectionStore, logger *zap.Logger) *WebSocketNotifier {
	return &WebSocketNotifier{
		client:      client,
		connections: connections,
		logger:      logger,
	}
}

// pushEnvelope is the wire form of a pushed message
type pushEnvelope struct {
	Type    string           `json:"type"`
	Message entities.Message `json:"message"`
}

// PushMessage implements the Notifier port. Stale connections found
// along the way are removed from the store.
func (n *WebSocketNotifier) PushMessage(ctx context.Context, userID string, msg entities.Message) error {
	if n.client == nil {
		return nil
	}

	connections, err := n.connections.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list connections: %w", err)
	}
	if len(connections) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushEnvelope{
		Type:    "chat_message",
		Message: msg,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	for _, conn := range connections {
		_, err := n.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(conn.ConnectionID),
			Data:         payload,
		})
		if err != nil {
			var gone *types.GoneException
			if errors.As(err, &gone) {
				if delErr := n.connections.Delete(ctx, conn.ConnectionID); delErr != nil {
					n.logger.Debug("stale connection cleanup failed",
						zap.String("connection_id", conn.ConnectionID),
						zap.Error(delErr),
					)
				}
				continue
			}
			n.logger.Warn("message push failed",
				zap.String("connection_id", conn.ConnectionID),
				zap.Error(err),
			)
		}
	}

	return nil
}
