package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// connectionTTL is how long an idle connection record lives before
// DynamoDB expires it.
const connectionTTL = 24 * time.Hour

// Connection is one live WebSocket connection
type Connection struct {
	ConnectionID string
	UserID       string
	Endpoint     string
	ConnectedAt  time.Time
}

// ConnectionRecord is how connections are stored
type ConnectionRecord struct {
	PK           string `dynamodbav:"PK"` // CONNECTION#<id>
	SK           string `dynamodbav:"SK"` // METADATA
	ConnectionID string `dynamodbav:"ConnectionID"`
	UserID       string `dynamodbav:"UserID"`
	Endpoint     string `dynamodbav:"Endpoint"`
	ConnectedAt  string `dynamodbav:"ConnectedAt"`
	GSI1PK       string `dynamodbav:"GSI1PK"` // USER#<user_id>
	GSI1SK       string `dynamodbav:"GSI1SK"` // CONNECTION#<id>
	TTL          int64  `dynamodbav:"TTL"`
}

// ConnectionStore tracks live WebSocket connections per user so
// transcript messages can be pushed to every open tab
type ConnectionStore struct {
	client    *dynamodb.Client
	tableName string
	indexName string
}

// NewConnectionStore creates a DynamoDB connection store
func NewConnectionStore(client *dynamodb.Client, tableName string) *ConnectionStore {
	return &ConnectionStore{
		client:    client,
		tableName: tableName,
		indexName: "GSI1",
	}
}

// Save stores a connection record
func (s *ConnectionStore) Save(ctx context.Context, conn Connection) error {
	record := ConnectionRecord{
		PK:           connectionKey(conn.ConnectionID),
		SK:           "METADATA",
		ConnectionID: conn.ConnectionID,
		UserID:       conn.UserID,
		Endpoint:     conn.Endpoint,
		ConnectedAt:  conn.ConnectedAt.UTC().Format(time.RFC3339),
		GSI1PK:       userKey(conn.UserID),
		GSI1SK:       connectionKey(conn.ConnectionID),
		TTL:          time.Now().Add(connectionTTL).Unix(),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal connection record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store connection: %w", err)
	}
	return nil
}

// Delete removes a connection record
func (s *ConnectionStore) Delete(ctx context.Context, connectionID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": connectionKey(connectionID),
		"SK": "METADATA",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal connection key: %w", err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// ListByUser returns every live connection a user has open
func (s *ConnectionStore) ListByUser(ctx context.Context, userID string) ([]Connection, error) {
	keyExpr := expression.Key("GSI1PK").Equal(expression.Value(userKey(userID))).
		And(expression.Key("GSI1SK").BeginsWith("CONNECTION#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyExpr).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	connections := make([]Connection, 0, len(result.Items))
	for _, item := range result.Items {
		var record ConnectionRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal connection record: %w", err)
		}
		connectedAt, _ := time.Parse(time.RFC3339, record.ConnectedAt)
		connections = append(connections, Connection{
			ConnectionID: record.ConnectionID,
			UserID:       record.UserID,
			Endpoint:     record.Endpoint,
			ConnectedAt:  connectedAt,
		})
	}
	return connections, nil
}

func connectionKey(connectionID string) string {
	return "CONNECTION#" + connectionID
}
