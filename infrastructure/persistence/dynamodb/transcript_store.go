package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"composer2/domain/core/entities"
)

// transcriptTTL is how long transcript items live before DynamoDB
// expires them.
const transcriptTTL = 90 * 24 * time.Hour

// TranscriptStore persists chat transcripts in DynamoDB. One item per
// message, keyed so a single query returns a user's conversation in
// creation order.
type TranscriptStore struct {
	client    *dynamodb.Client
	tableName string
}

// MessageRecord is how transcript messages are stored
type MessageRecord struct {
	PK         string `dynamodbav:"PK"` // USER#<user_id>
	SK         string `dynamodbav:"SK"` // MSG#<timestamp>#<message_id>
	MessageID  string `dynamodbav:"MessageID"`
	Text       string `dynamodbav:"Text"`
	Sender     string `dynamodbav:"Sender"`
	NavigateTo string `dynamodbav:"NavigateTo,omitempty"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	TTL        int64  `dynamodbav:"TTL,omitempty"`
}

// NewTranscriptStore creates a DynamoDB transcript store
func NewTranscriptStore(client *dynamodb.Client, tableName string) *TranscriptStore {
	return &TranscriptStore{
		client:    client,
		tableName: tableName,
	}
}

// Append implements the TranscriptStore port
func (s *TranscriptStore) Append(ctx context.Context, userID string, msg entities.Message) error {
	record := MessageRecord{
		PK:         userKey(userID),
		SK:         messageKey(msg),
		MessageID:  msg.ID,
		Text:       msg.Text,
		Sender:     string(msg.Sender),
		NavigateTo: msg.NavigateTo,
		CreatedAt:  msg.CreatedAt.UTC().Format(time.RFC3339Nano),
		TTL:        time.Now().Add(transcriptTTL).Unix(),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal message record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// History implements the TranscriptStore port. Messages come back in
// creation order because the sort key starts with the timestamp.
func (s *TranscriptStore) History(ctx context.Context, userID string) ([]entities.Message, error) {
	keyExpr := expression.Key("PK").Equal(expression.Value(userKey(userID))).
		And(expression.Key("SK").BeginsWith("MSG#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyExpr).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	}

	var messages []entities.Message
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query transcript: %w", err)
		}

		for _, item := range result.Items {
			var record MessageRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("failed to unmarshal message record: %w", err)
			}
			messages = append(messages, recordToMessage(record))
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	if messages == nil {
		messages = []entities.Message{}
	}
	return messages, nil
}

// Clear implements the TranscriptStore port. DynamoDB has no delete by
// query, so items are fetched and removed in batches of 25.
func (s *TranscriptStore) Clear(ctx context.Context, userID string) error {
	keyExpr := expression.Key("PK").Equal(expression.Value(userKey(userID))).
		And(expression.Key("SK").BeginsWith("MSG#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyExpr).Build()
	if err != nil {
		return fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ProjectionExpression:      aws.String("PK, SK"),
	}

	var deletes []types.WriteRequest
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to query transcript for deletion: %w", err)
		}

		for _, item := range result.Items {
			deletes = append(deletes, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"PK": item["PK"],
						"SK": item["SK"],
					},
				},
			})
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	for i := 0; i < len(deletes); i += 25 {
		end := i + 25
		if end > len(deletes) {
			end = len(deletes)
		}

		result, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: deletes[i:end],
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete transcript batch: %w", err)
		}
		if len(result.UnprocessedItems) > 0 {
			return fmt.Errorf("failed to delete %d transcript items", len(result.UnprocessedItems[s.tableName]))
		}
	}

	return nil
}

func userKey(userID string) string {
	return "USER#" + userID
}

func messageKey(msg entities.Message) string {
	return fmt.Sprintf("MSG#%s#%s", msg.CreatedAt.UTC().Format(time.RFC3339Nano), msg.ID)
}

func recordToMessage(record MessageRecord) entities.Message {
	createdAt, _ := time.Parse(time.RFC3339Nano, record.CreatedAt)
	return entities.Message{
		ID:         record.MessageID,
		Text:       record.Text,
		Sender:     entities.Sender(record.Sender),
		CreatedAt:  createdAt,
		NavigateTo: record.NavigateTo,
	}
}
