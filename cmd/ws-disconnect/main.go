// Package main implements the WebSocket disconnect Lambda handler.
// It removes the connection record so the notifier stops pushing to it.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"composer2/infrastructure/persistence/dynamodb"
)

var connections *dynamodb.ConnectionStore

func init() {
	ctx := context.Background()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	tableName := os.Getenv("CONNECTIONS_TABLE")
	if tableName == "" {
		tableName = "composer-connections"
	}
	connections = dynamodb.NewConnectionStore(awsdynamodb.NewFromConfig(cfg), tableName)

	log.Println("WebSocket disconnect handler initialized")
}

func handler(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID

	if err := connections.Delete(ctx, connectionID); err != nil {
		log.Printf("Failed to delete connection %s: %v", connectionID, err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error": "internal server error"}`,
		}, nil
	}

	log.Printf("Connection %s removed", connectionID)

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       `{"type": "connection_closed"}`,
	}, nil
}

func main() {
	lambda.Start(handler)
}
