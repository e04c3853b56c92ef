// Package main implements the WebSocket connect Lambda handler.
// It authenticates the connecting client and records the connection
// so turn results can be pushed to the browser.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"composer2/infrastructure/persistence/dynamodb"
	"composer2/pkg/auth"
)

var (
	connections *dynamodb.ConnectionStore
	validator   *auth.JWTValidator
)

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

	validator, err = auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: os.Getenv("JWT_SECRET"),
		Issuer:    os.Getenv("JWT_ISSUER"),
	})
	if err != nil {
		log.Fatalf("Failed to create JWT validator: %v", err)
	}

	log.Println("WebSocket connect handler initialized")
}

func handler(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	token := request.QueryStringParameters["token"]
	if token == "" {
		token = request.Headers["Authorization"]
	}
	if token == "" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusUnauthorized,
			Body:       `{"error": "missing authentication token"}`,
		}, nil
	}

	claims, err := validator.Validate(token)
	if err != nil {
		log.Printf("Authentication failed: %v", err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusUnauthorized,
			Body:       `{"error": "unauthorized"}`,
		}, nil
	}

	conn := dynamodb.Connection{
		ConnectionID: request.RequestContext.ConnectionID,
		UserID:       claims.UserID,
		Endpoint:     fmt.Sprintf("https://%s/%s", request.RequestContext.DomainName, request.RequestContext.Stage),
		ConnectedAt:  time.Now(),
	}

	if err := connections.Save(ctx, conn); err != nil {
		log.Printf("Failed to store connection: %v", err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error": "internal server error"}`,
		}, nil
	}

	log.Printf("Connection %s established for user %s", conn.ConnectionID, claims.UserID)

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       `{"type": "connection_established"}`,
	}, nil
}

func main() {
	lambda.Start(handler)
}
