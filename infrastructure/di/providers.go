package di

import (
	"context"
	"fmt"
	"time"

	"composer2/application/chat"
	"composer2/application/commands"
	"composer2/application/commands/bus"
	commandhandlers "composer2/application/commands/handlers"
	"composer2/application/ports"
	"composer2/application/queries"
	querybus "composer2/application/queries/bus"
	queryhandlers "composer2/application/queries/handlers"
	"composer2/application/state"
	"composer2/domain/core/validators"
	"composer2/infrastructure/assistant"
	"composer2/infrastructure/config"
	"composer2/infrastructure/messaging/eventbridge"
	"composer2/infrastructure/notify"
	"composer2/infrastructure/persistence/dynamodb"
	"composer2/infrastructure/postapi"
	"composer2/pkg/auth"
	"composer2/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsapigw "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideManagementClient creates the API Gateway management client
// used to push messages over WebSocket. Returns nil when no endpoint
// is configured, which disables pushing.
func ProvideManagementClient(awsCfg aws.Config, cfg *config.Config) *awsapigw.Client {
	if cfg.WebSocketEndpoint == "" {
		return nil
	}
	return awsapigw.NewFromConfig(awsCfg, func(o *awsapigw.Options) {
		o.BaseEndpoint = aws.String(cfg.WebSocketEndpoint)
	})
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("Composer/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("composer2")
}

// ProvideJWTValidator creates the session token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		secret = "development-secret"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideStateRegistry creates the per-user state registry
func ProvideStateRegistry() *state.Registry {
	return state.NewRegistry()
}

// ProvideDraftValidator creates the draft validator
func ProvideDraftValidator() *validators.DraftValidator {
	return validators.NewDraftValidator()
}

// ProvideAssistantService creates the assistant HTTP client
func ProvideAssistantService(cfg *config.Config, logger *zap.Logger) ports.AssistantService {
	return assistant.NewClient(
		cfg.AssistantEndpoint,
		time.Duration(cfg.AssistantTimeout)*time.Millisecond,
		logger,
	)
}

// ProvidePostService creates the post API HTTP client
func ProvidePostService(cfg *config.Config, logger *zap.Logger) ports.PostService {
	return postapi.NewClient(
		cfg.PostAPIBaseURL,
		time.Duration(cfg.PostAPITimeout)*time.Millisecond,
		logger,
	)
}

// ProvideTranscriptStore creates the DynamoDB transcript store
func ProvideTranscriptStore(client *awsdynamodb.Client, cfg *config.Config) ports.TranscriptStore {
	return dynamodb.NewTranscriptStore(client, cfg.TranscriptTable)
}

// ProvideConnectionStore creates the DynamoDB connection store
func ProvideConnectionStore(client *awsdynamodb.Client, cfg *config.Config) *dynamodb.ConnectionStore {
	return dynamodb.NewConnectionStore(client, cfg.ConnectionsTable)
}

// ProvideNotifier creates the WebSocket message notifier
func ProvideNotifier(client *awsapigw.Client, connections *dynamodb.ConnectionStore, logger *zap.Logger) ports.Notifier {
	return notify.NewWebSocketNotifier(client, connections, logger)
}

// ProvideEventPublisher creates the EventBridge event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewEventBridgePublisher(client, cfg.EventBusName, logger)
}

// ProvidePostCache creates the in-memory post cache
func ProvidePostCache() ports.PostCache {
	return NewInMemoryPostCache()
}

// ProvideTurnController creates the chat turn controller
func ProvideTurnController(
	assistantService ports.AssistantService,
	transcript ports.TranscriptStore,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *chat.TurnController {
	return chat.NewTurnController(assistantService, transcript, notifier, publisher, metrics, logger)
}

// ProvideHistoryService creates the chat history service
func ProvideHistoryService(transcript ports.TranscriptStore, logger *zap.Logger) *chat.HistoryService {
	return chat.NewHistoryService(transcript, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	registry *state.Registry,
	posts ports.PostService,
	cache ports.PostCache,
	validator *validators.DraftValidator,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()

	saveHandler := commandhandlers.NewSavePostHandler(registry, posts, cache, validator, publisher, metrics, logger)
	if err := commandBus.Register(commands.SavePostCommand{}, saveHandler); err != nil {
		return nil, err
	}

	deleteHandler := commandhandlers.NewDeletePostHandler(registry, posts, cache, publisher, logger)
	if err := commandBus.Register(commands.DeletePostCommand{}, deleteHandler); err != nil {
		return nil, err
	}

	// One handler serves every patch command type.
	patchHandler := commandhandlers.NewPatchPostHandler(registry, posts, logger)
	patchCommands := []bus.Command{
		commands.PatchPostKindCommand{},
		commands.PatchScheduleCommand{},
		commands.PatchMediaCommand{},
		commands.PatchLocationCommand{},
	}
	for _, cmd := range patchCommands {
		if err := commandBus.Register(cmd, patchHandler); err != nil {
			return nil, err
		}
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	posts ports.PostService,
	cache ports.PostCache,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	listHandler := queryhandlers.NewListPostsHandler(posts, cache, logger)
	if err := queryBus.Register(queries.ListPostsQuery{}, listHandler); err != nil {
		return nil, err
	}

	countsHandler := queryhandlers.NewGetDashboardCountsHandler(posts, cache, logger)
	if err := queryBus.Register(queries.GetDashboardCountsQuery{}, countsHandler); err != nil {
		return nil, err
	}

	return queryBus, nil
}
