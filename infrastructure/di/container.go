package di

import (
	"composer2/application/chat"
	"composer2/application/commands/bus"
	"composer2/application/ports"
	querybus "composer2/application/queries/bus"
	"composer2/application/state"
	"composer2/infrastructure/config"
	"composer2/infrastructure/persistence/dynamodb"
	"composer2/pkg/auth"
	"composer2/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	Registry         *state.Registry
	AssistantService ports.AssistantService
	PostService      ports.PostService
	TranscriptStore  ports.TranscriptStore
	ConnectionStore  *dynamodb.ConnectionStore
	Notifier         ports.Notifier
	EventPublisher   ports.EventPublisher
	PostCache        ports.PostCache
	TurnController   *chat.TurnController
	HistoryService   *chat.HistoryService
	CommandBus       *bus.CommandBus
	QueryBus         *querybus.QueryBus
	JWTValidator     *auth.JWTValidator
	Metrics          *observability.Metrics
	Tracer           *observability.Tracer
}
