package chat

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"composer2/application/ports"
	"composer2/application/state"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
	"composer2/domain/events"
	pkgerrors "composer2/pkg/errors"
	"composer2/pkg/observability"
)

const (
	// defaultThinkingDelay is how long a turn may run before the
	// thinking indicator appears. Fast replies never show it.
	defaultThinkingDelay = 2 * time.Second

	// composerView is the navigation target for the draft composer.
	composerView = "/create"

	// onboardingView is the view whose state is refreshed after a
	// post-free exchange.
	onboardingView = "/mind"

	failureText    = "I am sorry, looks like I am not able to process any request. Can you please try again?"
	connectionText = "Error: Could not connect to the AI service."
	navigationText = "Mark has created the post. Click to view."

	// BootstrapPrompt opens the conversation on behalf of the user when
	// the transcript is empty or onboarding has just completed.
	BootstrapPrompt = "Hello Mark, I'm ready to work on my next post."
)

// TurnController runs one assistant exchange end to end: optimistic
// user message, delayed thinking indicator, remote call, transcript
// updates, and the draft merge. Failures never surface as errors to
// the caller; every outcome lands in the transcript.
type TurnController struct {
	assistant  ports.AssistantService
	transcript ports.TranscriptStore
	notifier   ports.Notifier
	publisher  ports.EventPublisher
	metrics    *observability.Metrics
	logger     *zap.Logger

	thinkingDelay time.Duration
}

// NewTurnController creates a controller with the default thinking delay
func NewTurnController(
	assistant ports.AssistantService,
	transcript ports.TranscriptStore,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *TurnController {
	return &TurnController{
		assistant:     assistant,
		transcript:    transcript,
		notifier:      notifier,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger,
		thinkingDelay: defaultThinkingDelay,
	}
}

// TurnInput describes one exchange request
type TurnInput struct {
	Store *state.Store

	// Message is the user's text, already trimmed by the caller.
	Message string

	// View is the client view the exchange originated from; it decides
	// whether a merged draft needs a navigation notice and whether the
	// onboarding state should refresh afterwards.
	View string

	// Silent suppresses the optimistic user message. Used by the
	// conversation bootstrap, which speaks on the user's behalf.
	Silent bool
}

// TurnResult summarizes one completed exchange
type TurnResult struct {
	// Appended holds the messages this turn added to the transcript,
	// in order.
	Appended []entities.Message

	// DraftMerged reports whether the live draft changed.
	DraftMerged bool

	// RefreshOnboarding tells the caller to re-read onboarding state.
	RefreshOnboarding bool

	// Failed reports whether the turn ended in a failure notice.
	Failed bool
}

// Run executes one exchange. The returned error is reserved for
// context cancellation; every service-level failure is converted into
// a transcript message instead.
func (c *TurnController) Run(ctx context.Context, in TurnInput) (TurnResult, error) {
	store := in.Store
	turn := store.NextTurn()
	started := time.Now()
	result := TurnResult{}

	log := c.logger.With(
		zap.String("user_id", store.UserID()),
		zap.Uint64("turn", turn),
	)

	if !in.Silent {
		userMsg := entities.NewUserMessage(in.Message)
		c.append(ctx, store, userMsg, &result)
	}

	// The indicator only appears when the exchange outlasts the delay.
	// settled guards the race between the timer firing and the reply
	// arriving at almost the same moment.
	var settled atomic.Bool
	timer := time.AfterFunc(c.thinkingDelay, func() {
		if settled.Load() {
			return
		}
		store.SetThinking(true)
		c.metrics.RecordThinkingShown(ctx)
		log.Debug("thinking indicator shown")
	})
	defer func() {
		settled.Store(true)
		timer.Stop()
		store.SetThinking(false)
	}()

	reply, err := c.assistant.Chat(ctx, store.UserID(), in.Message, store.LiveDraft())
	settled.Store(true)

	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		log.Warn("assistant call failed", zap.Error(err))
		text := connectionText
		if appErr := pkgerrors.GetAppError(err); appErr != nil && appErr.Message != "" {
			text = appErr.Message
		}
		c.append(ctx, store, entities.NewSystemMessage(text), &result)
		result.Failed = true
		c.finish(ctx, store, turn, started, &result)
		return result, nil
	}

	if reply.Text != "" {
		c.append(ctx, store, entities.NewAssistantMessage(reply.Text), &result)
	}

	switch {
	case reply.HasPost && reply.Post != nil:
		c.mergeDraft(store, reply)
		result.DraftMerged = true
		c.publish(ctx, events.NewDraftMerged(store.UserID(), turn, time.Now()))
		log.Info("assistant reply merged into live draft")

		if in.View != composerView {
			c.append(ctx, store, entities.NewNavigationMessage(navigationText, composerView), &result)
		}

	case reply.Text != "":
		if in.View == onboardingView {
			result.RefreshOnboarding = true
		}

	default:
		c.append(ctx, store, entities.NewSystemMessage(failureText), &result)
		result.Failed = true
	}

	c.finish(ctx, store, turn, started, &result)
	return result, nil
}

// Bootstrap opens the conversation with the canned greeting prompt.
// The prompt itself never appears in the transcript.
func (c *TurnController) Bootstrap(ctx context.Context, store *state.Store, view string) (TurnResult, error) {
	return c.Run(ctx, TurnInput{
		Store:   store,
		Message: BootstrapPrompt,
		View:    view,
		Silent:  true,
	})
}

// mergeDraft folds the assistant's post payload into the live draft.
// Only title, content, and hashtag participate; schedule, media, and
// platform selections stay the user's.
func (c *TurnController) mergeDraft(store *state.Store, reply ports.AssistantReply) {
	title := reply.Post.Title
	content := reply.Post.Content
	hashtag := valueobjects.FormatHashtagsForDisplay(reply.Post.Hashtag)

	store.SetLiveDraft(entities.DraftPatch{
		Title:   &title,
		Content: &content,
		Hashtag: &hashtag,
	})
}

// append adds a message to the in-memory transcript, persists it, and
// pushes it to live connections. Persistence and push failures are
// logged and swallowed so the conversation keeps flowing.
func (c *TurnController) append(ctx context.Context, store *state.Store, msg entities.Message, result *TurnResult) {
	store.AppendMessage(msg)
	result.Appended = append(result.Appended, msg)

	if err := c.transcript.Append(ctx, store.UserID(), msg); err != nil {
		c.logger.Warn("transcript append failed",
			zap.String("user_id", store.UserID()),
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
	}

	if c.notifier != nil {
		if err := c.notifier.PushMessage(ctx, store.UserID(), msg); err != nil {
			c.logger.Debug("message push failed",
				zap.String("user_id", store.UserID()),
				zap.Error(err),
			)
		}
	}
}

func (c *TurnController) finish(ctx context.Context, store *state.Store, turn uint64, started time.Time, result *TurnResult) {
	elapsed := time.Since(started)
	c.metrics.RecordTurnLatency(ctx, elapsed)
	c.publish(ctx, events.NewTurnCompleted(
		store.UserID(), turn, elapsed, result.DraftMerged, result.Failed, time.Now(),
	))
}

func (c *TurnController) publish(ctx context.Context, event events.DomainEvent) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("event publish failed",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
}
