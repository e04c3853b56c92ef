package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCommand struct {
	invalid bool
}

func (c testCommand) Validate() error {
	if c.invalid {
		return errors.New("invalid")
	}
	return nil
}

func TestCommandBusDispatch(t *testing.T) {
	bus := NewCommandBus()

	var handled bool
	err := bus.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		handled = true
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, bus.Send(context.Background(), testCommand{}))
	assert.True(t, handled)
}

func TestCommandBusRejectsDuplicateRegistration(t *testing.T) {
	bus := NewCommandBus()

	noop := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })
	require.NoError(t, bus.Register(testCommand{}, noop))
	assert.Error(t, bus.Register(testCommand{}, noop))
}

func TestCommandBusValidatesBeforeDispatch(t *testing.T) {
	bus := NewCommandBus()

	var handled bool
	require.NoError(t, bus.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		handled = true
		return nil
	})))

	err := bus.Send(context.Background(), testCommand{invalid: true})
	assert.Error(t, err)
	assert.False(t, handled)
}

func TestCommandBusUnknownCommand(t *testing.T) {
	bus := NewCommandBus()
	assert.Error(t, bus.Send(context.Background(), testCommand{}))
}

func TestPipelineOrdersMiddleware(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	pipeline := NewPipeline(mw("outer"), mw("inner"))
	handler := pipeline.Execute(CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		order = append(order, "handler")
		return nil
	}))

	require.NoError(t, handler.Handle(context.Background(), testCommand{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
