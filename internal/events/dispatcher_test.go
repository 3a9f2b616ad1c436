package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	t.Parallel()

	d := NewAsyncDispatcher(zap.NewNop())
	var calls atomic.Int32

	d.Subscribe(EventApplicationStatusChanged, func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})
	d.Subscribe(EventApplicationStatusChanged, func(context.Context, Event) error {
		calls.Add(1)
		return errors.New("downstream failure")
	})
	d.Subscribe(EventApplicationNoteAdded, func(context.Context, Event) error {
		calls.Add(100)
		return nil
	})

	d.Publish(context.Background(), Event{ID: "e1", Type: EventApplicationStatusChanged})
	d.Wait()

	require.EqualValues(t, 2, calls.Load())
}

func TestPublishSurvivesCancelledContextAndPanics(t *testing.T) {
	t.Parallel()

	d := NewAsyncDispatcher(nil)
	var seen atomic.Bool

	d.Subscribe(EventInvitationIssued, func(context.Context, Event) error {
		panic("boom")
	})
	d.Subscribe(EventInvitationIssued, func(ctx context.Context, _ Event) error {
		seen.Store(ctx.Err() == nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Publish(ctx, Event{ID: "e2", Type: EventInvitationIssued})
	d.Wait()

	require.True(t, seen.Load())
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	t.Parallel()

	d := NewAsyncDispatcher(nil)
	d.Publish(context.Background(), Event{Type: EventInvitationRedeemed})
	d.Wait()
}
