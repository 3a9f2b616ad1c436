package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staffing-board/internal/notify"
	"github.com/spec-kit/staffing-board/internal/observability"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Message
	fail map[string]bool
}

func (s *recordingSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[msg.ID] {
		return errors.New("relay unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestNotificationWorkerDrainsAndDropsFailures(t *testing.T) {
	t.Parallel()

	outbox := notify.NewMemoryOutbox(8)
	sender := &recordingSender{fail: map[string]bool{"2": true}}
	metrics := observability.NewMetrics()
	w := NewNotificationWorker(outbox, sender, metrics, nil)

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, outbox.Enqueue(context.Background(), notify.Message{ID: id, To: "a@example.com"}))
	}
	outbox.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Run(ctx))

	require.Len(t, sender.sent, 2)
	require.Equal(t, "1", sender.sent[0].ID)
	require.Equal(t, "3", sender.sent[1].ID)

	snap := metrics.Snapshot()
	require.Equal(t, int64(2), snap.Notifications["sent"])
	require.Equal(t, int64(1), snap.Notifications["failed"])
}

func TestNotificationWorkerStopsOnCancel(t *testing.T) {
	t.Parallel()

	outbox := notify.NewMemoryOutbox(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := StartNotificationWorker(ctx, nil, NewNotificationWorker(outbox, &recordingSender{}, nil, nil))
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
