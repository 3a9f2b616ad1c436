package notify

import (
	"context"
	"sync"
)

// MemoryOutbox is a bounded in-process queue. Enqueue never blocks.
type MemoryOutbox struct {
	ch        chan Message
	closeOnce sync.Once
	closed    chan struct{}
}

// NewMemoryOutbox returns an outbox holding at most size pending messages.
func NewMemoryOutbox(size int) *MemoryOutbox {
	if size <= 0 {
		size = 1
	}
	return &MemoryOutbox{ch: make(chan Message, size), closed: make(chan struct{})}
}

func (o *MemoryOutbox) Enqueue(_ context.Context, msg Message) error {
	select {
	case <-o.closed:
		return ErrOutboxClosed
	default:
	}
	select {
	case o.ch <- msg:
		return nil
	default:
		return ErrOutboxFull
	}
}

func (o *MemoryOutbox) Dequeue(ctx context.Context) (Message, bool, error) {
	select {
	case msg := <-o.ch:
		return msg, true, nil
	case <-o.closed:
		select {
		case msg := <-o.ch:
			return msg, true, nil
		default:
			return Message{}, false, ErrOutboxClosed
		}
	case <-ctx.Done():
		return Message{}, false, ctx.Err()
	}
}

// Len reports the number of queued messages.
func (o *MemoryOutbox) Len() int {
	return len(o.ch)
}

// Close stops accepting messages; queued ones can still be drained.
func (o *MemoryOutbox) Close() {
	o.closeOnce.Do(func() { close(o.closed) })
}
