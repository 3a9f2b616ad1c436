// Package notify carries outbound notifications from the services that
// produce them to the worker that delivers them.
package notify

import (
	"context"
	"errors"
	"time"
)

// Message is a rendered notification.
type Message struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	To        string    `json:"to"`
	From      string    `json:"from,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrOutboxFull is returned when a bounded outbox cannot take more messages.
var ErrOutboxFull = errors.New("notification outbox full")

// ErrOutboxClosed is returned by Dequeue once the outbox will yield nothing more.
var ErrOutboxClosed = errors.New("notification outbox closed")

// Outbox is the queue between producers and the delivery worker.
type Outbox interface {
	Enqueue(ctx context.Context, msg Message) error
	// Dequeue blocks until a message is available, the outbox is closed or
	// ctx is done. ok is false on a poll timeout with nothing to deliver.
	Dequeue(ctx context.Context) (msg Message, ok bool, err error)
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
