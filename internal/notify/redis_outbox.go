package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOutbox keeps pending messages in a Redis list so they survive a
// process restart and can be drained by any replica.
type RedisOutbox struct {
	client      redis.UniversalClient
	key         string
	pollTimeout time.Duration
}

// NewRedisOutbox builds an outbox on the list named key.
func NewRedisOutbox(client redis.UniversalClient, key string, pollTimeout time.Duration) *RedisOutbox {
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &RedisOutbox{client: client, key: key, pollTimeout: pollTimeout}
}

func (o *RedisOutbox) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return o.client.LPush(ctx, o.key, payload).Err()
}

func (o *RedisOutbox) Dequeue(ctx context.Context) (Message, bool, error) {
	res, err := o.client.BRPop(ctx, o.pollTimeout, o.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Message{}, false, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Message{}, false, ctxErr
		}
		return Message{}, false, err
	}
	if len(res) != 2 {
		return Message{}, false, fmt.Errorf("unexpected BRPOP reply of %d elements", len(res))
	}

	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return Message{}, false, fmt.Errorf("decode notification: %w", err)
	}
	return msg, true, nil
}
