package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailbridge/stylesync/internal/port"
)

const (
	decrementQueueKey  = "stylesync:decrements"
	deadLetterQueueKey = "stylesync:decrements:dead"
	defaultPollTimeout = 2 * time.Second
)

// RedisDecrementQueue is a durable list-backed queue of pending stock
// decrements, giving the webhook path at-least-once delivery into the
// record system.
type RedisDecrementQueue struct {
	client      *redis.Client
	pollTimeout time.Duration
}

func NewRedisDecrementQueue(client *redis.Client) *RedisDecrementQueue {
	return &RedisDecrementQueue{client: client, pollTimeout: defaultPollTimeout}
}

func (q *RedisDecrementQueue) Enqueue(ctx context.Context, job port.StockDecrement) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode decrement job: %w", err)
	}
	return q.client.LPush(ctx, decrementQueueKey, payload).Err()
}

// Dequeue blocks up to the poll timeout and returns nil, nil when nothing
// arrived, so workers can observe context cancellation between polls.
func (q *RedisDecrementQueue) Dequeue(ctx context.Context) (*port.StockDecrement, error) {
	result, err := q.client.BRPop(ctx, q.pollTimeout, decrementQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// BRPop returns [key, value]
	var job port.StockDecrement
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("decode decrement job: %w", err)
	}
	return &job, nil
}

func (q *RedisDecrementQueue) DeadLetter(ctx context.Context, job port.StockDecrement) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode decrement job: %w", err)
	}
	return q.client.LPush(ctx, deadLetterQueueKey, payload).Err()
}

// DeadLetterLength reports how many jobs are parked, for operators and
// tests.
func (q *RedisDecrementQueue) DeadLetterLength(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, deadLetterQueueKey).Result()
}
