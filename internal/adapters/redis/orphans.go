package redisad

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const orphanKey = "payments:orphaned-intents"

// OrphanQueue is a Redis set of payment-intent ids; pushing the same id
// twice keeps one entry.
type OrphanQueue struct{ c *redis.Client }

func NewOrphanQueue(c *redis.Client) *OrphanQueue { return &OrphanQueue{c: c} }

func (q *OrphanQueue) Push(ctx context.Context, id string) error {
	return q.c.SAdd(ctx, orphanKey, id).Err()
}

func (q *OrphanQueue) Pop(ctx context.Context, n int) ([]string, error) {
	ids, err := q.c.SPopN(ctx, orphanKey, int64(n)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return ids, err
}

func (q *OrphanQueue) Len(ctx context.Context) (int64, error) {
	return q.c.SCard(ctx, orphanKey).Result()
}
