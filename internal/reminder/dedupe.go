package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	claimKeyPrefix = "reminder:"
	// Outlives the minute being claimed, so a late second instance still
	// sees the claim.
	defaultClaimTTL = 2 * time.Minute
)

type setNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisClaimer claims reminders with SET NX on
// reminder:{habit}:{date}:{HH:MM}.
type RedisClaimer struct {
	client setNXer
	ttl    time.Duration
}

func NewRedisClaimer(client *redis.Client, ttl time.Duration) *RedisClaimer {
	return newRedisClaimer(client, ttl)
}

func newRedisClaimer(client setNXer, ttl time.Duration) *RedisClaimer {
	if ttl <= 0 {
		ttl = defaultClaimTTL
	}
	return &RedisClaimer{
		client: client,
		ttl:    ttl,
	}
}

func claimKey(r Reminder) string {
	return claimKeyPrefix + r.HabitID.String() + ":" + r.Date + ":" + r.Time
}

func (c *RedisClaimer) Claim(ctx context.Context, r Reminder) (bool, error) {
	ok, err := c.client.SetNX(ctx, claimKey(r), r.UserID.String(), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder: %w", err)
	}
	return ok, nil
}
