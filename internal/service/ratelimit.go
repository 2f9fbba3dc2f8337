package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CheckAndSetRateLimit reserves the rate-limit slot for an action. It
// returns false when the user is still inside the cooldown window. A nil
// client disables limiting.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := rateLimitKey(userID, action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// GetRateLimitTTL returns the remaining cooldown for an action.
func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, rateLimitKey(userID, action)).Result()
}

// ClearRateLimit releases the slot early, used when the guarded operation
// fails after the slot was taken.
func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, rateLimitKey(userID, action)).Result()
	return err
}

func rateLimitKey(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}
