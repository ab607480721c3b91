package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis guards house admission: the overlap check and the insert that
// follows it run under a short-lived lock on the (member, house) pair so two
// concurrent requests cannot both pass the check before either writes.
type Redis struct {
	Client *redis.Client
	Logger *log.Logger
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		Client: client,
		Logger: log.Default(),
	}
}

// getAdmissionLockDuration returns the lock TTL from the environment or the default value
func (r *Redis) getAdmissionLockDuration() time.Duration {
	defaultDuration := 30 * time.Second

	lockTTLStr := os.Getenv("BOOKING_LOCK_TTL_SECONDS")
	if lockTTLStr == "" {
		return defaultDuration
	}

	lockTTLSec, err := strconv.Atoi(lockTTLStr)
	if err != nil {
		r.Logger.Println("REDIS: Invalid BOOKING_LOCK_TTL_SECONDS value '" + lockTTLStr + "', using default 30 seconds")
		return defaultDuration
	}

	return time.Duration(lockTTLSec) * time.Second
}

func lockKey(userID, houseID string) string {
	return fmt.Sprintf("booking_lock:%s:%s", userID, houseID)
}

// LockAdmission takes the (member, house) admission lock. Returns false when
// another request for the same pair already holds it.
func (r *Redis) LockAdmission(userID, houseID, bookingID string) (bool, error) {
	ok, err := r.Client.SetNX(context.Background(), lockKey(userID, houseID), bookingID, r.getAdmissionLockDuration()).Result()
	return ok, err
}

// UnlockAdmission releases the lock, but only if this booking still owns it.
// An expired-and-retaken lock belongs to someone else and is left alone.
func (r *Redis) UnlockAdmission(userID, houseID, bookingID string) error {
	ctx := context.Background()
	key := lockKey(userID, houseID)

	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == bookingID {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
