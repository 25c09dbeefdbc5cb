package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ProfessionalLocker serializes booking commits per professional. It is a
// best-effort narrowing of the check-then-act window; the database exclusion
// constraint remains the hard guarantee.
type ProfessionalLocker interface {
	Acquire(ctx context.Context, professionalID uint) (release func(), err error)
}

// ------------------------------
// Redis implementation
// ------------------------------

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    10 * time.Second,
	}
}

var releaseScript = redis.NewScript(`
    if redis.call("get", KEYS[1]) == ARGV[1] then
        return redis.call("del", KEYS[1])
    end
    return 0
`)

func (l *RedisLocker) Acquire(ctx context.Context, professionalID uint) (func(), error) {
	key := fmt.Sprintf("booking:lock:professional:%d", professionalID)
	token := uuid.NewString()

	deadline := time.Now().Add(3 * time.Second)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("professional %d booking lock busy", professionalID)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}

	release := func() {
		// Only the holder's token may delete the key, so an expired lock
		// re-acquired by another request is never released by us.
		_ = releaseScript.Run(context.Background(), l.client, []string{key}, token).Err()
	}

	return release, nil
}

// ------------------------------
// No-op implementation
// ------------------------------

// NoopLocker is used when Redis is not deployed. Conflict safety then rests
// entirely on the transactional re-check plus the storage constraint.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, professionalID uint) (func(), error) {
	return func() {}, nil
}

func ForClient(client *redis.Client) ProfessionalLocker {
	if client == nil {
		return NoopLocker{}
	}
	return NewRedisLocker(client)
}
