package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
)

const (
	keyPrefix            = "field-booking:slot-lock"
	defaultRetryInterval = 50 * time.Millisecond
)

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу токена
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

var (
	// ErrLockNotAcquired возвращается, если блокировку не удалось получить за отведенное время
	ErrLockNotAcquired = errors.New("locker: lock not acquired")

	// ErrLockBackend возвращается при ошибке Redis
	ErrLockBackend = errors.New("locker: backend error")
)

// ReleaseFunc снимает блокировку
type ReleaseFunc func(ctx context.Context) error

// Client подмножество команд Redis, необходимое блокировке
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// SlotKey ключ блокировки для пары (поле, дата)
func SlotKey(fieldID int64, date time.Time) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, fieldID, date.Format(domain.DateFormat))
}

// RedisLocker взаимное исключение на основе SET NX PX
type RedisLocker struct {
	client        Client
	ttl           time.Duration
	wait          time.Duration
	retryInterval time.Duration
}

// NewRedisLocker создает блокировку. ttl ограничивает время владения, wait - время ожидания.
func NewRedisLocker(client Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client:        client,
		ttl:           ttl,
		wait:          wait,
		retryInterval: defaultRetryInterval,
	}
}

// Lock захватывает ключ, повторяя попытки до истечения wait или отмены ctx
func (l *RedisLocker) Lock(ctx context.Context, key string) (ReleaseFunc, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: SETNX %s: %v", ErrLockBackend, key, err)
		}
		if ok {
			return l.releaser(key, token), nil
		}

		if !time.Now().Add(l.retryInterval).Before(deadline) {
			return nil, fmt.Errorf("%w: %s held by another request", ErrLockNotAcquired, key)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrLockNotAcquired, key, ctx.Err())
		case <-time.After(l.retryInterval):
		}
	}
}

func (l *RedisLocker) releaser(key, token string) ReleaseFunc {
	return func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("%w: release %s: %v", ErrLockBackend, key, err)
		}
		return nil
	}
}

// NopLocker блокировка-заглушка, когда Redis отключен.
// Целостность в этом случае обеспечивают транзакция и ограничения БД.
type NopLocker struct{}

func (NopLocker) Lock(ctx context.Context, key string) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}
