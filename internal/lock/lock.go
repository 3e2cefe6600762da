package lock

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/redis/go-redis/v9"
)

// ErrLockUnavailable 资源已被其他持有者占用；高频且预期内，调用方按 no-op 处理
var ErrLockUnavailable = errors.New("lock unavailable")

// 只删除自己持有的锁，token 不匹配说明 TTL 已过期且被他人重新持有
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock 短 TTL 互斥锁：SET NX PX 抢占，Lua 比对 token 释放
type RedisLock struct {
    client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
    return &RedisLock{client: client}
}

// Acquire 抢占 resource，成功返回释放用的 token
func (l *RedisLock) Acquire(ctx context.Context, resource string, ttl time.Duration) (string, error) {
    token := uuid.New().String()
    ok, err := l.client.SetNX(ctx, resource, token, ttl).Result()
    if err != nil {
        return "", fmt.Errorf("acquire lock %s: %w", resource, err)
    }
    if !ok {
        return "", ErrLockUnavailable
    }
    return token, nil
}

// Release 释放 resource；token 不匹配（锁已过期易主）时静默返回
func (l *RedisLock) Release(ctx context.Context, resource, token string) error {
    if err := releaseScript.Run(ctx, l.client, []string{resource}, token).Err(); err != nil {
        return fmt.Errorf("release lock %s: %w", resource, err)
    }
    return nil
}
