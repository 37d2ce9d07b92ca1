package storage

import (
	"context"
	"time"

	"github.com/h2go-next/internal/cache"
)

// Redis 基于 internal/cache 的存储，槽位过期交给 TTL
type Redis struct {
	ttl time.Duration
}

// NewRedis 创建 Redis 存储，ttl<=0 表示不过期
func NewRedis(ttl time.Duration) *Redis {
	if ttl < 0 {
		ttl = 0
	}
	return &Redis{ttl: ttl}
}

// Get 读取槽位
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	if !cache.Enabled() {
		return "", false, ErrBackendUnavailable
	}
	return cache.GetString(ctx, key)
}

// Set 写入槽位并刷新 TTL
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if !cache.Enabled() {
		return ErrBackendUnavailable
	}
	return cache.SetString(ctx, key, value, r.ttl)
}

// Delete 删除槽位
func (r *Redis) Delete(ctx context.Context, key string) error {
	if !cache.Enabled() {
		return ErrBackendUnavailable
	}
	return cache.Del(ctx, key)
}
