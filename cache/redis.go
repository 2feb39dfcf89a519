package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/techmaster-vietnam/schoolkit/config"
	"github.com/techmaster-vietnam/schoolkit/logging"
	"github.com/techmaster-vietnam/schoolkit/models"
	"go.uber.org/zap"
)

const roleKeyPrefix = "schoolkit:role:"

// RedisRoleCache cache role trên Redis, chia sẻ giữa nhiều instance server.
// Lỗi Redis chỉ được log, request vẫn đọc từ repository.
type RedisRoleCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient tạo Redis client từ config
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisRoleCache tạo cache trên client có sẵn
func NewRedisRoleCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisRoleCache {
	return &RedisRoleCache{client: client, ttl: ttl, logger: logging.OrNop(logger)}
}

func roleKey(id uint) string {
	return roleKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

func (c *RedisRoleCache) Get(ctx context.Context, id uint) (*models.Role, bool) {
	val, err := c.client.Get(ctx, roleKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("role cache get failed", zap.Uint("role_id", id), zap.Error(err))
		}
		return nil, false
	}
	var role models.Role
	if err := json.Unmarshal(val, &role); err != nil {
		c.logger.Warn("role cache entry corrupt", zap.Uint("role_id", id), zap.Error(err))
		return nil, false
	}
	return &role, true
}

func (c *RedisRoleCache) Set(ctx context.Context, role *models.Role) {
	if role == nil {
		return
	}
	data, err := json.Marshal(role)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, roleKey(role.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("role cache set failed", zap.Uint("role_id", role.ID), zap.Error(err))
	}
}

func (c *RedisRoleCache) Invalidate(ctx context.Context, id uint) {
	if err := c.client.Del(ctx, roleKey(id)).Err(); err != nil {
		c.logger.Warn("role cache invalidate failed", zap.Uint("role_id", id), zap.Error(err))
	}
}

func (c *RedisRoleCache) Clear(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, roleKeyPrefix+"*", 200).Result()
		if err != nil {
			c.logger.Warn("role cache scan failed", zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("role cache clear failed", zap.Error(err))
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
