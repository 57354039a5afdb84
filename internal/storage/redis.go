package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCache implements the Cache interface using Redis
type RedisCache struct {
	client *redis.Client
	opts   *CacheOptions
	ctx    context.Context
}

// NewRedisCache creates a new Redis cache instance.
// addr has the form tcp://[:password@]host:port[/db].
func NewRedisCache(addr string, options ...RedisOption) (*RedisCache, error) {
	opts := DefaultCacheOptions()

	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("can't parse url for redis: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("redis url %q has no host", addr)
	}
	var passwd string
	if u.User != nil {
		passwd, _ = u.User.Password()
	}
	db := 0
	if 1 < len(u.Path) {
		db, err = strconv.Atoi(u.Path[1:])
		if err != nil {
			return nil, fmt.Errorf("can't convert redis db %q into int: %w", u.Path[1:], err)
		}
	}
	network := u.Scheme
	if network == "" || network == "redis" {
		network = "tcp"
	}

	client := redis.NewClient(&redis.Options{
		Network:  network,
		Addr:     u.Host,
		Password: passwd,
		DB:       db,
	})

	cache := &RedisCache{
		client: client,
		opts:   opts,
		ctx:    context.Background(),
	}

	// Apply options
	for _, option := range options {
		option(cache)
	}

	// Test connection
	if err := client.Ping(cache.ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return cache, nil
}

// RedisOption is a function that configures Redis cache options
type RedisOption func(*RedisCache)

// WithRedisOptions sets cache options
func WithRedisOptions(opts *CacheOptions) RedisOption {
	return func(rc *RedisCache) {
		rc.opts = opts
	}
}

// WithContext sets the context for cache operations
func WithContext(ctx context.Context) RedisOption {
	return func(rc *RedisCache) {
		rc.ctx = ctx
	}
}

func (rc *RedisCache) SetRatesBackup(envelope *RatesEnvelope) error {
	if envelope == nil {
		return fmt.Errorf("rates envelope is nil")
	}
	return rc.setJSON(ratesBackupKey, envelope)
}

func (rc *RedisCache) GetRatesBackup() (*RatesEnvelope, error) {
	var envelope RatesEnvelope
	found, err := rc.getJSON(ratesBackupKey, &envelope)
	if err != nil || !found {
		return nil, err
	}
	return &envelope, nil
}

func (rc *RedisCache) SetCatalogBackup(backup *CatalogBackup) error {
	if backup == nil {
		return fmt.Errorf("catalog backup is nil")
	}
	return rc.setJSON(catalogBackupKey, backup)
}

func (rc *RedisCache) GetCatalogBackup() (*CatalogBackup, error) {
	var backup CatalogBackup
	found, err := rc.getJSON(catalogBackupKey, &backup)
	if err != nil || !found {
		return nil, err
	}
	return &backup, nil
}

func (rc *RedisCache) AcquireLock(name string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := rc.client.SetNX(rc.ctx, lockKeyPrefix+name, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire %s lock: %w", name, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (rc *RedisCache) ReleaseLock(name, token string) error {
	if token == "" {
		return nil
	}
	if err := releaseScript.Run(rc.ctx, rc.client, []string{lockKeyPrefix + name}, token).Err(); err != nil {
		return fmt.Errorf("failed to release %s lock: %w", name, err)
	}
	return nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

func (rc *RedisCache) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return rc.client.Set(rc.ctx, key, data, rc.opts.DefaultTTL).Err()
}

// getJSON reports found=false without an error when the key is absent.
func (rc *RedisCache) getJSON(key string, dest any) (bool, error) {
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}
