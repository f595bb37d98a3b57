package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"coursegen/internal/models"
	"coursegen/internal/util"
)

const (
	// DefaultTTL is how long a chapter's video pick stays valid.
	DefaultTTL = 6 * time.Hour

	cleanupInterval = time.Minute
	redisKeyPrefix  = "coursegen:video:"
	redisTimeout    = 3 * time.Second
)

type entry struct {
	value     models.ChapterVideo
	expiresAt time.Time
}

// VideoCache is a TTL cache of chapter video picks keyed by "{courseName}::{query}".
// L1 lives in process memory; an optional Redis L2 survives restarts.
type VideoCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry
	rdb     *redis.Client
	group   singleflight.Group
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
	logger  *util.Logger
}

// NewVideoCache creates the cache and starts its cleanup routine. redisURL may
// be empty; an invalid or unreachable Redis disables L2.
func NewVideoCache(ttl time.Duration, redisURL string) *VideoCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &VideoCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
		logger:  util.NewLogger("VideoCache"),
	}
	c.rdb = c.connectRedis(redisURL)

	go c.cleanupCacheRoutine()

	return c
}

func (c *VideoCache) connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		c.logger.Warn("invalid redis URL, L2 disabled", err)
		return nil
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.logger.Warn("redis unreachable, L2 disabled", err)
		_ = rdb.Close()
		return nil
	}
	c.logger.KeyValue("msg", "L2 redis connected", "addr", opts.Addr)
	return rdb
}

// Get returns a live entry. Expired entries are evicted and reported as misses.
func (c *VideoCache) Get(ctx context.Context, key string) (models.ChapterVideo, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		if c.now().Before(e.expiresAt) {
			return e.value, true
		}
		c.mu.Lock()
		if cur, still := c.entries[key]; still && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}

	if c.rdb == nil {
		return models.ChapterVideo{}, false
	}

	data, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("L2 get failed: %v", err)
		}
		return models.ChapterVideo{}, false
	}
	var v models.ChapterVideo
	if err := json.Unmarshal(data, &v); err != nil {
		return models.ChapterVideo{}, false
	}
	c.storeL1(key, v)
	return v, true
}

// Set stores value with the cache TTL in both tiers.
func (c *VideoCache) Set(ctx context.Context, key string, value models.ChapterVideo) {
	c.storeL1(key, value)

	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Debug("L2 set failed: %v", err)
	}
}

// Lookup is the outcome of computing a chapter's video on a cache miss.
type Lookup struct {
	Video models.ChapterVideo
	// Warning is the first search failure reason seen while computing Video.
	Warning string
	// Store marks Video as safe to cache.
	Store bool
}

// Do runs fn once for concurrent callers sharing key and hands each the same
// result. A lookup marked Store is written to the cache before returning, even
// when the caller that started it has gone away.
func (c *VideoCache) Do(ctx context.Context, key string, fn func() (Lookup, error)) (Lookup, error) {
	storeCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		res, err := fn()
		if err == nil && res.Store {
			setCtx, cancel := context.WithTimeout(storeCtx, redisTimeout)
			defer cancel()
			c.Set(setCtx, key, res.Video)
		}
		return res, err
	})
	if err != nil {
		return Lookup{}, err
	}
	return v.(Lookup), nil
}

// Close stops the cleanup routine and releases the Redis client.
func (c *VideoCache) Close() error {
	var err error
	c.once.Do(func() {
		close(c.stop)
		if c.rdb != nil {
			err = c.rdb.Close()
		}
	})
	return err
}

func (c *VideoCache) storeL1(key string, value models.ChapterVideo) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *VideoCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *VideoCache) cleanupCacheRoutine() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}
