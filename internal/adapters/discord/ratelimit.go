package discord

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultClickWindow = time.Second

// ClickLimiter frena el doble click sobre botones.
type ClickLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type memoryLimiter struct {
	mu   sync.Mutex
	next map[string]time.Time
	win  time.Duration
	now  func() time.Time
}

func NewMemoryLimiter(window time.Duration) ClickLimiter {
	return &memoryLimiter{next: map[string]time.Time{}, win: window, now: time.Now}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.next[key]; ok && now.Before(until) {
		return false
	}
	l.next[key] = now.Add(l.win)
	// limpieza perezosa para que el mapa no crezca sin límite
	if len(l.next) > 1024 {
		for k, until := range l.next {
			if !now.Before(until) {
				delete(l.next, k)
			}
		}
	}
	return true
}

// redisLimiter comparte la ventana entre réplicas del bot con SET NX PX.
type redisLimiter struct {
	rdb redis.Cmdable
	win time.Duration
	log *zap.Logger
}

func NewRedisLimiter(rdb redis.Cmdable, window time.Duration, log *zap.Logger) ClickLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &redisLimiter{rdb: rdb, win: window, log: log}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) bool {
	ok, err := l.rdb.SetNX(ctx, "click:"+key, 1, l.win).Result()
	if err != nil {
		// sin redis dejamos pasar
		l.log.Warn("click limiter", zap.String("key", key), zap.Error(err))
		return true
	}
	return ok
}
