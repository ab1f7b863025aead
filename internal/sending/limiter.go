// Package sending enforces the WhatsApp outbound quota. The bridge account
// gets flagged when daily volume spikes, so campaign sends reserve quota
// before any message leaves the system.
package sending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQuotaExceeded is returned when a reservation would push the day's send
// count over the configured limit.
var ErrQuotaExceeded = errors.New("daily send quota exceeded")

// QuotaConfig configures the limiter. A DailyLimit of zero or less disables
// enforcement entirely.
type QuotaConfig struct {
	DailyLimit int
	KeyPrefix  string
}

// reserveLuaScript atomically checks and increments the day's counter so two
// concurrent campaign sends cannot both squeeze under the limit.
const reserveLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local n = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local current = tonumber(redis.call("GET", key) or "0")
if current + n > limit then
    return 0
end

local new = redis.call("INCRBY", key, n)
if new == n then
    redis.call("EXPIRE", key, ttl)
end
return 1
`

// Counter keys are date-scoped; the TTL just keeps stale days from
// accumulating.
const counterTTL = 48 * time.Hour

// Limiter is a Redis-backed daily send counter. Safe for concurrent use.
type Limiter struct {
	redis         *redis.Client
	cfg           QuotaConfig
	reserveScript *redis.Script
	now           func() time.Time
}

// NewLimiter creates a quota limiter on the given Redis client.
func NewLimiter(redisClient *redis.Client, cfg QuotaConfig) *Limiter {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "crm:quota:sends"
	}
	return &Limiter{
		redis:         redisClient,
		cfg:           cfg,
		reserveScript: redis.NewScript(reserveLuaScript),
		now:           time.Now,
	}
}

// Allow reserves n sends against today's quota. Returns ErrQuotaExceeded
// without consuming anything when the reservation does not fit.
func (l *Limiter) Allow(ctx context.Context, n int) error {
	if l.cfg.DailyLimit <= 0 || n <= 0 {
		return nil
	}
	ok, err := l.reserveScript.Run(ctx, l.redis,
		[]string{l.key()},
		l.cfg.DailyLimit, n, int(counterTTL.Seconds()),
	).Int()
	if err != nil {
		return fmt.Errorf("reserve quota: %w", err)
	}
	if ok == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// Refund returns n unused reservations, typically after messages failed at
// the bridge.
func (l *Limiter) Refund(ctx context.Context, n int) error {
	if l.cfg.DailyLimit <= 0 || n <= 0 {
		return nil
	}
	if err := l.redis.DecrBy(ctx, l.key(), int64(n)).Err(); err != nil {
		return fmt.Errorf("refund quota: %w", err)
	}
	return nil
}

// Used returns the number of sends reserved so far today.
func (l *Limiter) Used(ctx context.Context) (int, error) {
	n, err := l.redis.Get(ctx, l.key()).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read quota: %w", err)
	}
	return n, nil
}

func (l *Limiter) key() string {
	return fmt.Sprintf("%s:%s", l.cfg.KeyPrefix, l.now().UTC().Format("2006-01-02"))
}
