package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/logger"
)

const (
	DEFAULT_KEY_PREFIX            = "reserve:"
	DEFAULT_HEALTH_CHECK_INTERVAL = 10 * time.Second
	DEFAULT_MAX_LOCAL_WALLETS     = 10000
)

// Config holds the per-wallet reservation throttle settings
type Config struct {
	ReservationsPerMinute int
	Burst                 int
	EnableLocalFallback   bool
	KeyPrefix             string
	HealthCheckInterval   time.Duration
	MaxLocalWallets       int // Upper bound of wallets tracked by the local fallback
}

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// WalletLimiter throttles reservation requests per wallet
//
//go:generate mockgen -source=wallet.go -destination=../mocks/wallet_limiter.go -package=mocks -mock_names=WalletLimiter=MockWalletLimiter
type WalletLimiter interface {
	// Allow consumes one request token of walletAddress
	Allow(ctx context.Context, walletAddress string) (*Decision, error)

	// Close stops the health monitor and closes the Redis connection
	Close() error
}

type walletLimiter struct {
	config         Config
	redis          adapter.RedisClient
	distributed    adapter.RedisRateLimiter
	clock          adapter.Clock
	redisAvailable atomic.Bool

	mu    sync.Mutex
	local map[string]*localLimiter

	stopCh    chan struct{}
	closeOnce sync.Once
}

type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewWalletLimiter creates a Redis backed limiter. When Redis cannot be reached
// and local fallback is enabled, limits are enforced per process until it recovers.
func NewWalletLimiter(cfg Config, rc adapter.RedisClient, clock adapter.Clock) (WalletLimiter, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisAvailable := true
	if err := rc.Ping(ctx); err != nil {
		redisAvailable = false
		if !cfg.EnableLocalFallback {
			return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
		}
		logger.Warn("Redis unavailable, will use local fallback", zap.Error(err))
	}

	l := &walletLimiter{
		config:      cfg,
		redis:       rc,
		distributed: rc.NewRateLimiter(),
		clock:       clock,
		local:       make(map[string]*localLimiter),
		stopCh:      make(chan struct{}),
	}
	l.redisAvailable.Store(redisAvailable)

	go l.monitorRedisHealth()

	logger.Info("Wallet rate limiter initialized",
		zap.Int("reservations_per_minute", cfg.ReservationsPerMinute),
		zap.Int("burst", cfg.Burst),
		zap.Bool("local_fallback", cfg.EnableLocalFallback),
	)

	return l, nil
}

func (l *walletLimiter) Allow(ctx context.Context, walletAddress string) (*Decision, error) {
	if l.redisAvailable.Load() {
		res, err := l.distributed.Allow(ctx, l.config.KeyPrefix+walletAddress, redis_rate.Limit{
			Rate:   l.config.ReservationsPerMinute,
			Burst:  l.config.Burst,
			Period: time.Minute,
		})
		if err == nil {
			return &Decision{Allowed: res.Allowed > 0, RetryAfter: retryAfter(res)}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		l.redisAvailable.Store(false)
		if !l.config.EnableLocalFallback {
			return nil, fmt.Errorf("redis rate limiter unavailable: %w", err)
		}
		logger.WarnCtx(ctx, "Redis rate limiter error, falling back to local",
			zap.String("walletAddress", walletAddress),
			zap.Error(err),
		)
	}

	if !l.config.EnableLocalFallback {
		return nil, fmt.Errorf("redis rate limiter unavailable")
	}
	return l.allowLocal(walletAddress), nil
}

func retryAfter(res *redis_rate.Result) time.Duration {
	if res.Allowed > 0 || res.RetryAfter < 0 {
		return 0
	}
	return res.RetryAfter
}

// allowLocal checks the in-process limiter of the wallet without waiting
func (l *walletLimiter) allowLocal(walletAddress string) *Decision {
	now := l.clock.Now()

	l.mu.Lock()
	entry, ok := l.local[walletAddress]
	if !ok {
		if len(l.local) >= l.config.MaxLocalWallets {
			l.pruneIdleLocked(now)
		}
		if len(l.local) >= l.config.MaxLocalWallets {
			l.evictOldestLocked()
		}
		entry = &localLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.config.ReservationsPerMinute)), l.config.Burst),
		}
		l.local[walletAddress] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return &Decision{Allowed: false, RetryAfter: time.Minute}
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return &Decision{Allowed: true}
	}
	reservation.CancelAt(now)
	return &Decision{Allowed: false, RetryAfter: delay}
}

// refillPeriod is how long a limiter takes to get its full burst back. A limiter idle
// for that long is indistinguishable from a new one.
func (l *walletLimiter) refillPeriod() time.Duration {
	return time.Minute / time.Duration(l.config.ReservationsPerMinute) * time.Duration(l.config.Burst)
}

// pruneIdleLocked drops limiters not used within a refill period. l.mu must be held.
func (l *walletLimiter) pruneIdleLocked(now time.Time) int {
	idle := l.refillPeriod()
	pruned := 0
	for wallet, entry := range l.local {
		if now.Sub(entry.lastSeen) >= idle {
			delete(l.local, wallet)
			pruned++
		}
	}
	return pruned
}

// evictOldestLocked drops the least recently used limiter. l.mu must be held.
func (l *walletLimiter) evictOldestLocked() {
	var oldestWallet string
	var oldest time.Time
	for wallet, entry := range l.local {
		if oldestWallet == "" || entry.lastSeen.Before(oldest) {
			oldestWallet, oldest = wallet, entry.lastSeen
		}
	}
	delete(l.local, oldestWallet)
}

// monitorRedisHealth periodically checks Redis and switches back to the distributed limiter once it recovers
func (l *walletLimiter) monitorRedisHealth() {
	for {
		select {
		case <-l.stopCh:
			return
		case <-l.clock.After(l.config.HealthCheckInterval):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := l.redis.Ping(ctx)
		cancel()

		available := err == nil
		wasAvailable := l.redisAvailable.Swap(available)
		if !wasAvailable && available {
			logger.Info("Redis connection restored")
			l.mu.Lock()
			l.local = make(map[string]*localLimiter)
			l.mu.Unlock()
			continue
		}

		if !available {
			l.mu.Lock()
			pruned := l.pruneIdleLocked(l.clock.Now())
			l.mu.Unlock()
			if pruned > 0 {
				logger.Debug("Pruned idle local rate limiters", zap.Int("count", pruned))
			}
		}
	}
}

func (l *walletLimiter) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.stopCh)
		if closeErr := l.redis.Close(); closeErr != nil {
			logger.Warn("Error closing Redis connection", zap.Error(closeErr))
			err = closeErr
		}
	})
	return err
}

func validateConfig(cfg *Config) error {
	if cfg.ReservationsPerMinute <= 0 {
		return fmt.Errorf("reservations_per_minute must be positive")
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.ReservationsPerMinute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DEFAULT_KEY_PREFIX
	}
	if cfg.HealthCheckInterval <= 0 {
		cfg.HealthCheckInterval = DEFAULT_HEALTH_CHECK_INTERVAL
	}
	if cfg.MaxLocalWallets <= 0 {
		cfg.MaxLocalWallets = DEFAULT_MAX_LOCAL_WALLETS
	}
	return nil
}

type unlimited struct{}

// NewUnlimited returns a limiter that allows every request. It is used when Redis is not configured.
func NewUnlimited() WalletLimiter {
	return unlimited{}
}

func (unlimited) Allow(context.Context, string) (*Decision, error) {
	return &Decision{Allowed: true}, nil
}

func (unlimited) Close() error {
	return nil
}
