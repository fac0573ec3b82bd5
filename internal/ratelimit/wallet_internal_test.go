package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/trait-inventory/internal/testutil"
)

func newLocalOnlyLimiter(t *testing.T, cfg Config, clock *testutil.Clock) *walletLimiter {
	t.Helper()
	cfg.EnableLocalFallback = true
	require.NoError(t, validateConfig(&cfg))
	return &walletLimiter{
		config: cfg,
		clock:  clock,
		local:  make(map[string]*localLimiter),
		stopCh: make(chan struct{}),
	}
}

func TestAllowLocal_PrunesIdleWallets(t *testing.T) {
	clock := testutil.NewClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	l := newLocalOnlyLimiter(t, Config{ReservationsPerMinute: 60, Burst: 2}, clock)

	assert.True(t, l.allowLocal("wallet-a").Allowed)
	assert.True(t, l.allowLocal("wallet-b").Allowed)
	require.Len(t, l.local, 2)

	// Burst 2 at one token per second refills in two seconds
	clock.Advance(time.Second)
	assert.True(t, l.allowLocal("wallet-b").Allowed)
	clock.Advance(time.Second)

	l.mu.Lock()
	pruned := l.pruneIdleLocked(clock.Now())
	l.mu.Unlock()

	assert.Equal(t, 1, pruned)
	assert.NotContains(t, l.local, "wallet-a")
	assert.Contains(t, l.local, "wallet-b")
}

func TestAllowLocal_BoundedWalletCount(t *testing.T) {
	clock := testutil.NewClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	l := newLocalOnlyLimiter(t, Config{ReservationsPerMinute: 1, Burst: 1, MaxLocalWallets: 2}, clock)

	for _, wallet := range []string{"wallet-a", "wallet-b", "wallet-c"} {
		assert.True(t, l.allowLocal(wallet).Allowed)
		clock.Advance(100 * time.Millisecond)
	}

	assert.Len(t, l.local, 2)
	assert.NotContains(t, l.local, "wallet-a")

	// Tracked wallets keep their limits
	decision := l.allowLocal("wallet-c")
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, 50*time.Second)
}

func TestValidateConfig_Defaults(t *testing.T) {
	cfg := Config{ReservationsPerMinute: 5}
	require.NoError(t, validateConfig(&cfg))

	assert.Equal(t, 5, cfg.Burst)
	assert.Equal(t, DEFAULT_KEY_PREFIX, cfg.KeyPrefix)
	assert.Equal(t, DEFAULT_HEALTH_CHECK_INTERVAL, cfg.HealthCheckInterval)
	assert.Equal(t, DEFAULT_MAX_LOCAL_WALLETS, cfg.MaxLocalWallets)
}
