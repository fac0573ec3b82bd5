package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	if content == "" {
		return filepath.Join(tmpDir, "nonexistent.yaml")
	}
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  port: 9090
database:
  host: localhost
  port: 5433
  read_host: replica
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
inventory:
  reservation_ttl: "20m"
  max_active_reservations_per_wallet: 3
  max_traits_per_request: 5
  bulk_cancel_concurrency: 4
  treasury_wallet: "Treasury111"
nats:
  url: "nats://localhost:4222"
redis:
  addr: "localhost:6379"
rate_limit:
  reservations_per_minute: 60
  burst: 20
auth:
  api_keys:
    - key-1
    - key-2
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, 20*time.Minute, cfg.Inventory.ReservationTTL)
				assert.Equal(t, 3, cfg.Inventory.MaxActiveReservationsPerWallet)
				assert.Equal(t, 5, cfg.Inventory.MaxTraitsPerRequest)
				assert.Equal(t, 4, cfg.Inventory.BulkCancelConcurrency)
				assert.Equal(t, "Treasury111", cfg.Inventory.TreasuryWallet)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
				assert.Equal(t, 60, cfg.RateLimit.ReservationsPerMinute)
				assert.Equal(t, 20, cfg.RateLimit.Burst)
				assert.Equal(t, []string{"key-1", "key-2"}, cfg.Auth.APIKeys)
				assert.Equal(t, "host=replica port=5433 user=testuser password=testpass dbname=testdb sslmode=require", cfg.Database.ReadDSN())
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  dbname: testdb
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 500*time.Millisecond, cfg.Database.SlowThreshold)
				assert.Equal(t, 15*time.Minute, cfg.Inventory.ReservationTTL)
				assert.Equal(t, 10, cfg.Inventory.MaxActiveReservationsPerWallet)
				assert.Equal(t, 10, cfg.Inventory.MaxTraitsPerRequest)
				assert.Equal(t, 8, cfg.Inventory.BulkCancelConcurrency)
				assert.Equal(t, "PURCHASES", cfg.NATS.StreamName)
				assert.Equal(t, 5*time.Second, cfg.NATS.PublishTimeout)
				assert.Equal(t, 30, cfg.RateLimit.ReservationsPerMinute)
				assert.True(t, cfg.RateLimit.EnableLocalFallback)
				assert.Equal(t, 10000, cfg.RateLimit.MaxLocalWallets)
				assert.Empty(t, cfg.Redis.Addr)
				assert.Empty(t, cfg.Database.ReadDSN())
			},
		},
		{
			name: "missing config file uses defaults",
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, 15*time.Minute, cfg.Inventory.ReservationTTL)
			},
		},
		{
			name: "non-positive ttl",
			configFile: `
inventory:
  reservation_ttl: "0s"
`,
			expectError: true,
		},
		{
			name: "invalid yaml",
			configFile: `
				database:
				  host: localhost
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadAPIConfig(writeConfig(t, tt.configFile), t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadSweeperConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *SweeperConfig)
	}{
		{
			name: "defaults",
			configFile: `
database:
  host: localhost
  dbname: testdb
`,
			validate: func(t *testing.T, cfg *SweeperConfig) {
				assert.Equal(t, time.Minute, cfg.CleanupSweeper.Interval)
				assert.Equal(t, 5, cfg.Database.MaxOpenConns)
				assert.Equal(t, 2, cfg.Database.MaxIdleConns)
				assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
			},
		},
		{
			name: "custom interval",
			configFile: `
database:
  host: localhost
  dbname: testdb
cleanup_sweeper:
  interval: "30s"
`,
			validate: func(t *testing.T, cfg *SweeperConfig) {
				assert.Equal(t, 30*time.Second, cfg.CleanupSweeper.Interval)
			},
		},
		{
			name: "missing database host",
			configFile: `
database:
  dbname: testdb
`,
			expectError: true,
		},
		{
			name: "missing database name",
			configFile: `
database:
  host: localhost
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadSweeperConfig(writeConfig(t, tt.configFile), t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadPurchaseBridgeConfig(t *testing.T) {
	cfg, err := LoadPurchaseBridgeConfig(writeConfig(t, `
database:
  host: localhost
  dbname: testdb
nats:
  stream_name: "PURCHASES_TEST"
retry:
  max_elapsed_time: "1m"
`), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "PURCHASES_TEST", cfg.NATS.StreamName)
	assert.Equal(t, "purchase-bridge", cfg.NATS.ConsumerName)
	assert.Equal(t, 30*time.Second, cfg.NATS.AckWait)
	assert.Equal(t, 5, cfg.NATS.MaxDeliver)
	assert.Equal(t, 200*time.Millisecond, cfg.Retry.InitialInterval)
	assert.Equal(t, 5*time.Second, cfg.Retry.MaxInterval)
	assert.Equal(t, time.Minute, cfg.Retry.MaxElapsedTime)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "with special characters in password",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "p@ssw0rd!",
				DBName:   "testdb",
				SSLMode:  "disable",
			},
			expected: "host=localhost port=5432 user=testuser password=p@ssw0rd! dbname=testdb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestDatabaseConfig_ReadDSN_FallsBackToPrimaryPort(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "primary",
		Port:     6543,
		ReadHost: "replica",
		User:     "u",
		Password: "p",
		DBName:   "db",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=replica port=6543 user=u password=p dbname=db sslmode=disable", cfg.ReadDSN())

	cfg.ReadPort = 7654
	assert.Equal(t, "host=replica port=7654 user=u password=p dbname=db sslmode=disable", cfg.ReadDSN())
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	envDir := filepath.Join(tmpDir, "env")
	require.NoError(t, os.MkdirAll(envDir, 0750))

	// godotenv.Overload sets real process env vars; clear them after the test
	envVars := map[string]string{
		"TRAIT_INVENTORY_DEBUG":                     "true",
		"TRAIT_INVENTORY_DATABASE_HOST":             "env-host",
		"TRAIT_INVENTORY_DATABASE_PORT":             "3306",
		"TRAIT_INVENTORY_INVENTORY_RESERVATION_TTL": "5m",
		"TRAIT_INVENTORY_INVENTORY_TREASURY_WALLET": "EnvTreasury",
	}
	var envContent string
	for k, v := range envVars {
		envContent += k + "=" + v + "\n"
		key := k
		t.Cleanup(func() { _ = os.Unsetenv(key) })
	}
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"), []byte(envContent), 0600))

	configPath := writeConfig(t, `
debug: false
database:
  host: file-host
  port: 5432
inventory:
  reservation_ttl: "15m"
`)

	cfg, err := LoadAPIConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 5*time.Minute, cfg.Inventory.ReservationTTL)
	assert.Equal(t, "EnvTreasury", cfg.Inventory.TreasuryWallet)
}
