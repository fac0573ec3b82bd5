package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/trait-inventory/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug       bool   `mapstructure:"debug"`
	Environment string `mapstructure:"environment"`
	SentryDSN   string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

// InventoryConfig holds reservation policy settings
type InventoryConfig struct {
	ReservationTTL                 time.Duration `mapstructure:"reservation_ttl"`
	MaxActiveReservationsPerWallet int           `mapstructure:"max_active_reservations_per_wallet"`
	MaxTraitsPerRequest            int           `mapstructure:"max_traits_per_request"`
	BulkCancelConcurrency          int           `mapstructure:"bulk_cancel_concurrency"`
	TreasuryWallet                 string        `mapstructure:"treasury_wallet"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// RedisConfig holds Redis configuration. An empty Addr disables rate limiting.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig holds per-wallet reservation throttling settings
type RateLimitConfig struct {
	ReservationsPerMinute int  `mapstructure:"reservations_per_minute"`
	Burst                 int  `mapstructure:"burst"`
	EnableLocalFallback   bool `mapstructure:"enable_local_fallback"`
	MaxLocalWallets       int  `mapstructure:"max_local_wallets"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// AllowedOrigins restricts CORS; empty allows every origin
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration for privileged endpoints
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// CleanupSweeperConfig holds configuration for the expired reservation sweeper
type CleanupSweeperConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// BackoffConfig holds retry settings for the confirmation bridge
type BackoffConfig struct {
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Inventory  InventoryConfig `mapstructure:"inventory"`
	NATS       NATSConfig      `mapstructure:"nats"`
	Redis      RedisConfig     `mapstructure:"redis"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Auth       AuthConfig      `mapstructure:"auth"`
}

// SweeperConfig holds configuration for the sweeper program
type SweeperConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Database       DatabaseConfig       `mapstructure:"database"`
	CleanupSweeper CleanupSweeperConfig `mapstructure:"cleanup_sweeper"`
}

// PurchaseBridgeConfig holds configuration for purchase-bridge
type PurchaseBridgeConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Retry      BackoffConfig  `mapstructure:"retry"`
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.slow_threshold", "500ms")
}

func setInventoryDefaults(v *viper.Viper) {
	v.SetDefault("inventory.reservation_ttl", domain.DEFAULT_RESERVATION_TTL.String())
	v.SetDefault("inventory.max_active_reservations_per_wallet", domain.DEFAULT_MAX_ACTIVE_RESERVATIONS_PER_WALLET)
	v.SetDefault("inventory.max_traits_per_request", domain.DEFAULT_MAX_TRAITS_PER_REQUEST)
	v.SetDefault("inventory.bulk_cancel_concurrency", 8)
}

func setNATSDefaults(v *viper.Viper, consumer string) {
	v.SetDefault("nats.stream_name", "PURCHASES")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 5)
	v.SetDefault("nats.publish_timeout", "5s")
	if consumer != "" {
		v.SetDefault("nats.consumer_name", consumer)
	}
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("nats.connection_name", "trait-inventory-api")
	v.SetDefault("rate_limit.reservations_per_minute", 30)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("rate_limit.enable_local_fallback", true)
	v.SetDefault("rate_limit.max_local_wallets", 10000)
	setDatabaseDefaults(v)
	setInventoryDefaults(v)
	setNATSDefaults(v, "")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Inventory.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadSweeperConfig loads configuration for the sweeper program
func LoadSweeperConfig(configFile string, envPath string) (*SweeperConfig, error) {
	v := configureViper("sweeper", configFile, envPath)

	setDatabaseDefaults(v)
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("cleanup_sweeper.interval", domain.DEFAULT_CLEANUP_INTERVAL.String())

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg SweeperConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}
	if cfg.CleanupSweeper.Interval <= 0 {
		return nil, errors.New("cleanup_sweeper.interval must be positive")
	}

	return &cfg, nil
}

// LoadPurchaseBridgeConfig loads configuration for purchase-bridge
func LoadPurchaseBridgeConfig(configFile string, envPath string) (*PurchaseBridgeConfig, error) {
	v := configureViper("purchase-bridge", configFile, envPath)

	setDatabaseDefaults(v)
	setNATSDefaults(v, "purchase-bridge")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.connection_name", "trait-inventory-purchase-bridge")
	v.SetDefault("retry.initial_interval", "200ms")
	v.SetDefault("retry.max_interval", "5s")
	v.SetDefault("retry.max_elapsed_time", "30s")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg PurchaseBridgeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}

	return &cfg, nil
}

// Validate checks the reservation policy settings
func (c InventoryConfig) Validate() error {
	if c.ReservationTTL <= 0 {
		return errors.New("inventory.reservation_ttl must be positive")
	}
	if c.MaxActiveReservationsPerWallet <= 0 {
		return errors.New("inventory.max_active_reservations_per_wallet must be positive")
	}
	if c.MaxTraitsPerRequest <= 0 {
		return errors.New("inventory.max_traits_per_request must be positive")
	}
	return nil
}

// readConfig reads the config file; a missing file means env-only configuration
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		// SetConfigFile with a missing path surfaces as a path error instead
		if v.ConfigFileUsed() != "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("TRAIT_INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds every key so env-only deployments unmarshal fully
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"environment",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		"database.slow_threshold",
		// Inventory
		"inventory.reservation_ttl",
		"inventory.max_active_reservations_per_wallet",
		"inventory.max_traits_per_request",
		"inventory.bulk_cancel_concurrency",
		"inventory.treasury_wallet",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		"nats.publish_timeout",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		// Rate limit
		"rate_limit.reservations_per_minute",
		"rate_limit.burst",
		"rate_limit.enable_local_fallback",
		"rate_limit.max_local_wallets",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Sweeper
		"cleanup_sweeper.interval",
		// Bridge retry
		"retry.initial_interval",
		"retry.max_interval",
		"retry.max_elapsed_time",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads .env files from envPath; later files override earlier ones
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica connection string, or "" when no replica is configured.
// If ReadPort is not configured, it falls back to Port.
func (c *DatabaseConfig) ReadDSN() string {
	if c.ReadHost == "" {
		return ""
	}

	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}
