package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/truthprism/prism/internal/domain"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Server     ServerConfig
	Treasury   TreasuryConfig
	SelfHosted bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret    string //nolint:gosec // G117: JWT signing secret config
	AccessTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// TreasuryConfig holds fee routing settings.
type TreasuryConfig struct {
	// PlatformAccount receives company registration fees, hex-encoded.
	PlatformAccount domain.Identity

	// LedgerSeeds are balances credited to the in-memory fee ledger at
	// startup. Without them no caller can pay the registration or grant
	// fees. Format: "<identity-hex>:<amount>,<identity-hex>:<amount>".
	LedgerSeeds []LedgerSeed
}

// LedgerSeed is one bootstrap balance for the fee ledger.
type LedgerSeed struct {
	Account domain.Identity
	Amount  uint64
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("PRISM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("PRISM_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("PRISM_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	accessTTL, err := getEnvDuration("PRISM_JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("PRISM_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("PRISM_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("PRISM_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	treasury, err := getEnvIdentity("PRISM_PLATFORM_TREASURY", domain.Identity{})
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	ledgerSeeds, err := getEnvLedgerSeeds("PRISM_LEDGER_SEED")
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("PRISM_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("PRISM_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("PRISM_DB_USER", "prism"),
			Password: getEnv("PRISM_DB_PASSWORD", ""),
			DBName:   getEnv("PRISM_DB_NAME", "prism_dev"),
			SSLMode:  getEnv("PRISM_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("PRISM_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("PRISM_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:    getEnv("PRISM_JWT_SECRET", ""),
			AccessTTL: accessTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("PRISM_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Treasury: TreasuryConfig{
			PlatformAccount: treasury,
			LedgerSeeds:     ledgerSeeds,
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("PRISM_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("PRISM_JWT_SECRET must be at least 32 characters")
	}

	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("PRISM_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Fees sent to the zero account are effectively burned.
	if c.Treasury.PlatformAccount.IsZero() {
		log.Warn().Msg("PRISM_PLATFORM_TREASURY not set; registration fees go to the zero account")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("PRISM_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("PRISM_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("PRISM_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("PRISM_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("PRISM_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvIdentity(key string, fallback domain.Identity) (domain.Identity, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	id, err := domain.ParseIdentity(v)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("parsing %s=%q as identity: %w", key, v, err)
	}
	return id, nil
}

func getEnvLedgerSeeds(key string) ([]LedgerSeed, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}

	var seeds []LedgerSeed
	for _, entry := range strings.Split(v, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		idHex, amountStr, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("parsing %s entry %q: want <identity-hex>:<amount>", key, entry)
		}

		account, err := domain.ParseIdentity(idHex)
		if err != nil {
			return nil, fmt.Errorf("parsing %s entry %q: %w", key, entry, err)
		}

		amount, err := strconv.ParseUint(amountStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s entry %q: %w", key, entry, err)
		}

		seeds = append(seeds, LedgerSeed{Account: account, Amount: amount})
	}
	return seeds, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
