package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"snaplink/pkg/client"
	"snaplink/pkg/logger"
	"snaplink/pkg/scheduling"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port     string
	Timezone string
	Location *time.Location

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	AverageTravelSpeedKmh float64
	SuggestionGranularity time.Duration
	GeoCacheSize          int

	PendingBookingTTL time.Duration
	CleanupCooldown   time.Duration
	CleanupInterval   time.Duration

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration

	ServiceFeePercent   float64
	RequireSlotCoverage bool
	LockTTL             time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the environment, after merging an optional .env file, and exits
// the process when the result is invalid.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := FromEnv(serviceName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port:     getEnvStr(EnvPort, DefaultPort),
		Timezone: getEnvStr(EnvTimezone, DefaultTimezone),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		AverageTravelSpeedKmh: getEnvFloat(EnvAverageTravelSpeedKmh, DefaultAverageTravelSpeedKmh),
		SuggestionGranularity: getEnvDuration(EnvSuggestionGranularity, DefaultSuggestionGranularity),
		GeoCacheSize:          getEnvNum(EnvGeoCacheSize, DefaultGeoCacheSize),

		PendingBookingTTL: getEnvDuration(EnvPendingBookingTTL, DefaultPendingBookingTTL),
		CleanupCooldown:   getEnvDuration(EnvCleanupCooldown, DefaultCleanupCooldown),
		CleanupInterval:   getEnvDuration(EnvCleanupInterval, DefaultCleanupInterval),

		RetryMaxAttempts:    getEnvNum(EnvRetryMaxAttempts, DefaultRetryMaxAttempts),
		RetryInitialBackoff: getEnvDuration(EnvRetryInitialBackoff, DefaultRetryInitialBackoff),
		RetryMaxBackoff:     getEnvDuration(EnvRetryMaxBackoff, DefaultRetryMaxBackoff),

		ServiceFeePercent:   getEnvFloat(EnvServiceFeePercent, DefaultServiceFeePercent),
		RequireSlotCoverage: getEnvBool(EnvRequireSlotCoverage, DefaultRequireSlotCoverage),
		LockTTL:             getEnvDuration(EnvLockTTL, DefaultLockTTL),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
	cfg.Location, _ = time.LoadLocation(cfg.Timezone)
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) DistanceConfig() scheduling.DistanceConfig {
	return scheduling.DistanceConfig{
		AverageSpeedKmh: cfg.AverageTravelSpeedKmh,
		Granularity:     cfg.SuggestionGranularity,
	}
}

func (cfg *Config) RetryPolicy() scheduling.RetryPolicy {
	return scheduling.RetryPolicy{
		MaxAttempts:    cfg.RetryMaxAttempts,
		InitialBackoff: cfg.RetryInitialBackoff,
		MaxBackoff:     cfg.RetryMaxBackoff,
		Multiplier:     2,
	}
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}
	if cfg.Location == nil {
		errors = append(errors, fmt.Sprintf("Timezone must be a valid IANA zone, got: %s", cfg.Timezone))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty")
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"SuggestionGranularity", cfg.SuggestionGranularity},
		{"PendingBookingTTL", cfg.PendingBookingTTL},
		{"CleanupInterval", cfg.CleanupInterval},
		{"RetryInitialBackoff", cfg.RetryInitialBackoff},
		{"LockTTL", cfg.LockTTL},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", p.name, p.value))
		}
	}

	if cfg.CleanupCooldown < 0 {
		errors = append(errors, fmt.Sprintf("CleanupCooldown cannot be negative, got: %s", cfg.CleanupCooldown))
	}
	if cfg.RetryMaxBackoff < cfg.RetryInitialBackoff {
		errors = append(errors, fmt.Sprintf("RetryMaxBackoff (%s) must be >= RetryInitialBackoff (%s)", cfg.RetryMaxBackoff, cfg.RetryInitialBackoff))
	}
	if cfg.RetryMaxAttempts < 1 {
		errors = append(errors, fmt.Sprintf("RetryMaxAttempts must be at least 1, got: %d", cfg.RetryMaxAttempts))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.AverageTravelSpeedKmh <= 0 {
		errors = append(errors, fmt.Sprintf("AverageTravelSpeedKmh must be positive, got: %v", cfg.AverageTravelSpeedKmh))
	}
	if cfg.GeoCacheSize <= 0 {
		errors = append(errors, fmt.Sprintf("GeoCacheSize must be positive, got: %d", cfg.GeoCacheSize))
	}
	if cfg.ServiceFeePercent < 0 || cfg.ServiceFeePercent > 100 {
		errors = append(errors, fmt.Sprintf("ServiceFeePercent must be between 0 and 100, got: %v", cfg.ServiceFeePercent))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"redis_addr", cfg.RedisAddr,
		"redis_db", cfg.RedisDB,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"average_travel_speed_kmh", cfg.AverageTravelSpeedKmh,
		"suggestion_granularity", cfg.SuggestionGranularity,
		"pending_booking_ttl", cfg.PendingBookingTTL,
		"cleanup_cooldown", cfg.CleanupCooldown,
		"cleanup_interval", cfg.CleanupInterval,
		"retry_max_attempts", cfg.RetryMaxAttempts,
		"service_fee_percent", cfg.ServiceFeePercent,
		"require_slot_coverage", cfg.RequireSlotCoverage,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}
