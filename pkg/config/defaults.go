package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "snaplink"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultTimezone  = "UTC"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultAverageTravelSpeedKmh = 30.0
	DefaultSuggestionGranularity = 5 * time.Minute
	DefaultGeoCacheSize          = 1024

	DefaultPendingBookingTTL = 24 * time.Hour
	DefaultCleanupCooldown   = 5 * time.Minute
	DefaultCleanupInterval   = 1 * time.Minute

	DefaultRetryMaxAttempts    = 3
	DefaultRetryInitialBackoff = 100 * time.Millisecond
	DefaultRetryMaxBackoff     = 2 * time.Second

	DefaultServiceFeePercent   = 0.0
	DefaultRequireSlotCoverage = true
	DefaultLockTTL             = 30 * time.Second
)
