package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
	EnvTimezone  = "TIMEZONE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvAverageTravelSpeedKmh = "AVERAGE_TRAVEL_SPEED_KMH"
	EnvSuggestionGranularity = "SUGGESTION_GRANULARITY"
	EnvGeoCacheSize          = "GEO_CACHE_SIZE"

	EnvPendingBookingTTL = "PENDING_BOOKING_TTL"
	EnvCleanupCooldown   = "CLEANUP_COOLDOWN"
	EnvCleanupInterval   = "CLEANUP_INTERVAL"

	EnvRetryMaxAttempts    = "RETRY_MAX_ATTEMPTS"
	EnvRetryInitialBackoff = "RETRY_INITIAL_BACKOFF"
	EnvRetryMaxBackoff     = "RETRY_MAX_BACKOFF"

	EnvServiceFeePercent   = "SERVICE_FEE_PERCENT"
	EnvRequireSlotCoverage = "REQUIRE_SLOT_COVERAGE"
	EnvLockTTL             = "LOCK_TTL"
)
