package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "communityportal"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Bookable window: slots start on the whole hour from OpenHour up to,
	// but not including, CloseHour, and must end by CloseHour.
	DefaultOpenHour  = 8
	DefaultCloseHour = 20

	DefaultSweepInterval = 10 * time.Minute
	DefaultSlotLockTTL   = 10 * time.Second

	DefaultBookingTZ = "UTC"

	DefaultKafkaBookingTopic = "community.booking.events"
)
