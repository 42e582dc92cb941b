package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "nomadhub"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultPaymentCurrency = "usd"
	DefaultPaymentTimeout  = 15 * time.Second

	DefaultKafkaBookingTopic = "nomadhub.bookings"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultStoreReadTimeout  = 5 * time.Second
	DefaultStoreWriteTimeout = 10 * time.Second

	DefaultHTTPReadTimeout  = 15 * time.Second
	DefaultHTTPWriteTimeout = 15 * time.Second
	DefaultHTTPIdleTimeout  = 60 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second

	DefaultPaginationLimit = 100
)
