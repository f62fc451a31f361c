package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// ForecastTimeout is the timeout for forecast computations
	ForecastTimeout = 10 * time.Second

	// EventPublishTimeout is the timeout for async forecast event publishing
	EventPublishTimeout = 5 * time.Second

	// ShutdownTimeout is the grace period for draining connections on shutdown
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Authentication Constants
// =============================================================================

const (
	// MinAPIKeyLength is the minimum accepted API key length
	MinAPIKeyLength = 32
)

// =============================================================================
// Event Subject Constants
// =============================================================================

const (
	// SubjectForecastCompleted is published after every successful forecast
	SubjectForecastCompleted = "forecast.completed"
)

// =============================================================================
// Queue Type Constants
// =============================================================================
// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeMemory represents in-memory queue (default)
	QueueTypeMemory QueueType = "memory"

	// QueueTypeNATS represents NATS JetStream queue
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"
)
