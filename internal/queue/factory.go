package queue

import (
	"fmt"
	"strings"

	"github.com/demandcast/demandcast/internal/config"
	"github.com/demandcast/demandcast/internal/utils"
)

// NewQueue creates a new Queue instance based on configuration
// Default is the in-memory queue if type is not specified
func NewQueue(cfg config.QueueConfig) (Queue, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))

	// Default to memory if not specified
	if queueType == "" {
		queueType = utils.QueueTypeMemory
	}

	switch queueType {
	case utils.QueueTypeMemory:
		return newMemoryQueue(), nil

	case utils.QueueTypeNATS:
		return newNATSQueue(cfg.URL)

	case utils.QueueTypeRedis:
		return newRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		})

	case utils.QueueTypeKafka:
		return newKafkaQueue(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		})

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: memory, nats, redis, kafka)", queueType)
	}
}

// NewPublisher creates a new Publisher instance based on configuration
// This is a convenience function when only publishing is needed
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	return NewQueue(cfg)
}

// NewSubscriber creates a new Subscriber instance based on configuration
// This is a convenience function when only subscribing is needed
func NewSubscriber(cfg config.QueueConfig) (Subscriber, error) {
	return NewQueue(cfg)
}
