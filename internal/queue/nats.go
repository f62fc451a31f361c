package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSQueue implements Queue using NATS JetStream
type NATSQueue struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	subscriptions map[string]*nats.Subscription
	mu            sync.RWMutex
}

// newNATSQueue creates a new NATS queue instance with JetStream enabled
func newNATSQueue(url string) (*NATSQueue, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSQueue{
		conn:          conn,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
	}, nil
}

// newNATSQueueWithConn creates a new NATS queue instance with existing connection (used in tests)
func newNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSQueue{
		conn:          conn,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
	}, nil
}

// Publish publishes a message to a subject using JetStream
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	_, err := q.js.PublishAsync(subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// PublishBatch publishes multiple messages asynchronously and waits for all to
// complete. All messages are queued up front; a single wait collects the
// acknowledgments.
func (q *NATSQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	futures := make([]nats.PubAckFuture, 0, len(messages))

	for _, msg := range messages {
		future, err := q.js.PublishAsync(msg.Subject, msg.Data)
		if err != nil {
			// Failed to queue; continue with the rest
			continue
		}
		futures = append(futures, future)
	}

	select {
	case <-q.js.PublishAsyncComplete():
	case <-ctx.Done():
		return len(futures), fmt.Errorf("timeout waiting for batch publish: %w", ctx.Err())
	}

	successCount := 0
	for _, future := range futures {
		select {
		case <-future.Ok():
			successCount++
		case <-future.Err():
			// Individual failure does not fail the batch
		default:
			// Still pending after PublishAsyncComplete, count as success
			successCount++
		}
	}

	return successCount, nil
}

// ensureStream creates the stream backing a subject if it does not exist yet.
func (q *NATSQueue) ensureStream(subject string) error {
	streamName := "demandcast-" + sanitizeConsumerName(subject)
	if _, err := q.js.StreamInfo(streamName); err == nil {
		return nil
	}

	_, err := q.js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream for subject %s: %w", subject, err)
	}
	return nil
}

// Subscribe subscribes to a subject with a durable JetStream consumer.
// Messages are manually acknowledged for at-least-once delivery.
func (q *NATSQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	if err := q.ensureStream(subject); err != nil {
		return err
	}

	// Consumer names may only contain A-Z, a-z, 0-9, dash and underscore
	durableName := "consumer-" + sanitizeConsumerName(subject)

	sub, err := q.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			// NAK so the message is redelivered
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durableName),
		nats.ManualAck(),
		nats.MaxAckPending(100),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	q.subscriptions[subject] = sub
	return nil
}

// Unsubscribe unsubscribes from a subject
func (q *NATSQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from subject %s: %w", subject, err)
	}

	delete(q.subscriptions, subject)
	return nil
}

// Close closes the NATS connection and all subscriptions
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			continue
		}
		delete(q.subscriptions, subject)
	}

	q.conn.Close()
	return nil
}

// sanitizeConsumerName replaces characters that are invalid in stream and
// consumer names with underscores.
func sanitizeConsumerName(subject string) string {
	result := make([]byte, 0, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
