// Package mq holds the Kafka plumbing shared by the poller and the worker.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// DLQSuffix is appended to a topic name to form its dead-letter topic.
const DLQSuffix = "_dlq"

// RawHeadline is the message the poller publishes and the worker consumes.
type RawHeadline struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Source    string `json:"source"`
	Feed      string `json:"feed,omitempty"`
}

// MessageWriter is the part of *kafka.Writer used by publishers.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewWriter builds a synchronous writer for topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 250 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
	}
}

// NewReader builds a consumer-group reader with auto-commit disabled; callers commit explicitly.
func NewReader(brokers []string, topic, groupID string, queueCapacity int) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		QueueCapacity:  queueCapacity,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: 0,
	})
}

// PublishJSON marshals payload and writes it under key.
func PublishJSON(ctx context.Context, w MessageWriter, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// ParseMessageJSON decodes a message value into T.
func ParseMessageJSON[T any](msg kafka.Message) (T, error) {
	var payload T
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return payload, fmt.Errorf("decode message: %w", err)
	}
	return payload, nil
}

// DeadLetter copies msg for the dead-letter topic, recording where it came from and why it failed.
func DeadLetter(msg kafka.Message, cause error, now time.Time) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: "original_partition", Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: "original_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafka.Header{Key: "error", Value: []byte(cause.Error())},
		kafka.Header{Key: "timestamp", Value: []byte(now.UTC().Format(time.RFC3339))},
	)
	return kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers}
}

// WriteWithBackoff retries a write with exponential backoff starting at base. It gives up after
// attempts tries or when ctx ends, returning the last error.
func WriteWithBackoff(ctx context.Context, w MessageWriter, msg kafka.Message, attempts int, base time.Duration) (int, error) {
	var err error
	for attempt := range attempts {
		if err = w.WriteMessages(ctx, msg); err == nil {
			return attempt + 1, nil
		}
		if attempt == attempts-1 {
			break
		}
		select {
		case <-time.After(base << uint(attempt)):
		case <-ctx.Done():
			return attempt + 1, ctx.Err()
		}
	}
	return attempts, err
}
