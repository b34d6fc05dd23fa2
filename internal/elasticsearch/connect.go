package elasticsearch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
)

// Backoff controls Connect's retry loop.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff waits 2s, 4s, 8s... capped at 30s, for ten attempts.
var DefaultBackoff = Backoff{Attempts: 10, Initial: 2 * time.Second, Max: 30 * time.Second}

// Connect creates a client and pings it until it answers, backing off between attempts.
func Connect(ctx context.Context, addr, index string, log *slog.Logger, b Backoff) (*Client, error) {
	if log == nil {
		log = logger.Discard()
	}
	if b.Attempts <= 0 {
		b.Attempts = 1
	}

	client, err := New(addr, index, log)
	if err != nil {
		return nil, err
	}

	delay := b.Initial
	var pingErr error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pingErr = client.Ping(pingCtx)
		cancel()
		if pingErr == nil {
			log.Info("connected to elasticsearch", slog.Int("attempt", attempt))
			return client, nil
		}
		if attempt == b.Attempts {
			break
		}

		log.Warn("elasticsearch ping failed, retrying",
			slog.Any("err", pingErr),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", b.Attempts),
			slog.Duration("retry_in", delay),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("connect elasticsearch: %w", ctx.Err())
		}
		delay *= 2
		if b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
	return nil, fmt.Errorf("connect elasticsearch after %d attempts: %w", b.Attempts, pingErr)
}
