package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/flight-risk-radar/backend/internal/config"
	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
)

type stubPruner struct {
	deleted   int64
	err       error
	maxAge    time.Duration
	batchSize int
}

func (s *stubPruner) DeleteOlderThan(_ context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	s.maxAge, s.batchSize = maxAge, batchSize
	return s.deleted, s.err
}

func TestRunOnce(t *testing.T) {
	cfg := &config.Retention{MaxAge: 72 * time.Hour, BatchSize: 500}

	tests := []struct {
		name   string
		pruner *stubPruner
		want   int64
	}{
		{name: "deletes", pruner: &stubPruner{deleted: 42}, want: 42},
		{name: "nothing stale", pruner: &stubPruner{}, want: 0},
		{name: "partial failure", pruner: &stubPruner{deleted: 7, err: errors.New("timeout")}, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runOnce(context.Background(), logger.Discard(), tt.pruner, cfg)
			require.Equal(t, tt.want, got)
			require.Equal(t, 72*time.Hour, tt.pruner.maxAge)
			require.Equal(t, 500, tt.pruner.batchSize)
		})
	}
}
