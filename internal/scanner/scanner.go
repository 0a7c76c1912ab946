package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/liquidswap/yieldscan/internal/logger"
	"github.com/liquidswap/yieldscan/internal/metrics"
	"github.com/liquidswap/yieldscan/internal/pipeline"
	"github.com/liquidswap/yieldscan/internal/types"
	"github.com/rs/zerolog"
)

var ErrNoSnapshot = errors.New("no snapshot computed yet")

// PoolSource produces one complete set of pool records per call.
type PoolSource interface {
	Run(ctx context.Context) pipeline.Result
	Metadata() types.Metadata
}

// FailureRecord is the published form of a pipeline.Failure.
type FailureRecord struct {
	Chain string `json:"chain"`
	Key   string `json:"key"`
	Error string `json:"error"`
}

// Snapshot is the outcome of one refresh cycle.
type Snapshot struct {
	CycleID     string             `json:"cycle_id"`
	CycleNumber int                `json:"cycle_number"`
	ComputedAt  time.Time          `json:"computed_at"`
	Duration    time.Duration      `json:"duration_ns"`
	Pools       []types.PoolRecord `json:"pools"`
	Failures    []FailureRecord    `json:"failures"`
}

// Scanner runs refresh cycles and keeps the latest snapshot in memory.
type Scanner struct {
	logger  zerolog.Logger
	source  PoolSource
	metrics *metrics.Metrics

	mu         sync.RWMutex
	latest     *Snapshot
	cycleCount int
}

// Config holds the dependencies of a Scanner. Metrics is optional.
type Config struct {
	Source  PoolSource
	Metrics *metrics.Metrics
}

func New(cfg Config) (*Scanner, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("pool source cannot be nil")
	}

	return &Scanner{
		logger:  logger.GetForComponent("scanner"),
		source:  cfg.Source,
		metrics: cfg.Metrics,
	}, nil
}

// RunLoop runs a cycle immediately and then on every tick until ctx is done.
func (s *Scanner) RunLoop(ctx context.Context, interval time.Duration) {
	s.logger.Info().
		Dur("interval", interval).
		Msg("Starting refresh loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Refresh loop stopped due to context cancellation")
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle computes a fresh snapshot and publishes it.
func (s *Scanner) RunCycle(ctx context.Context) Snapshot {
	start := time.Now()

	cycleID := uuid.New().String()
	cycleLogger := s.logger.With().Str("cycle_id", cycleID).Logger()

	s.mu.Lock()
	s.cycleCount++
	cycleNumber := s.cycleCount
	s.mu.Unlock()

	cycleLogger.Info().Int("cycle", cycleNumber).Msg("--- Starting refresh cycle ---")

	result := s.source.Run(ctx)

	snapshot := Snapshot{
		CycleID:     cycleID,
		CycleNumber: cycleNumber,
		ComputedAt:  start.UTC(),
		Duration:    time.Since(start),
		Pools:       result.Pools,
		Failures:    make([]FailureRecord, 0, len(result.Failures)),
	}
	if snapshot.Pools == nil {
		snapshot.Pools = []types.PoolRecord{}
	}

	poolsByChain := make(map[string]int)
	for _, pool := range result.Pools {
		poolsByChain[pool.Chain]++
	}
	failuresByChain := make(map[string]int)
	for _, f := range result.Failures {
		failuresByChain[f.Chain]++
		snapshot.Failures = append(snapshot.Failures, FailureRecord{Chain: f.Chain, Key: f.Key, Error: f.Message()})
		cycleLogger.Warn().
			Err(f.Err).
			Str("chain", f.Chain).
			Str("key", f.Key).
			Msg("Pool not published")
	}

	if s.metrics != nil {
		s.metrics.ObserveCycle(snapshot.Duration, poolsByChain, failuresByChain)
	}

	s.mu.Lock()
	s.latest = &snapshot
	s.mu.Unlock()

	cycleLogger.Info().
		Int("cycle", cycleNumber).
		Int("pools", len(snapshot.Pools)).
		Int("failures", len(snapshot.Failures)).
		Dur("duration", snapshot.Duration).
		Msg("--- Refresh cycle completed ---")

	return snapshot
}

// Latest returns the last published snapshot.
func (s *Scanner) Latest() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return *s.latest, nil
}

func (s *Scanner) Metadata() types.Metadata {
	return s.source.Metadata()
}
