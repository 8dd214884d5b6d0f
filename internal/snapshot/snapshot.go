package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/minzi-dev/floodwatch/internal/domain"
	"github.com/minzi-dev/floodwatch/internal/observability"
)

// StationSource provides station metadata from the upstream feature service.
type StationSource interface {
	FetchStations(ctx context.Context) ([]domain.StationMeta, error)
}

// ReadingSource provides recent gauge readings from the upstream feature service.
type ReadingSource interface {
	FetchReadings(ctx context.Context) ([]domain.Reading, error)
}

// Exporter publishes a completed snapshot to an external sink.
type Exporter interface {
	Export(ctx context.Context, snap *Snapshot) error
}

// Snapshot is one immutable view of every monitored station. Queries read
// from whichever snapshot was current when they started.
type Snapshot struct {
	Stations    []domain.StationRecord `json:"stations"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// CheckRisk assesses flood risk at a point against this snapshot.
func (s *Snapshot) CheckRisk(point domain.Coordinate, radiusKm float64) domain.RiskAssessment {
	return domain.AssessRisk(point, radiusKm, s.Stations)
}

// Summary aggregates this snapshot's station statuses.
func (s *Snapshot) Summary() domain.FloodingSummary {
	return domain.Summarize(s.Stations)
}

// Service builds snapshots from the upstream sources and swaps them in
// atomically on a schedule.
type Service struct {
	stations StationSource
	readings ReadingSource
	exporter Exporter // nil when export is disabled
	logger   *slog.Logger
	metrics  *observability.Metrics
	schedule cron.Schedule
	current  atomic.Pointer[Snapshot]
}

// New creates a snapshot service. The schedule must be a valid cron
// expression; exporter may be nil.
func New(stations StationSource, readings ReadingSource, exporter Exporter, schedule string, logger *slog.Logger, metrics *observability.Metrics) (*Service, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("parse refresh schedule: %w", err)
	}
	return &Service{
		stations: stations,
		readings: readings,
		exporter: exporter,
		logger:   logger,
		metrics:  metrics,
		schedule: sched,
	}, nil
}

// Current returns the latest snapshot, or nil before the first refresh.
func (s *Service) Current() *Snapshot {
	return s.current.Load()
}

// CheckReadiness returns nil once a snapshot has been built, or an error
// describing why the service is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.current.Load() == nil {
		return errors.New("no snapshot built yet")
	}
	return nil
}

// Refresh fetches both layers, builds a new snapshot, and swaps it in.
// The previous snapshot stays current if any fetch fails.
func (s *Service) Refresh(ctx context.Context) error {
	stations, err := s.stations.FetchStations(ctx)
	if err != nil {
		s.metrics.SnapshotErrors.Inc()
		return fmt.Errorf("fetch stations: %w", err)
	}

	readings, err := s.readings.FetchReadings(ctx)
	if err != nil {
		s.metrics.SnapshotErrors.Inc()
		return fmt.Errorf("fetch readings: %w", err)
	}

	snap := &Snapshot{
		Stations:    domain.BuildRecords(stations, readings),
		GeneratedAt: domain.Now().UTC(),
	}
	s.current.Store(snap)

	sum := snap.Summary()
	s.metrics.SnapshotRefreshes.Inc()
	s.metrics.LastRefreshTime.Set(float64(snap.GeneratedAt.Unix()))
	s.metrics.StationsByStatus.WithLabelValues(string(domain.StatusMajorFlood)).Set(float64(sum.MajorFlood))
	s.metrics.StationsByStatus.WithLabelValues(string(domain.StatusMinorFlood)).Set(float64(sum.MinorFlood))
	s.metrics.StationsByStatus.WithLabelValues(string(domain.StatusAlert)).Set(float64(sum.Alert))
	s.metrics.StationsByStatus.WithLabelValues(string(domain.StatusNormal)).Set(float64(sum.Normal))
	s.metrics.StationsByStatus.WithLabelValues(string(domain.StatusNoData)).Set(float64(sum.NoData))
	s.metrics.StationsByStatus.WithLabelValues(string(domain.StatusUnknown)).Set(float64(sum.Unknown))

	s.logger.Info("snapshot refreshed",
		"stations", sum.TotalStations,
		"flooding", len(sum.Flooding),
		"generated_at", snap.GeneratedAt,
	)

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, snap); err != nil {
			// Export is best-effort; the snapshot is already live.
			s.logger.Warn("snapshot export failed", "error", err)
		} else {
			s.metrics.SnapshotsExported.Inc()
		}
	}

	return nil
}

// Run refreshes until the first success, then follows the schedule until
// the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	// Exponential backoff for the initial snapshot: start at 200ms,
	// double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for s.current.Load() == nil {
		if err := s.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("initial snapshot failed", "error", err, "retry_in", backoff)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
		}
	}

	for {
		next := s.schedule.Next(domain.Now())
		if !sleepWithContext(ctx, next.Sub(domain.Now())) {
			return nil
		}
		if err := s.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("scheduled refresh failed", "error", err)
		}
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
