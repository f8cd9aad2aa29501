package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/couchcryptid/gaia-pulse-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// RefreshInterval is how often the selected region is re-fetched.
const RefreshInterval = 60 * time.Second

// ErrUnknownRegion is returned when selecting a region missing from the registry.
var ErrUnknownRegion = errors.New("unknown region")

// SnapshotPublisher receives the merged record of every successful cycle.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snapshot domain.Snapshot) error
}

// Phase is the display state of the selected region.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// State is a point-in-time copy of what the panel should show. Record is the
// last successfully merged record and survives later errors; RecordRegionID
// says which region it belongs to, which differs from RegionID until the first
// success after a region change.
type State struct {
	Phase          Phase                   `json:"phase"`
	RegionID       string                  `json:"region_id,omitempty"`
	Record         *domain.NarrativeRecord `json:"record,omitempty"`
	RecordRegionID string                  `json:"record_region_id,omitempty"`
	Error          string                  `json:"error,omitempty"`
	NotFound       bool                    `json:"not_found"`
	UpdatedAt      time.Time               `json:"updated_at,omitzero"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock driving the refresh timer and snapshot timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithPublisher sets a sink for merged snapshots.
func WithPublisher(p SnapshotPublisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

// Orchestrator fetches, merges and tracks the selected region, re-fetching it
// on a fixed interval and on demand.
type Orchestrator struct {
	narratives domain.NarrativeSource
	weather    domain.WeatherSource
	publisher  SnapshotPublisher
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool

	// stateMu guards state and session. A cycle only applies its result if
	// the session it started under is still current.
	stateMu sync.RWMutex
	state   State
	session uint64

	// loopMu serializes selection changes.
	loopMu sync.Mutex
	loop   *refreshLoop
}

type refreshLoop struct {
	session  uint64
	regionID string
	cancel   context.CancelFunc
	refresh  chan struct{}
	done     chan struct{}
}

// New creates an Orchestrator. No region is selected until Select is called.
func New(narratives domain.NarrativeSource, weather domain.WeatherSource, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		narratives: narratives,
		weather:    weather,
		clock:      clockwork.NewRealClock(),
		logger:     logger,
		metrics:    metrics,
		state:      State{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CheckReadiness returns nil once at least one cycle has succeeded.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if !o.ready.Load() {
		return errors.New("no refresh cycle has succeeded yet")
	}
	return nil
}

// State returns the current display state.
func (o *Orchestrator) State() State {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	return o.state
}

// Select makes regionID the current region. Any loop for the previous region
// is stopped, and its in-flight results are discarded, before a new loop
// starts with an immediate cycle.
func (o *Orchestrator) Select(regionID string) error {
	if _, ok := domain.LookupRegion(regionID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegion, regionID)
	}

	o.loopMu.Lock()
	defer o.loopMu.Unlock()

	o.stopLoopLocked()

	o.stateMu.Lock()
	o.session++
	session := o.session
	o.state.RegionID = regionID
	o.stateMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	l := &refreshLoop{
		session:  session,
		regionID: regionID,
		cancel:   cancel,
		refresh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	o.loop = l
	go o.runLoop(ctx, l)

	o.logger.Info("region selected", "region_id", regionID)
	return nil
}

// Refresh requests an immediate cycle for the selected region, bypassing any
// weather cache. It returns false when no region is selected. Requests made
// while one is already pending are coalesced.
func (o *Orchestrator) Refresh() bool {
	o.loopMu.Lock()
	defer o.loopMu.Unlock()

	if o.loop == nil {
		return false
	}
	select {
	case o.loop.refresh <- struct{}{}:
	default:
	}
	return true
}

// Stop halts the refresh loop and waits for it to exit. The last state is kept.
func (o *Orchestrator) Stop() {
	o.loopMu.Lock()
	defer o.loopMu.Unlock()

	o.stopLoopLocked()

	o.stateMu.Lock()
	o.session++
	o.stateMu.Unlock()
}

func (o *Orchestrator) stopLoopLocked() {
	if o.loop == nil {
		return
	}
	o.loop.cancel()
	<-o.loop.done
	o.loop = nil
}

func (o *Orchestrator) runLoop(ctx context.Context, l *refreshLoop) {
	defer close(l.done)

	o.metrics.RefreshLoopRunning.Set(1)
	defer o.metrics.RefreshLoopRunning.Set(0)

	ticker := o.clock.NewTicker(RefreshInterval)
	defer ticker.Stop()

	o.runCycle(ctx, l.session, l.regionID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			o.runCycle(ctx, l.session, l.regionID)
		case <-l.refresh:
			// A manual refresh asks for current conditions, not a cached reading.
			o.runCycle(domain.WithLiveWeather(ctx), l.session, l.regionID)
		}
	}
}

// runCycle performs one loading transition for the given session: fetch both
// sources, merge, and record success or error.
func (o *Orchestrator) runCycle(ctx context.Context, session uint64, regionID string) {
	start := o.clock.Now()
	if !o.apply(session, func(s *State) { s.Phase = PhaseLoading }) {
		return
	}

	record, err := o.Fetch(ctx, regionID)
	if ctx.Err() != nil {
		o.metrics.Cycles.WithLabelValues("stale").Inc()
		return
	}

	now := o.clock.Now()
	applied := o.apply(session, func(s *State) {
		s.UpdatedAt = now
		if err != nil {
			s.Phase = PhaseError
			s.Error = domain.UserMessage(err)
			s.NotFound = domain.IsNotFound(err)
			return
		}
		s.Phase = PhaseSuccess
		s.Error = ""
		s.NotFound = false
		s.Record = &record
		s.RecordRegionID = regionID
	})
	if !applied {
		o.metrics.Cycles.WithLabelValues("stale").Inc()
		return
	}
	o.metrics.CycleDuration.Observe(now.Sub(start).Seconds())

	if err != nil {
		o.metrics.Cycles.WithLabelValues("error").Inc()
		if domain.IsNotFound(err) {
			o.logger.Info("no narrative yet", "region_id", regionID)
		} else {
			o.logger.Warn("refresh cycle failed", "region_id", regionID, "error", err)
		}
		return
	}

	o.metrics.Cycles.WithLabelValues("success").Inc()
	o.ready.Store(true)
	o.logger.Debug("refresh cycle completed", "region_id", regionID, "duration", now.Sub(start))

	o.publish(ctx, domain.Snapshot{RegionID: regionID, FetchedAt: now, Record: record})
}

// Fetch runs a single fetch-and-merge for regionID without touching the
// tracked state. Narrative and weather are fetched concurrently and both are
// awaited; a weather failure only means the record is returned unmerged.
func (o *Orchestrator) Fetch(ctx context.Context, regionID string) (domain.NarrativeRecord, error) {
	var (
		record  domain.NarrativeRecord
		weather *domain.WeatherReading
		g       errgroup.Group
	)
	g.Go(func() error {
		var err error
		record, err = o.narratives.FetchNarrative(ctx, regionID)
		return err
	})
	g.Go(func() error {
		weather = o.weather.FetchWeather(ctx, regionID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.NarrativeRecord{}, err
	}
	return domain.Merge(record, weather), nil
}

func (o *Orchestrator) apply(session uint64, fn func(*State)) bool {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()

	if session != o.session {
		return false
	}
	fn(&o.state)
	return true
}

func (o *Orchestrator) publish(ctx context.Context, snapshot domain.Snapshot) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.Publish(ctx, snapshot); err != nil {
		o.metrics.SnapshotPublishErrors.Inc()
		o.logger.Warn("snapshot publish failed", "region_id", snapshot.RegionID, "error", err)
		return
	}
	o.metrics.SnapshotsPublished.Inc()
}
