package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	gosync "sync"
	"time"

	pkgsync "github.com/milletmart/catalog-server/internal/sync"
)

// Coordinator periodically checks the catalog sources and reloads on change
type Coordinator interface {
	// Start runs the refresh loop. Blocks until the context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop stops the loop and waits for it to exit
	Stop() error

	// Status returns a copy of the latest refresh status
	Status() Status
}

type defaultCoordinator struct {
	manager  pkgsync.Manager
	interval time.Duration
	jitter   time.Duration

	mu         gosync.Mutex
	status     Status
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// Option configures the coordinator
type Option func(*defaultCoordinator)

// WithJitter sets the maximum random offset applied to each interval.
// Defaults to a tenth of the interval.
func WithJitter(d time.Duration) Option {
	return func(c *defaultCoordinator) {
		c.jitter = d
	}
}

// New creates a coordinator that checks for changes every interval
func New(manager pkgsync.Manager, interval time.Duration, opts ...Option) (Coordinator, error) {
	if manager == nil {
		return nil, fmt.Errorf("manager is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}

	c := &defaultCoordinator{
		manager:  manager,
		interval: interval,
		jitter:   interval / 10,
		status:   Status{Phase: PhaseIdle},
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.jitter < 0 || c.jitter >= c.interval {
		return nil, fmt.Errorf("jitter must be in [0, %s), got %s", c.interval, c.jitter)
	}

	return c, nil
}

// nextInterval returns the interval with a random offset in [-jitter, +jitter]
func (c *defaultCoordinator) nextInterval() time.Duration {
	if c.jitter == 0 {
		return c.interval
	}
	//nolint:gosec // G404: jitter does not need cryptographic randomness
	offset := time.Duration(rand.Int64N(int64(2*c.jitter))) - c.jitter
	return c.interval + offset
}

// Start implements Coordinator.Start
func (c *defaultCoordinator) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancelFunc != nil {
		c.mu.Unlock()
		cancel()
		return fmt.Errorf("coordinator already started")
	}
	c.cancelFunc = cancel
	c.mu.Unlock()

	defer func() {
		close(c.done)
		slog.Info("Catalog refresh coordinator stopped")
	}()

	slog.Info("Starting catalog refresh coordinator", "interval", c.interval, "jitter", c.jitter)

	ticker := time.NewTicker(c.nextInterval())
	defer ticker.Stop()

	c.check(loopCtx)

	for {
		select {
		case <-ticker.C:
			c.check(loopCtx)
			ticker.Reset(c.nextInterval())
		case <-loopCtx.Done():
			return nil
		}
	}
}

// Stop implements Coordinator.Stop
func (c *defaultCoordinator) Stop() error {
	c.mu.Lock()
	cancel := c.cancelFunc
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-c.done
	return nil
}

// Status implements Coordinator.Status
func (c *defaultCoordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// check runs one refresh check and reloads when the manager asks for it
func (c *defaultCoordinator) check(ctx context.Context) {
	now := time.Now()
	reason := c.manager.ShouldReload(ctx)

	c.update(func(s *Status) {
		s.LastCheck = &now
		s.Reason = reason.String()
	})

	if !reason.ShouldReload() {
		slog.DebugContext(ctx, "Catalog is up to date")
		// an up-to-date snapshot clears any earlier failure
		c.update(func(s *Status) {
			s.Phase = PhaseComplete
			s.Message = "Catalog is up to date"
			s.FailureCount = 0
		})
		return
	}

	slog.InfoContext(ctx, "Reloading catalog", "reason", reason.String())
	c.update(func(s *Status) {
		s.Phase = PhaseReloading
		s.Message = "Reload in progress"
	})

	snapshotID, err := c.manager.Reload(ctx)
	finished := time.Now()

	c.update(func(s *Status) {
		if err != nil {
			s.Phase = PhaseFailed
			s.Message = err.Error()
			s.FailureCount++
			return
		}
		s.Phase = PhaseComplete
		s.Message = "Reload completed successfully"
		s.LastReload = &finished
		s.SnapshotID = snapshotID
		s.FailureCount = 0
	})

	if err != nil {
		slog.ErrorContext(ctx, "Catalog reload failed", "reason", reason.String(), "error", err)
		return
	}
	slog.InfoContext(ctx, "Catalog reloaded", "snapshotId", snapshotID, "duration", finished.Sub(now))
}

func (c *defaultCoordinator) update(fn func(*Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.status)
}
