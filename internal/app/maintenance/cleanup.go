package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/geocurator/pkg/logger"
)

const (
	defaultSweepSpec = "@every 1m"
	defaultPruneSpec = "@every 5m"
)

// SessionSweeper drops idle working set sessions.
type SessionSweeper interface {
	Sweep() int
}

// CounterPruner drops expired rate limit windows.
type CounterPruner interface {
	Prune() int
}

// ReloadFunc re-imports the dataset seed file and returns the number of rows stored.
type ReloadFunc func(ctx context.Context) (int, error)

// Cleaner runs the background housekeeping jobs on a cron schedule.
type Cleaner struct {
	sessions SessionSweeper
	counters CounterPruner
	reload   ReloadFunc
	cron     *cron.Cron
	now      func() time.Time
	log      *zap.Logger

	sweepSchedule  string
	pruneSchedule  string
	reloadSchedule string

	mu        sync.Mutex
	lastSweep time.Time
	lastErr   error
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock recorded for sweep runs.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithSweepSchedule overrides the cron expression for the idle session sweep.
func WithSweepSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.sweepSchedule = spec
		}
	}
}

// WithPruneSchedule overrides the cron expression for rate limit pruning.
func WithPruneSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.pruneSchedule = spec
		}
	}
}

// WithSeedReload re-imports the dataset seed on the cron expression spec. An empty spec leaves it off.
func WithSeedReload(spec string, reload ReloadFunc) Option {
	return func(cleaner *Cleaner) {
		if spec != "" && reload != nil {
			cleaner.reloadSchedule = spec
			cleaner.reload = reload
		}
	}
}

// NewCleaner constructs a Cleaner. A nil dependency skips its job.
func NewCleaner(sessions SessionSweeper, counters CounterPruner, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		sessions:      sessions,
		counters:      counters,
		now:           time.Now,
		sweepSchedule: defaultSweepSpec,
		pruneSchedule: defaultPruneSpec,
		log:           logger.WithModule("maintenance"),
	}
	for _, opt := range opts {
		opt(cleaner)
	}
	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cleaner
}

// Start registers the enabled jobs and launches the scheduler.
func (c *Cleaner) Start() error {
	var errs error
	if c.sessions != nil {
		errs = multierr.Append(errs, c.schedule(c.sweepSchedule, "session sweep", func(ctx context.Context) error {
			return c.sweep(ctx)
		}))
	}
	if c.counters != nil {
		errs = multierr.Append(errs, c.schedule(c.pruneSchedule, "rate limit prune", func(context.Context) error {
			c.prune()
			return nil
		}))
	}
	if c.reload != nil {
		errs = multierr.Append(errs, c.schedule(c.reloadSchedule, "dataset reload", c.reloadSeed))
	}
	if errs != nil {
		return errs
	}

	c.cron.Start()
	return nil
}

func (c *Cleaner) schedule(spec, name string, job func(ctx context.Context) error) error {
	_, err := c.cron.AddFunc(spec, func() {
		if err := job(context.Background()); err != nil {
			c.log.Warn(name+" failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("maintenance: schedule %s %q: %w", name, spec, err)
	}
	return nil
}

// Stop halts the scheduler; the returned context is done once running jobs finish.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every enabled job in turn and aggregates their failures.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	if c.sessions != nil {
		errs = multierr.Append(errs, c.sweep(ctx))
	}
	if c.counters != nil {
		c.prune()
	}
	if c.reload != nil {
		errs = multierr.Append(errs, c.reloadSeed(ctx))
	}
	return errs
}

// LastRun reports when the session sweep last ran and how it ended.
func (c *Cleaner) LastRun() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSweep, c.lastErr
}

func (c *Cleaner) sweep(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		if removed := c.sessions.Sweep(); removed > 0 {
			c.log.Debug("sessions swept", zap.Int("removed", removed))
		}
	} else {
		err = fmt.Errorf("maintenance: session sweep: %w", err)
	}

	c.mu.Lock()
	c.lastSweep = c.now()
	c.lastErr = err
	c.mu.Unlock()
	return err
}

func (c *Cleaner) prune() {
	if removed := c.counters.Prune(); removed > 0 {
		c.log.Debug("rate limit windows pruned", zap.Int("removed", removed))
	}
}

func (c *Cleaner) reloadSeed(ctx context.Context) error {
	count, err := c.reload(ctx)
	if err != nil {
		return fmt.Errorf("maintenance: dataset reload: %w", err)
	}
	c.log.Info("datasets reloaded", zap.Int("count", count))
	return nil
}
