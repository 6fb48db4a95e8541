package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"taskpilot/internal/logging"
)

// StepFunc runs one loop tick. worked=false means there was nothing to do
// and the loop should back off.
type StepFunc func(ctx context.Context) (worked bool, err error)

// LoopConfig sets one loop's cadence. Backoff applies after a no-work tick,
// an error, or a contained panic; StartupDelay holds the first tick back.
type LoopConfig struct {
	Name         string
	Interval     time.Duration
	Backoff      time.Duration
	StartupDelay time.Duration
}

type runnerLoop struct {
	cfg  LoopConfig
	step StepFunc
}

// Runner supervises the agent loops on independent goroutines. Cancellation
// is cooperative: it interrupts the sleep between ticks, never a tick in
// flight, so a cycle that has started always completes its phases.
type Runner struct {
	loops []runnerLoop
}

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Add registers a loop. Call before Run.
func (r *Runner) Add(cfg LoopConfig, step StepFunc) {
	r.loops = append(r.loops, runnerLoop{cfg: cfg, step: step})
}

// Run drives every registered loop until the context is cancelled. It
// returns nil on clean cancellation; any other loop exit is an error that
// cancels the siblings.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, loop := range r.loops {
		loop := loop
		g.Go(func() error {
			return r.runLoop(ctx, loop)
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Runner) runLoop(ctx context.Context, loop runnerLoop) error {
	name := loop.cfg.Name
	logging.Loop("Loop %s starting (interval=%v backoff=%v delay=%v)",
		name, loop.cfg.Interval, loop.cfg.Backoff, loop.cfg.StartupDelay)

	if loop.cfg.StartupDelay > 0 {
		if err := sleep(ctx, loop.cfg.StartupDelay); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			logging.Loop("Loop %s stopping: %v", name, err)
			return err
		}

		worked, err := safeStep(ctx, name, loop.step)

		wait := loop.cfg.Interval
		switch {
		case err != nil:
			if ctx.Err() != nil {
				logging.Loop("Loop %s stopping: %v", name, ctx.Err())
				return ctx.Err()
			}
			logging.LoopError("Loop %s tick failed: %v", name, err)
			wait = loop.cfg.Backoff
		case !worked:
			logging.LoopDebug("Loop %s: no work", name)
			wait = loop.cfg.Backoff
		}

		if err := sleep(ctx, wait); err != nil {
			logging.Loop("Loop %s stopping: %v", name, err)
			return err
		}
	}
}

// safeStep contains panics from a tick so one bad cycle cannot take the
// loop down.
func safeStep(ctx context.Context, name string, step StepFunc) (worked bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			worked = false
			err = fmt.Errorf("loop %s panicked: %v", name, rec)
		}
	}()
	return step(ctx)
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
