package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maksimkurb/tracegate/src/internal/log"
	"github.com/maksimkurb/tracegate/src/internal/trace"
)

// RestartableRunner keeps a background loop alive: a loop that returns an
// error or panics is started again after an exponential backoff.
type RestartableRunner struct {
	name    string
	runFunc func(ctx context.Context) error
	tracer  *trace.Component

	mu           sync.RWMutex
	running      bool
	cancel       context.CancelFunc
	done         chan struct{}
	lastError    error
	restartCount int

	maxRestarts    int           // 0 means unlimited
	restartBackoff time.Duration // Initial backoff duration
	maxBackoff     time.Duration // Maximum backoff duration
	stopTimeout    time.Duration
}

// RunnerConfig contains configuration for RestartableRunner.
type RunnerConfig struct {
	Name           string
	MaxRestarts    int           // 0 = unlimited restarts
	RestartBackoff time.Duration // Initial backoff (default: 1s)
	MaxBackoff     time.Duration // Max backoff (default: 30s)
	StopTimeout    time.Duration // Wait for the loop in Stop (default: 30s)
	// Tracer receives restart events at level 1 and loop starts at level 3.
	Tracer *trace.Component
}

// NewRestartableRunner creates a new restartable runner.
func NewRestartableRunner(cfg RunnerConfig, runFunc func(ctx context.Context) error) *RestartableRunner {
	if cfg.RestartBackoff == 0 {
		cfg.RestartBackoff = 1 * time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.StopTimeout == 0 {
		cfg.StopTimeout = 30 * time.Second
	}

	return &RestartableRunner{
		name:           cfg.Name,
		runFunc:        runFunc,
		tracer:         cfg.Tracer,
		maxRestarts:    cfg.MaxRestarts,
		restartBackoff: cfg.RestartBackoff,
		maxBackoff:     cfg.MaxBackoff,
		stopTimeout:    cfg.StopTimeout,
	}
}

// Start starts the runner in a goroutine.
func (r *RestartableRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("%s is already running", r.name)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	r.restartCount = 0
	r.lastError = nil

	go r.runLoop(runCtx, r.done)

	return nil
}

// Stop cancels the loop and waits for it to return.
func (r *RestartableRunner) Stop() error {
	r.mu.RLock()
	if !r.running {
		r.mu.RUnlock()
		return nil
	}
	cancel := r.cancel
	done := r.done
	r.mu.RUnlock()

	cancel()

	timer := time.NewTimer(r.stopTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		return fmt.Errorf("%s: timeout waiting for stop", r.name)
	}

	return nil
}

// Done is closed when the loop has finished for good. It is nil before Start.
func (r *RestartableRunner) Done() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.done
}

// IsRunning returns true if the runner is currently running.
func (r *RestartableRunner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// LastError returns the last error that occurred.
func (r *RestartableRunner) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastError
}

// RestartCount returns the number of restarts that have occurred.
func (r *RestartableRunner) RestartCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.restartCount
}

func (r *RestartableRunner) tracef(level int, format string, args ...any) {
	if r.tracer != nil {
		r.tracer.Printf(level, format, args...)
	}
}

func (r *RestartableRunner) runLoop(ctx context.Context, done chan struct{}) {
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		close(done)
	}()

	backoff := r.restartBackoff

	for {
		if ctx.Err() != nil {
			log.Debugf("%s: context cancelled, stopping", r.name)
			return
		}

		r.tracef(3, "%s: starting", r.name)
		err := r.runWithRecovery(ctx)

		r.mu.Lock()
		r.lastError = err
		r.mu.Unlock()

		if err == nil {
			log.Debugf("%s: exited cleanly", r.name)
			return
		}

		// Intentional shutdown
		if ctx.Err() != nil {
			log.Debugf("%s: context cancelled during run, stopping", r.name)
			return
		}

		r.mu.Lock()
		r.restartCount++
		restartCount := r.restartCount
		r.mu.Unlock()

		if r.maxRestarts > 0 && restartCount >= r.maxRestarts {
			log.Errorf("%s: max restarts (%d) reached, giving up. Last error: %v", r.name, r.maxRestarts, err)
			return
		}

		log.Errorf("%s: crashed with error: %v. Restarting in %v (restart #%d)", r.name, err, backoff, restartCount)
		r.tracef(1, "%s: restart #%d after %v", r.name, restartCount, err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		backoff *= 2
		if backoff > r.maxBackoff {
			backoff = r.maxBackoff
		}
	}
}

// runWithRecovery runs the function and recovers from panics.
func (r *RestartableRunner) runWithRecovery(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()

	return r.runFunc(ctx)
}
