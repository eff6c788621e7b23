package advisory

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// EvaluateFunc runs one full advisory recomputation.
type EvaluateFunc func(ctx context.Context) Plan

// Pipeline is the in-process observe, debounce, re-evaluate loop for embedded
// deployments: page-change notifications arrive on a channel, a quiet window
// coalesces bursts, then the evaluation runs once. The only shared state is
// the latest plan, replaced wholesale after each run.
type Pipeline struct {
	debounce time.Duration
	evaluate EvaluateFunc
	machine  *Machine
	logger   *slog.Logger

	notify chan struct{}

	mu     sync.RWMutex
	latest Plan
}

// NewPipeline constructs a pipeline. Run must be called for notifications to
// have any effect.
func NewPipeline(debounce time.Duration, evaluate EvaluateFunc, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		debounce: debounce,
		evaluate: evaluate,
		machine:  NewMachine(),
		logger:   logger,
		notify:   make(chan struct{}, 1),
	}
}

// Notify signals that the observed page changed. Never blocks; notifications
// arriving during an unconsumed one coalesce.
func (p *Pipeline) Notify() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Latest returns the most recent plan, or the zero Plan before the first run.
func (p *Pipeline) Latest() Plan {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// State returns the machine's current state.
func (p *Pipeline) State() State {
	return p.machine.Current()
}

// Run evaluates once immediately, then re-evaluates after each debounced
// notification burst until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.runOnce(ctx)

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case <-p.notify:
			if timer == nil {
				timer = time.NewTimer(p.debounce)
				timerC = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timerC:
				default:
				}
			}
			timer.Reset(p.debounce)
		case <-timerC:
			timer = nil
			timerC = nil
			p.runOnce(ctx)
		}
	}
}

func (p *Pipeline) runOnce(ctx context.Context) {
	p.machine.Begin()
	plan := p.evaluate(ctx)

	p.mu.Lock()
	p.latest = plan
	p.mu.Unlock()

	p.machine.Complete(plan.State)
	p.logger.DebugContext(ctx, "advisory plan recomputed",
		"state", string(plan.State),
	)
}
