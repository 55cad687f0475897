package executor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/ctxlog"
)

// ErrRunConsumed reports an Encode call on a Run that is already encoding
// or has finished. A Run is a single-use session; begin a new run to retry.
var ErrRunConsumed = errors.New("run already consumed")

// Run is one prepared execution of a runner's plan. It holds the sized
// fence pool and each pass's signal sub-range for this invocation.
type Run struct {
	runner   *Runner
	id       string
	fences   []builder.Fence
	ranges   []fenceRange
	consumed atomic.Bool
}

// ID returns the run's correlation identifier.
func (run *Run) ID() string {
	return run.id
}

// Encode walks the plan once, invoking every pass in chronological order.
//
// A pass with an empty wait-list waits on exactly the caller-supplied
// inputFences, the cross-invocation carry-over (typically the previous
// run's output fences). Every other pass waits on the concatenated signal
// sub-ranges of the passes in its wait-list. env is handed to every pass
// unchanged.
//
// The first pass failure aborts the remainder; work already encoded onto
// target is the caller's concern. Encode consumes the Run: a second or
// concurrent call fails with ErrRunConsumed.
func (run *Run) Encode(ctx context.Context, target any, inputFences []builder.Fence, env any) error {
	if !run.consumed.CompareAndSwap(false, true) {
		return ErrRunConsumed
	}
	logger := ctxlog.FromContext(ctx).With("run_id", run.id)
	logger.Debug("Encoding run.", "passes", len(run.runner.passes))

	for i, p := range run.runner.passes {
		var waits []builder.Fence
		if len(p.waits) == 0 {
			waits = inputFences
		} else {
			for _, w := range p.waits {
				rg := run.ranges[w]
				waits = append(waits, run.fences[rg.lo:rg.hi]...)
			}
		}

		rg := run.ranges[i]
		signals := run.fences[rg.lo:rg.hi:rg.hi]

		if err := p.pass.Encode(target, waits, signals, env); err != nil {
			return fmt.Errorf("encoding pass %q: %w", p.name, err)
		}
	}

	logger.Debug("Run encoded.")
	return nil
}

// OutputFences returns, for every output pass in chronological order, a
// mutable view over its signal sub-range. The views alias the run's fence
// pool: a caller may await them for "all outputs ready" or overwrite
// entries with externally supplied fences before the next run begins.
func (run *Run) OutputFences() [][]builder.Fence {
	var out [][]builder.Fence
	for i, p := range run.runner.passes {
		if p.output {
			rg := run.ranges[i]
			out = append(out, run.fences[rg.lo:rg.hi:rg.hi])
		}
	}
	return out
}
