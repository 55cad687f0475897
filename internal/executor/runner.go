package executor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/scheduler"
)

// Runner owns the concrete assets and passes of one instantiated plan,
// plus a reusable pool of fences resized at the start of every run. It is
// single-owner state; methods are not safe for concurrent use.
type Runner struct {
	dev    builder.Device
	plan   *scheduler.Plan
	assets []builder.Asset
	passes []runnerPass

	// fences is the recycled pool. Its contents from a previous run must
	// not be read once a new run begins, except through the explicit
	// input/output fence carry-over.
	fences []builder.Fence
}

type runnerPass struct {
	name   string
	pass   builder.Pass
	waits  []int
	output bool
}

// fenceRange is one pass's disjoint sub-range [lo, hi) of the fence pool.
type fenceRange struct {
	lo, hi int
}

// Plan returns the compiled plan this runner was instantiated from.
func (r *Runner) Plan() *scheduler.Plan {
	return r.plan
}

// Asset returns the materialized asset for a declared resource.
func (r *Runner) Asset(ref builder.ResourceRef) builder.Asset {
	return r.assets[ref.Index()]
}

// BeginRun prepares one execution of the plan: it asks every pass how many
// fences it will signal, assigns each a disjoint sub-range of the flat
// pool, and allocates or recycles fences to cover the total. Fence
// allocation failures propagate verbatim.
func (r *Runner) BeginRun(ctx context.Context) (*Run, error) {
	logger := ctxlog.FromContext(ctx)
	runID := uuid.NewString()

	total := 0
	ranges := make([]fenceRange, len(r.passes))
	for i, p := range r.passes {
		n := p.pass.NumSignalFences()
		ranges[i] = fenceRange{lo: total, hi: total + n}
		total += n
	}

	for len(r.fences) < total {
		fence, err := r.dev.NewFence(ctx)
		if err != nil {
			return nil, fmt.Errorf("allocating fence %d: %w", len(r.fences), err)
		}
		r.fences = append(r.fences, fence)
	}

	logger.Debug("Run prepared.", "run_id", runID, "fences", total)
	return &Run{
		runner: r,
		id:     runID,
		fences: r.fences[:total],
		ranges: ranges,
	}, nil
}
