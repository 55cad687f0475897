package scheduler

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/ctxlog"
)

// Compile consumes a builder's declarations and produces the execution
// plan. outputs designates the resources whose final contents the caller
// intends to observe; they are carried into the plan as metadata.
//
// Compiling the same declarations twice yields an identical plan.
func Compile(ctx context.Context, b *builder.Builder, outputs ...builder.ResourceRef) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compile: starting.", "resources", len(b.Resources()), "passes", len(b.Tasks()))

	for _, ref := range outputs {
		b.CheckRef(ref)
	}

	c, err := prepare(b)
	if err != nil {
		return nil, fmt.Errorf("validating pass graph: %w", err)
	}
	logger.Debug("Compile: declarations validated.")

	if !c.sortPasses() {
		return nil, fmt.Errorf("ordering passes: %w", ErrCyclicDependency)
	}
	logger.Debug("Compile: chronological order established.")

	c.computeLifetimes()
	c.extractDependencies()
	c.extendLifetimes()
	logger.Debug("Compile: lifetimes and dependencies resolved.")

	plan := c.emit(outputs)
	logger.Debug("Compile: plan emitted.", "passes", len(plan.Tasks))
	return plan, nil
}

// emit folds the scratch state into the immutable plan.
func (c *compilation) emit(outputs []builder.ResourceRef) *Plan {
	plan := &Plan{
		Tasks:     make([]PlanTask, len(c.tasks)),
		Resources: make([]PlanResource, len(c.decls)),
	}

	for i := range plan.Tasks {
		ti := c.chrono[i]
		waits := append([]int(nil), c.prev[i]...)
		sort.Ints(waits)
		plan.Tasks[i] = PlanTask{
			Name:   c.tasks[ti].Name,
			Build:  c.tasks[ti].Build,
			Output: c.output[ti],
			Waits:  waits,
		}
	}

	for ri, d := range c.decls {
		st := c.res[ri]
		plan.Resources[ri] = PlanResource{
			Recipe:    d.Recipe,
			Aliasable: !st.full,
			Lifetime:  Interval{Start: st.start, End: st.end},
		}
		plan.Tasks[st.start].Binds = append(plan.Tasks[st.start].Binds, ri)
		plan.Tasks[st.end-1].Unbinds = append(plan.Tasks[st.end-1].Unbinds, ri)
	}

	for _, ref := range outputs {
		plan.Resources[ref.Index()].Output = true
	}

	return plan
}
