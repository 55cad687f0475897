package scheduler

import "github.com/vk/passgraph/internal/builder"

// Interval is a half-open range [Start, End) of chronological pass indices.
type Interval struct {
	Start int
	End   int
}

// Contains reports whether the interval covers pass index i.
func (iv Interval) Contains(i int) bool {
	return i >= iv.Start && i < iv.End
}

// PlanResource is the immutable compiled record of one resource.
type PlanResource struct {
	Recipe builder.Recipe
	// Aliasable is false when the resource's memory must stay reserved for
	// the whole plan, either by declaration or by a non-aliasable use.
	Aliasable bool
	// Output marks resources designated as graph outputs at Compile.
	Output bool
	// Lifetime is the possibly-extended interval during which the
	// resource's backing memory is occupied.
	Lifetime Interval
}

// PlanTask is the immutable compiled record of one pass.
type PlanTask struct {
	Name  string
	Build builder.PassBuilder
	// Output marks passes whose results nothing else in the graph
	// consumes; their completion is externally observable.
	Output bool
	// Waits lists the chronological indices of the passes this pass must
	// wait on: its direct predecessors after dependency reduction.
	Waits []int
	// Binds lists the resources whose lifetime starts at this pass.
	Binds []int
	// Unbinds lists the resources whose lifetime ends at this pass.
	Unbinds []int
}

// Plan is the compiled execution plan: passes in chronological order, each
// annotated with wait-dependencies and resource bind/unbind events. A Plan
// is pure data; it can be instantiated any number of times.
type Plan struct {
	Tasks     []PlanTask
	Resources []PlanResource
}
