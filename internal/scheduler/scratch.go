package scheduler

import (
	"fmt"
	"math"

	"github.com/vk/passgraph/internal/builder"
)

// unconsumed is the earliest-consumer value of a resource nothing placed
// has consumed yet. It doubles as the tie-break metric of a pass whose
// outputs nobody needs, deferring it behind passes with waiting consumers.
const unconsumed = math.MaxInt

// compilation carries all transient scheduling state. It is indexed in
// parallel with the builder's declaration arrays and discarded after
// Compile returns, so none of it bloats the emitted Plan.
type compilation struct {
	decls []builder.ResourceDecl
	tasks []builder.Task

	res  []resourceState
	info []taskInfo

	scheduled []bool
	output    []bool

	chrono []int // slot -> declared pass index
	slotOf []int // declared pass index -> slot

	// Direct dependency edges between chronological slots.
	next [][]int
	prev [][]int

	// mark and gen implement generation-counter membership tests: bumping
	// gen invalidates every mark at once, with no per-pass set clearing.
	mark []int
	gen  int
}

type resourceState struct {
	producer  int // declared pass index, -1 until seen
	remaining int // not-yet-scheduled consuming passes
	earliest  int // chronological index of the earliest placed consumer
	start     int
	end       int
	full      bool // lifetime pinned to the whole plan
}

// taskInfo holds a pass's use-list reduced to per-resource produce/consume
// sets: each produced resource once, each consumed resource once, and a
// pass's consumption of its own product not counted at all (it could never
// become schedulable otherwise).
type taskInfo struct {
	produced []int
	consumed []int
}

// prepare validates the declarations and builds the scratch arrays.
func prepare(b *builder.Builder) (*compilation, error) {
	decls := b.Resources()
	tasks := b.Tasks()

	c := &compilation{
		decls:     decls,
		tasks:     tasks,
		res:       make([]resourceState, len(decls)),
		info:      make([]taskInfo, len(tasks)),
		scheduled: make([]bool, len(tasks)),
		output:    make([]bool, len(tasks)),
		chrono:    make([]int, len(tasks)),
		slotOf:    make([]int, len(tasks)),
		next:      make([][]int, len(tasks)),
		prev:      make([][]int, len(tasks)),
		mark:      make([]int, len(tasks)),
	}
	for ri := range c.res {
		c.res[ri].producer = -1
		c.res[ri].earliest = unconsumed
	}

	for ti, t := range tasks {
		seenProduce := make(map[int]bool, len(t.Uses))
		seenConsume := make(map[int]bool, len(t.Uses))
		for _, u := range t.Uses {
			ri := u.Resource.Index()
			if u.Produce {
				if p := c.res[ri].producer; p >= 0 && p != ti {
					return nil, fmt.Errorf("resource %d produced by both %q and %q: %w",
						ri, tasks[p].Name, t.Name, ErrMultipleProducers)
				}
				c.res[ri].producer = ti
				if !seenProduce[ri] {
					seenProduce[ri] = true
					c.info[ti].produced = append(c.info[ti].produced, ri)
				}
			} else if !seenConsume[ri] {
				seenConsume[ri] = true
				c.info[ti].consumed = append(c.info[ti].consumed, ri)
			}
		}
	}

	for ri, st := range c.res {
		if st.producer < 0 {
			return nil, fmt.Errorf("resource %d: %w", ri, ErrNoProducer)
		}
	}

	// Live consumer counts. A pass reading its own product is not a
	// separate consumer.
	for ti := range tasks {
		for _, ri := range c.info[ti].consumed {
			if c.res[ri].producer != ti {
				c.res[ri].remaining++
			}
		}
	}

	// A pass is a graph output iff nothing else consumes anything it
	// produces. Passes producing nothing at all qualify vacuously.
	for ti := range tasks {
		c.output[ti] = true
		for _, ri := range c.info[ti].produced {
			if c.res[ri].remaining > 0 {
				c.output[ti] = false
				break
			}
		}
	}

	return c, nil
}
