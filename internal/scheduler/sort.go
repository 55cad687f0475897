package scheduler

import "math"

// sortPasses assigns every pass a chronological slot using a reverse greedy
// topological sort: the order is built back-to-front, so the first pass
// picked lands in the last slot. Returns ErrCyclicDependency (wrapped by
// the caller) as a bare false when no candidate exists.
func (c *compilation) sortPasses() bool {
	n := len(c.tasks)
	for placed := 0; placed < n; placed++ {
		slot := n - 1 - placed

		// Candidates are unscheduled passes all of whose produced
		// resources have zero remaining unscheduled consumers: the current
		// maximal elements of the partial order.
		best := -1
		bestMetric := math.MaxInt
		for ti := range c.tasks {
			if c.scheduled[ti] || !c.candidate(ti) {
				continue
			}
			m := c.metric(ti)
			if best < 0 || m < bestMetric {
				best = ti
				bestMetric = m
			}
		}
		if best < 0 {
			// Unscheduled passes remain but none is schedulable: the
			// declared relation contains a cycle.
			return false
		}
		c.place(best, slot)
	}
	return true
}

func (c *compilation) candidate(ti int) bool {
	for _, ri := range c.info[ti].produced {
		if c.res[ri].remaining > 0 {
			return false
		}
	}
	return true
}

// metric is the stall heuristic: the latest chronological index at which
// any of the pass's products is first consumed by work already placed.
// Smaller is better (the output is needed sooner), so placing the winner
// just before the placed work minimizes the idle gap between production and
// first consumption. Passes whose products nobody placed needs yet score
// unconsumed and lose every tie. This optimizes the nearest consumer only;
// it makes no claim of global optimality.
func (c *compilation) metric(ti int) int {
	m := math.MinInt
	for _, ri := range c.info[ti].produced {
		if e := c.res[ri].earliest; e > m {
			m = e
		}
	}
	if m == math.MinInt {
		return unconsumed
	}
	return m
}

func (c *compilation) place(ti, slot int) {
	c.scheduled[ti] = true
	c.chrono[slot] = ti
	c.slotOf[ti] = slot
	for _, ri := range c.info[ti].consumed {
		if c.res[ri].producer == ti {
			continue
		}
		c.res[ri].remaining--
		// Slots are assigned in decreasing order, so this pass is now the
		// chronologically earliest consumer recorded for the resource.
		if slot < c.res[ri].earliest {
			c.res[ri].earliest = slot
		}
	}
}
