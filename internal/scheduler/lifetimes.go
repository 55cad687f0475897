package scheduler

// computeLifetimes walks the chronological order once and records the
// minimal-but-sufficient lifetime interval of every resource: from its
// producer's slot to just past its last consumer's slot. Non-aliasable
// resources (by declaration or by any non-aliasable use) are pinned to the
// whole plan up front.
func (c *compilation) computeLifetimes() {
	n := len(c.tasks)

	for ri, d := range c.decls {
		if !d.Aliasable {
			c.pinFull(ri, n)
		}
	}

	for i := 0; i < n; i++ {
		for _, u := range c.tasks[c.chrono[i]].Uses {
			ri := u.Resource.Index()
			if u.NonAliasable {
				c.pinFull(ri, n)
			}
			st := &c.res[ri]
			if st.full {
				continue
			}
			if u.Produce {
				st.start = i
			}
			if st.end < i+1 {
				st.end = i + 1
			}
		}
	}
}

func (c *compilation) pinFull(ri, n int) {
	st := &c.res[ri]
	st.full = true
	st.start = 0
	st.end = n
}

// extendLifetimes eliminates the need for explicit aliasing barriers. A
// later resource may reuse this one's memory without a barrier only if the
// later resource's first use is reachable from this one's last use through
// the dependency edges. For each pass we find the furthest later slot NOT
// reachable from it and stretch the lifetime of every resource the pass
// uses to cover that slot: anything past the stretched end is then
// guaranteed reachable, so reuse needs no barrier. The cost is prolonged
// memory occupancy.
func (c *compilation) extendLifetimes() {
	n := len(c.tasks)
	for i := 0; i < n; i++ {
		uses := c.tasks[c.chrono[i]].Uses
		if len(uses) == 0 {
			continue
		}

		// Slots below the minimal current end are already covered by the
		// lifetimes themselves.
		min := n
		for _, u := range uses {
			if e := c.res[u.Resource.Index()].end; e < min {
				min = e
			}
		}
		if min >= n {
			continue
		}

		c.markReachable(i)
		for j := n - 1; j >= min; j-- {
			if c.mark[j] == c.gen {
				continue
			}
			for _, u := range uses {
				st := &c.res[u.Resource.Index()]
				if !st.full && st.end < j+1 {
					st.end = j + 1
				}
			}
			break
		}
	}
}

// markReachable tags every slot reachable from slot i (inclusive) through
// the forward dependency edges with a fresh generation, via breadth-first
// relaxation.
func (c *compilation) markReachable(i int) {
	c.gen++
	c.mark[i] = c.gen
	queue := []int{i}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, t := range c.next[s] {
			if c.mark[t] != c.gen {
				c.mark[t] = c.gen
				queue = append(queue, t)
			}
		}
	}
}
