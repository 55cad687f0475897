package scheduler

// extractDependencies walks the chronological order and records, for every
// consuming use, a direct edge from the resource's producer to the
// consumer. Edges are recorded in both directions: the producer's next list
// feeds reachability analysis, the consumer's prev list becomes its
// wait-list. Multiple shared resources between the same two passes collapse
// to one edge via the generation mark, an amortized O(1) membership test
// that needs no per-pass set clearing.
func (c *compilation) extractDependencies() {
	for i := 0; i < len(c.tasks); i++ {
		c.gen++
		c.mark[i] = c.gen // no self edges
		for _, u := range c.tasks[c.chrono[i]].Uses {
			if u.Produce {
				continue
			}
			s := c.slotOf[c.res[u.Resource.Index()].producer]
			if c.mark[s] == c.gen {
				continue
			}
			c.mark[s] = c.gen
			c.next[s] = append(c.next[s], i)
			c.prev[i] = append(c.prev[i], s)
		}
	}
}
