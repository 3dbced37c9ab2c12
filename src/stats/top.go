package stats

import (
	"container/heap"
)

type counted struct {
	PathCount
	seq int // first-seen position
}

// worse reports whether a ranks below b: fewer hits, or the same hits but
// seen later.
func worse(a, b counted) bool {
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.seq > b.seq
}

// rankHeap keeps the worst entry at the root so it can be evicted.
type rankHeap []counted

func (h rankHeap) Len() int           { return len(h) }
func (h rankHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h rankHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *rankHeap) Push(x any)        { *h = append(*h, x.(counted)) }
func (h *rankHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// counter counts keys and remembers the order in which they first appeared.
type counter struct {
	index   map[string]int
	entries []PathCount
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string) {
	i, ok := c.index[key]
	if !ok {
		i = len(c.entries)
		c.index[key] = i
		c.entries = append(c.entries, PathCount{Path: key})
	}
	c.entries[i].Count++
}

// top returns the n keys with the highest counts, highest first. Equal counts
// keep first-seen order.
func (c *counter) top(n int) []PathCount {
	if n <= 0 {
		return []PathCount{}
	}
	h := make(rankHeap, 0, min(n, len(c.entries)))
	for i, e := range c.entries {
		item := counted{PathCount: e, seq: i}
		if h.Len() < n {
			heap.Push(&h, item)
			continue
		}
		if worse(h[0], item) {
			h[0] = item
			heap.Fix(&h, 0)
		}
	}
	out := make([]PathCount, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(counted).PathCount
	}
	return out
}
