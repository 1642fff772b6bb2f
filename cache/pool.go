// SPDX-License-Identifier: EPL-2.0

package cache

// Pool is a fixed-capacity map from block index to value.
//
// When a Put would exceed the capacity, the resident entry whose index is
// farthest from the new one is evicted, the lowest slot winning ties. The
// newcomer takes the victim's slot. Scrolling and zooming tend to move monotonically, so
// the farthest block is the least likely to be asked for next.
//
// Pool is not safe for concurrent use.
type Pool[V any] struct {
	capacity int
	keys     []int64
	vals     []V
}

// NewPool returns an empty pool holding at most capacity entries. A
// capacity below one is raised to one.
func NewPool[V any](capacity int) *Pool[V] {
	capacity = max(capacity, 1)

	return &Pool[V]{
		capacity: capacity,
		keys:     make([]int64, 0, capacity),
		vals:     make([]V, 0, capacity),
	}
}

func (p *Pool[V]) Cap() int { return p.capacity }
func (p *Pool[V]) Len() int { return len(p.keys) }

// Keys returns the resident indexes in slot order.
func (p *Pool[V]) Keys() []int64 {
	return append([]int64(nil), p.keys...)
}

func (p *Pool[V]) slot(key int64) int {
	for i, k := range p.keys {
		if k == key {
			return i
		}
	}

	return -1
}

func (p *Pool[V]) Get(key int64) (V, bool) {
	if i := p.slot(key); i >= 0 {
		return p.vals[i], true
	}

	var zero V
	return zero, false
}

// Put stores v under key. If that evicted another entry, its index is
// returned with ok set.
func (p *Pool[V]) Put(key int64, v V) (evicted int64, ok bool) {
	if i := p.slot(key); i >= 0 {
		p.vals[i] = v
		return 0, false
	}

	if len(p.keys) < p.capacity {
		p.keys = append(p.keys, key)
		p.vals = append(p.vals, v)
		return 0, false
	}

	victim := p.farthest(key)
	evicted = p.keys[victim]
	p.keys[victim] = key
	p.vals[victim] = v

	return evicted, true
}

func (p *Pool[V]) farthest(key int64) int {
	victim, dist := 0, int64(-1)
	for i, k := range p.keys {
		d := k - key
		if d < 0 {
			d = -d
		}
		if d > dist {
			victim, dist = i, d
		}
	}

	return victim
}

// Clear drops every entry.
func (p *Pool[V]) Clear() {
	clear(p.vals)
	p.keys = p.keys[:0]
	p.vals = p.vals[:0]
}
