package bartime

import "sync"

// poolKey is the canonical (denominator, numerator) pair of a Time.
type poolKey struct {
	den int64
	num int64
}

// internPool holds every Time handed out by Of for the lifetime of the
// process. There is no eviction; scores use a small set of durations.
type internPool struct {
	mu     sync.RWMutex
	values map[poolKey]*Time
}

var pool = &internPool{values: make(map[poolKey]*Time)}

// get returns the canonical instance for an already reduced pair, creating it
// on first use. Two goroutines racing on an unseen pair observe the same
// instance.
func (p *internPool) get(num, den int64) *Time {
	k := poolKey{den: den, num: num}

	p.mu.RLock()
	t, ok := p.values[k]
	p.mu.RUnlock()
	if ok {
		return t
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.values[k]; ok {
		return t
	}
	t = &Time{num: num, den: den}
	p.values[k] = t
	return t
}

func (p *internPool) size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.values)
}

// PoolSize reports how many distinct values have been interned so far.
func PoolSize() int {
	return pool.size()
}
