package cache

import "container/list"

// EvictionPolicy tracks the keys of a KeyedFutureCache and picks which one
// to drop when the cache grows past its capacity. Implementations are only
// called while the cache holds its lock.
type EvictionPolicy[K comparable] interface {
	Added(key K)
	Removed(key K)
	Victim() (K, bool)
}

// FIFO evicts by insertion order. Reads do not refresh a key.
type FIFO[K comparable] struct {
	order *list.List
	elems map[K]*list.Element
}

func NewFIFO[K comparable]() *FIFO[K] {
	return &FIFO[K]{
		order: list.New(),
		elems: make(map[K]*list.Element),
	}
}

func (f *FIFO[K]) Added(key K) {
	if _, ok := f.elems[key]; ok {
		return
	}
	f.elems[key] = f.order.PushBack(key)
}

func (f *FIFO[K]) Removed(key K) {
	if e, ok := f.elems[key]; ok {
		f.order.Remove(e)
		delete(f.elems, key)
	}
}

func (f *FIFO[K]) Victim() (K, bool) {
	e := f.order.Front()
	if e == nil {
		var zero K
		return zero, false
	}
	return e.Value.(K), true
}
