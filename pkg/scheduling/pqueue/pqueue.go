package pqueue

import (
	"container/heap"
)

// Item is a queued value together with its priority. The pointer is the
// item's identity: Remove and Fix operate on exactly this item.
type Item[T any] struct {
	Value    T
	priority float64
	index    int // position in the heap, -1 once detached
}

// Priority returns the item's current priority.
func (it *Item[T]) Priority() float64 { return it.priority }

// Queued reports whether the item is still held by a queue.
func (it *Item[T]) Queued() bool { return it.index >= 0 }

// Queue is a binary min-heap of items ordered by priority.
type Queue[T any] struct {
	items itemHeap[T]
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.items) }

// Push adds value with the given priority and returns its handle.
func (q *Queue[T]) Push(value T, priority float64) *Item[T] {
	it := &Item[T]{Value: value, priority: priority}
	heap.Push(&q.items, it)
	return it
}

// Peek returns the minimum-priority item without removing it.
func (q *Queue[T]) Peek() (*Item[T], bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// Pop removes and returns the minimum-priority item.
func (q *Queue[T]) Pop() (*Item[T], bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return heap.Pop(&q.items).(*Item[T]), true
}

// Remove detaches it from the queue. It returns false when the item was
// already popped, removed, or belongs to another queue.
func (q *Queue[T]) Remove(it *Item[T]) bool {
	if !q.owns(it) {
		return false
	}
	heap.Remove(&q.items, it.index)
	return true
}

// Fix changes the priority of a queued item and restores heap order.
func (q *Queue[T]) Fix(it *Item[T], priority float64) bool {
	if !q.owns(it) {
		return false
	}
	it.priority = priority
	heap.Fix(&q.items, it.index)
	return true
}

// Clear detaches every item and empties the queue.
func (q *Queue[T]) Clear() {
	for _, it := range q.items {
		it.index = -1
	}
	q.items = nil
}

// Each calls fn for every queued item in heap order (not sorted order).
// fn must not push or remove items.
func (q *Queue[T]) Each(fn func(it *Item[T])) {
	for _, it := range q.items {
		fn(it)
	}
}

// Rescore replaces every priority with fn(value, old) and re-heapifies.
func (q *Queue[T]) Rescore(fn func(value T, old float64) float64) {
	for _, it := range q.items {
		it.priority = fn(it.Value, it.priority)
	}
	heap.Init(&q.items)
}

func (q *Queue[T]) owns(it *Item[T]) bool {
	return it != nil && it.index >= 0 && it.index < len(q.items) && q.items[it.index] == it
}

// itemHeap implements heap.Interface as a min-heap on priority.
type itemHeap[T any] []*Item[T]

func (h itemHeap[T]) Len() int           { return len(h) }
func (h itemHeap[T]) Less(i, j int) bool { return h[i].priority < h[j].priority }

func (h itemHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *itemHeap[T]) Push(x interface{}) {
	it := x.(*Item[T])
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *itemHeap[T]) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil // allow GC
	it.index = -1
	*h = old[0 : n-1]
	return it
}
