/*
Package pqueue provides a min-priority queue keyed by float64 priorities.

Every pushed value is wrapped in an *Item that acts as its identity. Items can
be removed from anywhere in the queue in O(log n) using that handle, so two
values with identical contents and identical priorities remain independently
removable:

	q := pqueue.New[string]()
	a := q.Push("tick", 2.0)
	b := q.Push("tick", 2.0)

	q.Remove(a) // b stays queued

	if it, ok := q.Peek(); ok && it.Priority() <= now {
		it, _ = q.Pop()
		fmt.Println(it.Value)
	}

Bulk priority changes go through Rescore, which rewrites every priority and
re-heapifies once:

	q.Rescore(func(v string, old float64) float64 { return old * 2 })

Equal priorities are popped in no particular order.

The queue is not safe for concurrent use. It does tolerate Push and Remove
calls made between Peek and Pop from the same goroutine, which is what a
tick loop with reentrant callbacks needs.
*/
package pqueue
