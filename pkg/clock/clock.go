package clock

import (
	"sync"
)

// TickFunc receives the clock's new time, in seconds, each time it advances.
type TickFunc func(now float64)

// Clock is a monotonically advancing source of logical time.
type Clock interface {
	// Now returns the time of the most recent tick, in seconds.
	Now() float64

	// OnTick registers fn to be called after every advance. The returned
	// function unregisters it and is safe to call more than once.
	OnTick(fn TickFunc) (cancel func())
}

// Listeners is a registry of tick subscribers. The zero value is ready to use.
// Subscribers added or removed while Notify runs take effect on the next call.
type Listeners struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber
}

type subscriber struct {
	id uint64
	fn TickFunc
}

// Add registers fn and returns its cancel function.
func (l *Listeners) Add(fn TickFunc) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.subs = append(l.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *Listeners) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered subscribers.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// Notify calls every subscriber with now, in registration order.
func (l *Listeners) Notify(now float64) {
	l.mu.Lock()
	snapshot := l.subs
	l.mu.Unlock()

	for _, s := range snapshot {
		s.fn(now)
	}
}
