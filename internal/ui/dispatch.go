package ui

import "sync"

// controllerQueue runs controller calls one at a time, in the order they
// were queued, on a single worker goroutine. The model goroutine never
// blocks on it.
type controllerQueue struct {
	once    sync.Once
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

func (q *controllerQueue) push(fn func()) {
	q.once.Do(func() {
		q.wake = make(chan struct{}, 1)
		go q.drain()
	})
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *controllerQueue) drain() {
	for range q.wake {
		for {
			q.mu.Lock()
			if len(q.pending) == 0 {
				q.mu.Unlock()
				break
			}
			fn := q.pending[0]
			q.pending[0] = nil
			q.pending = q.pending[1:]
			q.mu.Unlock()
			fn()
		}
	}
}
