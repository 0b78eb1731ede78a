// Package dispatch serializes work per key. Messages of one
// conversation must be handled in arrival order, one at a time, while
// different conversations proceed concurrently.
package dispatch

import (
	"context"
	"sync"
)

// Task is one unit of queued work.
type Task func(ctx context.Context)

// KeyedDispatcher runs tasks in FIFO order within a key and
// concurrently across keys. Each active key owns one drain goroutine;
// the goroutine exits when its queue empties, so idle conversations
// cost nothing.
type KeyedDispatcher struct {
	mu     sync.Mutex
	queues map[string][]Task
	wg     sync.WaitGroup

	// baseCtx is handed to tasks; it outlives the originating request.
	baseCtx context.Context
	closed  bool

	// onQueueCount is called when the number of active queues
	// changes, if set.
	onQueueCount func(count int)
}

// NewKeyedDispatcher creates a dispatcher. baseCtx bounds the lifetime
// of all queued work; it is usually the server's shutdown context.
func NewKeyedDispatcher(baseCtx context.Context) *KeyedDispatcher {
	return &KeyedDispatcher{
		queues:  make(map[string][]Task),
		baseCtx: baseCtx,
	}
}

// OnQueueCount sets a callback observing the active queue count.
// Must be called before the first Enqueue.
func (d *KeyedDispatcher) OnQueueCount(fn func(count int)) {
	d.onQueueCount = fn
}

// Enqueue queues a task for the key. The first task of an idle key
// starts a drain goroutine; later tasks append to its queue. Returns
// false if the dispatcher is shut down.
func (d *KeyedDispatcher) Enqueue(key string, task Task) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}

	queue, active := d.queues[key]
	d.queues[key] = append(queue, task)
	if !active {
		d.wg.Add(1)
		go d.drain(key)
	}
	count := len(d.queues)
	d.mu.Unlock()

	if !active && d.onQueueCount != nil {
		d.onQueueCount(count)
	}
	return true
}

// drain runs the key's tasks until the queue empties, then removes the
// queue. The queue entry existing in the map is what marks the key
// active, so removal and the empty check happen under the same lock.
func (d *KeyedDispatcher) drain(key string) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		queue := d.queues[key]
		if len(queue) == 0 {
			delete(d.queues, key)
			count := len(d.queues)
			d.mu.Unlock()
			if d.onQueueCount != nil {
				d.onQueueCount(count)
			}
			return
		}
		task := queue[0]
		d.queues[key] = queue[1:]
		d.mu.Unlock()

		task(d.baseCtx)
	}
}

// Shutdown stops accepting tasks and waits for queued work to finish
// or the context to expire.
func (d *KeyedDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ActiveQueues returns the number of keys with pending or running work.
func (d *KeyedDispatcher) ActiveQueues() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}
