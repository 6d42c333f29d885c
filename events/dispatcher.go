// dispatcher.go - Asynchronous event queue
// Requests enqueue events and return immediately; a single background
// goroutine drains the queue in FIFO order and hands each event to the sinks.

package events

import (
	"context"
	"log"
	"sync"
	"time"
)

// Dispatcher decouples request handling from slow or unavailable brokers.
type Dispatcher struct {
	sink    Publisher
	queue   chan Event // buffered FIFO queue
	timeout time.Duration

	mu     sync.RWMutex // guards closed against concurrent Publish/Close
	closed bool
	done   chan struct{}
}

// NewDispatcher starts the background processor. size is the queue capacity.
func NewDispatcher(sink Publisher, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	d := &Dispatcher{
		sink:    sink,
		queue:   make(chan Event, size),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
	go d.process()
	return d
}

// Publish enqueues ev without blocking. When the queue is full the event is
// dropped and logged; callers never fail because of event delivery.
func (d *Dispatcher) Publish(_ context.Context, ev Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil
	}
	select {
	case d.queue <- ev:
	default:
		log.Printf("[events] queue full, dropping %s id=%s", ev.Type, ev.ID)
	}
	return nil
}

// process runs until the queue is closed, delivering events one at a time.
func (d *Dispatcher) process() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sink.Publish(ctx, ev); err != nil {
			log.Printf("[events] deliver %s id=%s: %v", ev.Type, ev.ID, err)
		}
		cancel()
	}
}

// Close stops accepting events and waits for queued ones to be delivered,
// or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
