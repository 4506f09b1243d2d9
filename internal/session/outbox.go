package session

import (
	"sync"

	"github.com/gammazero/deque"
)

// Outbox is the connection task's unbounded outbound MPSC queue (§4.7):
// any subsystem can enqueue bytes destined for the peer without blocking,
// and the single write-side goroutine drains it in FIFO order. Built over
// gammazero/deque, which amortizes growth far better than repeated slice
// reallocation for a queue whose depth rises and falls with traffic
// bursts.
type Outbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  deque.Deque[[]byte]
	closed bool
}

// NewOutbox builds an empty, open Outbox.
func NewOutbox() *Outbox {
	o := &Outbox{}
	o.cond = sync.NewCond(&o.mu)
	return o
}

// Send enqueues a frame's worth of bytes. A no-op once Close has been
// called, matching the "best effort" backpressure policy in §5.
func (o *Outbox) Send(b []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.items.PushBack(b)
	o.cond.Signal()
}

// Recv blocks until a frame is available or the Outbox is closed. The
// second return value is false only once closed with nothing left to
// drain.
func (o *Outbox) Recv() ([]byte, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for o.items.Len() == 0 && !o.closed {
		o.cond.Wait()
	}
	if o.items.Len() == 0 {
		return nil, false
	}
	return o.items.PopFront(), true
}

// Close wakes any blocked Recv and makes further Send calls no-ops. Frames
// already queued stay readable: Recv keeps returning them until the queue
// is drained, and only then reports false.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.cond.Broadcast()
}
