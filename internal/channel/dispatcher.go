package channel

import (
	"context"
	"sync"
)

// Dispatcher runs turns of different conversations in parallel while turns of
// the same conversation run one at a time, in arrival order.
type Dispatcher struct {
	handler Handler

	mu     sync.Mutex
	queues map[string]*turnQueue
	wg     sync.WaitGroup
}

// turnQueue chains the turns of one conversation: each turn waits for the
// previous one to close its done channel.
type turnQueue struct {
	tail    chan struct{}
	pending int
}

func NewDispatcher(handler Handler) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		queues:  make(map[string]*turnQueue),
	}
}

// Dispatch handles msg on the calling goroutine once earlier turns of the same
// conversation are done.
func (d *Dispatcher) Dispatch(ctx context.Context, sender Sender, msg InboundMessage) {
	prev, done := d.enqueue(msg.ConversationID)
	d.run(ctx, sender, msg, prev, done)
}

// Go handles msg on its own goroutine. Ordering is fixed at call time, so
// callers must call Go in arrival order.
func (d *Dispatcher) Go(ctx context.Context, sender Sender, msg InboundMessage) {
	prev, done := d.enqueue(msg.ConversationID)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(ctx, sender, msg, prev, done)
	}()
}

// Wait blocks until every turn started with Go has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, sender Sender, msg InboundMessage, prev <-chan struct{}, done chan struct{}) {
	if prev != nil {
		<-prev
	}
	defer d.finish(msg.ConversationID, done)
	d.handler.HandleMessage(ctx, sender, msg)
}

func (d *Dispatcher) enqueue(id string) (<-chan struct{}, chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[id]
	if !ok {
		q = &turnQueue{}
		d.queues[id] = q
	}

	prev := q.tail
	done := make(chan struct{})
	q.tail = done
	q.pending++
	return prev, done
}

func (d *Dispatcher) finish(id string, done chan struct{}) {
	close(done)

	d.mu.Lock()
	defer d.mu.Unlock()
	q := d.queues[id]
	q.pending--
	if q.pending == 0 {
		delete(d.queues, id)
	}
}
