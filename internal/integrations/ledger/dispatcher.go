package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrQueueFull means the dispatcher queue rejected an event. The decision has
// already been returned to the caller, so this is logged, never surfaced.
var ErrQueueFull = errors.New("webhook queue full")

// Task is the handle for one scheduled delivery. Wait blocks until the retry
// loop reaches a terminal state and reports it.
type Task struct {
	event models.ApprovalEvent
	done  chan struct{}
	err   error
}

// Wait blocks until the delivery is terminal and returns nil for Delivered
// or ErrDeliveryExhausted.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Dispatcher runs webhook deliveries on background workers so the retry loop
// never blocks or fails the request that produced the event.
type Dispatcher struct {
	client *Client
	tasks  chan *Task
	wg     sync.WaitGroup
	log    *logrus.Logger
}

// NewDispatcher initializes a dispatcher with the given worker count and
// queue depth.
func NewDispatcher(client *Client, workers, queueSize int, log *logrus.Logger) *Dispatcher {
	d := &Dispatcher{
		client: client,
		tasks:  make(chan *Task, queueSize),
		log:    log,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for task := range d.tasks {
		// Deliveries are not cancellable once scheduled; the only exits
		// are success or exhaustion.
		task.err = d.client.Deliver(context.Background(), task.event)
		if task.err != nil {
			d.log.Errorf("Dropping undelivered event for decision %s: %v", task.event.DecisionID, task.err)
		}
		close(task.done)
	}
}

// Enqueue schedules an event for delivery and returns its task handle.
func (d *Dispatcher) Enqueue(event models.ApprovalEvent) (*Task, error) {
	task := &Task{event: event, done: make(chan struct{})}
	select {
	case d.tasks <- task:
		return task, nil
	default:
		return nil, ErrQueueFull
	}
}

// Stop drains the queue and waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	close(d.tasks)
	d.wg.Wait()
}
