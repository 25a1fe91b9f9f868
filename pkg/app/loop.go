package app

import (
	"context"
	"sync"
	"time"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

type task struct {
	ev   Event
	fn   func(*App) error
	done chan error
}

// Loop runs all work on an App from one goroutine, in FIFO order.
type Loop struct {
	app     *App
	handler Handler

	mu     sync.Mutex
	queue  []task
	notify chan struct{}
}

// NewLoop creates a loop over a. A nil handler uses [DefaultHandler].
func NewLoop(a *App, h Handler) *Loop {
	if h == nil {
		h = DefaultHandler
	}
	return &Loop{app: a, handler: h, notify: make(chan struct{}, 1)}
}

// Post enqueues an event. It is safe to call from any goroutine. A nil
// event is dropped.
func (l *Loop) Post(ev Event) {
	if ev == nil {
		return
	}
	l.push(task{ev: ev})
}

// Do runs fn on the loop goroutine and waits for its result. It must not
// be called from the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func(*App) error) error {
	t := task{fn: fn, done: make(chan error, 1)}
	l.push(t)
	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) push(t task) {
	l.mu.Lock()
	l.queue = append(l.queue, t)
	l.mu.Unlock()
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *Loop) pop() (task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return task{}, false
	}
	t := l.queue[0]
	l.queue[0] = task{}
	l.queue = l.queue[1:]
	return t, true
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Step runs the oldest queued task. It reports false when the queue was
// empty.
func (l *Loop) Step() bool {
	t, ok := l.pop()
	if !ok {
		return false
	}
	l.run(t)
	return true
}

// Drain runs queued tasks until the queue is empty, including tasks posted
// while draining, and returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for l.Step() {
		n++
	}
	return n
}

func (l *Loop) run(t task) {
	var err error
	if t.fn != nil {
		err = t.fn(l.app)
	} else {
		err = l.handler.Handle(l.app, t.ev)
		if err != nil {
			l.app.Logger.Warn("event failed", "event", t.ev.Name(), "error", errs.UserMessage(err))
		}
	}
	if t.done != nil {
		t.done <- err
	}
}

// Run processes tasks until ctx is cancelled. While the simulation is
// running a TickEvent is posted every 1/TickRate seconds.
func (l *Loop) Run(ctx context.Context) error {
	rate := max(l.app.Config.Simulation.TickRate, 1)
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.notify:
		case <-ticker.C:
			if l.app.Sim.Running() {
				l.Post(TickEvent{})
			}
		}
	}
}
