// Package turn provides cooperative schedulers that run callbacks one at a
// time, the way a browser event loop does.
package turn

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrLoopClosed  = errors.New("turn: loop is closed")
	ErrLoopRunning = errors.New("turn: loop is already running")
)

// Loop runs posted tasks serially on the goroutine that called Run. Anything
// touching a hasher.Engine from outside that goroutine should Post to it.
type Loop struct {
	tasks chan func()

	mu      sync.Mutex
	running bool
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run executes tasks until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	if l.running {
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn. It blocks while the queue is full and reports false once the
// loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do posts fn and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
}

// Every posts fn to the loop every d until cancelled. A tick is dropped while
// the previous one is still queued.
func (l *Loop) Every(d time.Duration, fn func()) (cancel func()) {
	stop := make(chan struct{})
	var once sync.Once
	var pending sync.Mutex
	queued := false

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				pending.Lock()
				if queued {
					pending.Unlock()
					continue
				}
				queued = true
				pending.Unlock()

				l.Post(func() {
					pending.Lock()
					queued = false
					pending.Unlock()
					select {
					case <-stop:
						return
					default:
					}
					fn()
				})
			}
		}
	}()

	return func() {
		once.Do(func() { close(stop) })
	}
}

// Close stops the loop and every ticker started with Every.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.done)
	l.mu.Unlock()

	l.wg.Wait()
	return nil
}
