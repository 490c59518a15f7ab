// Package signals is a small typed broadcaster: a Signal keeps an ordered set of
// listener bindings and dispatches values to them synchronously.
package signals

import (
	"errors"
	"fmt"
)

var (
	ErrNilListener  = errors.New("signals: listener is required")
	ErrOnceMismatch = errors.New("signals: listener already added with different once semantics, remove it first")
	ErrDisposed     = errors.New("signals: use after dispose")
)

// Listener wraps a callback. The pointer is the identity used to dedupe
// registrations, so keep the same *Listener around to remove it later.
type Listener[T any] struct {
	fn func(ctx any, v T) bool
}

// Listen creates a listener that never stops propagation.
func Listen[T any](fn func(v T)) *Listener[T] {
	return &Listener[T]{fn: func(_ any, v T) bool {
		fn(v)
		return true
	}}
}

// ListenFunc creates a listener that halts the dispatch when it returns false.
func ListenFunc[T any](fn func(v T) bool) *Listener[T] {
	return &Listener[T]{fn: func(_ any, v T) bool {
		return fn(v)
	}}
}

// ListenContext creates a listener that also receives the binding Context.
func ListenContext[T any](fn func(ctx any, v T) bool) *Listener[T] {
	return &Listener[T]{fn: fn}
}

type Signal[T any] struct {
	bindings    []*Binding[T]
	enabled     bool
	propagating bool
	disposed    bool
}

func New[T any]() *Signal[T] {
	return &Signal[T]{
		enabled:     true,
		propagating: true,
	}
}

func (s *Signal[T]) mustLive() {
	if s.disposed {
		panic(ErrDisposed)
	}
}

// Add registers a persistent listener. Adding a bound listener again returns
// its existing binding.
func (s *Signal[T]) Add(l *Listener[T]) *Binding[T] {
	return s.register(l, false, nil)
}

// AddOnce registers a listener that detaches itself after its first execution.
func (s *Signal[T]) AddOnce(l *Listener[T]) *Binding[T] {
	return s.register(l, true, nil)
}

// AddContext is Add with the binding Context set. An existing binding keeps
// its Context.
func (s *Signal[T]) AddContext(l *Listener[T], ctx any) *Binding[T] {
	return s.register(l, false, ctx)
}

func (s *Signal[T]) AddOnceContext(l *Listener[T], ctx any) *Binding[T] {
	return s.register(l, true, ctx)
}

func (s *Signal[T]) register(l *Listener[T], once bool, ctx any) *Binding[T] {
	s.mustLive()
	if l == nil {
		panic(ErrNilListener)
	}

	if i := s.indexOf(l); i != -1 {
		b := s.bindings[i]
		if b.once != once {
			panic(ErrOnceMismatch)
		}
		return b
	}

	b := &Binding[T]{
		listener: l,
		once:     once,
		enabled:  true,
		signal:   s,
		Context:  ctx,
	}
	s.bindings = append(s.bindings, b)
	return b
}

func (s *Signal[T]) indexOf(l *Listener[T]) int {
	for i, b := range s.bindings {
		if b.listener == l {
			return i
		}
	}
	return -1
}

func (s *Signal[T]) removeAt(i int) {
	s.bindings[i].destroy()
	// copy instead of reslicing in place so snapshots taken by an in-flight
	// dispatch keep their own backing array
	next := make([]*Binding[T], 0, len(s.bindings)-1)
	next = append(next, s.bindings[:i]...)
	s.bindings = append(next, s.bindings[i+1:]...)
}

// Has reports whether l is currently bound.
func (s *Signal[T]) Has(l *Listener[T]) bool {
	s.mustLive()
	return s.indexOf(l) != -1
}

// Remove detaches and destroys the binding for l. Removing an absent listener
// is a no-op.
func (s *Signal[T]) Remove(l *Listener[T]) *Listener[T] {
	s.mustLive()
	if l == nil {
		panic(ErrNilListener)
	}
	if i := s.indexOf(l); i != -1 {
		s.removeAt(i)
	}
	return l
}

func (s *Signal[T]) RemoveAll() {
	s.mustLive()
	for n := len(s.bindings) - 1; n >= 0; n-- {
		s.removeAt(n)
	}
}

func (s *Signal[T]) NumListeners() int {
	s.mustLive()
	return len(s.bindings)
}

func (s *Signal[T]) Enable() {
	s.mustLive()
	s.enabled = true
}

// Disable blocks dispatch until Enable is called.
func (s *Signal[T]) Disable() {
	s.mustLive()
	s.enabled = false
}

func (s *Signal[T]) IsEnabled() bool {
	s.mustLive()
	return s.enabled
}

// Halt stops the remaining bindings of the dispatch currently in progress.
func (s *Signal[T]) Halt() {
	s.mustLive()
	s.propagating = false
}

// Dispatch runs every enabled binding in registration order. Bindings added
// while dispatching are not called until the next dispatch; bindings removed
// while dispatching are skipped.
func (s *Signal[T]) Dispatch(v T) {
	s.mustLive()
	if !s.enabled {
		return
	}

	bindings := s.bindings
	s.propagating = true

	for _, b := range bindings {
		if b.destroyed {
			continue
		}
		if !b.Execute(v) || !s.propagating {
			break
		}
	}
}

// Dispose removes every binding and leaves the signal unusable.
func (s *Signal[T]) Dispose() {
	s.RemoveAll()
	s.bindings = nil
	s.disposed = true
}

func (s *Signal[T]) String() string {
	if s.disposed {
		return "[Signal disposed]"
	}
	return fmt.Sprintf("[Signal isEnabled: %t numListeners: %d]", s.enabled, len(s.bindings))
}
