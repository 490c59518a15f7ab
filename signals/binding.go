package signals

import "fmt"

// Binding is the relationship between one Listener and one Signal.
type Binding[T any] struct {
	listener *Listener[T]
	once     bool
	enabled  bool
	signal   *Signal[T]

	// Context is handed to listeners created with ListenContext.
	Context any

	destroyed bool
}

func (b *Binding[T]) mustLive() {
	if b.destroyed {
		panic(ErrDisposed)
	}
}

// Execute calls the listener unless the binding is disabled. It reports
// whether the dispatch should keep going. Once bindings detach right after the
// call, whatever the listener returned.
func (b *Binding[T]) Execute(v T) bool {
	b.mustLive()
	if !b.enabled {
		return true
	}

	proceed := b.listener.fn(b.Context, v)
	if b.once && !b.destroyed {
		b.Detach()
	}
	return proceed
}

// Detach removes the binding from its signal and returns the listener.
func (b *Binding[T]) Detach() *Listener[T] {
	b.mustLive()
	return b.signal.Remove(b.listener)
}

func (b *Binding[T]) Listener() *Listener[T] {
	b.mustLive()
	return b.listener
}

func (b *Binding[T]) Enable() {
	b.mustLive()
	b.enabled = true
}

// Disable makes dispatches skip this binding without removing it.
func (b *Binding[T]) Disable() {
	b.mustLive()
	b.enabled = false
}

func (b *Binding[T]) IsEnabled() bool {
	b.mustLive()
	return b.enabled
}

func (b *Binding[T]) IsOnce() bool {
	b.mustLive()
	return b.once
}

func (b *Binding[T]) Dispose() {
	b.Detach()
}

func (b *Binding[T]) destroy() {
	b.destroyed = true
	b.signal = nil
	b.listener = nil
	b.Context = nil
}

func (b *Binding[T]) String() string {
	if b.destroyed {
		return "[SignalBinding destroyed]"
	}
	return fmt.Sprintf("[SignalBinding isOnce: %t, isEnabled: %t]", b.once, b.enabled)
}
