package hasher

import "strings"

// registerChange decodes raw exactly once and registers the result.
func (e *Engine) registerChange(raw, source string) error {
	newHash, err := e.decode(raw)
	if err != nil {
		return err
	}
	e.register(newHash, source)
	return nil
}

// register is the only place that updates the stored hash and dispatches
// Changed. newHash must already be decoded.
func (e *Engine) register(newHash, source string) {
	if newHash == e.hash {
		return
	}

	old := e.hash
	e.hash = newHash
	if e.strategy == StrategyLegacy {
		e.updateFrame()
	}

	e.metrics.change(source)
	e.log.Debug("hasher changed", "old", old, "new", newHash, "source", source)
	e.changed.Dispatch(Change{New: e.trim(newHash), Old: e.trim(old)})
}

// windowFragment reads the raw hash from the full address instead of a
// dedicated accessor because some hosts hand back the hash already decoded.
func (e *Engine) windowFragment() string {
	_, frag, _ := strings.Cut(e.host.Href(), "#")
	return frag
}

func (e *Engine) windowHash() (string, error) {
	return e.decode(e.windowFragment())
}

func (e *Engine) updateFrame() {
	if e.frame == nil {
		return
	}
	title := ""
	if t, ok := e.host.(Titler); ok {
		title = t.Title()
	}
	if e.frame.update(title, e.hash) {
		e.log.Debug("hasher frame updated", "hash", e.hash)
	}
}

func (e *Engine) checkHistory() {
	if !e.active {
		return
	}
	e.metrics.tick(e.strategy)

	source := sourcePoll
	if e.strategy == StrategyReactive {
		source = sourceHashChange
	}
	if err := e.registerChange(e.windowFragment(), source); err != nil {
		e.tickFailed(err)
	}
}

func (e *Engine) checkHistoryLegacy() {
	if !e.active {
		return
	}
	e.metrics.tick(e.strategy)

	windowHash, err := e.windowHash()
	if err != nil {
		e.tickFailed(err)
		return
	}
	// the frame stores the decoded hash
	frameHash, ok := e.frame.hash()

	switch {
	case ok && frameHash != e.hash && frameHash != windowHash:
		// back/forward only moved the frame, the address still shows the
		// old hash
		e.writeHash(sourceFrame, frameHash)
	case windowHash != e.hash:
		e.register(windowHash, sourcePoll)
	}
}

func (e *Engine) tickFailed(err error) {
	e.log.Warn("hasher detection failed", "strategy", e.strategy.String(), "error", err)
}
