// Package hasher keeps a single hash-like position in sync with a host
// navigation surface and reports every effective change exactly once.
//
// An Engine is not safe for concurrent use. Calls, scheduler ticks and host
// notifications must all happen on one goroutine; turn.Loop provides one.
// Listeners may call back into the Engine while it dispatches.
package hasher

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/hasher/pkg/queryutil"
	"github.com/delaneyj/hasher/signals"
)

const (
	Version = "1.0.0"

	DefaultPollInterval = 25 * time.Millisecond
)

var (
	ErrNilHost       = errors.New("hasher: host is required")
	ErrNoScheduler   = errors.New("hasher: polling strategy needs a scheduler")
	ErrDisposed      = errors.New("hasher: use after dispose")
	ErrMalformedHash = errors.New("hasher: malformed percent-encoding")
)

// Change is the payload of every engine signal. Both values have the
// configured markers trimmed.
type Change struct {
	New string
	Old string
}

type Strategy int

const (
	// StrategyReactive listens to the host's native hash change notification.
	StrategyReactive Strategy = iota
	// StrategyPolling compares the host hash on a fixed interval.
	StrategyPolling
	// StrategyLegacy polls and also consults the auxiliary frame to notice
	// back/forward navigation the host hash does not reflect.
	StrategyLegacy
)

func (s Strategy) String() string {
	switch s {
	case StrategyReactive:
		return "reactive"
	case StrategyPolling:
		return "polling"
	case StrategyLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

type Engine struct {
	// PrependHash, AppendHash and Separator may change at any time; they
	// affect subsequent reads and writes.
	PrependHash string
	AppendHash  string
	Separator   string

	host     Host
	notifier HashChangeNotifier
	frames   FrameFactory
	features mapset.Set[Feature]
	strategy Strategy
	opts     options
	log      *slog.Logger
	metrics  *metrics

	changed     *signals.Signal[Change]
	initialized *signals.Signal[Change]
	stopped     *signals.Signal[Change]

	hash     string
	active   bool
	disposed bool
	frame    *legacyFrame
	cancel   func()
}

// New probes host once and picks the detection strategy for the lifetime of
// the engine.
func New(host Host, opts ...Option) (*Engine, error) {
	if host == nil {
		return nil, ErrNilHost
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		PrependHash: "/",
		AppendHash:  "",
		Separator:   "/",
		host:        host,
		opts:        o,
		log:         o.logger,
		changed:     signals.New[Change](),
		initialized: signals.New[Change](),
		stopped:     signals.New[Change](),
	}

	e.features = e.probe()
	e.strategy = e.chooseStrategy()

	if e.strategy != StrategyReactive && e.opts.scheduler == nil {
		if s, ok := host.(Scheduler); ok {
			e.opts.scheduler = s
		} else {
			return nil, ErrNoScheduler
		}
	}

	if o.registerer != nil {
		m, err := newMetrics(o.registerer, o.namespace)
		if err != nil {
			return nil, fmt.Errorf("hasher: %w", err)
		}
		e.metrics = m
	}

	e.log.Debug("hasher strategy selected",
		"strategy", e.strategy.String(),
		"features", e.features.ToSlice(),
	)
	return e, nil
}

func (e *Engine) probe() mapset.Set[Feature] {
	features := mapset.NewThreadUnsafeSet(e.host.Features()...)

	if n, ok := e.host.(HashChangeNotifier); ok {
		e.notifier = n
	} else {
		features.Remove(FeatureHashChange)
	}
	if f, ok := e.host.(FrameFactory); ok {
		e.frames = f
	}
	return features
}

func (e *Engine) chooseStrategy() Strategy {
	switch {
	case e.features.Contains(FeatureHashChange):
		return StrategyReactive
	case e.features.Contains(FeatureHistoryRecords):
		return StrategyPolling
	case e.frames != nil:
		return StrategyLegacy
	default:
		e.log.Warn("hasher host records no history and has no frame support, back/forward may be missed")
		return StrategyPolling
	}
}

func (e *Engine) mustLive() {
	if e.disposed {
		panic(ErrDisposed)
	}
}

// Features returns a copy of the capabilities found at construction.
func (e *Engine) Features() mapset.Set[Feature] {
	return e.features.Clone()
}

func (e *Engine) Strategy() Strategy {
	return e.strategy
}

func (e *Engine) Changed() *signals.Signal[Change] {
	return e.changed
}

func (e *Engine) Initialized() *signals.Signal[Change] {
	return e.initialized
}

func (e *Engine) Stopped() *signals.Signal[Change] {
	return e.stopped
}

// Init captures the host hash as baseline and starts detection. Calling it
// while active does nothing.
func (e *Engine) Init() error {
	e.mustLive()
	if e.active {
		return nil
	}

	raw, err := e.windowHash()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	old := e.hash
	e.hash = raw

	switch e.strategy {
	case StrategyReactive:
		e.cancel = e.notifier.OnHashChange(e.checkHistory)
	case StrategyLegacy:
		if e.frame == nil {
			e.frame = newLegacyFrame(e.frames.CreateFrame())
		}
		e.updateFrame()
		e.cancel = e.opts.scheduler.Every(e.opts.interval, e.checkHistoryLegacy)
	default:
		e.cancel = e.opts.scheduler.Every(e.opts.interval, e.checkHistory)
	}
	e.active = true

	e.log.Debug("hasher initialized", "hash", e.hash, "strategy", e.strategy.String())
	e.initialized.Dispatch(Change{New: e.trim(e.hash), Old: e.trim(old)})
	return nil
}

// Stop halts detection. Calling it while inactive does nothing.
func (e *Engine) Stop() {
	e.mustLive()
	if !e.active {
		return
	}

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.active = false

	e.log.Debug("hasher stopped", "hash", e.hash)
	h := e.trim(e.hash)
	e.stopped.Dispatch(Change{New: h, Old: h})
}

func (e *Engine) IsActive() bool {
	return e.active
}

// Dispose stops the engine, removes every listener and makes any later call
// panic.
func (e *Engine) Dispose() {
	e.Stop()
	e.initialized.Dispose()
	e.stopped.Dispose()
	e.changed.Dispose()
	e.frame = nil
	e.disposed = true
}

func (e *Engine) URL() string {
	e.mustLive()
	return e.host.Href()
}

// BaseURL is URL without query and hash.
func (e *Engine) BaseURL() string {
	u := e.URL()
	if i := strings.IndexAny(u, "?#"); i != -1 {
		return u[:i]
	}
	return u
}

// SetHash joins segments with Separator, wraps them with the markers and
// registers the change before writing it to the host, so listeners and Hash
// see the new value even if the host write is slow or lost.
func (e *Engine) SetHash(segments ...string) error {
	e.mustLive()
	return e.setHash(sourceSetHash, segments...)
}

func (e *Engine) setHash(source string, segments ...string) error {
	path := strings.Join(segments, e.Separator)
	if path != "" {
		path = e.PrependHash + strings.TrimPrefix(path, "#") + e.AppendHash
	}
	hash, err := e.decode(path)
	if err != nil {
		return fmt.Errorf("set hash: %w", err)
	}
	if hash == e.hash {
		return nil
	}
	e.writeHash(source, hash)
	return nil
}

// writeHash registers an already decoded hash and then writes it to the host
// encoded, so a single decode of the address gives hash back.
func (e *Engine) writeHash(source, hash string) {
	e.register(hash, source)
	if e.disposed || e.hash != hash {
		// a listener moved the hash again while this change was dispatched;
		// that nested call already wrote the host
		return
	}

	value := encodeURI(hash)
	if e.features.Contains(FeatureLocalFile) && e.features.Contains(FeatureQueryEscape) {
		value = strings.Replace(value, "?", "%3F", 1)
	}
	e.host.SetHash(value)
}

// Hash returns the stored hash without markers. It never reads the host.
func (e *Engine) Hash() string {
	e.mustLive()
	return e.trim(e.hash)
}

func (e *Engine) HashAsArray() []string {
	return strings.Split(e.Hash(), e.Separator)
}

// HashQuery returns the query part of the hash without the leading '?'.
func (e *Engine) HashQuery() string {
	return strings.TrimPrefix(queryutil.QueryString(e.Hash()), "?")
}

func (e *Engine) HashQueryObject() map[string]any {
	return queryutil.ToQueryObject(e.HashQuery())
}

func (e *Engine) HashQueryParam(name string) any {
	return queryutil.ParamValue(name, e.Hash())
}

func (e *Engine) Title() string {
	e.mustLive()
	if t, ok := e.host.(Titler); ok {
		return t.Title()
	}
	return ""
}

func (e *Engine) SetTitle(title string) {
	e.mustLive()
	if t, ok := e.host.(Titler); ok {
		t.SetTitle(title)
	}
}

func (e *Engine) Back() {
	e.mustLive()
	if h, ok := e.host.(Historian); ok {
		h.Back()
	}
}

func (e *Engine) Forward() {
	e.mustLive()
	if h, ok := e.host.(Historian); ok {
		h.Forward()
	}
}

func (e *Engine) Go(delta int) {
	e.mustLive()
	if h, ok := e.host.(Historian); ok {
		h.Go(delta)
	}
}

func (e *Engine) String() string {
	if e.disposed {
		return fmt.Sprintf("[hasher version=%q disposed]", Version)
	}
	return fmt.Sprintf("[hasher version=%q hash=%q]", Version, e.Hash())
}
