// Package memhost is an in-memory navigation host. It keeps an address, a
// history stack and an auxiliary frame, and can behave like hosts with or
// without native hash change notification and hash history records.
package memhost

import (
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tidwall/gjson"

	"github.com/delaneyj/hasher/hasher"
	"github.com/delaneyj/hasher/pkg/turn"
)

// Entry is one history record. ID fingerprints the URL and frame document.
type Entry struct {
	ID  uint64
	URL string
	Doc string
}

type Option func(*Browser)

func WithFeatures(features ...hasher.Feature) Option {
	return func(b *Browser) {
		b.features = mapset.NewThreadUnsafeSet(features...)
	}
}

func WithTitle(title string) Option {
	return func(b *Browser) {
		b.title = title
	}
}

type subscriber struct {
	id int
	fn func()
}

// Browser implements hasher.Host and the optional host interfaces. Its
// embedded Manual clock drives polling: call Advance to run ticks.
type Browser struct {
	*turn.Manual

	features mapset.Set[hasher.Feature]
	title    string
	url      string
	entries  []Entry
	index    int
	subs     []subscriber
	nextSub  int
	writes   []string
}

// New creates a host at href. Without options it behaves like a modern host
// with native notification and hash history records.
func New(href string, opts ...Option) *Browser {
	b := &Browser{
		Manual:   turn.NewManual(),
		features: mapset.NewThreadUnsafeSet(hasher.FeatureHashChange, hasher.FeatureHistoryRecords),
		url:      href,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.entries = []Entry{newEntry(href, "")}
	return b
}

func newEntry(url, doc string) Entry {
	return Entry{
		ID:  xxhash.Sum64String(url + "\x00" + doc),
		URL: url,
		Doc: doc,
	}
}

func (b *Browser) Features() []hasher.Feature {
	return b.features.ToSlice()
}

func (b *Browser) records() bool {
	return b.features.Contains(hasher.FeatureHistoryRecords)
}

func (b *Browser) Href() string {
	return b.url
}

// SetHash is the programmatic hash write.
func (b *Browser) SetHash(value string) {
	b.writes = append(b.writes, value)
	base, _, _ := strings.Cut(b.url, "#")
	b.navigate(base + "#" + value)
}

// Navigate simulates the user typing href in the address bar.
func (b *Browser) Navigate(href string) {
	b.navigate(href)
}

func (b *Browser) navigate(href string) {
	if href == b.url {
		return
	}
	b.url = href
	if b.records() {
		b.push(newEntry(href, b.entries[b.index].Doc))
	} else {
		cur := b.entries[b.index]
		b.entries[b.index] = newEntry(href, cur.Doc)
	}
	b.notify()
}

func (b *Browser) push(e Entry) {
	b.entries = append(b.entries[:b.index+1], e)
	b.index = len(b.entries) - 1
}

// Writes lists every value passed to SetHash, in order.
func (b *Browser) Writes() []string {
	return append([]string(nil), b.writes...)
}

func (b *Browser) History() []Entry {
	return append([]Entry(nil), b.entries...)
}

func (b *Browser) Current() Entry {
	return b.entries[b.index]
}

func (b *Browser) Back() {
	b.Go(-1)
}

func (b *Browser) Forward() {
	b.Go(1)
}

// Go moves through history. Hosts without hash history records only restore
// the frame document; the address keeps showing the latest hash.
func (b *Browser) Go(delta int) {
	i := b.index + delta
	if delta == 0 || i < 0 || i >= len(b.entries) {
		return
	}
	b.index = i
	if !b.records() {
		return
	}
	if u := b.entries[i].URL; u != b.url {
		b.url = u
		b.notify()
	}
}

func (b *Browser) Title() string {
	return b.title
}

func (b *Browser) SetTitle(title string) {
	b.title = title
}

func (b *Browser) OnHashChange(fn func()) (cancel func()) {
	b.nextSub++
	id := b.nextSub
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Browser) notify() {
	if !b.features.Contains(hasher.FeatureHashChange) {
		return
	}
	subs := append([]subscriber(nil), b.subs...)
	for _, s := range subs {
		s.fn()
	}
}

func (b *Browser) CreateFrame() hasher.Frame {
	return &Frame{b: b}
}

// Frame is the auxiliary document. Each write is a new history entry.
type Frame struct {
	b *Browser
}

var frameHashRegexp = regexp.MustCompile(`var frameHash=("(?:[^"\\]|\\.)*");`)

func (f *Frame) Write(doc string) {
	f.b.push(newEntry(f.b.url, doc))
}

func (f *Frame) Doc() string {
	return f.b.entries[f.b.index].Doc
}

func (f *Frame) FrameHash() (string, bool) {
	m := frameHashRegexp.FindStringSubmatch(f.Doc())
	if m == nil {
		return "", false
	}
	v := gjson.Parse(m[1])
	if v.Type != gjson.String {
		return "", false
	}
	return v.String(), true
}
