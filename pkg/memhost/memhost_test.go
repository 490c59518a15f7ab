package memhost_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/hasher/hasher"
	"github.com/delaneyj/hasher/pkg/memhost"
)

func TestHistoryRecords(t *testing.T) {
	b := memhost.New("http://example.com/")

	notified := 0
	cancel := b.OnHashChange(func() { notified++ })

	b.SetHash("/a")
	b.SetHash("/b")
	assert.Equal(t, "http://example.com/#/b", b.Href())
	assert.Len(t, b.History(), 3)
	assert.Equal(t, 2, notified)

	b.Back()
	assert.Equal(t, "http://example.com/#/a", b.Href())
	assert.Equal(t, 3, notified)

	b.Go(-5)
	assert.Equal(t, "http://example.com/#/a", b.Href(), "out of range is ignored")

	b.SetHash("/c")
	assert.Len(t, b.History(), 3, "forward entries are dropped")

	cancel()
	b.SetHash("/d")
	assert.Equal(t, 4, notified)
	assert.Equal(t, []string{"/a", "/b", "/c", "/d"}, b.Writes())
}

func TestWithoutHistoryRecords(t *testing.T) {
	b := memhost.New("http://example.com/", memhost.WithFeatures())

	notified := 0
	b.OnHashChange(func() { notified++ })

	b.SetHash("/a")
	b.SetHash("/b")
	assert.Len(t, b.History(), 1)
	assert.Equal(t, 0, notified)
	assert.Equal(t, "http://example.com/#/b", b.Current().URL)
}

func TestFrame(t *testing.T) {
	b := memhost.New("http://example.com/", memhost.WithFeatures())
	f := b.CreateFrame()

	_, ok := f.FrameHash()
	assert.False(t, ok)

	f.Write(`<script type="text/javascript">var frameHash="/a \"quoted\" <";</script>`)
	f.Write(`<script type="text/javascript">var frameHash="/b";</script>`)

	v, ok := f.FrameHash()
	require.True(t, ok)
	assert.Equal(t, "/b", v)

	b.Back()
	v, ok = f.FrameHash()
	require.True(t, ok)
	assert.Equal(t, `/a "quoted" <`, v)
	assert.Equal(t, "http://example.com/", b.Href())
}

func TestEntryIDs(t *testing.T) {
	b := memhost.New("http://example.com/")
	b.SetHash("/a")
	b.SetHash("/b")
	b.Navigate("http://example.com/#/a")

	h := b.History()
	require.Len(t, h, 4)
	assert.NotEqual(t, h[1].ID, h[2].ID)
	assert.Equal(t, h[1].ID, h[3].ID)
}

func TestFeatures(t *testing.T) {
	b := memhost.New("http://example.com/", memhost.WithFeatures(hasher.FeatureLocalFile))
	assert.Equal(t, []hasher.Feature{hasher.FeatureLocalFile}, b.Features())

	b.SetTitle("t")
	assert.Equal(t, "t", b.Title())
}
