package main

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/hasher/hasher"
	"github.com/delaneyj/hasher/internal/config"
)

func newTestSession(t *testing.T, mode string) *session {
	t.Helper()
	cfg, err := config.Load("", map[string]any{"mode": mode, "url": "http://example.com/"})
	require.NoError(t, err)
	s, err := newSession(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func signalsOf(events []event) []string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.signal + " " + e.change.New
	}
	return names
}

func TestReplayReactive(t *testing.T) {
	s := newTestSession(t, "reactive")
	require.NoError(t, s.replay([]string{"set:a/b", "hash:/typed", "back", "stop"}))

	assert.Equal(t, []string{
		"initialized ",
		"changed a/b",
		"changed typed",
		"changed a/b",
		"stopped a/b",
	}, signalsOf(s.events))
	assert.Equal(t, "back", s.events[3].step)
}

func TestReplayLegacy(t *testing.T) {
	s := newTestSession(t, "legacy")
	assert.Equal(t, hasher.StrategyLegacy, s.engine.Strategy())

	require.NoError(t, s.replay([]string{"set:a", "set:b", "back", "tick"}))
	assert.Equal(t, []string{
		"initialized ",
		"changed a",
		"changed b",
		"changed a",
	}, signalsOf(s.events))
}

func TestReplayErrors(t *testing.T) {
	s := newTestSession(t, "polling")
	assert.ErrorContains(t, s.replay([]string{"jump"}), `step "jump": unknown step`)
	assert.ErrorContains(t, s.replay([]string{"tick:0"}), "bad tick count")
	assert.ErrorIs(t, s.replay([]string{"set:100%"}), hasher.ErrMalformedHash)
}

func TestRender(t *testing.T) {
	s := newTestSession(t, "polling")
	require.NoError(t, s.replay([]string{"hash:/x", "tick:2"}))

	var buf bytes.Buffer
	s.render(&buf)
	out := buf.String()
	assert.Contains(t, out, "polling strategy")
	assert.Contains(t, out, "tick:2")
	assert.Contains(t, out, "http://example.com/#/x")
}

func TestReplayLocalFileQueryEscape(t *testing.T) {
	cfg, err := config.Load("", map[string]any{
		"mode":         "polling",
		"url":          "file:///tmp/index.html",
		"query_escape": true,
	})
	require.NoError(t, err)
	s, err := newSession(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	require.NoError(t, s.replay([]string{"set:a?b=1", "tick:2"}))
	assert.Equal(t, "file:///tmp/index.html#/a%3Fb=1", s.browser.Href())
	assert.Equal(t, "a?b=1", s.engine.Hash())
	assert.Equal(t, []string{"initialized ", "changed a?b=1"}, signalsOf(s.events))
}
