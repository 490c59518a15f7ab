package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/hasher/hasher"
	"github.com/delaneyj/hasher/internal/config"
	"github.com/delaneyj/hasher/pkg/memhost"
	"github.com/delaneyj/hasher/signals"
)

func run(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	defer func() {
		log.Printf("hashsync finished in %v", time.Since(start))
	}()

	overrides := map[string]any{}
	for flag, key := range map[string]string{
		urlKey:       "url",
		modeKey:      "mode",
		titleKey:     "title",
		prependKey:   "prepend_hash",
		appendKey:    "append_hash",
		separatorKey: "separator",
	} {
		if cmd.IsSet(flag) {
			overrides[key] = cmd.String(flag)
		}
	}
	if cmd.IsSet(intervalKey) {
		overrides["poll_interval"] = cmd.Duration(intervalKey)
	}
	if cmd.Bool(literalKey) {
		overrides["decode"] = "literal"
	}
	if cmd.Bool(escapeKey) {
		overrides["query_escape"] = true
	}

	cfg, err := config.Load(cmd.String(configKey), overrides)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cmd.Bool(verboseKey) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.engine.Dispose()

	log.Printf("Replaying %d steps in %s mode (%s strategy)", cmd.Args().Len(), cfg.Mode, s.engine.Strategy())
	if err := s.replay(cmd.Args().Slice()); err != nil {
		return err
	}
	s.render(os.Stdout)
	return nil
}

type event struct {
	step   string
	signal string
	change hasher.Change
	href   string
}

type session struct {
	cfg     config.Config
	browser *memhost.Browser
	engine  *hasher.Engine
	events  []event
	step    string
}

func newSession(cfg config.Config, logger *slog.Logger) (*session, error) {
	features, err := cfg.Features()
	if err != nil {
		return nil, err
	}
	decode, err := cfg.DecodeMode()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		browser: memhost.New(cfg.URL, memhost.WithFeatures(features...), memhost.WithTitle(cfg.Title)),
	}
	s.engine, err = hasher.New(s.browser,
		hasher.WithPollInterval(cfg.PollInterval),
		hasher.WithDecodeMode(decode),
		hasher.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	s.engine.PrependHash = cfg.PrependHash
	s.engine.AppendHash = cfg.AppendHash
	s.engine.Separator = cfg.Separator

	s.record("initialized", s.engine.Initialized())
	s.record("changed", s.engine.Changed())
	s.record("stopped", s.engine.Stopped())
	return s, nil
}

func (s *session) record(name string, sig *signals.Signal[hasher.Change]) {
	sig.Add(signals.Listen(func(c hasher.Change) {
		s.events = append(s.events, event{
			step:   s.step,
			signal: name,
			change: c,
			href:   s.browser.Href(),
		})
	}))
}

func (s *session) replay(steps []string) error {
	s.step = "init"
	if err := s.engine.Init(); err != nil {
		return err
	}
	for _, step := range steps {
		s.step = step
		if err := s.apply(step); err != nil {
			return fmt.Errorf("step %q: %w", step, err)
		}
	}
	return nil
}

func (s *session) apply(step string) error {
	name, arg, _ := strings.Cut(step, ":")
	switch name {
	case "set":
		return s.engine.SetHash(strings.Split(arg, s.engine.Separator)...)
	case "hash":
		base, _, _ := strings.Cut(s.browser.Href(), "#")
		s.browser.Navigate(base + "#" + arg)
	case "nav":
		s.browser.Navigate(arg)
	case "back":
		s.engine.Back()
	case "forward":
		s.engine.Forward()
	case "go":
		delta, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("bad delta: %w", err)
		}
		s.engine.Go(delta)
	case "tick":
		n := 1
		if arg != "" {
			var err error
			if n, err = strconv.Atoi(arg); err != nil || n < 1 {
				return fmt.Errorf("bad tick count %q", arg)
			}
		}
		s.browser.Advance(time.Duration(n) * s.cfg.PollInterval)
	case "init":
		return s.engine.Init()
	case "stop":
		s.engine.Stop()
	default:
		return fmt.Errorf("unknown step")
	}
	return nil
}

func (s *session) render(w io.Writer) {
	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("hashsync: %s mode, %s strategy", s.cfg.Mode, s.engine.Strategy()))
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"#", "step", "signal", "new", "old", "address"})
	for i, e := range s.events {
		tbl.AppendRow(table.Row{i + 1, e.step, e.signal, e.change.New, e.change.Old, e.href})
	}
	tbl.AppendFooter(table.Row{"", "", "hash", s.engine.Hash(), "", s.browser.Href()})
	tbl.Render()
}
