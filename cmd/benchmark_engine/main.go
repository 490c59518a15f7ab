package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/delaneyj/hasher/hasher"
	"github.com/delaneyj/hasher/pkg/memhost"
	"github.com/delaneyj/hasher/signals"
)

type benchmarkTestConfig struct {
	name       string
	features   []hasher.Feature
	listeners  int   // Changed listeners attached to the engine
	typedEvery int   // every nth change is typed by the user instead of set, 0 for never
	backEvery  int   // every nth change is a history step back, 0 for never
	iterations int64 // changes attempted per run
}

func main() {
	log.Print("Starting hasher engine benchmark, please wait...")
	defer log.Print("Finished hasher engine benchmark")

	reactive := []hasher.Feature{hasher.FeatureHashChange, hasher.FeatureHistoryRecords}
	polling := []hasher.Feature{hasher.FeatureHistoryRecords}
	legacy := []hasher.Feature{}

	perfTestCfgs := []benchmarkTestConfig{
		{name: "set only", features: reactive, listeners: 1, iterations: 200_000},
		{name: "set only", features: polling, listeners: 1, iterations: 200_000},
		{name: "set only", features: legacy, listeners: 1, iterations: 50_000},
		{name: "many listeners", features: reactive, listeners: 100, iterations: 50_000},
		{name: "typed by user", features: reactive, listeners: 1, typedEvery: 2, iterations: 100_000},
		{name: "typed by user", features: polling, listeners: 1, typedEvery: 2, iterations: 100_000},
		{name: "back button", features: reactive, listeners: 1, backEvery: 3, iterations: 100_000},
		{name: "back button", features: legacy, listeners: 1, backEvery: 3, iterations: 20_000},
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"strategy", "test", "listeners", "nTimes", "changes", "time", "changeRate",
	})

	testRepeats := 5
	for _, cfg := range perfTestCfgs {
		var (
			best     = time.Hour
			strategy hasher.Strategy
			changes  int64
		)
		for i := 0; i < testRepeats; i++ {
			s, n, d, err := benchmarkRun(cfg)
			if err != nil {
				log.Fatalf("%s: %v", cfg.name, err)
			}
			if d < best {
				best, strategy, changes = d, s, n
			}
		}
		log.Printf("Ran '%s' on %s, best of %d: %s", cfg.name, strategy, testRepeats, best)

		changeRate := float64(changes) / (float64(best) / float64(time.Millisecond))
		table.Append([]string{
			strategy.String(),
			cfg.name,
			fmt.Sprint(cfg.listeners),
			humanize.Comma(cfg.iterations),
			humanize.Comma(changes),
			fmt.Sprint(best),
			humanize.Comma(int64(changeRate)) + "/ms",
		})
	}
	table.Render()
}

func benchmarkRun(cfg benchmarkTestConfig) (hasher.Strategy, int64, time.Duration, error) {
	browser := memhost.New("http://bench.local/", memhost.WithFeatures(cfg.features...))
	engine, err := hasher.New(browser)
	if err != nil {
		return 0, 0, 0, err
	}
	defer engine.Dispose()

	var changes int64
	for i := 0; i < cfg.listeners; i++ {
		engine.Changed().Add(signals.Listen(func(hasher.Change) {
			changes++
		}))
	}
	if err := engine.Init(); err != nil {
		return 0, 0, 0, err
	}

	start := time.Now()
	for i := int64(0); i < cfg.iterations; i++ {
		page := strconv.FormatInt(i, 10)
		switch {
		case cfg.backEvery > 0 && i%int64(cfg.backEvery) == 0 && i > 0:
			engine.Back()
		case cfg.typedEvery > 0 && i%int64(cfg.typedEvery) == 0:
			browser.Navigate("http://bench.local/#/typed/" + page)
		default:
			if err := engine.SetHash("page", page); err != nil {
				return 0, 0, 0, err
			}
		}
		if engine.Strategy() != hasher.StrategyReactive {
			browser.Advance(hasher.DefaultPollInterval)
		}
	}
	elapsed := time.Since(start)

	return engine.Strategy(), changes / int64(cfg.listeners), elapsed, nil
}
