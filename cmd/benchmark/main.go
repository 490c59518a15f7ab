package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/delaneyj/hasher/signals"
)

var profile = flag.String("cpuprofile", "default.pgo", "write a cpu profile to this file, empty to disable")

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkDispatch(false)

	benchmarkDispatch(true)
	benchmarkOnce(true)
	benchmarkHalt(true)
}

var (
	listenerCounts = []int{1, 10, 100, 1_000, 10_000}
	iters          = 100
)

func newRow(name string, tach *tachymeter.Tachymeter) table.Row {
	calc := tach.Calc()
	return table.Row{
		name,
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
	}
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func benchmarkDispatch(shouldRender bool) {
	tbl := newTable("Dispatch")

	for _, n := range listenerCounts {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		sum := 0
		sig := signals.New[int]()
		for i := 0; i < n; i++ {
			sig.Add(signals.Listen(func(v int) {
				sum += v
			}))
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			sig.Dispatch(i)
			tach.AddTime(time.Since(start))
		}

		tbl.AppendRow(newRow(fmt.Sprintf("dispatch: %d listeners", n), tach))
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkOnce measures re-adding n once bindings and firing them, which
// exercises the detach path on every dispatch.
func benchmarkOnce(shouldRender bool) {
	tbl := newTable("Dispatch once")

	for _, n := range listenerCounts {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		sig := signals.New[int]()
		listeners := make([]*signals.Listener[int], n)
		for i := range listeners {
			listeners[i] = signals.Listen(func(int) {})
		}

		for i := 0; i < iters; i++ {
			for _, l := range listeners {
				sig.AddOnce(l)
			}
			start := time.Now()
			sig.Dispatch(i)
			tach.AddTime(time.Since(start))
			if sig.NumListeners() != 0 {
				log.Panicf("once listeners left behind: %d", sig.NumListeners())
			}
		}

		tbl.AppendRow(newRow(fmt.Sprintf("once: %d listeners", n), tach))
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkHalt(shouldRender bool) {
	tbl := newTable("Dispatch halted by first listener")

	for _, n := range listenerCounts {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		sig := signals.New[int]()
		sig.Add(signals.ListenFunc(func(int) bool { return false }))
		for i := 1; i < n; i++ {
			sig.Add(signals.Listen(func(int) {
				log.Panic("listener after halt ran")
			}))
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			sig.Dispatch(i)
			tach.AddTime(time.Since(start))
		}

		tbl.AppendRow(newRow(fmt.Sprintf("halt: %d listeners", n), tach))
	}

	if shouldRender {
		tbl.Render()
	}
}
