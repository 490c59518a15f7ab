package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

const (
	configKey    = "config"
	urlKey       = "url"
	modeKey      = "mode"
	titleKey     = "title"
	prependKey   = "prepend"
	appendKey    = "append"
	separatorKey = "separator"
	intervalKey  = "interval"
	literalKey   = "literal"
	escapeKey    = "query-escape"
	verboseKey   = "verbose"
)

func main() {
	cmd := &cli.Command{
		Name:      "hashsync",
		Usage:     "Replay a navigation script against an in-memory host and print every hash notification",
		ArgsUsage: "STEP...",
		Description: `Steps:
   set:SEGMENTS   engine SetHash, segments split on the separator
   hash:VALUE     user types #VALUE in the address bar
   nav:URL        user types URL in the address bar
   back, forward  history navigation
   go:N           history.go(N)
   tick[:N]       advance N poll intervals (default 1)
   init, stop     engine lifecycle`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: configKey, Usage: "config file (yaml, toml or json)"},
			&cli.StringFlag{Name: urlKey, Usage: "initial address"},
			&cli.StringFlag{Name: modeKey, Usage: "host behaviour: reactive, polling or legacy"},
			&cli.StringFlag{Name: titleKey, Usage: "document title"},
			&cli.StringFlag{Name: prependKey, Usage: "marker prepended to every hash"},
			&cli.StringFlag{Name: appendKey, Usage: "marker appended to every hash"},
			&cli.StringFlag{Name: separatorKey, Usage: "segment separator"},
			&cli.DurationFlag{Name: intervalKey, Usage: "poll interval"},
			&cli.BoolFlag{Name: literalKey, Usage: "keep malformed percent-encoding literally instead of failing"},
			&cli.BoolFlag{Name: escapeKey, Usage: "escape '?' in the hash like hosts that misread it on file: addresses"},
			&cli.BoolFlag{Name: verboseKey, Usage: "log engine internals"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
