// Package main is the entry point for the evbridge demo.
//
// It wires a handful of asynchronously firing sources (two tickers, and
// optionally a filesystem watcher and a websocket endpoint) into one event
// bridge, then drains the bridge with a single consumer that prints each
// item. Ctrl-C or the -duration deadline shuts the pipeline down cleanly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/noseratio/evbridge/internal/bridge"
	"github.com/noseratio/evbridge/internal/consumer"
	xlog "github.com/noseratio/evbridge/internal/log"
	"github.com/noseratio/evbridge/internal/runner"
	"github.com/noseratio/evbridge/internal/source"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// Event is the demo item: which source fired plus a human description.
type Event struct {
	ID     string
	Source string
	Desc   string
	At     time.Time
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	if opts.ShowVersion {
		fmt.Printf("evbridge %s (%s)\n", version, commit)
		return 0
	}

	xlog.Configure(xlog.Config{Level: opts.LogLevel, Console: true})
	logger := xlog.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bridge.New[Event]()

	sources := []bridge.Source[Event]{
		source.Map(source.NewTicker(opts.Interval), tickEvent("tick")),
		source.Map(source.NewTicker(2*opts.Interval), tickEvent("tock")),
	}
	if opts.WatchPath != "" {
		sources = append(sources, source.Map(source.NewWatcher(opts.WatchPath), fileEvent))
	}
	if opts.SocketURL != "" {
		sources = append(sources, source.Map(source.NewSocket(opts.SocketURL), socketEvent))
	}

	r := runner.New(b, printEvent, sources,
		runner.WithTimeout[Event](opts.Duration),
		runner.WithLogger[Event](xlog.WithComponent("runner")),
		runner.WithLoopOptions(consumer.WithThrottle[Event](opts.Throttle)),
	)

	logger.Info().
		Int("sources", len(sources)).
		Dur("duration", opts.Duration).
		Msg("starting event bridge")

	if err := r.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("run failed")
		return 1
	}
	return 0
}

// printEvent is the consumer-side sink: one line per delivered item.
func printEvent(_ context.Context, ev Event) error {
	fmt.Printf("%s  %-6s %s\n", ev.At.Format("15:04:05.000"), ev.Source, ev.Desc)
	return nil
}

func tickEvent(name string) func(time.Time) Event {
	return func(now time.Time) Event {
		return Event{
			ID:     uuid.NewString(),
			Source: name,
			Desc:   fmt.Sprintf("fired at %s", now.Format(time.RFC3339Nano)),
			At:     now,
		}
	}
}

func fileEvent(ev fsnotify.Event) Event {
	return Event{
		ID:     uuid.NewString(),
		Source: "fs",
		Desc:   fmt.Sprintf("%s %s", ev.Op, ev.Name),
		At:     time.Now(),
	}
}

func socketEvent(m source.Message) Event {
	desc := m.Desc
	if desc == "" {
		desc = fmt.Sprintf("%d byte message", len(m.Data))
	}
	return Event{
		ID:     uuid.NewString(),
		Source: "ws",
		Desc:   desc,
		At:     time.Now(),
	}
}

// Options holds the demo's command line configuration.
type Options struct {
	Interval    time.Duration
	Duration    time.Duration
	Throttle    float64
	WatchPath   string
	SocketURL   string
	LogLevel    string
	ShowVersion bool
}

func parseFlags() Options {
	var opts Options

	flag.DurationVar(&opts.Interval, "interval", 500*time.Millisecond, "Base tick interval")
	flag.DurationVar(&opts.Duration, "duration", 10*time.Second, "Wall-clock deadline for the run (0 = until interrupted)")
	flag.Float64Var(&opts.Throttle, "throttle", 0, "Max items processed per second (0 = unthrottled)")
	flag.StringVar(&opts.WatchPath, "watch", "", "Also bridge filesystem events for this path")
	flag.StringVar(&opts.SocketURL, "ws", "", "Also bridge messages from this websocket URL")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.ShowVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "evbridge - push-to-pull event bridge demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: evbridge [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return opts
}
