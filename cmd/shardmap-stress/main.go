// Package main provides shardmap-stress, a tool that hammers a sharded map
// from many goroutines, freezes it and verifies the result.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"go.dw1.io/shardmap"
	"go.dw1.io/shardmap/internal/stress"
)

func main() {
	app := App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// App returns the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:  "shardmap-stress",
		Usage: "Run a concurrent workload against a sharded map and verify it after freezing",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "shards",
				Usage:   "Shard count, rounded up to a power of two (0 = default)",
				EnvVars: []string{"SHARDMAP_SHARDS"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of concurrent workers",
				Value:   8,
				EnvVars: []string{"SHARDMAP_WORKERS"},
			},
			&cli.IntFlag{
				Name:    "keys",
				Aliases: []string{"k"},
				Usage:   "Keys written by each worker",
				Value:   100000,
			},
			&cli.IntFlag{
				Name:  "remove-every",
				Usage: "Remove every n-th key after writing it (0 = never)",
				Value: 2,
			},
			&cli.IntFlag{
				Name:  "hot-keys",
				Usage: "Keys shared by all workers and incremented in place",
				Value: 16,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Stop the workload after this long (0 = no limit)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := stress.Config{
		Shards:      c.Int("shards"),
		Workers:     c.Int("workers"),
		Keys:        c.Int("keys"),
		RemoveEvery: c.Int("remove-every"),
		HotKeys:     c.Int("hot-keys"),
	}
	logger.Debug("configuration",
		slog.Int("default_shards", shardmap.DefaultShardCount()),
		slog.Any("config", cfg))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	report, err := stress.Run(ctx, cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Entries:      %d\n", report.FrozenLen)
	fmt.Printf("Shards:       %d\n", report.Stats.ShardCount)
	fmt.Printf("Get calls:    %d\n", report.Stats.GetCalls)
	fmt.Printf("Insert calls: %d\n", report.Stats.InsertCalls)
	fmt.Printf("Removes:      %d\n", report.Stats.Removes)
	fmt.Printf("Elapsed:      %s\n", report.Elapsed.Round(time.Millisecond))
	fmt.Printf("Freeze:       %s\n", report.FreezeTook)

	return nil
}
