// Package stress drives a concurrent workload against a shardmap and
// checks the frozen result.
package stress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.dw1.io/shardmap"
)

// Config describes a workload.
type Config struct {
	// Shards is the shard count; 0 means shardmap.DefaultShardCount.
	Shards int

	// Workers is the number of goroutines.
	Workers int

	// Keys is the number of keys each worker owns.
	Keys int

	// RemoveEvery removes every n-th key a worker inserted; 0 disables
	// removal.
	RemoveEvery int

	// HotKeys is the number of keys every worker increments through Update.
	HotKeys int
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Shards < 0:
		return fmt.Errorf("shards must not be negative; got %d", c.Shards)
	case c.Workers < 1:
		return fmt.Errorf("workers must be greater than 0; got %d", c.Workers)
	case c.Keys < 0:
		return fmt.Errorf("keys must not be negative; got %d", c.Keys)
	case c.RemoveEvery < 0:
		return fmt.Errorf("remove-every must not be negative; got %d", c.RemoveEvery)
	case c.HotKeys < 0:
		return fmt.Errorf("hot-keys must not be negative; got %d", c.HotKeys)
	}

	return nil
}

// Report is the outcome of a run.
type Report struct {
	Stats       shardmap.Stats
	FrozenLen   int
	ExpectedLen int
	Elapsed     time.Duration
	FreezeTook  time.Duration
	Mismatches  int
}

// ErrMismatch is returned when the frozen map disagrees with what the
// workers wrote.
var ErrMismatch = errors.New("frozen map does not match the workload")

// Run executes the workload described by cfg.
//
// Workers stop early when ctx is done; the map is still frozen and
// verified against what was written up to that point.
func Run(ctx context.Context, cfg Config, logger *slog.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	var opts []shardmap.Option
	if cfg.Shards > 0 {
		opts = append(opts, shardmap.WithShards(cfg.Shards))
	}
	m := shardmap.NewMutable[string, int](opts...)

	logger.Info("starting workload",
		slog.Int("shards", m.ShardCount()),
		slog.Int("workers", cfg.Workers),
		slog.Int("keys", cfg.Keys),
		slog.Int("hot_keys", cfg.HotKeys))

	start := time.Now()
	written := make([]int, cfg.Workers)

	var lost atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			written[w] = runWorker(ctx, m, cfg, w, &lost)
		}(w)
	}
	wg.Wait()

	var report Report
	report.Elapsed = time.Since(start)
	m.UpdateStats(&report.Stats)

	freezeStart := time.Now()
	frozen, err := m.Freeze()
	if err != nil {
		return report, fmt.Errorf("cannot freeze map: %w", err)
	}
	report.FreezeTook = time.Since(freezeStart)
	report.FrozenLen = frozen.Len()

	report.ExpectedLen, report.Mismatches = verify(frozen, cfg, written)
	report.Mismatches += int(lost.Load())

	logger.Info("workload finished",
		slog.Duration("elapsed", report.Elapsed),
		slog.Duration("freeze", report.FreezeTook),
		slog.Int("entries", report.FrozenLen),
		slog.Uint64("hits", report.Stats.Hits),
		slog.Uint64("misses", report.Stats.Misses))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if report.Mismatches > 0 || report.FrozenLen != report.ExpectedLen {
		logger.Error("verification failed",
			slog.Int("mismatches", report.Mismatches),
			slog.Int("expected_len", report.ExpectedLen),
			slog.Int("frozen_len", report.FrozenLen))

		return report, ErrMismatch
	}

	return report, nil
}

// runWorker returns the number of owned keys it processed.
// Reads that miss a key the worker just inserted are counted in lost.
func runWorker(ctx context.Context, m *shardmap.MutableMap[string, int], cfg Config, w int, lost *atomic.Int64) int {
	for i := 0; i < cfg.Keys; i++ {
		if ctx.Err() != nil {
			return i
		}

		k := ownedKey(w, i)
		m.Insert(k, value(w, i))
		if v, ok := m.Get(k); !ok || v != value(w, i) {
			lost.Add(1)
		}
		if removed(cfg, i) {
			m.Remove(k)
		}
		if cfg.HotKeys > 0 {
			m.Update(hotKey(i%cfg.HotKeys), increment)
		}
	}

	return cfg.Keys
}

// verify returns the expected entry count and the number of wrong entries.
func verify(frozen *shardmap.Map[string, int], cfg Config, written []int) (expected, mismatches int) {
	hot := make([]int, cfg.HotKeys)
	for w, n := range written {
		for i := 0; i < n; i++ {
			if cfg.HotKeys > 0 {
				hot[i%cfg.HotKeys]++
			}

			v, ok := frozen.Get(ownedKey(w, i))
			switch {
			case removed(cfg, i):
				if ok {
					mismatches++
				}
			case !ok || v != value(w, i):
				mismatches++
			default:
				expected++
			}
		}
	}
	for h, want := range hot {
		if want == 0 {
			continue
		}
		expected++
		if v, ok := frozen.Get(hotKey(h)); !ok || v != want {
			mismatches++
		}
	}

	return expected, mismatches
}

func increment(v int, exists bool) int {
	if !exists {
		return 1
	}

	return v + 1
}

func removed(cfg Config, i int) bool {
	return cfg.RemoveEvery > 0 && i%cfg.RemoveEvery == 0
}

func ownedKey(w, i int) string {
	return fmt.Sprintf("w%d/k%d", w, i)
}

func hotKey(h int) string {
	return fmt.Sprintf("hot/%d", h)
}

func value(w, i int) int {
	return w<<32 | i
}
