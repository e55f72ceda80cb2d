package stress

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	cfg := Config{
		Shards:      16,
		Workers:     8,
		Keys:        2000,
		RemoveEvery: 2,
		HotKeys:     4,
	}

	report, err := Run(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Mismatches)
	assert.Equal(t, cfg.Workers*cfg.Keys/2+cfg.HotKeys, report.ExpectedLen)
	assert.Equal(t, report.ExpectedLen, report.FrozenLen)
	assert.Equal(t, uint64(16), report.Stats.ShardCount)
	assert.Equal(t, uint64(cfg.Workers*cfg.Keys), report.Stats.GetCalls)
	assert.Equal(t, uint64(0), report.Stats.Misses)
	assert.Equal(t, uint64(cfg.Workers*cfg.Keys/2), report.Stats.Removes)
}

func TestRunDefaultShards(t *testing.T) {
	report, err := Run(context.Background(), Config{Workers: 2, Keys: 100}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 200, report.FrozenLen)
	assert.NotZero(t, report.Stats.ShardCount)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, Config{Workers: 4, Keys: 1000, HotKeys: 2}, discardLogger())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.FrozenLen)
	assert.Equal(t, 0, report.Mismatches)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative shards", Config{Shards: -1, Workers: 1}},
		{"no workers", Config{Workers: 0}},
		{"negative keys", Config{Workers: 1, Keys: -1}},
		{"negative remove-every", Config{Workers: 1, RemoveEvery: -1}},
		{"negative hot keys", Config{Workers: 1, HotKeys: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.cfg.Validate())

			_, err := Run(context.Background(), tt.cfg, discardLogger())
			require.Error(t, err)
		})
	}

	require.NoError(t, Config{Workers: 1}.Validate())
}
