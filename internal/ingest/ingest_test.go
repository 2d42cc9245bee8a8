package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/live-orders/internal/common"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseEnvelope(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"request_id":"r-1","extraction":{"intent":"ORDER"},"form_fields":[{"type":"phone"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "r-1", env.RequestID)
	assert.JSONEq(t, `{"intent":"ORDER"}`, string(env.Extraction))
	assert.JSONEq(t, `[{"type":"phone"}]`, string(env.FormFields))

	env, err = ParseEnvelope([]byte(` {"intent":"ORDER","text":"hi"} `))
	require.NoError(t, err)
	assert.JSONEq(t, `{"intent":"ORDER","text":"hi"}`, string(env.Extraction))
	assert.Nil(t, env.FormFields)

	_, err = ParseEnvelope(nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = ParseEnvelope([]byte(`[1,2]`))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(_ context.Context, path string, _ Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, filepath.Base(path))
	return nil
}

func TestIngestDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.json"), `{"intent":"ORDER","text":"a"}`)
	writeFile(t, filepath.Join(root, "sub", "b.json"), `{"intent":"ORDER","text":"b"}`)
	writeFile(t, filepath.Join(root, "sub", "copy-of-a.json"), `{"intent":"ORDER","text":"a"}`)
	writeFile(t, filepath.Join(root, "broken.json"), `not json`)
	writeFile(t, filepath.Join(root, "notes.txt"), `ignored`)
	writeFile(t, filepath.Join(root, ".hidden", "c.json"), `{"intent":"ORDER","text":"c"}`)

	rec := &recorder{}
	u := NewUsecase(rec.handle, quietLogger())

	results, stats, err := u.IngestDirectory(context.Background(), root, true)
	require.NoError(t, err)

	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.Len(t, results, 4)
	assert.ElementsMatch(t, []string{"a.json", "b.json"}, rec.paths)
}

func TestIngestPathHandlerErrorAllowsRetry(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.json")
	writeFile(t, path, `{"intent":"ORDER"}`)

	calls := 0
	u := NewUsecase(func(context.Context, string, Envelope) error {
		calls++
		if calls == 1 {
			return errors.New("downstream busy")
		}
		return nil
	}, quietLogger())

	_, err := u.IngestPath(context.Background(), path)
	require.Error(t, err)

	res, err := u.IngestPath(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, res.Deduplicated)
	assert.Len(t, res.HashHex, 64)
	assert.Equal(t, 2, calls)
}

func TestIngestPathRejectsExtension(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.csv")
	writeFile(t, path, `x`)

	u := NewUsecase(func(context.Context, string, Envelope) error { return nil }, quietLogger())
	_, err := u.IngestPath(context.Background(), path)
	assert.Error(t, err)
}

func TestIngestDirectoryRequiresRoot(t *testing.T) {
	u := NewUsecase(func(context.Context, string, Envelope) error { return nil }, quietLogger())
	_, _, err := u.IngestDirectory(context.Background(), " ", false)
	assert.Error(t, err)
}

func waitFor(t *testing.T, ch <-chan string, name string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case p, ok := <-ch:
			require.True(t, ok, "watcher closed before %s", name)
			if filepath.Base(p) == name {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", name)
		}
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "existing.json"), `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
		Logger:      quietLogger(),
	})
	require.NoError(t, err)

	waitFor(t, events, "existing.json")

	writeFile(t, filepath.Join(root, "new.json"), `{"intent":"ORDER"}`)
	waitFor(t, events, "new.json")

	cancel()
	for range events {
	}
}

func TestStartWatcherNoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{Logger: quietLogger()})
	assert.Error(t, err)
}
