package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	w := &Watcher{config: Config{Extension: ".tex"}}

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"write to document", fsnotify.Event{Name: "/p/src/a.tex", Op: fsnotify.Write}, true},
		{"new document", fsnotify.Event{Name: "/p/src/b.tex", Op: fsnotify.Create}, true},
		{"removed document", fsnotify.Event{Name: "/p/src/b.tex", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/p/src/a.tex", Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: "/p/src/a.pdf", Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: "/p/src/.a.tex", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.relevant(tt.event))
		})
	}
}

func TestRunDebouncesAndSurvivesFailures(t *testing.T) {
	dir := t.TempDir()
	w, err := New(Config{Dirs: []string{dir}, Extension: ".tex", Debounce: 50 * time.Millisecond}, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() error {
			runs.Add(1)
			return errors.New("broken document")
		})
	}()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.tex"), []byte(`\input{a}`), 0o644))
	}
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tex"), []byte(""), 0o644))
	require.Eventually(t, func() bool { return runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestNewFailsOnMissingDirectory(t *testing.T) {
	_, err := New(Config{Dirs: []string{filepath.Join(t.TempDir(), "missing")}}, zerolog.Nop())
	assert.Error(t, err)
}
