package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propdoc/pkg/generator"
	"github.com/gnana997/propdoc/pkg/util"
)

type recordingGenerator struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingGenerator) Generate(_ context.Context, path string) (*generator.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, path)
	return &generator.Result{SourcePath: path, DocPath: generator.DocPath(path, ".md"), Action: generator.ActionUpdated}, nil
}

func (r *recordingGenerator) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func startWatcher(t *testing.T, root string, gen Regenerator) *Watcher {
	t.Helper()
	opts := DefaultOptions()
	opts.DebounceMs = 50
	w, err := New(gen, opts, util.DiscardLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), root))
	t.Cleanup(func() { w.Stop() })
	return w
}

func TestWatcher_RegeneratesOnceAfterBurst(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Card.tsx")
	require.NoError(t, os.WriteFile(src, []byte("export default 1;"), 0o644))

	gen := &recordingGenerator{}
	startWatcher(t, root, gen)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(src, []byte("export default 2;"), 0o644))
	}

	require.Eventually(t, func() bool { return len(gen.snapshot()) >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{src}, gen.snapshot())
}

func TestWatcher_IgnoresDocumentsAndExcludedPaths(t *testing.T) {
	root := t.TempDir()
	gen := &recordingGenerator{}
	w := startWatcher(t, root, gen)

	require.NoError(t, os.WriteFile(filepath.Join(root, "Card.md"), []byte("# doc"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Card.test.tsx"), []byte("x"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, gen.snapshot())
	assert.Zero(t, w.Pending())
}

func TestWatcher_PicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()
	gen := &recordingGenerator{}
	startWatcher(t, root, gen)

	dir := filepath.Join(root, "forms")
	require.NoError(t, os.Mkdir(dir, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	src := filepath.Join(dir, "Input.jsx")
	require.NoError(t, os.WriteFile(src, []byte("export default 1;"), 0o644))

	require.Eventually(t, func() bool {
		calls := gen.snapshot()
		return len(calls) == 1 && calls[0] == src
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_Watches(t *testing.T) {
	w, err := New(&recordingGenerator{}, DefaultOptions(), util.DiscardLogger())
	require.NoError(t, err)
	defer w.Stop()
	w.root = "/proj"

	assert.True(t, w.Watches("/proj/src/Card.tsx"))
	assert.True(t, w.Watches("/proj/src/forms/Input.jsx"))
	assert.False(t, w.Watches("/proj/src/Card.md"))
	assert.False(t, w.Watches("/proj/node_modules/x/Card.tsx"))
	assert.False(t, w.Watches("/proj/src/Card.stories.tsx"))
	assert.True(t, w.excludedDir("/proj/node_modules"))
	assert.False(t, w.excludedDir("/proj/src"))
}

func TestWatcher_Lifecycle(t *testing.T) {
	w, err := New(&recordingGenerator{}, DefaultOptions(), util.DiscardLogger())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background(), t.TempDir()))
	assert.Error(t, w.Start(context.Background(), t.TempDir()))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.Error(t, w.Start(context.Background(), t.TempDir()))
}

func TestWatcher_StartMissingRoot(t *testing.T) {
	w, err := New(&recordingGenerator{}, DefaultOptions(), util.DiscardLogger())
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start(context.Background(), filepath.Join(t.TempDir(), "missing")))
}

func TestNew_InvalidPattern(t *testing.T) {
	opts := DefaultOptions()
	opts.Include = []string{"[bad"}
	_, err := New(&recordingGenerator{}, opts, nil)
	assert.Error(t, err)
}

func TestWatcher_ReleaseKeepsNewerTimer(t *testing.T) {
	w, err := New(&recordingGenerator{}, DefaultOptions(), util.DiscardLogger())
	require.NoError(t, err)
	defer w.Stop()

	fired := time.NewTimer(time.Hour)
	defer fired.Stop()
	rearmed := time.NewTimer(time.Hour)
	defer rearmed.Stop()

	w.debounceMu.Lock()
	w.debounceTimers["/proj/Card.tsx"] = rearmed
	w.debounceMu.Unlock()

	w.release("/proj/Card.tsx", fired)
	assert.Equal(t, 1, w.Pending())

	w.release("/proj/Card.tsx", rearmed)
	assert.Zero(t, w.Pending())
}
