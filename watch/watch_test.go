package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnored(t *testing.T) {
	assert.True(t, ignored("/x/.records.json.swx"))
	assert.True(t, ignored("/x/records.json~"))
	assert.True(t, ignored("/x/records.json.swp"))
	assert.False(t, ignored("/x/records.json"))
}

func startWatcher(t *testing.T, roots []string) (<-chan []string, context.CancelFunc, <-chan error) {
	t.Helper()
	calls := make(chan []string, 10)
	w, err := New(roots, func(_ context.Context, changed []string) error {
		calls <- changed
		return nil
	}, Options{Debounce: 200 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	// Let Run register the watches.
	time.Sleep(100 * time.Millisecond)
	return calls, cancel, done
}

func waitCall(t *testing.T, calls <-chan []string) []string {
	t.Helper()
	select {
	case changed := <-calls:
		return changed
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rebuild")
		return nil
	}
}

func TestWatcher_DebouncesAndRecurses(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "language")
	require.NoError(t, os.MkdirAll(nested, 0755))

	calls, cancel, done := startWatcher(t, []string{root, filepath.Join(root, "missing")})

	a := filepath.Join(nested, "a.json")
	b := filepath.Join(nested, "b.json")
	require.NoError(t, os.WriteFile(a, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(nested, ".hidden"), []byte("x"), 0644))

	changed := waitCall(t, calls)
	assert.Equal(t, []string{a, b}, changed)

	// A directory created while watching is picked up.
	fresh := filepath.Join(root, "streams")
	require.NoError(t, os.Mkdir(fresh, 0755))
	assert.Contains(t, waitCall(t, calls), fresh)

	c := filepath.Join(fresh, "c.yaml")
	require.NoError(t, os.WriteFile(c, []byte("slug: c\n"), 0644))
	assert.Contains(t, waitCall(t, calls), c)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestWatcher_KeepsRunningAfterFailure(t *testing.T) {
	root := t.TempDir()
	calls := make(chan []string, 10)
	w, err := New([]string{root}, func(_ context.Context, changed []string) error {
		calls <- changed
		return assert.AnError
	}, Options{Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "one.json"), []byte("{}"), 0644))
	waitCall(t, calls)
	require.NoError(t, os.WriteFile(filepath.Join(root, "two.json"), []byte("{}"), 0644))
	assert.Equal(t, []string{filepath.Join(root, "two.json")}, waitCall(t, calls))
}

func TestWithinAny(t *testing.T) {
	dirs := []string{filepath.Join("p", "site"), filepath.Join("p", "sitegen.lock")}
	assert.True(t, withinAny(filepath.Join("p", "site"), dirs))
	assert.True(t, withinAny(filepath.Join("p", "site", "de", "index.html"), dirs))
	assert.True(t, withinAny(filepath.Join("p", "sitegen.lock"), dirs))
	assert.False(t, withinAny(filepath.Join("p", "site-old", "index.html"), dirs))
	assert.False(t, withinAny("p", dirs))
}

func TestWatcher_FilesAndExclude(t *testing.T) {
	project := t.TempDir()
	content := filepath.Join(project, "content")
	output := filepath.Join(project, "site")
	require.NoError(t, os.MkdirAll(content, 0755))
	require.NoError(t, os.MkdirAll(output, 0755))
	props := filepath.Join(project, "categories.properties")
	lock := filepath.Join(project, "sitegen.lock")
	require.NoError(t, os.WriteFile(props, []byte("language=Language\n"), 0644))

	calls := make(chan []string, 10)
	w, err := New([]string{content}, func(_ context.Context, changed []string) error {
		calls <- changed
		return nil
	}, Options{
		Debounce: 100 * time.Millisecond,
		Files:    []string{props},
		Exclude:  []string{output, lock},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	// What a build writes never schedules a rebuild.
	require.NoError(t, os.WriteFile(lock, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(output, "index.html"), []byte("<p>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "README.md"), []byte("# x"), 0644))
	select {
	case changed := <-calls:
		t.Fatalf("unexpected rebuild for %v", changed)
	case <-time.After(500 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(props, []byte("language=Sprache\n"), 0644))
	assert.Equal(t, []string{props}, waitCall(t, calls))
}
