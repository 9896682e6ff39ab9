package sassrender

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedCompiler blocks every compile until release is closed and records
// the peak number of concurrent compiles.
type gatedCompiler struct {
	release chan struct{}
	started chan struct{}
	active  atomic.Int32
	peak    atomic.Int32
}

func (g *gatedCompiler) Compile(source string, _ []string) (string, error) {
	n := g.active.Add(1)
	defer g.active.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if g.started != nil {
		g.started <- struct{}{}
	}
	<-g.release
	if filepath.Base(source) == "bad.scss" {
		return "", &CompileError{Source: source, Err: errors.New("boom")}
	}
	return "a{color:red}\n", nil
}

func TestRenderAll(t *testing.T) {
	dir := t.TempDir()
	gc := &gatedCompiler{release: make(chan struct{})}
	close(gc.release)

	r, err := New(Options{Compiler: gc})
	require.NoError(t, err)

	sources := []string{
		filepath.Join(dir, "a.scss"),
		filepath.Join(dir, "bad.scss"),
		filepath.Join(dir, "c.scss"),
	}
	results := RenderAll(context.Background(), r, sources, "", 2)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, sources[i], res.Source, "results keep input order")
	}
	require.NoError(t, results[0].Err)
	assert.Equal(t, filepath.Join(dir, "a-css.js"), results[0].Result.Output)

	var compileErr *CompileError
	require.ErrorAs(t, results[1].Err, &compileErr)
	assert.Nil(t, results[1].Result)

	require.NoError(t, results[2].Err, "a failure does not stop the batch")
}

func TestRenderAll_Empty(t *testing.T) {
	r, err := New(Options{Compiler: &fakeCompiler{}})
	require.NoError(t, err)
	assert.Nil(t, RenderAll(context.Background(), r, nil, "", 4))
}

func TestRenderAll_LimitsConcurrency(t *testing.T) {
	dir := t.TempDir()
	gc := &gatedCompiler{release: make(chan struct{}), started: make(chan struct{}, 16)}
	r, err := New(Options{Compiler: gc})
	require.NoError(t, err)

	sources := make([]string, 8)
	for i := range sources {
		sources[i] = filepath.Join(dir, string(rune('a'+i))+".scss")
	}

	done := make(chan []BatchResult)
	go func() { done <- RenderAll(context.Background(), r, sources, "", 3) }()

	for i := 0; i < 3; i++ {
		<-gc.started
	}
	close(gc.release)
	results := <-done

	assert.Equal(t, int32(3), gc.peak.Load())
	for _, res := range results {
		assert.NoError(t, res.Err)
	}
}

func TestRenderAll_CancelStopsDispatch(t *testing.T) {
	dir := t.TempDir()
	gc := &gatedCompiler{release: make(chan struct{}), started: make(chan struct{}, 16)}
	r, err := New(Options{Compiler: gc})
	require.NoError(t, err)

	sources := []string{
		filepath.Join(dir, "a.scss"),
		filepath.Join(dir, "b.scss"),
		filepath.Join(dir, "c.scss"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []BatchResult)
	go func() { done <- RenderAll(ctx, r, sources, "", 1) }()

	// The single worker is busy with the first source
	<-gc.started
	cancel()
	// Give the dispatcher time to observe cancellation before unblocking
	time.Sleep(50 * time.Millisecond)
	close(gc.release)
	results := <-done

	require.NoError(t, results[0].Err, "in-flight render runs to completion")
	assert.ErrorIs(t, results[2].Err, context.Canceled)
}

func TestResolveWorkers(t *testing.T) {
	assert.Equal(t, 5, ResolveWorkers(5))

	auto := ResolveWorkers(0)
	assert.GreaterOrEqual(t, auto, 1)
	assert.LessOrEqual(t, auto, 8)
	assert.LessOrEqual(t, auto, max(runtime.GOMAXPROCS(0), 1))
}
