package mdlatex

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(n int, created *atomic.Int32) *BrowserPool {
	return newBrowserPool(n, func() PDFRenderer {
		created.Add(1)
		return &mockPDFRenderer{result: []byte("%PDF-1.7")}
	})
}

func TestBrowserPool_LazyCreation(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	pool := newMockPool(2, &created)
	defer pool.Close()

	require.Zero(t, created.Load(), "renderers created before first acquire")

	ctx := context.Background()
	r1, err := pool.Acquire(ctx)
	require.NoError(t, err)
	pool.Release(r1)

	r2, err := pool.Acquire(ctx)
	require.NoError(t, err)
	assert.Same(t, r1, r2, "released renderer should be reused")
	assert.Equal(t, int32(1), created.Load())
	pool.Release(r2)
}

func TestBrowserPool_AcquireBlocksUntilContextDone(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	pool := newMockPool(1, &created)
	defer pool.Close()

	r, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer pool.Release(r)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBrowserPool_RenderPDF(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	pool := newMockPool(2, &created)
	defer pool.Close()

	pdf, err := pool.RenderPDF(context.Background(), "<html></html>", DefaultPageSettings())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))
}

func TestBrowserPool_Close(t *testing.T) {
	t.Parallel()

	mock := &mockPDFRenderer{}
	pool := newBrowserPool(1, func() PDFRenderer { return mock })

	r, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	pool.Release(r)

	require.NoError(t, pool.Close())
	assert.True(t, mock.closed, "Close() should close created renderers")
	assert.NoError(t, pool.Close(), "second Close()")

	// The idle renderer was closed with the pool and must not be handed out.
	_, err = pool.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrPoolClosed)

	// Releasing after close must not panic.
	pool.Release(r)
}

func TestBrowserPool_CloseWakesWaiters(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	pool := newMockPool(1, &created)

	r, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := pool.Acquire(context.Background())
		errCh <- err
	}()

	// Give the waiter time to block on the full pool.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, pool.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrPoolClosed)
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Close")
	}
	pool.Release(r)
	assert.Equal(t, int32(1), created.Load())
}

func TestNewBrowserPool_MinimumSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, NewBrowserPool(0, time.Second).Size())
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, ResolvePoolSize(3))

	auto := ResolvePoolSize(0)
	assert.GreaterOrEqual(t, auto, MinPoolSize)
	assert.LessOrEqual(t, auto, MaxPoolSize)
	assert.Equal(t, min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize), auto)
}
