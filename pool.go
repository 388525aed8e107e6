package mdlatex

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// BrowserPool manages a pool of PDF renderers so concurrent exports
// (several browser tabs, batch CLI runs) do not queue behind one Chrome.
// Renderers are created lazily on first acquire to avoid startup delay.
type BrowserPool struct {
	size        int
	newRenderer func() PDFRenderer
	renderers   []PDFRenderer
	sem         chan PDFRenderer
	mu          sync.Mutex
	created     int
	closed      bool
}

// NewBrowserPool creates a pool with capacity for n headless browsers.
func NewBrowserPool(n int, timeout time.Duration) *BrowserPool {
	return newBrowserPool(n, func() PDFRenderer {
		return newRodRenderer(timeout)
	})
}

func newBrowserPool(n int, factory func() PDFRenderer) *BrowserPool {
	if n < 1 {
		n = 1
	}

	return &BrowserPool{
		size:        n,
		newRenderer: factory,
		renderers:   make([]PDFRenderer, 0, n),
		sem:         make(chan PDFRenderer, n),
	}
}

// Acquire gets a renderer from the pool, creating one if needed.
// Blocks if all renderers are in use, until one is released or ctx is done.
func (p *BrowserPool) Acquire(ctx context.Context) (PDFRenderer, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	// Try to get an existing renderer (non-blocking)
	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	default:
	}

	// Check if we can create a new renderer
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		r := p.newRenderer()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	// All renderers created, wait for one to be released
	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a renderer to the pool.
// The send never blocks: at most size renderers exist.
func (p *BrowserPool) Release(r PDFRenderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- r
}

// RenderPDF renders on a pooled browser.
func (p *BrowserPool) RenderPDF(ctx context.Context, htmlContent string, page *PageSettings) ([]byte, error) {
	r, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(r)
	return r.RenderPDF(ctx, htmlContent, page)
}

// Close releases all browser resources.
// Returns an aggregated error if multiple renderers fail to close.
func (p *BrowserPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	// Idle renderers are closed below; none may be handed out again.
	for len(p.sem) > 0 {
		<-p.sem
	}
	close(p.sem)
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *BrowserPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
