package mdlatex

import (
	"fmt"
	"sync"
)

// MinPaneWidth is the default minimum width of either pane, in pixels.
const MinPaneWidth = 200.0

// PointerEvents delivers global pointer events. Each subscription returns a
// release function; calling it more than once is safe.
type PointerEvents interface {
	OnPointerMove(fn func(x float64)) (release func())
	OnPointerUp(fn func()) (release func())
}

// Widths holds the two pane widths.
type Widths struct {
	Editor  float64 `json:"editorWidth"`
	Preview float64 `json:"previewWidth"`
}

// SplitLayout is the divider drag state machine. It is idle until
// PointerDown, then follows pointer moves until the pointer is released
// anywhere. Both widths stay at or above the minimum at all times.
type SplitLayout struct {
	events PointerEvents
	min    float64

	mu       sync.Mutex
	widths   Widths
	dragging bool
	refX     float64
	ref      Widths
	release  []func()
	onChange func(Widths, bool)
}

// NewSplitLayout creates an idle layout. A min of zero or less selects
// MinPaneWidth. Returns ErrInvalidPaneWidth if a width is below the minimum.
func NewSplitLayout(events PointerEvents, editor, preview, min float64) (*SplitLayout, error) {
	if min <= 0 {
		min = MinPaneWidth
	}
	if err := checkWidths(editor, preview, min); err != nil {
		return nil, err
	}
	return &SplitLayout{
		events: events,
		min:    min,
		widths: Widths{Editor: editor, Preview: preview},
	}, nil
}

func checkWidths(editor, preview, min float64) error {
	if editor < min || preview < min {
		return fmt.Errorf("%w: %.0f/%.0f (minimum %.0f)", ErrInvalidPaneWidth, editor, preview, min)
	}
	return nil
}

// OnChange registers fn to be called after widths or the dragging flag
// change. fn runs outside the layout lock.
func (l *SplitLayout) OnChange(fn func(w Widths, dragging bool)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Widths returns the current pane widths.
func (l *SplitLayout) Widths() Widths {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.widths
}

// Dragging reports whether a drag is in progress.
func (l *SplitLayout) Dragging() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dragging
}

// MinWidth returns the minimum pane width.
func (l *SplitLayout) MinWidth() float64 {
	return l.min
}

// PointerDown starts a drag at x, capturing the reference frame and
// subscribing to global move and up events. A press during a drag is
// ignored.
func (l *SplitLayout) PointerDown(x float64) {
	l.mu.Lock()
	if l.dragging {
		l.mu.Unlock()
		return
	}
	l.dragging = true
	l.refX = x
	l.ref = l.widths
	l.mu.Unlock()

	// Subscribe outside the lock: a bus may dispatch synchronously.
	releaseMove := l.events.OnPointerMove(l.move)
	releaseUp := l.events.OnPointerUp(l.up)

	l.mu.Lock()
	l.release = append(l.release, releaseMove, releaseUp)
	l.mu.Unlock()

	l.notify()
}

// move applies a drag step. Candidates that would not both exceed the
// minimum are dropped, not clamped.
func (l *SplitLayout) move(x float64) {
	l.mu.Lock()
	if !l.dragging {
		l.mu.Unlock()
		return
	}
	delta := x - l.refX
	editor := l.ref.Editor + delta
	preview := l.ref.Preview - delta
	if editor <= l.min || preview <= l.min {
		l.mu.Unlock()
		return
	}
	l.widths = Widths{Editor: editor, Preview: preview}
	l.mu.Unlock()

	l.notify()
}

func (l *SplitLayout) up() {
	if l.stop() {
		l.notify()
	}
}

// Close ends an in-flight drag and releases its subscriptions.
func (l *SplitLayout) Close() {
	l.stop()
}

// stop returns to idle and releases subscriptions. Reports whether a drag
// was in progress.
func (l *SplitLayout) stop() bool {
	l.mu.Lock()
	wasDragging := l.dragging
	l.dragging = false
	release := l.release
	l.release = nil
	l.mu.Unlock()

	for _, fn := range release {
		fn()
	}
	return wasDragging
}

// Resize sets widths measured by the page, e.g. after a window resize.
// Returns ErrInvalidPaneWidth if either is below the minimum. Ignored
// during a drag.
func (l *SplitLayout) Resize(editor, preview float64) error {
	if err := checkWidths(editor, preview, l.min); err != nil {
		return err
	}
	l.mu.Lock()
	if l.dragging {
		l.mu.Unlock()
		return nil
	}
	l.widths = Widths{Editor: editor, Preview: preview}
	l.mu.Unlock()

	l.notify()
	return nil
}

func (l *SplitLayout) notify() {
	l.mu.Lock()
	fn, w, dragging := l.onChange, l.widths, l.dragging
	l.mu.Unlock()
	if fn != nil {
		fn(w, dragging)
	}
}

// PointerBus is a PointerEvents implementation fed by an event source such
// as a browser session. Listeners run in the goroutine that calls Move or Up.
type PointerBus struct {
	mu    sync.Mutex
	next  int
	moves []moveListener
	ups   []upListener
}

type moveListener struct {
	id int
	fn func(float64)
}

type upListener struct {
	id int
	fn func()
}

// NewPointerBus creates a bus without listeners.
func NewPointerBus() *PointerBus {
	return &PointerBus{}
}

// OnPointerMove subscribes fn to pointer moves.
func (b *PointerBus) OnPointerMove(fn func(x float64)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.moves = append(b.moves, moveListener{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, l := range b.moves {
			if l.id == id {
				b.moves = append(b.moves[:i:i], b.moves[i+1:]...)
				return
			}
		}
	}
}

// OnPointerUp subscribes fn to pointer releases.
func (b *PointerBus) OnPointerUp(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.ups = append(b.ups, upListener{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, l := range b.ups {
			if l.id == id {
				b.ups = append(b.ups[:i:i], b.ups[i+1:]...)
				return
			}
		}
	}
}

// Move dispatches a pointer move to current listeners.
func (b *PointerBus) Move(x float64) {
	b.mu.Lock()
	listeners := append([]moveListener(nil), b.moves...)
	b.mu.Unlock()
	for _, l := range listeners {
		l.fn(x)
	}
}

// Up dispatches a pointer release to current listeners.
func (b *PointerBus) Up() {
	b.mu.Lock()
	listeners := append([]upListener(nil), b.ups...)
	b.mu.Unlock()
	for _, l := range listeners {
		l.fn()
	}
}

// Listeners returns the number of active subscriptions.
func (b *PointerBus) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.moves) + len(b.ups)
}

// Compile-time interface check.
var _ PointerEvents = (*PointerBus)(nil)
