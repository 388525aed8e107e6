package mdlatex

// Notes:
// - The PointerBus stands in for document-level pointer listeners; its
//   Listeners count is how leaked subscriptions are detected.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLayout(t *testing.T, editor, preview float64) (*SplitLayout, *PointerBus) {
	t.Helper()
	bus := NewPointerBus()
	l, err := NewSplitLayout(bus, editor, preview, MinPaneWidth)
	require.NoError(t, err)
	return l, bus
}

// ---------------------------------------------------------------------------
// TestNewSplitLayout
// ---------------------------------------------------------------------------

func TestNewSplitLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		editor  float64
		preview float64
		min     float64
		wantErr bool
	}{
		{name: "valid", editor: 600, preview: 600, min: 200},
		{name: "at minimum", editor: 200, preview: 200, min: 200},
		{name: "default minimum", editor: 300, preview: 300, min: 0},
		{name: "editor too narrow", editor: 150, preview: 600, min: 200, wantErr: true},
		{name: "preview too narrow under default", editor: 600, preview: 199, min: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := NewSplitLayout(NewPointerBus(), tt.editor, tt.preview, tt.min)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPaneWidth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Widths{Editor: tt.editor, Preview: tt.preview}, l.Widths())
			assert.False(t, l.Dragging())
		})
	}
}

// ---------------------------------------------------------------------------
// TestSplitLayout_Drag
// ---------------------------------------------------------------------------

func TestSplitLayout_DragWithinBounds(t *testing.T) {
	t.Parallel()

	for _, d := range []float64{-150, -1, 0, 1, 37.5, 250} {
		l, bus := newTestLayout(t, 400, 600)

		l.PointerDown(500)
		bus.Move(500 + d)

		assert.Equal(t, Widths{Editor: 400 + d, Preview: 600 - d}, l.Widths(), "delta %v", d)
	}
}

func TestSplitLayout_DragBeyondMinimumIsDropped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		x    float64
	}{
		{name: "far left", x: 500 - 10000},
		{name: "far right", x: 500 + 10000},
		{name: "editor exactly at minimum", x: 300},
		{name: "preview exactly at minimum", x: 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, bus := newTestLayout(t, 400, 600)
			l.PointerDown(500)
			bus.Move(tt.x)

			assert.Equal(t, Widths{Editor: 400, Preview: 600}, l.Widths())
			assert.True(t, l.Dragging(), "a dropped move does not end the drag")
		})
	}
}

func TestSplitLayout_DroppedMoveKeepsLastAppliedWidths(t *testing.T) {
	t.Parallel()

	l, bus := newTestLayout(t, 400, 600)
	l.PointerDown(500)
	bus.Move(550)
	bus.Move(-9000)

	assert.Equal(t, Widths{Editor: 450, Preview: 550}, l.Widths())
}

func TestSplitLayout_SumConserved(t *testing.T) {
	t.Parallel()

	l, bus := newTestLayout(t, 500, 700)
	l.PointerDown(100)
	for _, x := range []float64{120, 80, -250, 40, 9000, 333} {
		bus.Move(x)
		w := l.Widths()
		assert.InDelta(t, 1200, w.Editor+w.Preview, 1e-9)
		assert.GreaterOrEqual(t, w.Editor, MinPaneWidth)
		assert.GreaterOrEqual(t, w.Preview, MinPaneWidth)
	}
}

func TestSplitLayout_MovesIgnoredWhenIdle(t *testing.T) {
	t.Parallel()

	l, bus := newTestLayout(t, 400, 600)
	bus.Move(450)

	assert.Equal(t, Widths{Editor: 400, Preview: 600}, l.Widths())
}

func TestSplitLayout_ReleaseEndsDragAndUnsubscribes(t *testing.T) {
	t.Parallel()

	l, bus := newTestLayout(t, 400, 600)
	require.Zero(t, bus.Listeners())

	l.PointerDown(500)
	assert.True(t, l.Dragging())
	assert.Equal(t, 2, bus.Listeners())

	bus.Move(520)
	bus.Up()

	assert.False(t, l.Dragging())
	assert.Zero(t, bus.Listeners(), "subscriptions must be released on pointer-up")

	bus.Move(700)
	assert.Equal(t, Widths{Editor: 420, Preview: 580}, l.Widths(), "moves after release are ignored")
}

func TestSplitLayout_RepeatedGesturesDoNotLeak(t *testing.T) {
	t.Parallel()

	l, bus := newTestLayout(t, 400, 600)
	for i := 0; i < 50; i++ {
		l.PointerDown(500)
		l.PointerDown(510) // second press during a drag is ignored
		bus.Move(501)
		bus.Up()
	}
	assert.Zero(t, bus.Listeners())
}

func TestSplitLayout_NewGestureUsesNewReference(t *testing.T) {
	t.Parallel()

	l, bus := newTestLayout(t, 400, 600)
	l.PointerDown(500)
	bus.Move(550)
	bus.Up()

	l.PointerDown(10)
	bus.Move(0)
	assert.Equal(t, Widths{Editor: 440, Preview: 560}, l.Widths())
}

func TestSplitLayout_CloseDuringDrag(t *testing.T) {
	t.Parallel()

	l, bus := newTestLayout(t, 400, 600)
	l.PointerDown(500)
	l.Close()

	assert.False(t, l.Dragging())
	assert.Zero(t, bus.Listeners())

	// Closing an idle layout is a no-op.
	l.Close()
	assert.Zero(t, bus.Listeners())
}

// ---------------------------------------------------------------------------
// TestSplitLayout_Resize
// ---------------------------------------------------------------------------

func TestSplitLayout_Resize(t *testing.T) {
	t.Parallel()

	l, _ := newTestLayout(t, 400, 600)

	require.NoError(t, l.Resize(500, 300))
	assert.Equal(t, Widths{Editor: 500, Preview: 300}, l.Widths())

	err := l.Resize(100, 700)
	assert.ErrorIs(t, err, ErrInvalidPaneWidth)
	assert.Equal(t, Widths{Editor: 500, Preview: 300}, l.Widths())
}

func TestSplitLayout_ResizeIgnoredDuringDrag(t *testing.T) {
	t.Parallel()

	l, bus := newTestLayout(t, 400, 600)
	l.PointerDown(500)
	require.NoError(t, l.Resize(700, 700))
	assert.Equal(t, Widths{Editor: 400, Preview: 600}, l.Widths())
	bus.Up()
}

// ---------------------------------------------------------------------------
// TestSplitLayout_OnChange
// ---------------------------------------------------------------------------

func TestSplitLayout_OnChange(t *testing.T) {
	t.Parallel()

	type change struct {
		w        Widths
		dragging bool
	}
	var changes []change

	l, bus := newTestLayout(t, 400, 600)
	l.OnChange(func(w Widths, dragging bool) {
		changes = append(changes, change{w, dragging})
	})

	l.PointerDown(500)
	bus.Move(510)
	bus.Move(-10000) // dropped: no notification
	bus.Up()

	want := []change{
		{Widths{Editor: 400, Preview: 600}, true},
		{Widths{Editor: 410, Preview: 590}, true},
		{Widths{Editor: 410, Preview: 590}, false},
	}
	assert.Equal(t, want, changes)
}

// ---------------------------------------------------------------------------
// TestPointerBus
// ---------------------------------------------------------------------------

func TestPointerBus_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	bus := NewPointerBus()
	calls := 0
	release := bus.OnPointerMove(func(float64) { calls++ })
	other := bus.OnPointerUp(func() {})

	bus.Move(1)
	release()
	release()
	bus.Move(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, bus.Listeners())
	other()
	assert.Zero(t, bus.Listeners())
}
