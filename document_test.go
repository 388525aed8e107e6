package mdlatex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDocument(t *testing.T) {
	t.Parallel()

	t.Run("empty store yields sample", func(t *testing.T) {
		t.Parallel()

		d := OpenDocument(NewMemoryStore(), nil)
		assert.Equal(t, SampleDocument, d.Get())
	})

	t.Run("stored value replaces sample", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStore()
		require.NoError(t, s.Set(DocumentKey, "# Saved"))

		d := OpenDocument(s, nil)
		assert.Equal(t, "# Saved", d.Get())
	})

	t.Run("stored empty value replaces sample", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStore()
		require.NoError(t, s.Set(DocumentKey, ""))

		d := OpenDocument(s, nil)
		assert.Empty(t, d.Get())
	})

	t.Run("read failure yields sample", func(t *testing.T) {
		t.Parallel()

		d := OpenDocument(failingStore{}, nil)
		assert.Equal(t, SampleDocument, d.Get())
	})
}

func TestDocument_SetPersists(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	d := OpenDocument(s, nil)

	d.Set("# Edited\n\ntext")

	got, ok, err := s.Get(DocumentKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "# Edited\n\ntext", got)
	assert.Equal(t, got, d.Get())

	reopened := OpenDocument(s, nil)
	assert.Equal(t, "# Edited\n\ntext", reopened.Get())
}

func TestDocument_SetSwallowsStoreFailure(t *testing.T) {
	t.Parallel()

	d := OpenDocument(failingStore{}, nil)

	assert.NotPanics(t, func() { d.Set("still editing") })
	assert.Equal(t, "still editing", d.Get())
}

func TestDocument_ReplaceDoesNotWrite(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	require.NoError(t, s.Set(DocumentKey, "on disk"))
	d := OpenDocument(s, nil)

	d.replace("from watcher")

	got, _, err := s.Get(DocumentKey)
	require.NoError(t, err)
	assert.Equal(t, "on disk", got)
	assert.Equal(t, "from watcher", d.Get())
}
