package mdlatex

import (
	"log/slog"
	"sync"
)

// Document is the single in-memory document, written through to a Store.
// Safe for concurrent use; the last Set wins.
type Document struct {
	mu     sync.RWMutex
	text   string
	store  Store
	logger *slog.Logger
}

// OpenDocument reads the store once. A stored value, even an empty one,
// replaces SampleDocument. A read failure is logged and the sample is used.
func OpenDocument(store Store, logger *slog.Logger) *Document {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Document{text: SampleDocument, store: store, logger: logger}

	if store == nil {
		return d
	}
	value, ok, err := store.Get(DocumentKey)
	switch {
	case err != nil:
		logger.Warn("reading stored document", "error", err)
	case ok:
		d.text = value
	}
	return d
}

// Get returns the current text.
func (d *Document) Get() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// Set replaces the text and writes it to the store. Store failures are
// logged and swallowed: editing continues in memory.
func (d *Document) Set(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.text = text
	if d.store == nil {
		return
	}
	if err := d.store.Set(DocumentKey, text); err != nil {
		d.logger.Warn("persisting document", "error", err, "bytes", len(text))
	}
}

// replace swaps the text without writing back, for values that came from
// the store itself.
func (d *Document) replace(text string) {
	d.mu.Lock()
	d.text = text
	d.mu.Unlock()
}
