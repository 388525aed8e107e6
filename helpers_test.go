package mdlatex

import (
	"context"
	"errors"
	"sync"
)

// errStoreUnavailable simulates full or unavailable storage.
var errStoreUnavailable = errors.New("storage unavailable")

// failingStore fails every operation.
type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errStoreUnavailable }
func (failingStore) Set(string, string) error         { return errStoreUnavailable }

// mockPDFRenderer implements PDFRenderer without a browser.
type mockPDFRenderer struct {
	mu       sync.Mutex
	result   []byte
	err      error
	calls    int
	lastHTML string
	lastPage *PageSettings
	closed   bool
}

func (m *mockPDFRenderer) RenderPDF(_ context.Context, htmlContent string, page *PageSettings) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastHTML = htmlContent
	m.lastPage = page
	return m.result, m.err
}

func (m *mockPDFRenderer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
