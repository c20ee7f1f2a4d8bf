package datastore

import "sync"

// InMemWriter is an in-memory QuoteWriter for testing.
type InMemWriter struct {
	mu       sync.RWMutex
	Quotes   []Quote
	IsClosed bool
}

// NewInMemWriter creates a new InMemWriter.
func NewInMemWriter() *InMemWriter {
	return &InMemWriter{Quotes: make([]Quote, 0)}
}

// SaveQuote appends a quote to the in-memory slice.
func (w *InMemWriter) SaveQuote(q Quote) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Quotes = append(w.Quotes, q)
}

// Close marks the writer as closed.
func (w *InMemWriter) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.IsClosed = true
}

// Saved returns a copy of the quotes saved so far.
func (w *InMemWriter) Saved() []Quote {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Quote, len(w.Quotes))
	copy(out, w.Quotes)
	return out
}
