// ABOUTME: Handle publishes a corpus to concurrent readers via atomic replacement
// ABOUTME: Readers never observe a partially built corpus
package corpus

import "sync/atomic"

// Handle holds the corpus used across a long-lived session. Builds publish
// their result with Replace only once complete, so a reader always sees
// either the previous corpus or the finished new one.
type Handle struct {
	current atomic.Pointer[Corpus]
}

// NewHandle returns a handle with no corpus loaded.
func NewHandle() *Handle {
	return &Handle{}
}

// Get returns the current corpus, or nil if none has been published.
func (h *Handle) Get() *Corpus {
	return h.current.Load()
}

// Replace publishes c as the current corpus.
func (h *Handle) Replace(c *Corpus) {
	h.current.Store(c)
}
