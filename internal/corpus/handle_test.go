// ABOUTME: Tests for the corpus handle
// ABOUTME: Verifies publication semantics under concurrent readers
package corpus

import (
	"sync"
	"testing"

	"github.com/harper/talksearch/internal/models"
)

func TestHandle_GetBeforePublishIsNil(t *testing.T) {
	h := NewHandle()
	if h.Get() != nil {
		t.Error("fresh handle should hold no corpus")
	}
}

func TestHandle_ReplaceSwapsWholeCorpus(t *testing.T) {
	h := NewHandle()

	old := New()
	if err := old.Add(models.Chunk{Number: 1, Text: "a", Embedding: []float64{1}}); err != nil {
		t.Fatal(err)
	}
	h.Replace(old)
	if h.Get() != old {
		t.Fatal("Get should return the published corpus")
	}

	fresh := New()
	h.Replace(fresh)
	if h.Get() != fresh {
		t.Error("Replace should swap in the new corpus")
	}
}

func TestHandle_ConcurrentReadersSeeCompleteCorpora(t *testing.T) {
	h := NewHandle()
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			c := New()
			if err := c.Add(models.Chunk{Number: 1, Text: "a", Embedding: []float64{1, 2}}); err != nil {
				t.Error(err)
				return
			}
			h.Replace(c)
		}
		close(done)
	}()

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				c := h.Get()
				if c == nil {
					continue
				}
				if c.Len() != 1 || c.Dimension() != 2 {
					t.Error("reader observed an incomplete corpus")
					return
				}
			}
		}()
	}

	wg.Wait()
}
