package providers

import (
	"strings"
	"sync"

	"mercator-hq/tokenscope/pkg/tokens"
)

// FakeTokenizer is a deterministic tokenizer for tests: one token per
// whitespace-separated word. It records which encodings were acquired and
// how many were released.
type FakeTokenizer struct {
	// LoadErr is returned by Encoding when set
	LoadErr error

	// EncodeErr is returned by Encode when set
	EncodeErr error

	mu       sync.Mutex
	acquired []string
	freed    int
}

// Encoding implements tokens.Tokenizer.
func (f *FakeTokenizer) Encoding(name string) (tokens.Encoding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.acquired = append(f.acquired, name)
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	return &fakeEncoding{name: name, parent: f}, nil
}

// Acquired returns the encoding names requested so far.
func (f *FakeTokenizer) Acquired() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.acquired...)
}

// Freed returns how many encodings were released.
func (f *FakeTokenizer) Freed() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.freed
}

type fakeEncoding struct {
	name   string
	parent *FakeTokenizer
}

func (e *fakeEncoding) Name() string {
	return e.name
}

func (e *fakeEncoding) Encode(text string) ([]int, error) {
	if e.parent.EncodeErr != nil {
		return nil, e.parent.EncodeErr
	}
	words := strings.Fields(text)
	ids := make([]int, len(words))
	for i := range words {
		ids[i] = i
	}
	return ids, nil
}

func (e *fakeEncoding) Free() {
	e.parent.mu.Lock()
	defer e.parent.mu.Unlock()

	e.parent.freed++
}
