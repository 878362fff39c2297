package tokens

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Options configures the tiktoken-backed tokenizer.
type Options struct {
	// Offline loads BPE ranks from files embedded in the binary instead of
	// downloading them on first use.
	Offline bool
}

var offlineOnce sync.Once

// Tiktoken is the default Tokenizer. Loaded BPE tables are cached per
// profile name and shared between encodings.
type Tiktoken struct {
	cache sync.Map // name -> *tiktoken.Tiktoken
	mu    sync.Mutex
}

// NewTiktoken creates the default tokenizer.
func NewTiktoken(opts Options) *Tiktoken {
	if opts.Offline {
		// The loader is process-wide in tiktoken-go.
		offlineOnce.Do(func() {
			tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
			slog.Debug("tokenizer using embedded BPE ranks")
		})
	}
	return &Tiktoken{}
}

// Encoding implements Tokenizer.
func (t *Tiktoken) Encoding(name string) (Encoding, error) {
	if cached, ok := t.cache.Load(name); ok {
		return &tiktokenEncoding{name: name, tkm: cached.(*tiktoken.Tiktoken)}, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if cached, ok := t.cache.Load(name); ok {
		return &tiktokenEncoding{name: name, tkm: cached.(*tiktoken.Tiktoken)}, nil
	}

	tkm, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %q: %w", name, err)
	}
	t.cache.Store(name, tkm)

	slog.Debug("tokenizer encoding loaded", "encoding", name)

	return &tiktokenEncoding{name: name, tkm: tkm}, nil
}

type tiktokenEncoding struct {
	name     string
	tkm      *tiktoken.Tiktoken
	released atomic.Bool
}

func (e *tiktokenEncoding) Name() string {
	return e.name
}

func (e *tiktokenEncoding) Encode(text string) (ids []int, err error) {
	if e.released.Load() {
		return nil, ErrEncodingReleased
	}

	defer func() {
		if r := recover(); r != nil {
			ids, err = nil, fmt.Errorf("encoding %q: %v", e.name, r)
		}
	}()

	return e.tkm.Encode(text, nil, nil), nil
}

func (e *tiktokenEncoding) Free() {
	e.released.Store(true)
}
