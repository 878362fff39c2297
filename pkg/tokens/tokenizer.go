package tokens

import "errors"

// Encoding profile names understood by the default tokenizer.
const (
	EncodingO200K  = "o200k_base"
	EncodingCL100K = "cl100k_base"
)

// ErrEncodingReleased is returned by Encode after Free.
var ErrEncodingReleased = errors.New("encoding already released")

// Tokenizer hands out encodings by profile name.
// Implementations must be safe for concurrent use.
type Tokenizer interface {
	// Encoding acquires the named encoding. The caller must call Free on the
	// result when done with it.
	Encoding(name string) (Encoding, error)
}

// Encoding maps text to an ordered sequence of token IDs.
type Encoding interface {
	// Name returns the profile name, e.g. "cl100k_base".
	Name() string

	// Encode tokenizes text. Special-token sequences are encoded as
	// ordinary text.
	Encode(text string) ([]int, error)

	// Free releases the encoding. Encode fails afterwards.
	Free()
}

// Count encodes text with enc and returns the number of tokens.
func Count(enc Encoding, text string) (int, error) {
	ids, err := enc.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
