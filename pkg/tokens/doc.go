// Package tokens provides the local tokenizer capability used for counting
// without a network call.
//
// A Tokenizer hands out Encodings by profile name ("o200k_base",
// "cl100k_base"). Callers acquire an encoding, encode, and release it:
//
//	enc, err := tokenizer.Encoding(tokens.EncodingCL100K)
//	if err != nil {
//	    return err
//	}
//	defer enc.Free()
//
//	n, err := tokens.Count(enc, "hello")
//
// The default implementation wraps github.com/pkoukk/tiktoken-go. With
// Options.Offline the BPE ranks come from github.com/pkoukk/tiktoken-go-loader
// and no download happens at first use.
package tokens
