// Package openai implements the OpenAI token counting adapter.
//
// Unlike the other adapters this one works entirely locally and needs no
// API key. Text is tokenized with a BPE encoding chosen from the model
// identifier:
//
//	gpt-4o*   -> o200k_base
//	gpt-4*    -> cl100k_base
//	gpt-3.5*  -> cl100k_base
//	otherwise -> cl100k_base
//
// Images are only accepted by vision models (identifiers containing "gpt-4o"
// or "gpt-4"). Each image costs 85 tokens plus an addend picked from the
// estimated decoded size of its base64 payload (length * 0.75): 255 above
// 1 MiB, 170 above 512 KiB, 85 otherwise. This is an approximation, not the
// vendor's billing formula.
//
// # Basic Usage
//
//	tokenizer := tokens.NewTiktoken(tokens.Options{})
//	provider, err := openai.NewProvider(providers.ProviderConfig{}, tokenizer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := provider.CountTokens(ctx, &providers.TokenCountRequest{
//	    Model: "gpt-4o",
//	    Text:  "Hello!",
//	})
package openai
