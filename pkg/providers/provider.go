package providers

import "context"

// Counter is the contract every provider adapter implements. It turns a
// provider-agnostic request into a vendor call (or a local computation) and
// normalizes the outcome.
//
// Implementations validate content independently: a request without text or
// images fails with KindMissingContent before any network or tokenizer work.
// All failures are returned as *Error.
//
// Example usage:
//
//	counter, err := providerfactory.NewCounter(providers.Anthropic, cfg)
//	if err != nil {
//	    return err
//	}
//
//	result, err := counter.CountTokens(ctx, &providers.TokenCountRequest{
//	    Model: "claude-3-5-haiku-20241022",
//	    Text:  "Hello!",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.TotalTokens)
type Counter interface {
	// CountTokens counts the input tokens of req for the adapter's vendor.
	CountTokens(ctx context.Context, req *TokenCountRequest) (*TokenCountResult, error)

	// ID returns the provider the adapter serves.
	ID() ProviderID
}

// ImageFetcher resolves a remote image URL into base64 image content.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) (Image, error)
}
