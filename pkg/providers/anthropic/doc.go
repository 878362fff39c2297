// Package anthropic implements the Anthropic token counting adapter.
//
// Requests are sent to the Messages count_tokens endpoint as a single user
// message whose content is an ordered list of blocks: one text block when the
// text is non-blank, followed by one base64 image block per image.
//
// # Basic Usage
//
//	provider, err := anthropic.NewProvider(providers.ProviderConfig{
//	    BaseURL: "https://api.anthropic.com",
//	    APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := provider.CountTokens(ctx, &providers.TokenCountRequest{
//	    Model: "claude-3-5-sonnet-20241022",
//	    Text:  "Hello, Claude",
//	})
//
// The vendor reports a single input_tokens figure, which is returned as both
// InputTokens and TotalTokens.
//
// # Images
//
// FetchImage downloads a remote image and ConvertFile converts a local file.
// ConvertFile rejects non-image types and files above 20 MiB before opening
// them. FileFromPath builds an ImageFile from any afero filesystem, sniffing
// the type from the file header.
//
// # Errors
//
// A request without content fails with KindMissingContent and a missing API
// key with KindConfiguration; neither touches the network. Vendor errors
// carry the HTTP status and the vendor error type (e.g.
// "invalid_request_error") as Code.
package anthropic
