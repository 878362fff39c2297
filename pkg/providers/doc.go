// Package providers implements the provider-agnostic token counting layer.
//
// # Overview
//
// The package defines one request shape (TokenCountRequest), one result shape
// (TokenCountResult) and one error type (*Error). Adapters in the anthropic,
// gemini and openai subpackages translate the request into a vendor wire call
// or a local tokenizer run and reduce the outcome back into these shapes.
//
// # Architecture
//
//  1. Catalogue - static table of providers and models (ListProviders, FindModel, ...)
//  2. Counter interface - the contract every adapter implements
//  3. Base HTTP Provider - HTTP client, per-call timeout, vendor error extraction
//  4. Adapters - Anthropic and Gemini (network), OpenAI (local tokenizer)
//  5. Dispatch - package providerfactory maps a provider identifier to an adapter
//
// # Basic Usage
//
//	provider, err := anthropic.NewProvider(providers.ProviderConfig{
//	    Name:    providers.Anthropic,
//	    BaseURL: "https://api.anthropic.com",
//	    APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := provider.CountTokens(ctx, &providers.TokenCountRequest{
//	    Model: "claude-3-5-sonnet-20241022",
//	    Text:  "How many tokens is this?",
//	})
//
// # Error Handling
//
// Every failure is an *Error whose Kind tells the caller what happened:
//
//	_, err := provider.CountTokens(ctx, req)
//	switch providers.KindOf(err) {
//	case providers.KindMissingContent:
//	    // nothing to count
//	case providers.KindTimeout:
//	    // the vendor did not answer within the budget
//	case providers.KindAPI:
//	    var pe *providers.Error
//	    errors.As(err, &pe)
//	    fmt.Println(pe.StatusCode, pe.Code)
//	}
//
// Errors carry a MessageID and TemplateData so package i18n can render them in
// the user's language.
//
// # Content Validation
//
// Each adapter checks independently that a request has non-blank text or at
// least one image. The check happens before credentials are consulted and
// before any network or tokenizer work.
//
// # Thread Safety
//
// Adapters hold no per-call state and can be used concurrently. Calls are
// independent: there is no ordering or mutual exclusion between them.
package providers
