// Package gemini implements the Google Gemini token counting adapter.
//
// The request is a single content envelope whose parts are a text part (when
// the text is non-blank) followed by one inlineData part per image. It is
// posted to {base_url}/models/{model}:countTokens with the API key in the
// "key" query parameter, which is the vendor's convention. The vendor's
// totalTokens figure is returned as both InputTokens and TotalTokens.
//
// Error bodies of the form {"error":{"code":400,"message":"..."}} are mapped
// to a KindAPI error whose Code is the numeric vendor code as a string.
package gemini
