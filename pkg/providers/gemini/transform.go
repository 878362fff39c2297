package gemini

import "mercator-hq/tokenscope/pkg/providers"

// CountTokensRequest is the body of POST models/{model}:countTokens.
type CountTokensRequest struct {
	Contents []Content `json:"contents"`
}

// Content is a single content envelope.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is either a text part or an inline-data part.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64 image data.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// CountTokensResponse is the success body of the countTokens endpoint.
type CountTokensResponse struct {
	TotalTokens int `json:"totalTokens"`
}

// buildParts converts the request into ordered parts: the text part first
// (if the text is non-blank), then one inline-data part per image.
func buildParts(req *providers.TokenCountRequest) []Part {
	parts := make([]Part, 0, len(req.Images)+1)

	if req.HasText() {
		parts = append(parts, Part{Text: req.Text})
	}

	for _, img := range req.Images {
		parts = append(parts, Part{
			InlineData: &InlineData{
				MimeType: img.MediaType,
				Data:     img.Data,
			},
		})
	}

	return parts
}

// transformRequest wraps the parts into a single content envelope.
func transformRequest(parts []Part) *CountTokensRequest {
	return &CountTokensRequest{
		Contents: []Content{{Parts: parts}},
	}
}

// transformResponse reports the total token count as both input and total.
func transformResponse(resp *CountTokensResponse) *providers.TokenCountResult {
	return &providers.TokenCountResult{
		InputTokens: resp.TotalTokens,
		TotalTokens: resp.TotalTokens,
	}
}
