package anthropic

import (
	"mercator-hq/tokenscope/pkg/providers"
)

// CountTokensRequest is the body of POST /v1/messages/count_tokens.
type CountTokensRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Message is a single message in Anthropic format.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is a text or image block.
type ContentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

// ImageSource carries inline base64 image data.
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// CountTokensResponse is the success body of the count_tokens endpoint.
type CountTokensResponse struct {
	InputTokens int `json:"input_tokens"`
}

// buildContent converts the request into ordered content blocks: the text
// block first (if the text is non-blank), then one block per image.
func buildContent(req *providers.TokenCountRequest) []ContentBlock {
	blocks := make([]ContentBlock, 0, len(req.Images)+1)

	if req.HasText() {
		blocks = append(blocks, ContentBlock{
			Type: "text",
			Text: req.Text,
		})
	}

	for _, img := range req.Images {
		blocks = append(blocks, ContentBlock{
			Type: "image",
			Source: &ImageSource{
				Type:      "base64",
				MediaType: img.MediaType,
				Data:      img.Data,
			},
		})
	}

	return blocks
}

// transformRequest wraps the content blocks into a single user message.
func transformRequest(req *providers.TokenCountRequest, blocks []ContentBlock) *CountTokensRequest {
	return &CountTokensRequest{
		Model: req.Model,
		Messages: []Message{
			{Role: "user", Content: blocks},
		},
	}
}

// transformResponse reports the input token count as both input and total.
func transformResponse(resp *CountTokensResponse) *providers.TokenCountResult {
	return &providers.TokenCountResult{
		InputTokens: resp.InputTokens,
		TotalTokens: resp.InputTokens,
	}
}
