package providers

import "testing"

func TestTokenCountRequest_HasContent(t *testing.T) {
	tests := []struct {
		name    string
		req     *TokenCountRequest
		text    bool
		content bool
	}{
		{"nil request", nil, false, false},
		{"empty", &TokenCountRequest{Model: "m"}, false, false},
		{"blank text", &TokenCountRequest{Text: " \n\t "}, false, false},
		{"text", &TokenCountRequest{Text: "hello"}, true, true},
		{"image only", &TokenCountRequest{Images: []Image{{Data: "AAAA", MediaType: "image/png"}}}, false, true},
		{"blank text and image", &TokenCountRequest{Text: "  ", Images: []Image{{}}}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.HasText(); got != tt.text {
				t.Errorf("HasText() = %v, want %v", got, tt.text)
			}
			if got := tt.req.HasContent(); got != tt.content {
				t.Errorf("HasContent() = %v, want %v", got, tt.content)
			}
		})
	}
}

func TestProviderID_String(t *testing.T) {
	if Anthropic.String() != "anthropic" || OpenAI.String() != "openai" || Gemini.String() != "gemini" {
		t.Error("unexpected provider identifier strings")
	}
}
