// Tokenscope counts the input tokens a prompt of text and images costs
// with Anthropic, Google Gemini and OpenAI models.
//
// Anthropic and Gemini are asked through their token-counting endpoints;
// OpenAI counts are computed locally with the model's BPE encoding plus a
// size-tiered estimate per image.
//
// Usage:
//
//	# Count a prompt
//	tokenscope count --provider openai --model gpt-4o --text "hello"
//
//	# Count text and images with Claude
//	tokenscope count --provider anthropic --model claude-3-haiku-20240307 \
//	    --text-file prompt.txt --image diagram.png --image-url https://example.com/cat.jpg
//
//	# List providers and whether they are configured
//	tokenscope providers
//
//	# Serve the HTTP API and same-origin relay
//	tokenscope serve --listen 127.0.0.1:8787
package main

func main() {
	Execute()
}
