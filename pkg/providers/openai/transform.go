package openai

import (
	"strings"

	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/tokens"
)

// Image cost tiers. The vendor does not publish a formula that works from
// the encoded payload alone, so the cost is approximated from the estimated
// decoded size.
const (
	ImageBaseTokens   = 85
	ImageLargeAddend  = 255
	ImageMediumAddend = 170
	ImageSmallAddend  = 85

	imageLargeThreshold  = 1024 * 1024
	imageMediumThreshold = 512 * 1024

	// base64 encodes 3 bytes in 4 characters.
	base64DecodeRatio = 0.75
)

// encodingRule maps a model-identifier substring to an encoding profile.
type encodingRule struct {
	marker   string
	encoding string
}

// encodingRules are checked in order; the first match wins.
var encodingRules = []encodingRule{
	{marker: "gpt-4o", encoding: tokens.EncodingO200K},
	{marker: "gpt-4", encoding: tokens.EncodingCL100K},
	{marker: "gpt-3.5", encoding: tokens.EncodingCL100K},
}

// visionMarkers identify models that accept image input.
var visionMarkers = []string{"gpt-4o", "gpt-4"}

// EncodingForModel selects the encoding profile for a model identifier.
// Unmatched identifiers use cl100k_base.
func EncodingForModel(model string) string {
	for _, rule := range encodingRules {
		if strings.Contains(model, rule.marker) {
			return rule.encoding
		}
	}
	return tokens.EncodingCL100K
}

// IsVisionModel reports whether model accepts image input.
func IsVisionModel(model string) bool {
	for _, marker := range visionMarkers {
		if strings.Contains(model, marker) {
			return true
		}
	}
	return false
}

// ImageTokens estimates the cost of one image: the base cost plus an addend
// chosen by the estimated decoded size of the base64 payload.
func ImageTokens(img providers.Image) int {
	estimated := float64(len(img.Data)) * base64DecodeRatio

	switch {
	case estimated > imageLargeThreshold:
		return ImageBaseTokens + ImageLargeAddend
	case estimated > imageMediumThreshold:
		return ImageBaseTokens + ImageMediumAddend
	default:
		return ImageBaseTokens + ImageSmallAddend
	}
}
