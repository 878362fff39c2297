package state

import (
	"mercator-hq/tokenscope/pkg/providers"
)

// AppState is one immutable snapshot of a counting session: the current
// selections, the pending input, the busy flag and the last outcome.
//
// Reducers never modify their argument. Each returns a new snapshot that
// shares no slices or pointers with the old one.
type AppState struct {
	// Provider is the selected provider ("" when none)
	Provider providers.ProviderID `json:"provider"`

	// Model is the selected model ("" when none)
	Model string `json:"model"`

	// InputText is the prompt text
	InputText string `json:"input_text"`

	// Images are the pending images in insertion order
	Images []providers.Image `json:"images"`

	// ImageURL is a pending remote image URL
	ImageURL string `json:"image_url"`

	// Loading is true while a count is in flight
	Loading bool `json:"loading"`

	// Result is the last successful count (nil when absent)
	Result *providers.TokenCountResult `json:"result,omitempty"`

	// ErrorMessage is the last localized error ("" when absent)
	ErrorMessage string `json:"error,omitempty"`
}

// Initial returns the snapshot a session starts with.
func Initial() AppState {
	return AppState{Images: []providers.Image{}}
}

// HasError reports whether the snapshot carries an error.
func (s AppState) HasError() bool {
	return s.ErrorMessage != ""
}

// Request builds the count request for the current input.
func (s AppState) Request() *providers.TokenCountRequest {
	return &providers.TokenCountRequest{
		Model:  s.Model,
		Text:   s.InputText,
		Images: append([]providers.Image(nil), s.Images...),
	}
}

// clone returns a deep copy of s.
func clone(s AppState) AppState {
	out := s
	out.Images = append(make([]providers.Image, 0, len(s.Images)), s.Images...)
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return out
}

// clearOutcome drops the last result and error.
func clearOutcome(s AppState) AppState {
	s.Result = nil
	s.ErrorMessage = ""
	return s
}

// SelectProvider selects a provider and clears the model, result and error.
func SelectProvider(s AppState, id providers.ProviderID) AppState {
	out := clearOutcome(clone(s))
	out.Provider = id
	out.Model = ""
	return out
}

// SelectModel selects a model and clears the result and error.
func SelectModel(s AppState, model string) AppState {
	out := clearOutcome(clone(s))
	out.Model = model
	return out
}

// UpdateInputText replaces the text and clears the result and error.
func UpdateInputText(s AppState, text string) AppState {
	out := clearOutcome(clone(s))
	out.InputText = text
	return out
}

// UpdateImageURL replaces the pending URL and clears the result and error.
func UpdateImageURL(s AppState, url string) AppState {
	out := clearOutcome(clone(s))
	out.ImageURL = url
	return out
}

// AddInputImage appends an image and clears the result and error.
func AddInputImage(s AppState, img providers.Image) AppState {
	out := clearOutcome(clone(s))
	out.Images = append(out.Images, img)
	return out
}

// RemoveInputImage removes the image at index and clears the result and
// error. An out-of-range index leaves the images unchanged.
func RemoveInputImage(s AppState, index int) AppState {
	out := clearOutcome(clone(s))
	kept := make([]providers.Image, 0, len(out.Images))
	for i, img := range out.Images {
		if i != index {
			kept = append(kept, img)
		}
	}
	out.Images = kept
	return out
}

// ClearInputImages removes every image and clears the result and error.
func ClearInputImages(s AppState) AppState {
	out := clearOutcome(clone(s))
	out.Images = []providers.Image{}
	return out
}

// SetLoading only sets the busy flag.
func SetLoading(s AppState, loading bool) AppState {
	out := clone(s)
	out.Loading = loading
	return out
}

// SetTokenCount stores a result, clears the error and the busy flag.
func SetTokenCount(s AppState, result providers.TokenCountResult) AppState {
	out := clone(s)
	out.Result = &result
	out.ErrorMessage = ""
	out.Loading = false
	return out
}

// SetError stores an error message, clears the result and the busy flag.
func SetError(s AppState, message string) AppState {
	out := clone(s)
	out.ErrorMessage = message
	out.Result = nil
	out.Loading = false
	return out
}

// ClearError only clears the error.
func ClearError(s AppState) AppState {
	out := clone(s)
	out.ErrorMessage = ""
	return out
}

// Reset returns the initial snapshot.
func Reset(AppState) AppState {
	return Initial()
}
