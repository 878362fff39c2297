package state

import (
	"reflect"
	"testing"

	"mercator-hq/tokenscope/pkg/providers"
)

var (
	imgA = providers.Image{Data: "AAAA", MediaType: "image/png"}
	imgB = providers.Image{Data: "BBBB", MediaType: "image/jpeg"}
)

// populated returns a snapshot with every field set.
func populated() AppState {
	s := Initial()
	s = SelectProvider(s, providers.Anthropic)
	s = SelectModel(s, "claude-3-opus-20240229")
	s = UpdateInputText(s, "hello")
	s = AddInputImage(s, imgA)
	s = AddInputImage(s, imgB)
	s = UpdateImageURL(s, "https://example.com/cat.png")
	s = SetTokenCount(s, providers.TokenCountResult{InputTokens: 5, TotalTokens: 5})
	s = SetLoading(s, true)
	return s
}

func TestInitial(t *testing.T) {
	s := Initial()
	if s.Provider != "" || s.Model != "" || s.InputText != "" || s.ImageURL != "" {
		t.Errorf("expected empty selections, got %+v", s)
	}
	if len(s.Images) != 0 || s.Loading || s.Result != nil || s.HasError() {
		t.Errorf("expected empty initial state, got %+v", s)
	}
}

func TestReducers(t *testing.T) {
	tests := []struct {
		name   string
		apply  func(AppState) AppState
		verify func(t *testing.T, before, after AppState)
	}{
		{
			name:  "select provider clears model, result and error",
			apply: func(s AppState) AppState { return SelectProvider(s, providers.Gemini) },
			verify: func(t *testing.T, before, after AppState) {
				if after.Provider != providers.Gemini || after.Model != "" || after.Result != nil || after.HasError() {
					t.Errorf("unexpected state %+v", after)
				}
				if after.InputText != before.InputText || len(after.Images) != len(before.Images) {
					t.Error("input must be preserved")
				}
			},
		},
		{
			name:  "select model clears result",
			apply: func(s AppState) AppState { return SelectModel(s, "claude-3-haiku-20240307") },
			verify: func(t *testing.T, before, after AppState) {
				if after.Model != "claude-3-haiku-20240307" || after.Result != nil {
					t.Errorf("unexpected state %+v", after)
				}
				if after.Provider != before.Provider {
					t.Error("provider must be preserved")
				}
			},
		},
		{
			name:  "update text",
			apply: func(s AppState) AppState { return UpdateInputText(s, "bye") },
			verify: func(t *testing.T, _, after AppState) {
				if after.InputText != "bye" || after.Result != nil {
					t.Errorf("unexpected state %+v", after)
				}
			},
		},
		{
			name:  "update image url",
			apply: func(s AppState) AppState { return UpdateImageURL(s, "") },
			verify: func(t *testing.T, _, after AppState) {
				if after.ImageURL != "" || after.Result != nil {
					t.Errorf("unexpected state %+v", after)
				}
			},
		},
		{
			name:  "remove image by index",
			apply: func(s AppState) AppState { return RemoveInputImage(s, 0) },
			verify: func(t *testing.T, _, after AppState) {
				if len(after.Images) != 1 || after.Images[0] != imgB || after.Result != nil {
					t.Errorf("unexpected state %+v", after)
				}
			},
		},
		{
			name:  "remove out of range keeps images",
			apply: func(s AppState) AppState { return RemoveInputImage(s, 7) },
			verify: func(t *testing.T, before, after AppState) {
				if !reflect.DeepEqual(after.Images, before.Images) || after.Result != nil {
					t.Errorf("unexpected state %+v", after)
				}
			},
		},
		{
			name:  "clear images",
			apply: ClearInputImages,
			verify: func(t *testing.T, _, after AppState) {
				if len(after.Images) != 0 || after.Images == nil || after.Result != nil {
					t.Errorf("unexpected state %+v", after)
				}
			},
		},
		{
			name:  "set loading only touches busy flag",
			apply: func(s AppState) AppState { return SetLoading(s, false) },
			verify: func(t *testing.T, before, after AppState) {
				want := before
				want.Loading = false
				if !reflect.DeepEqual(after, want) {
					t.Errorf("expected %+v, got %+v", want, after)
				}
			},
		},
		{
			name:  "set error clears result and busy flag",
			apply: func(s AppState) AppState { return SetError(s, "boom") },
			verify: func(t *testing.T, _, after AppState) {
				if after.ErrorMessage != "boom" || after.Result != nil || after.Loading {
					t.Errorf("unexpected state %+v", after)
				}
			},
		},
		{
			name:  "reset",
			apply: Reset,
			verify: func(t *testing.T, _, after AppState) {
				if !reflect.DeepEqual(after, Initial()) {
					t.Errorf("expected initial state, got %+v", after)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := populated()
			snapshot := clone(before)

			after := tt.apply(before)
			tt.verify(t, before, after)

			if !reflect.DeepEqual(before, snapshot) {
				t.Error("reducer modified its input")
			}
		})
	}
}

func TestSetTokenCount(t *testing.T) {
	s := SetError(populated(), "old failure")
	s = SetLoading(s, true)

	s = SetTokenCount(s, providers.TokenCountResult{InputTokens: 9, TotalTokens: 9})
	if s.Result == nil || s.Result.TotalTokens != 9 {
		t.Errorf("expected result 9, got %+v", s.Result)
	}
	if s.HasError() || s.Loading {
		t.Errorf("expected error and busy flag cleared, got %+v", s)
	}
}

func TestClearError(t *testing.T) {
	s := SetError(populated(), "boom")
	s = ClearError(s)
	if s.HasError() {
		t.Error("expected error to be cleared")
	}
	if s.Provider != providers.Anthropic {
		t.Error("clear error must not touch other fields")
	}
}

func TestReducersAreIdempotent(t *testing.T) {
	reducers := map[string]func(AppState) AppState{
		"select provider": func(s AppState) AppState { return SelectProvider(s, providers.OpenAI) },
		"select model":    func(s AppState) AppState { return SelectModel(s, "gpt-4") },
		"update text":     func(s AppState) AppState { return UpdateInputText(s, "x") },
		"update url":      func(s AppState) AppState { return UpdateImageURL(s, "u") },
		"clear images":    ClearInputImages,
		"set loading":     func(s AppState) AppState { return SetLoading(s, true) },
		"set token count": func(s AppState) AppState {
			return SetTokenCount(s, providers.TokenCountResult{InputTokens: 1, TotalTokens: 1})
		},
		"set error":   func(s AppState) AppState { return SetError(s, "e") },
		"clear error": ClearError,
		"reset":       Reset,
	}

	for name, reduce := range reducers {
		t.Run(name, func(t *testing.T) {
			once := reduce(populated())
			twice := reduce(reduce(populated()))
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("applying twice differs:\nonce:  %+v\ntwice: %+v", once, twice)
			}
		})
	}
}

func TestSnapshotsShareNoBackingArrays(t *testing.T) {
	base := AddInputImage(Initial(), imgA)
	next := AddInputImage(base, imgB)

	next.Images[0].Data = "mutated"
	if base.Images[0].Data != "AAAA" {
		t.Error("mutating a later snapshot changed an earlier one")
	}

	withResult := SetTokenCount(base, providers.TokenCountResult{InputTokens: 1, TotalTokens: 1})
	later := SetLoading(withResult, true)
	later.Result.TotalTokens = 99
	if withResult.Result.TotalTokens != 1 {
		t.Error("snapshots share the result pointer")
	}
}

func TestRequest(t *testing.T) {
	s := populated()
	req := s.Request()

	if req.Model != s.Model || req.Text != s.InputText || len(req.Images) != 2 {
		t.Errorf("unexpected request %+v", req)
	}

	req.Images[0].Data = "changed"
	if s.Images[0].Data == "changed" {
		t.Error("request shares images with the snapshot")
	}
}
