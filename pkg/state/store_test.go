package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mercator-hq/tokenscope/pkg/providers"
)

type fakeDispatcher struct {
	result   *providers.TokenCountResult
	err      error
	provider string
	req      *providers.TokenCountRequest
	sawBusy  bool
	store    *Store
}

func (d *fakeDispatcher) CountTokens(_ context.Context, providerID string, req *providers.TokenCountRequest) (*providers.TokenCountResult, error) {
	d.provider = providerID
	d.req = req
	if d.store != nil {
		d.sawBusy = d.store.State().Loading
	}
	return d.result, d.err
}

type fakeFetcher struct {
	img providers.Image
	err error
	url string
}

func (f *fakeFetcher) FetchImage(_ context.Context, url string) (providers.Image, error) {
	f.url = url
	return f.img, f.err
}

func TestStore_Submit(t *testing.T) {
	store := NewStore()
	store.SelectProvider(providers.OpenAI)
	store.SelectModel("gpt-4")
	store.UpdateInputText("hello")

	d := &fakeDispatcher{result: &providers.TokenCountResult{InputTokens: 1, TotalTokens: 1}, store: store}

	result, err := store.Submit(context.Background(), d, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalTokens != 1 {
		t.Errorf("expected 1 token, got %d", result.TotalTokens)
	}
	if d.provider != "openai" || d.req.Model != "gpt-4" || d.req.Text != "hello" {
		t.Errorf("unexpected dispatch provider=%s req=%+v", d.provider, d.req)
	}
	if !d.sawBusy {
		t.Error("expected the busy flag to be set during dispatch")
	}

	s := store.State()
	if s.Loading || s.Result == nil || s.Result.TotalTokens != 1 || s.HasError() {
		t.Errorf("unexpected final state %+v", s)
	}
}

func TestStore_SubmitError(t *testing.T) {
	store := NewStore()
	store.SetTokenCount(providers.TokenCountResult{InputTokens: 3, TotalTokens: 3})

	failure := providers.NewUnsupportedProviderError("")
	d := &fakeDispatcher{err: failure}

	_, err := store.Submit(context.Background(), d, func(err error) string { return "localized: " + string(providers.KindOf(err)) })
	if !errors.Is(err, failure) {
		t.Fatalf("expected dispatcher error, got %v", err)
	}

	s := store.State()
	if s.ErrorMessage != "localized: unsupported_provider" {
		t.Errorf("unexpected error message %q", s.ErrorMessage)
	}
	if s.Loading || s.Result != nil {
		t.Errorf("expected busy flag and result cleared, got %+v", s)
	}
}

func TestStore_AddImageFromURL(t *testing.T) {
	store := NewStore()
	store.UpdateImageURL("https://example.com/cat.png")

	f := &fakeFetcher{img: imgA}
	if err := store.AddImageFromURL(context.Background(), f, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.url != "https://example.com/cat.png" {
		t.Errorf("fetched %q", f.url)
	}

	s := store.State()
	if len(s.Images) != 1 || s.Images[0] != imgA || s.ImageURL != "" || s.Loading {
		t.Errorf("unexpected state %+v", s)
	}

	failing := &fakeFetcher{err: providers.NewFetchTypeError(providers.Anthropic, "u", "text/html")}
	if err := store.AddImageFromURL(context.Background(), failing, nil); err == nil {
		t.Fatal("expected error")
	}
	if !store.State().HasError() || len(store.State().Images) != 1 {
		t.Errorf("unexpected state after failure %+v", store.State())
	}
}

func TestStore_Subscribe(t *testing.T) {
	store := NewStore()

	var (
		mu   sync.Mutex
		seen []AppState
	)
	unsubscribe := store.Subscribe(func(s AppState) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	store.UpdateInputText("a")
	store.AddInputImage(imgA)
	unsubscribe()
	store.UpdateInputText("b")

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[0].InputText != "a" || len(seen[1].Images) != 1 {
		t.Errorf("unexpected notifications %+v", seen)
	}

	seen[1].Images[0].Data = "mutated"
	if store.State().Images[0].Data != imgA.Data {
		t.Error("subscribers received a shared snapshot")
	}
}

func TestStore_Reset(t *testing.T) {
	store := NewStore()
	store.SelectProvider(providers.Gemini)
	store.AddInputImage(imgB)
	store.SetError("x")

	s := store.Reset()
	if s.Provider != "" || len(s.Images) != 0 || s.HasError() {
		t.Errorf("expected initial state, got %+v", s)
	}
}

func TestStore_ConcurrentMutations(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddInputImage(imgA)
		}()
	}
	wg.Wait()

	if n := len(store.State().Images); n != 50 {
		t.Errorf("expected 50 images, got %d", n)
	}
}

func TestStore_SubscribersSeeInstallOrder(t *testing.T) {
	store := NewStore()

	var (
		mu   sync.Mutex
		seen []int
	)
	store.Subscribe(func(s AppState) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, len(s.Images))
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddInputImage(imgA)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 50 {
		t.Fatalf("expected 50 notifications, got %d", len(seen))
	}
	for i, n := range seen {
		if n != i+1 {
			t.Fatalf("notification %d carried %d images, want %d", i, n, i+1)
		}
	}
	if last := seen[len(seen)-1]; last != len(store.State().Images) {
		t.Errorf("last notification %d does not match current state %d", last, len(store.State().Images))
	}
}
