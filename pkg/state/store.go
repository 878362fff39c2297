package state

import (
	"context"
	"log/slog"
	"sync"

	"mercator-hq/tokenscope/pkg/providers"
)

// Dispatcher counts tokens for a provider identifier.
type Dispatcher interface {
	CountTokens(ctx context.Context, providerID string, req *providers.TokenCountRequest) (*providers.TokenCountResult, error)
}

// Renderer turns an error into the message shown to the user.
type Renderer func(error) string

// Store holds the current snapshot and replaces it wholesale on every
// mutation. Subscribers receive each new snapshot after it is installed,
// in installation order.
//
// Store is thread-safe and can be used concurrently. A subscriber must not
// mutate the store from its callback.
type Store struct {
	state       AppState
	subscribers map[int]func(AppState)
	nextID      int
	mu          sync.RWMutex

	// notifyMu serializes install and fan-out so concurrent Apply calls
	// reach subscribers in the order their snapshots were installed.
	notifyMu sync.Mutex
}

// NewStore creates a store holding the initial snapshot.
func NewStore() *Store {
	return &Store{
		state:       Initial(),
		subscribers: make(map[int]func(AppState)),
	}
}

// State returns a copy of the current snapshot.
func (s *Store) State() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.state)
}

// Subscribe registers fn to receive every new snapshot. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(AppState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Apply installs reduce(current) as the new snapshot and returns it.
func (s *Store) Apply(reduce func(AppState) AppState) AppState {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = reduce(s.state)
	next := s.state
	subs := make([]func(AppState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(clone(next))
	}
	return clone(next)
}

// SelectProvider applies SelectProvider.
func (s *Store) SelectProvider(id providers.ProviderID) AppState {
	return s.Apply(func(st AppState) AppState { return SelectProvider(st, id) })
}

// SelectModel applies SelectModel.
func (s *Store) SelectModel(model string) AppState {
	return s.Apply(func(st AppState) AppState { return SelectModel(st, model) })
}

// UpdateInputText applies UpdateInputText.
func (s *Store) UpdateInputText(text string) AppState {
	return s.Apply(func(st AppState) AppState { return UpdateInputText(st, text) })
}

// UpdateImageURL applies UpdateImageURL.
func (s *Store) UpdateImageURL(url string) AppState {
	return s.Apply(func(st AppState) AppState { return UpdateImageURL(st, url) })
}

// AddInputImage applies AddInputImage.
func (s *Store) AddInputImage(img providers.Image) AppState {
	return s.Apply(func(st AppState) AppState { return AddInputImage(st, img) })
}

// RemoveInputImage applies RemoveInputImage.
func (s *Store) RemoveInputImage(index int) AppState {
	return s.Apply(func(st AppState) AppState { return RemoveInputImage(st, index) })
}

// ClearInputImages applies ClearInputImages.
func (s *Store) ClearInputImages() AppState {
	return s.Apply(ClearInputImages)
}

// SetLoading applies SetLoading.
func (s *Store) SetLoading(loading bool) AppState {
	return s.Apply(func(st AppState) AppState { return SetLoading(st, loading) })
}

// SetTokenCount applies SetTokenCount.
func (s *Store) SetTokenCount(result providers.TokenCountResult) AppState {
	return s.Apply(func(st AppState) AppState { return SetTokenCount(st, result) })
}

// SetError applies SetError.
func (s *Store) SetError(message string) AppState {
	return s.Apply(func(st AppState) AppState { return SetError(st, message) })
}

// ClearError applies ClearError.
func (s *Store) ClearError() AppState {
	return s.Apply(ClearError)
}

// Reset restores the initial snapshot.
func (s *Store) Reset() AppState {
	return s.Apply(Reset)
}

// Submit runs one count for the current selection: it sets the busy flag,
// dispatches, and applies the result or the rendered error. The adapter
// never touches the store; only Submit does.
func (s *Store) Submit(ctx context.Context, d Dispatcher, render Renderer) (*providers.TokenCountResult, error) {
	current := s.SetLoading(true)

	result, err := d.CountTokens(ctx, string(current.Provider), current.Request())
	if err != nil {
		message := err.Error()
		if render != nil {
			message = render(err)
		}
		s.SetError(message)
		slog.DebugContext(ctx, "count failed",
			"provider", current.Provider,
			"model", current.Model,
			"kind", providers.KindOf(err),
		)
		return nil, err
	}

	s.SetTokenCount(*result)
	return result, nil
}

// AddImageFromURL fetches the pending image URL, appends the image and
// clears the URL. On failure the rendered error is stored.
func (s *Store) AddImageFromURL(ctx context.Context, f providers.ImageFetcher, render Renderer) error {
	current := s.SetLoading(true)

	img, err := f.FetchImage(ctx, current.ImageURL)
	if err != nil {
		message := err.Error()
		if render != nil {
			message = render(err)
		}
		s.SetError(message)
		return err
	}

	s.Apply(func(st AppState) AppState {
		st = AddInputImage(st, img)
		st = UpdateImageURL(st, "")
		return SetLoading(st, false)
	})
	return nil
}
