// Package state holds the client-side session state of a counting session.
//
// AppState is an immutable snapshot. The package-level reducers
// (SelectProvider, UpdateInputText, SetTokenCount, ...) are pure functions
// from one snapshot to the next. Store keeps the current snapshot, applies
// reducers under a mutex and notifies subscribers:
//
//	store := state.NewStore()
//	store.SelectProvider(providers.OpenAI)
//	store.SelectModel("gpt-4o")
//	store.UpdateInputText("hello")
//
//	result, err := store.Submit(ctx, manager, translations.Error)
//
// Adapters never touch the store. Submit applies the outcome of a count
// after the call returns.
package state
