// Package state holds the shell state shared between the readiness poller,
// the hotkey dispatcher and the UI.
//
// # Overview
//
// A Store owns the active route, the collapse flags of the menu and help
// panels, the last tab shown per route and the last readiness answer. It is
// the Router the hotkey dispatcher navigates through, so dev hotkeys that run
// in a command goroutine can switch routes safely.
//
//	Poller ──UpdateReadiness──┐
//	                          ▼
//	Dispatcher ──Navigate──▶ Store ──Snapshot──▶ UI
//	                          │
//	                          └──mirror (goroutine)──▶ Backend
//
// # Mirroring
//
// Each named setter updates the snapshot under the lock, releases it and then
// mirrors the change to the backend in a new goroutine. Mirror failures are
// logged and never reach the caller, so a slow or absent backend cannot block
// a key press. Restore hydrates the store from saved preferences without
// mirroring anything back.
//
// # Readiness
//
// UpdateReadiness keeps the poll bookkeeping: on error the
// previous answer is kept, LastError is set and ConsecutiveFailures grows;
// a success clears both. IsOffline reports two or more failures in a row.
//
// The zero value is ready to use: no mirror, no route restrictions and "" as
// the route.
package state
