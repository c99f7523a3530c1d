// Package ui is the Bubble Tea shell: header, menu panel, routed views, help
// panel and status bar.
//
// # Layout
//
//	┌ header: deskshell · Route / Tab · readiness · DEV ─────────────┐
//	│ menu │ active view                                   │ help    │
//	│ F1   │                                               │ (glam-  │
//	│ ...  │                                               │  our)   │
//	└ status bar: last status message · dirty files · key hints ─────┘
//
// The menu collapses to its chords (alt+m) and the help panel hides (alt+h);
// both flags live in state.Store, which mirrors them to the backend. The
// help panel also hides on terminals narrower than LayoutCompactWidth.
//
// # Keys
//
// Every key goes first to an open modal, then to the shell's quit binding,
// then to the hotkey dispatcher (route and panel chords), then to the shell's
// own bindings (shortcut overlay, theme, help scrolling) and finally to the
// active view. Shell bindings use modifiers or keys that produce no text, so
// typing in a form never triggers them.
//
// # Routes and views
//
// The store owns the current route. Views are rebuilt whenever it changes and
// load their data with backend calls in tea.Cmds:
//
//   - "/": greeting and RPC connection card
//   - "/about": organization record
//   - "/data": chains, rpcs and logs tabs (the log is tailed with logtail)
//   - "/names": read-only identity form
//   - "/settings": user and org tabs, each a display/edit form
//   - "/wizard": the first-run setup flow
//
// Pressing the chord of the route already showing cycles its tabs; the
// reverse chord cycles backwards. The active tab is remembered per route.
//
// # Readiness
//
// Outside the wizard the shell runs the poller supplied by Options.StartPoller
// and listens on its Updates channel. An answer of "not initialized" moves the
// shell into the wizard, which stops the poll; leaving the wizard starts a
// fresh one. Messages from a stopped poller are ignored.
//
// # Events
//
// Status messages, tab-cycle signals and file dirty markers arrive on the
// events.Bus. A bridge forwards them into the update loop through a buffered
// channel and drops events rather than block an emitter.
package ui
