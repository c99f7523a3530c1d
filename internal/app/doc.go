// Package app is the composition root of deskshell.
//
// Run loads the config file, opens the log file, picks a backend (the
// in-process preference service or, with Remote, the HTTP client of a running
// "deskshell serve"), restores the persisted layout into a state.Store and
// hands everything to the terminal UI.
//
// # Startup route
//
// The first route is the setup wizard when the backend reports the shell is
// not initialized, when name or email is missing, or when either question
// cannot be answered. Otherwise the last view is reopened if it is still a
// served route, and the home view is shown if not.
//
// # Readiness polling
//
// Poller asks the backend IsInitialized on a fixed cadence (1.5s by default).
// Each answer is recorded in the store, including failures, which feed the
// store's consecutive-failure counter and the header's offline badge.
// Successful answers are delivered on Updates, where only the latest one is
// kept. The UI starts a poller whenever it leaves the wizard and stops it on
// entering the wizard. After Stop returns no check starts and nothing is
// delivered.
package app
