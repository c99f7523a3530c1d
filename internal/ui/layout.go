package ui

import "time"

// Panel sizes and the width below which side panels give way.
const (
	// MenuWidth is the width of the expanded menu panel.
	MenuWidth = 20

	// MenuCollapsedWidth shows only the chords.
	MenuCollapsedWidth = 6

	// HelpWidth is the width of the help panel.
	HelpWidth = 42

	// LayoutCompactWidth hides the help panel regardless of its flag.
	LayoutCompactWidth = 100
)

// Log display limits.
const (
	// LogTailLines is how many log lines the data view keeps.
	LogTailLines = 500
)

// Timing constants.
const (
	// StatusClearAfter is how long a status bar message stays.
	StatusClearAfter = 1500 * time.Millisecond

	// LogRefreshInterval re-reads the log while its tab is showing.
	LogRefreshInterval = 2 * time.Second

	// CallTimeout bounds every backend call made by a view.
	CallTimeout = 5 * time.Second
)
