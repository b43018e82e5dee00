package ui

import "time"

// Screen rows, top to bottom. The list fills everything between statusRow
// and the command bar on the last row.
const (
	headerRow = 0
	inputRow  = 1
	statusRow = 2
	listTop   = 3
)

// Widths of fixed on-screen controls, used for both rendering and mouse hit
// testing.
const (
	lenPrompt         = 2 // "> "
	addButtonLabel    = "[ Add ]"
	addButtonWidth    = len(addButtonLabel)
	deleteButtonLabel = "[x]"
	deleteButtonWidth = len(deleteButtonLabel)
	cursorWidth       = 2 // "› "
	checkboxWidth     = 4 // "[✓] "
)

// LayoutCompactWidth is the threshold below which the header drops the sync
// time.
const LayoutCompactWidth = 60

const (
	// ClockInterval is how often the relative "synced" time is re-rendered.
	ClockInterval = 15 * time.Second

	// LogTailLines is how many log lines the log overlay loads.
	LogTailLines = 500
)
