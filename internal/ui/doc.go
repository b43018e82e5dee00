// Package ui is the Bubble Tea front end of todos.
//
// # Layout
//
//	row 0     header: "To-do List", counts, last sync time
//	row 1     draft box ............................ [ Add ]
//	row 2     status: spinner + "Loading..." or the error message
//	row 3..   list:   › [✓] title ....................... [x]
//	last row  key hints (or the filter input while typing)
//
// The layout is fixed so mouse clicks can be mapped back to controls by row
// and column (see layout.go and mouse.go).
//
// # State Flow
//
// The Model renders from a state.Snapshot. It subscribes to the engine's
// store in New; the subscriber only flags a buffered channel and
// waitForChange turns that flag into a snapshotMsg, because store changes
// also happen inside Update where a blocking send would deadlock. Snapshots
// carry a version and older ones are dropped.
//
// User actions go through todo.Engine.Start: the loading flag is raised on
// the UI goroutine and the request runs in a tea.Cmd whose resultMsg
// re-enters Update. While loading, the Add and delete buttons are disabled;
// toggling is not.
//
// # Overlays
//
//   - help.go: key reference (?)
//   - logs.go: tail of the log file in a viewport (L); request failures are
//     only shown as fixed messages, their detail lives in the log
//
// # Focus
//
// Tab moves focus between the draft box and the list. While the draft box
// has focus, keys are typed into it except enter (Add), tab, esc and ctrl+c.
package ui
