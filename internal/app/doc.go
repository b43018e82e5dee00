// Package app is the composition root for todos.
//
// Run wires the pieces together and blocks until the TUI exits:
//
//  1. Load ~/.config/todos/config.toml (or the given path) and apply CLI
//     overrides
//  2. Open the slog log file; the terminal belongs to the TUI
//  3. Build the REST client and the sync engine around a fresh state.Store
//  4. Start the auto-refresh poller when an interval is configured
//  5. Load preferences and hand everything to ui.Run
//
// # Data Flow
//
//	Run()
//	  ├─> config.Load()        settings + overrides
//	  ├─> logging.Open()       log file
//	  ├─> todoapi.NewClient()  REST transport
//	  ├─> todo.NewEngine()     engine + store
//	  ├─> StartPoller()        optional background fetch-all
//	  └─> ui.Run()             TUI (blocks)
//
// # Polling Behavior
//
// The poller is off unless refresh_interval (or -refresh) is positive. Each
// tick runs the engine's tracked fetch-all, so the spinner, the loading flag
// and the failure message behave exactly as for a manual refresh. After
// consecutive failures the wait doubles up to 30 seconds, then returns to the
// configured interval on the next success.
//
// # Error Handling
//
// Start-up failures (bad config, unwritable log file, unparsable API URL)
// are returned from Run. Request failures never are: the engine turns them
// into the per-operation message shown in the view and logs the detail.
package app
