// Package todo is the sync engine between the TUI and the remote to-do
// collection.
//
// Each operation makes exactly one API call and mirrors a confirmed server
// change into the state.Store: fetch-all replaces, create appends, toggle
// replaces by id, delete filters out. Failures never touch the collection.
//
// The loading/error lifecycle is shared by all four operations and lives in
// Engine.Start:
//
//	settle := engine.Start(ctx, engine.DeleteAction(id)) // error cleared, loading set
//	go func() { res := settle() }()                      // call, then loading cleared
//
// Every failure, whatever its cause, surfaces as the operation's fixed
// message (Result.Message); the underlying error is only logged.
package todo
