// Package state holds the to-do collection and UI status shared between the
// sync engine and the TUI.
//
// # Overview
//
// Store keeps four independent fields, the item collection, the loading
// flag, the current error message and the draft title, and hands out
// Snapshot copies. Operations finish on their own goroutines, so every
// access is mutex-protected.
//
// # Producers and Consumers
//
//	Producer (todo.Engine):          Consumer (ui.Model):
//	┌───────────────────────┐       ┌──────────────────────┐
//	│ Begin()               │       │                      │
//	│ api call              │       │                      │
//	│ ReplaceAll/AddCreated │──────→│ Subscribe(fn)        │
//	│ ReplaceItem/Remove    │ notify│   → snapshot message │
//	│ Settle(msg)           │       │   → View()           │
//	└───────────────────────┘       └──────────────────────┘
//
// Subscribers run synchronously on the mutating goroutine, after the lock
// is released, and must not block. The TUI forwards a wake-up signal and
// re-reads Snapshot, so a burst of changes costs one render.
//
// # Loading and Errors
//
// Begin clears the error and sets loading. Settle clears loading and, when
// given a message, sets the error. There is one loading flag for all
// operations: when operations overlap the last to settle decides the final
// value.
//
// # Versions
//
// Every change increments Snapshot.Version. Consumers that may observe
// snapshots out of order can drop ones older than what they already show.
package state
