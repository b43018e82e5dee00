package todo

import (
	"context"
	"log/slog"

	"github.com/five82/todos/internal/state"
	"github.com/five82/todos/internal/todoapi"
)

// Engine keeps a state.Store in step with the remote collection.
//
// FetchAll, Create, ToggleCompletion and Delete each make one API call and
// touch the collection only after a successful response. They do not manage
// the loading flag or error message; Start and Run do that for any Action.
type Engine struct {
	api    todoapi.API
	store  *state.Store
	logger *slog.Logger
}

// NewEngine builds an Engine. A nil logger discards output.
func NewEngine(api todoapi.API, store *state.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{api: api, store: store, logger: logger}
}

// Store returns the store the engine writes to.
func (e *Engine) Store() *state.Store {
	return e.store
}

// FetchAll replaces the local collection with the server's.
func (e *Engine) FetchAll(ctx context.Context) Result {
	items, err := e.api.List(ctx)
	if err != nil {
		return Result{Op: OpFetchAll, Err: err}
	}
	e.store.ReplaceAll(items)
	return Result{Op: OpFetchAll}
}

// Create submits title as a new item, appends the server's copy and clears
// the draft. The title is sent as given, empty or not.
func (e *Engine) Create(ctx context.Context, title string) Result {
	created, err := e.api.Create(ctx, title)
	if err != nil {
		return Result{Op: OpCreate, Err: err}
	}
	e.store.AddCreated(created)
	return Result{Op: OpCreate}
}

// ToggleCompletion asks the server to flip the item's completion and puts
// the returned representation in place of the item with that id.
func (e *Engine) ToggleCompletion(ctx context.Context, id todoapi.ID, currentCompleted bool) Result {
	updated, err := e.api.SetCompleted(ctx, id, !currentCompleted)
	if err != nil {
		return Result{Op: OpToggle, Err: err}
	}
	if !e.store.ReplaceItem(id, updated) {
		e.logger.DebugContext(ctx, "toggled item no longer in collection",
			slog.String("operation", OpToggle.String()),
			slog.String("item_id", id.String()),
		)
	}
	return Result{Op: OpToggle}
}

// Delete removes the item on the server, then locally.
func (e *Engine) Delete(ctx context.Context, id todoapi.ID) Result {
	if err := e.api.Delete(ctx, id); err != nil {
		return Result{Op: OpDelete, Err: err}
	}
	e.store.Remove(id)
	return Result{Op: OpDelete}
}

// FetchAllAction binds FetchAll.
func (e *Engine) FetchAllAction() Action {
	return e.FetchAll
}

// CreateAction binds Create to title.
func (e *Engine) CreateAction(title string) Action {
	return func(ctx context.Context) Result {
		return e.Create(ctx, title)
	}
}

// ToggleAction binds ToggleCompletion to an item.
func (e *Engine) ToggleAction(id todoapi.ID, currentCompleted bool) Action {
	return func(ctx context.Context) Result {
		return e.ToggleCompletion(ctx, id, currentCompleted)
	}
}

// DeleteAction binds Delete to an item.
func (e *Engine) DeleteAction(id todoapi.ID) Action {
	return func(ctx context.Context) Result {
		return e.Delete(ctx, id)
	}
}

// Start clears the error and sets loading right away, then returns a func
// that performs action and settles: loading cleared, error set on failure.
// Callers split the two halves when the call must run off the UI goroutine.
func (e *Engine) Start(ctx context.Context, action Action) func() Result {
	e.store.Begin()
	return func() Result {
		res := action(ctx)
		e.settle(ctx, res)
		return res
	}
}

// Run performs action with the full loading/error lifecycle.
func (e *Engine) Run(ctx context.Context, action Action) Result {
	return e.Start(ctx, action)()
}

func (e *Engine) settle(ctx context.Context, res Result) {
	if !res.OK() {
		e.logger.WarnContext(ctx, "to-do operation failed",
			slog.String("operation", res.Op.String()),
			slog.Any("error", res.Err),
		)
	}
	e.store.Settle(res.Message())
}
