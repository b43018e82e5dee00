package todo

import "context"

// Op identifies one of the four sync operations.
type Op int

const (
	OpFetchAll Op = iota
	OpCreate
	OpToggle
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpFetchAll:
		return "fetch_all"
	case OpCreate:
		return "create"
	case OpToggle:
		return "toggle"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// FailureMessage is the fixed text shown to the user when o fails.
func (o Op) FailureMessage() string {
	switch o {
	case OpFetchAll:
		return "Failed to load to-dos"
	case OpCreate:
		return "Failed to add to-do"
	case OpToggle:
		return "Failed to update to-do"
	case OpDelete:
		return "Failed to delete to-do"
	default:
		return "Request failed"
	}
}

// Result is the uniform outcome of a sync operation.
type Result struct {
	Op  Op
	Err error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message returns the user-facing error text, or "" on success. Transport,
// status and decode failures all map to the same text.
func (r Result) Message() string {
	if r.OK() {
		return ""
	}
	return r.Op.FailureMessage()
}

// Action is a deferred operation bound to its arguments.
type Action func(ctx context.Context) Result
