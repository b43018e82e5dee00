// Package todoapi provides an HTTP client for a REST to-do collection.
//
// # Overview
//
// The collection lives at <base>/todos and exposes four calls:
//
//   - GET /todos: list every item in server order
//   - POST /todos: create an item from {title, completed:false}
//   - PATCH /todos/:id: set {completed} and return the updated item
//   - DELETE /todos/:id: remove an item (response body ignored)
//
// # Client Usage
//
//	client, err := todoapi.NewClient("http://localhost:5001", todoapi.Options{})
//	if err != nil {
//		return fmt.Errorf("init api client: %w", err)
//	}
//	items, err := client.List(ctx)
//
// # Request Handling
//
// All requests:
//   - Carry the caller's context for cancellation
//   - Set Accept: application/json and, with a body, Content-Type: application/json
//   - Include User-Agent: todos/0.1 and a fresh X-Request-ID
//   - Have no timeout unless Options.Timeout is set
//
// # Error Handling
//
// Any status outside 2xx is a *StatusError. Transport failures and body
// decode failures are returned wrapped ("execute request: ...",
// "decode response: ..."). When Options.BreakerFailures is set, a
// gobreaker circuit fails calls fast with gobreaker.ErrOpenState after that
// many consecutive failures.
//
// # Identifiers
//
// Backends assign ids as JSON numbers or strings. ID keeps the literal text,
// compares by it, and re-encodes in the form it was received.
package todoapi
