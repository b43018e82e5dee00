// Package todoapitest serves an in-memory to-do collection over HTTP for
// tests. It speaks the same routes as the real backend and can be told to
// fail, return raw bodies, or hold requests open.
package todoapitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/five82/todos/internal/todoapi"
)

// Request records one call received by the server.
type Request struct {
	Method string
	Path   string
	Body   string
	Header http.Header
}

// Gate holds requests of one method open until released.
type Gate struct {
	entered chan struct{}
	release chan struct{}
	enter   sync.Once
	done    sync.Once
}

// Entered is closed once the first held request reaches the handler.
func (g *Gate) Entered() <-chan struct{} {
	return g.entered
}

// Release lets held requests proceed. Safe to call more than once.
func (g *Gate) Release() {
	g.done.Do(func() { close(g.release) })
}

// Server is a fake to-do backend.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	items    []todoapi.Item
	nextID   int64
	failures map[string]int
	raw      map[string]string
	gates    map[string]*Gate
	requests []Request
}

// New starts a server seeded with items. It is closed when the test ends.
func New(t testing.TB, seed ...todoapi.Item) *Server {
	t.Helper()

	s := &Server{
		failures: make(map[string]int),
		raw:      make(map[string]string),
		gates:    make(map[string]*Gate),
		nextID:   1,
	}
	for _, item := range seed {
		s.items = append(s.items, item)
		if n, err := strconv.ParseInt(item.ID.String(), 10, 64); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}

	r := chi.NewRouter()
	r.Use(s.record, s.intercept)
	r.Get("/todos", s.list)
	r.Post("/todos", s.create)
	r.Patch("/todos/{id}", s.patch)
	r.Delete("/todos/{id}", s.remove)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)
	// Registered after Close so it runs first and unblocks held handlers.
	t.Cleanup(s.releaseAll)
	return s
}

// FailWith makes every request with method answer with status.
func (s *Server) FailWith(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = status
}

// Recover clears a FailWith or RespondRaw for method.
func (s *Server) Recover(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method)
	delete(s.raw, method)
}

// RespondRaw makes every request with method answer 200 with body verbatim.
func (s *Server) RespondRaw(method, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[method] = body
}

// Hold blocks requests with method until the returned gate is released.
func (s *Server) Hold(method string) *Gate {
	g := &Gate{entered: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gates[method] = g
	return g
}

// Items returns a copy of the server-side collection.
func (s *Server) Items() []todoapi.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]todoapi.Item(nil), s.items...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.gates {
		g.Release()
	}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   string(body),
			Header: r.Header.Clone(),
		})
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		gate := s.gates[r.Method]
		status := s.failures[r.Method]
		raw, hasRaw := s.raw[r.Method]
		s.mu.Unlock()

		if gate != nil {
			gate.enter.Do(func() { close(gate.entered) })
			select {
			case <-gate.release:
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		if hasRaw {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, raw)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	items := s.Items()
	if items == nil {
		items = []todoapi.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req todoapi.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	item := todoapi.Item{ID: todoapi.IntID(s.nextID), Title: req.Title, Completed: req.Completed}
	s.nextID++
	s.items = append(s.items, item)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) patch(w http.ResponseWriter, r *http.Request) {
	var req todoapi.PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := todoapi.NewID(chi.URLParam(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID.Equal(id) {
			s.items[i].Completed = req.Completed
			writeJSON(w, http.StatusOK, s.items[i])
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := todoapi.NewID(chi.URLParam(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID.Equal(id) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
	}
	http.NotFound(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
