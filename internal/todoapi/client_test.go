package todoapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "localhost:5001", u.Host)
	assert.Equal(t, "/", u.Path)

	u, err = parseBaseURL("  example.com:1234/api/?x=1#frag ")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:1234/api", u.String())

	_, err = parseBaseURL("http://")
	assert.Error(t, err)
}

func TestClient_EndpointKeepsPrefixAndEscapesID(t *testing.T) {
	c, err := NewClient("http://example.com/api/", Options{})
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/api/todos", c.endpoint().String())
	assert.Equal(t, "http://example.com/api/todos/7", c.endpoint(IntID(7)).String())
	assert.Equal(t, "http://example.com/api/todos/a%2Fb", c.endpoint(NewID("a/b")).String())
}

type recorded struct {
	method string
	path   string
	body   string
	header http.Header
}

func TestClient_CallsEachRoute(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []recorded
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recorded{r.Method, r.URL.Path, string(body), r.Header.Clone()})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/todos":
			_, _ = io.WriteString(w, `[{"id":1,"title":"a","completed":false},{"id":"x9","title":"b","completed":true}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/todos":
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":2,"title":"buy milk","completed":false}`)
		case r.Method == http.MethodPatch && r.URL.Path == "/todos/1":
			_, _ = io.WriteString(w, `{"id":1,"title":"a","completed":true}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/todos/1":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{ID: IntID(1), Title: "a"},
		{ID: NewID("x9"), Title: "b", Completed: true},
	}, items)

	created, err := c.Create(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, Item{ID: IntID(2), Title: "buy milk"}, created)

	updated, err := c.SetCompleted(ctx, IntID(1), true)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	require.NoError(t, c.Delete(ctx, IntID(1)))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 4)
	assert.JSONEq(t, `{"title":"buy milk","completed":false}`, seen[1].body)
	assert.Equal(t, "application/json", seen[1].header.Get("Content-Type"))
	assert.JSONEq(t, `{"completed":true}`, seen[2].body)
	assert.Empty(t, seen[3].body)

	ids := map[string]bool{}
	for _, r := range seen {
		assert.Equal(t, "application/json", r.header.Get("Accept"))
		assert.True(t, strings.HasPrefix(r.header.Get("User-Agent"), "todos/"), "User-Agent = %q", r.header.Get("User-Agent"))
		ids[r.header.Get("X-Request-ID")] = true
	}
	assert.Len(t, ids, 4, "each request carries its own request id")
}

func TestClient_NonSuccessStatusAndDecodeErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, "{not-json")
		case http.MethodPost:
			http.Error(w, "nope", http.StatusInternalServerError)
		case http.MethodPatch:
			// 3xx without Location is returned as is by net/http.
			w.WriteHeader(http.StatusNotModified)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")

	_, err = c.Create(ctx, "x")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, http.MethodPost, statusErr.Method)
	assert.Equal(t, "/todos", statusErr.Path)

	_, err = c.SetCompleted(ctx, IntID(3), true)
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotModified, statusErr.StatusCode)

	err = c.Delete(ctx, IntID(3))
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "api DELETE /todos/3 returned status 404", statusErr.Error())
}

func TestClient_ListRejectsMalformedBodies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "trailing data", body: `[{"id":7,"title":"x","completed":false}]<html>oops`},
		{name: "second value", body: `[] []`},
		{name: "null", body: `null`},
		{name: "object", body: `{"id":7}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tc.body)
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL, Options{})
			require.NoError(t, err)

			items, err := c.List(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "decode response")
			assert.Nil(t, items)
		})
	}
}

func TestClient_ListAcceptsEmptyArray(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]\n")
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	require.NoError(t, err)

	items, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClient_TransportError(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", Options{Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

func TestClient_RequiresItemID(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", Options{})
	require.NoError(t, err)

	_, err = c.SetCompleted(context.Background(), ID{}, true)
	assert.Error(t, err)
	assert.Error(t, c.Delete(context.Background(), ID{}))
}

func TestClient_TimeoutApplies(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL, Options{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{BreakerFailures: 2, BreakerCooldown: time.Minute})
	require.NoError(t, err)

	for range 2 {
		_, err := c.List(context.Background())
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
	}

	_, err = c.List(context.Background())
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState), "err = %v, want open breaker", err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls, "open breaker must not reach the server")
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	_, err := c.List(context.Background())
	assert.Error(t, err)
}

func TestItem_JSONShape(t *testing.T) {
	out, err := json.Marshal(CreateRequest{Title: ""})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"","completed":false}`, string(out))
}
