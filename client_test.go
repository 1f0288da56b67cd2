package jsonresult

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/users/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"name":"Alice"}`))
	})
	mux.HandleFunc("/users/999", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error_code":404,"message":"Not Found"}`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"foo":"bar"}`))
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var u user
		require.NoError(t, json.Unmarshal(body, &u))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(u))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestClientGetOk(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "jsonresult-test", nil)

	resp, err := Get[user, apiError](c, Request{Path: "/users/1"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	v, ok := resp.Result.Ok()
	require.True(t, ok)
	require.Equal(t, user{ID: 1, Name: "Alice"}, v)
}

func TestClientGetErr(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "jsonresult-test", nil)

	resp, err := Get[user, apiError](c, Request{Path: "/users/999"})
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	e, isErr := resp.Result.Err()
	require.True(t, isErr)
	require.Equal(t, apiError{Code: 404, Message: "Not Found"}, e)
}

func TestClientGetUnmatchedBody(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "jsonresult-test", nil)

	_, err := Get[user, apiError](c, Request{Path: "/broken"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode")

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestClientPost(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "jsonresult-test", nil)

	resp, err := Post[user, apiError](c, Request{
		Path: "/users",
		Body: user{ID: 2, Name: "Bob"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	v, ok := resp.Result.Ok()
	require.True(t, ok)
	require.Equal(t, user{ID: 2, Name: "Bob"}, v)
}

func TestClientQuery(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"name":"Alice"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "jsonresult-test", nil)
	_, err := Get[user, apiError](c, Request{
		Path:  "/users",
		Query: url.Values{"verbose": []string{"1"}},
	})
	require.NoError(t, err)
	require.Equal(t, "1", gotQuery.Get("verbose"))
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close()

	c := NewClient(srv.URL, "jsonresult-test", nil)
	_, err := Get[user, apiError](c, Request{Path: "/users/1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to send")
}
