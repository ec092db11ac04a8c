package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"membox/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestMux(t *testing.T, opts ...store.Option) (*http.ServeMux, *store.MemStore) {
	t.Helper()

	mem := store.NewMemStore(opts...)
	instrumented := store.NewInstrumentedStore(mem)

	srv := NewServer(instrumented, nil)
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	mux.HandleFunc("/stats", StatsHandler(instrumented, mem))
	return mux, mem
}

func doRequest(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHTTP_SetGetDelete(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(mux, http.MethodPost, "/set", `{"key":"hello","value":"world"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/get?key=hello", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "world", rec.Body.String())

	rec = doRequest(mux, http.MethodPost, "/delete", `{"key":"hello"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/get?key=hello", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_DeleteAbsent(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(mux, http.MethodPost, "/delete", `{"key":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTP_EmptyKey(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(mux, http.MethodPost, "/set", `{"key":"","value":"empty is fine"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/get?key=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "empty is fine", rec.Body.String())
}

func TestHTTP_BadRequests(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{
			name:   "get without key parameter",
			method: http.MethodGet,
			target: "/get",
			want:   http.StatusBadRequest,
		},
		{
			name:   "set with invalid JSON",
			method: http.MethodPost,
			target: "/set",
			body:   "{",
			want:   http.StatusBadRequest,
		},
		{
			name:   "set without key field",
			method: http.MethodPost,
			target: "/set",
			body:   `{"value":"v"}`,
			want:   http.StatusBadRequest,
		},
		{
			name:   "delete without key field",
			method: http.MethodPost,
			target: "/delete",
			body:   `{}`,
			want:   http.StatusBadRequest,
		},
		{
			name:   "get with wrong method",
			method: http.MethodPost,
			target: "/get",
			body:   `{}`,
			want:   http.StatusMethodNotAllowed,
		},
		{
			name:   "set with wrong method",
			method: http.MethodGet,
			target: "/set",
			want:   http.StatusMethodNotAllowed,
		},
		{
			name:   "delete with wrong method",
			method: http.MethodGet,
			target: "/delete",
			want:   http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(mux, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHTTP_BudgetExhausted(t *testing.T) {
	mux, mem := newTestMux(t, store.WithMaxBytes(8))

	rec := doRequest(mux, http.MethodPost, "/set", `{"key":"key","value":"far too large"}`)
	assert.Equal(t, http.StatusInsufficientStorage, rec.Code)
	assert.Equal(t, 0, mem.Len())
}

func TestHTTP_Stats(t *testing.T) {
	mux, _ := newTestMux(t)

	doRequest(mux, http.MethodPost, "/set", `{"key":"a","value":"1"}`)
	doRequest(mux, http.MethodGet, "/get?key=a", "")

	rec := doRequest(mux, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Operations map[string]uint64 `json:"operations"`
		Storage    store.Stats       `json:"storage"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))

	assert.Equal(t, uint64(1), payload.Operations["set"])
	assert.Equal(t, uint64(1), payload.Operations["get_hits"])
	assert.Equal(t, 1, payload.Storage.Entries)
	assert.Equal(t, int64(2), payload.Storage.UsedBytes)
}

func TestHTTP_Health(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(mux, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
