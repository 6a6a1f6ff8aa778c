package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]int{"count": 3})

	resp := w.Result()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"count":3}`, w.Body.String())

	t.Run("Nil body", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusNoContent, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "error message", http.StatusBadRequest)

	resp := w.Result()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error message", body["error"])
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Amber"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Amber", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"} {"name":"b"}`))
	assert.ErrorIs(t, DecodeJSON(req, &dst), ErrTrailingData)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"Peer", nil, "10.0.0.1:5555", "10.0.0.1"},
		{"Forwarded", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}, "10.0.0.1:5555", "203.0.113.9"},
		{"RealIP", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.1:5555", "198.51.100.4"},
		{"No port", nil, "10.0.0.7", "10.0.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=20&skip=abc", nil)

	assert.Equal(t, 20, QueryInt(req, "limit", 50))
	assert.Equal(t, 0, QueryInt(req, "skip", 0))
	assert.Equal(t, 7, QueryInt(req, "missing", 7))
}

func TestPtrHelpers(t *testing.T) {
	ptr := StrPtr("test")
	require.NotNil(t, ptr)
	assert.Equal(t, "test", *ptr)
	assert.Equal(t, "test", PtrString(ptr))
	assert.Equal(t, "", PtrString(nil))
}
