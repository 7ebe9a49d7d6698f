// Package testutil holds the request builders and response assertions shared
// by handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewRequest builds a request without a body.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewJSONRequest marshals body into a JSON request. A nil body sends no payload.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	if body == nil {
		return jsonRequest(method, path, nil)
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err, "marshal request body")
	return jsonRequest(method, path, bytes.NewReader(raw))
}

// NewRequestWithBody sends body verbatim, for malformed or hand-written payloads.
func NewRequestWithBody(t *testing.T, method, path string, body string) *http.Request {
	t.Helper()
	return jsonRequest(method, path, strings.NewReader(body))
}

func jsonRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest serves req and returns the recorded response.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// decode reads the JSON body without consuming the recorder, so several
// assertions can inspect the same response.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), "decode response body: %s", rr.Body.String())
}

// UnmarshalResponse decodes the body into a T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	out := new(T)
	decode(t, rr, out)
	return out
}

func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status; body: %s", rr.Body.String())
}

func AssertStatusOK(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	AssertStatus(t, rr, http.StatusOK)
}

// AssertStatusAndError checks the status and the "error" code of the error envelope.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, rr, status)
	var body map[string]string
	decode(t, rr, &body)
	assert.Equal(t, code, body["error"], "unexpected error code")
}

// AssertJSONContains checks one top-level field of a JSON object body.
func AssertJSONContains(t *testing.T, rr *httptest.ResponseRecorder, key string, expected any) {
	t.Helper()
	var body map[string]any
	decode(t, rr, &body)
	assert.Equal(t, expected, body[key], "unexpected value for %q", key)
}

// AssertJSONHasKey checks that a JSON object body has key at the top level.
func AssertJSONHasKey(t *testing.T, rr *httptest.ResponseRecorder, key string) {
	t.Helper()
	var body map[string]any
	decode(t, rr, &body)
	assert.Contains(t, body, key)
}

// AssertNotification checks the title of the "notification" a mutating endpoint returned.
func AssertNotification(t *testing.T, rr *httptest.ResponseRecorder, title string) {
	t.Helper()
	var body struct {
		Notification struct {
			Title string `json:"title"`
		} `json:"notification"`
	}
	decode(t, rr, &body)
	assert.Equal(t, title, body.Notification.Title)
}
