package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request is one call against a handler.
type Request struct {
	Method  string
	Path    string
	Body    any // nil, string, []byte, io.Reader or a value sent as JSON
	Header  map[string]string
	Content string // Content-Type; defaults to application/json when Body is set
}

// Do serves req through h and returns the recorded response.
func Do(t testing.TB, h http.Handler, req Request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	case []byte:
		body = bytes.NewReader(b)
	case io.Reader:
		body = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "testkit: encode body")
		body = bytes.NewReader(data)
	}

	r := httptest.NewRequest(req.Method, req.Path, body)
	if body != nil {
		ct := req.Content
		if ct == "" {
			ct = "application/json"
		}
		r.Header.Set("Content-Type", ct)
	}
	for k, v := range req.Header {
		r.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

// Decode unmarshals the recorded body into a T.
func Decode[T any](t testing.TB, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// AssertJSON compares the recorded body with expected, ignoring key order
// and whitespace.
func AssertJSON(t testing.TB, expected string, rec *httptest.ResponseRecorder) bool {
	t.Helper()
	return assert.JSONEq(t, expected, rec.Body.String())
}

// File is one file part of a multipart form.
type File struct {
	Field    string
	Filename string
	Content  []byte
}

// Form encodes fields and files as multipart/form-data and returns the body
// with its Content-Type.
func Form(t testing.TB, fields map[string]string, files ...File) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
